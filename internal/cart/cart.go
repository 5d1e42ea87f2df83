package cart

import (
	"restaurant/ordering/internal/domain"

	"github.com/shopspring/decimal"
)

// ProductResolver resolves the product behind a line item. Lines whose
// product cannot be resolved are orphans: skipped in totals, never deleted.
type ProductResolver interface {
	Product(id domain.ProductID) (domain.Product, bool)
}

// Cart is an ordered collection of line items, unique by (product, size).
type Cart struct {
	items []domain.LineItem
}

// New builds a cart from persisted items. Lines with a non-positive quantity
// are dropped and duplicate keys are merged.
func New(items []domain.LineItem) *Cart {
	c := &Cart{items: make([]domain.LineItem, 0, len(items))}
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		if idx := c.indexOf(it.Key()); idx >= 0 {
			c.items[idx].Quantity += it.Quantity
			continue
		}
		c.items = append(c.items, it)
	}
	return c
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []domain.LineItem {
	out := make([]domain.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Count is the total number of units, shown on the header badge.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Get returns the line with the given key.
func (c *Cart) Get(key domain.LineKey) (domain.LineItem, bool) {
	idx := c.indexOf(key)
	if idx < 0 {
		return domain.LineItem{}, false
	}
	return c.items[idx], true
}

// Add merges qty into the line with the same key, or appends a new line.
// It returns the resulting line.
func (c *Cart) Add(key domain.LineKey, qty int) (domain.LineItem, error) {
	if qty < 1 {
		return domain.LineItem{}, domain.ErrInvalidQuantity
	}

	if idx := c.indexOf(key); idx >= 0 {
		c.items[idx].Quantity += qty
		return c.items[idx], nil
	}

	item := domain.LineItem{
		ProductID: key.ProductID,
		Size:      key.Size,
		Quantity:  qty,
	}
	c.items = append(c.items, item)
	return item, nil
}

// Increment adds one unit to an existing line.
func (c *Cart) Increment(key domain.LineKey) (domain.LineItem, bool) {
	idx := c.indexOf(key)
	if idx < 0 {
		return domain.LineItem{}, false
	}
	c.items[idx].Quantity++
	return c.items[idx], true
}

// Decrement removes one unit but never goes below 1; removing the line is a
// separate explicit action. The bool is false when nothing changed.
func (c *Cart) Decrement(key domain.LineKey) (domain.LineItem, bool) {
	idx := c.indexOf(key)
	if idx < 0 {
		return domain.LineItem{}, false
	}
	if c.items[idx].Quantity <= 1 {
		return c.items[idx], false
	}
	c.items[idx].Quantity--
	return c.items[idx], true
}

// SetQuantity overwrites the quantity of an existing line. A quantity of zero
// or less deletes the line.
func (c *Cart) SetQuantity(key domain.LineKey, qty int) (domain.LineItem, bool) {
	idx := c.indexOf(key)
	if idx < 0 {
		return domain.LineItem{}, false
	}
	if qty <= 0 {
		c.items = removeIndex(c.items, idx)
		return domain.LineItem{ProductID: key.ProductID, Size: key.Size}, true
	}
	c.items[idx].Quantity = qty
	return c.items[idx], true
}

// Remove deletes the line regardless of its quantity. Unknown keys are a no-op.
func (c *Cart) Remove(key domain.LineKey) bool {
	idx := c.indexOf(key)
	if idx < 0 {
		return false
	}
	c.items = removeIndex(c.items, idx)
	return true
}

// RemoveAt deletes the line at a position as listed by Items.
func (c *Cart) RemoveAt(index int) (domain.LineItem, bool) {
	if index < 0 || index >= len(c.items) {
		return domain.LineItem{}, false
	}
	removed := c.items[index]
	c.items = removeIndex(c.items, index)
	return removed, true
}

func (c *Cart) Clear() {
	c.items = c.items[:0]
}

// ResolvedLine is a line item joined with its product and priced.
type ResolvedLine struct {
	Item      domain.LineItem
	Product   domain.Product
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Lines prices every resolvable line, in cart order. Orphans are skipped.
func (c *Cart) Lines(resolver ProductResolver) []ResolvedLine {
	out := make([]ResolvedLine, 0, len(c.items))
	for _, it := range c.items {
		if line, ok := resolveLine(resolver, it); ok {
			out = append(out, line)
		}
	}
	return out
}

// Line prices a single line.
func (c *Cart) Line(resolver ProductResolver, key domain.LineKey) (ResolvedLine, bool) {
	it, ok := c.Get(key)
	if !ok {
		return ResolvedLine{}, false
	}
	return resolveLine(resolver, it)
}

// Total is the sum of unit price × quantity over all resolvable lines.
func (c *Cart) Total(resolver ProductResolver) decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines(resolver) {
		total = total.Add(line.LineTotal)
	}
	return total
}

func resolveLine(resolver ProductResolver, it domain.LineItem) (ResolvedLine, bool) {
	p, ok := resolver.Product(it.ProductID)
	if !ok {
		return ResolvedLine{}, false
	}
	unit := p.UnitPrice(it.Size)
	return ResolvedLine{
		Item:      it,
		Product:   p,
		UnitPrice: unit,
		LineTotal: unit.Mul(decimal.NewFromInt(int64(it.Quantity))),
	}, true
}

func (c *Cart) indexOf(key domain.LineKey) int {
	for i, it := range c.items {
		if it.ProductID == key.ProductID && it.Size == key.Size {
			return i
		}
	}
	return -1
}

func removeIndex(items []domain.LineItem, idx int) []domain.LineItem {
	out := make([]domain.LineItem, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...)
}
