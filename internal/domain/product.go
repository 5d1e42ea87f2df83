package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// ProductID is the canonical numeric product identifier.
type ProductID int64

func (id ProductID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseProductID normalizes ids coming from the catalog feed, stored
// snapshots or request parameters. Both 7 and "7" resolve to ProductID(7).
func ParseProductID(v any) (ProductID, error) {
	switch t := v.(type) {
	case ProductID:
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return ProductID(n), nil
		}
		v = s
	case float32:
		if !isWhole(float64(t)) {
			return 0, fmt.Errorf("invalid product id %v: not a whole number", v)
		}
	case float64:
		if !isWhole(t) {
			return 0, fmt.Errorf("invalid product id %v: not a whole number", v)
		}
	}

	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, fmt.Errorf("invalid product id %v: %w", v, err)
	}
	return ProductID(n), nil
}

func isWhole(f float64) bool {
	return !math.IsInf(f, 0) && f == math.Trunc(f)
}

func (id *ProductID) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseProductID(raw)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Product is a read-only catalog record.
type Product struct {
	ID             ProductID                `json:"id"`
	Name           string                   `json:"name"`
	Description    string                   `json:"desc"`
	Image          string                   `json:"image"`
	Category       string                   `json:"category"`
	Tags           []string                 `json:"tags"`
	Keywords       string                   `json:"keywords"`
	Prices         map[Size]decimal.Decimal `json:"prices"`
	Price          decimal.Decimal          `json:"price"`
	OptionsEnabled bool                     `json:"optionsEnabled"`
	Featured       bool                     `json:"featured"`
}

// HasSizeOptions reports whether the customer picks a size for this product.
func (p Product) HasSizeOptions() bool {
	return p.OptionsEnabled && len(p.AvailableSizes()) > 0
}

// AvailableSizes returns the priced sizes, smallest first.
func (p Product) AvailableSizes() []Size {
	sizes := make([]Size, 0, len(Sizes))
	for _, s := range Sizes {
		if price, ok := p.Prices[s]; ok && !price.IsZero() {
			sizes = append(sizes, s)
		}
	}
	return sizes
}

// DefaultSize is the smallest priced size, or SizeNone.
func (p Product) DefaultSize() Size {
	if sizes := p.AvailableSizes(); len(sizes) > 0 {
		return sizes[0]
	}
	return SizeNone
}

// OffersSize reports whether size is priced for this product.
func (p Product) OffersSize(size Size) bool {
	for _, s := range p.AvailableSizes() {
		if s == size {
			return true
		}
	}
	return false
}

// UnitPrice resolves the price of one unit in the given size. Size-option
// products fall back to their smallest priced size when size is not priced;
// single-price products ignore size.
func (p Product) UnitPrice(size Size) decimal.Decimal {
	if p.HasSizeOptions() {
		if p.OffersSize(size) {
			return p.Prices[size]
		}
		return p.Prices[p.DefaultSize()]
	}

	if !p.Price.IsZero() {
		return p.Price
	}
	if def := p.DefaultSize(); def != SizeNone {
		return p.Prices[def]
	}
	return decimal.Zero
}

// HasTag reports whether the product carries the sub-filter tag.
func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
