package catalog

import (
	"strings"

	"restaurant/ordering/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Index is the read-only product lookup built once from the fetched catalog.
type Index struct {
	products []domain.Product
	byID     map[domain.ProductID]int
}

func NewIndex(products []domain.Product) *Index {
	idx := &Index{
		products: make([]domain.Product, 0, len(products)),
		byID:     make(map[domain.ProductID]int, len(products)),
	}

	for _, p := range products {
		if _, dup := idx.byID[p.ID]; dup {
			log.Warnf("⚠️ Duplicate product id %d in catalog, keeping the first entry", p.ID)
			continue
		}
		idx.byID[p.ID] = len(idx.products)
		idx.products = append(idx.products, p)
	}

	return idx
}

// Lookup resolves a product by id. The id may be numeric or a numeric string.
func (i *Index) Lookup(id any) (domain.Product, error) {
	pid, err := domain.ParseProductID(id)
	if err != nil {
		return domain.Product{}, domain.ErrProductNotFound
	}

	pos, ok := i.byID[pid]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return i.products[pos], nil
}

// Product implements the price resolver used by the cart engine.
func (i *Index) Product(id domain.ProductID) (domain.Product, bool) {
	pos, ok := i.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return i.products[pos], true
}

func (i *Index) Len() int {
	return len(i.products)
}

// All returns the products in catalog order.
func (i *Index) All() []domain.Product {
	out := make([]domain.Product, len(i.products))
	copy(out, i.products)
	return out
}

func (i *Index) Featured() []domain.Product {
	out := make([]domain.Product, 0)
	for _, p := range i.products {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// Filter applies the menu filters in catalog order. The search query matches
// name or keywords case-insensitively.
func (i *Index) Filter(f domain.Filter) []domain.Product {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]domain.Product, 0, len(i.products))
	for _, p := range i.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Tag != "" && !p.HasTag(f.Tag) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Keywords), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}
