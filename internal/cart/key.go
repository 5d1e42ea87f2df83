package cart

import (
	"fmt"

	"restaurant/ordering/internal/domain"
)

// KeyFor builds the line key for adding p in the requested size. Sizeless
// products always get SizeNone; size-option products default to their
// smallest priced size.
func KeyFor(p domain.Product, size domain.Size) (domain.LineKey, error) {
	if !size.Valid() && size != domain.SizeNone {
		return domain.LineKey{}, fmt.Errorf("%w: %q", domain.ErrInvalidSize, size)
	}

	key := domain.LineKey{ProductID: p.ID}
	if !p.HasSizeOptions() {
		return key, nil
	}

	if size == domain.SizeNone {
		key.Size = p.DefaultSize()
		return key, nil
	}
	if !p.OffersSize(size) {
		return domain.LineKey{}, fmt.Errorf("%w: %s for product %d", domain.ErrSizeUnavailable, size, p.ID)
	}
	key.Size = size
	return key, nil
}
