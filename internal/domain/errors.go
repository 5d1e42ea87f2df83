package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInvalidSize        = errors.New("unknown size label")
	ErrSizeUnavailable    = errors.New("size is not offered for this product")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidPhoneFormat = errors.New("phone must be exactly 11 digits")
	ErrFetchFailure       = errors.New("catalog fetch failed")
	ErrStorageCorrupt     = errors.New("stored snapshot is corrupt")
)

// MissingFieldError is returned by checkout when a required contact field is empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}
