package domain

import (
	"fmt"
	"strings"
)

// LineKey identifies a cart line: the same product in two sizes is two lines.
type LineKey struct {
	ProductID ProductID
	Size      Size
}

// String renders the key as "12:M", or "12" for a sizeless line.
func (k LineKey) String() string {
	if k.Size == SizeNone {
		return k.ProductID.String()
	}
	return k.ProductID.String() + ":" + k.Size.String()
}

// ParseLineKey is the inverse of LineKey.String.
func ParseLineKey(v string) (LineKey, error) {
	idPart, sizePart, _ := strings.Cut(strings.TrimSpace(v), ":")
	id, err := ParseProductID(idPart)
	if err != nil {
		return LineKey{}, fmt.Errorf("invalid line key %q: %w", v, err)
	}
	size, err := ParseSize(sizePart)
	if err != nil {
		return LineKey{}, fmt.Errorf("invalid line key %q: %w", v, err)
	}
	return LineKey{ProductID: id, Size: size}, nil
}

// LineItem is one row of the cart as it is persisted.
type LineItem struct {
	ProductID ProductID `json:"id"`
	Size      Size      `json:"size"`
	Quantity  int       `json:"qty"`
}

func (l LineItem) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size}
}
