package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Size is a product size label. A sizeless line item carries SizeNone.
type Size string

func (s Size) String() string {
	return string(s)
}

const (
	SizeNone   Size = ""
	SizeSmall  Size = "S" // Small
	SizeMedium Size = "M" // Medium
	SizeLarge  Size = "L" // Large
)

// Sizes lists the closed set of size labels from smallest to largest.
var Sizes = []Size{
	SizeSmall,
	SizeMedium,
	SizeLarge,
}

func (s Size) Label() string {
	switch s {
	case SizeSmall:
		return "Small"
	case SizeMedium:
		return "Medium"
	case SizeLarge:
		return "Large"
	default:
		return ""
	}
}

// Valid reports whether s is one of the known labels.
func (s Size) Valid() bool {
	for _, known := range Sizes {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSize normalizes user input ("s", " M ") into a Size.
// Empty input is SizeNone.
func ParseSize(v string) (Size, error) {
	s := Size(strings.ToUpper(strings.TrimSpace(v)))
	if s == SizeNone || s.Valid() {
		return s, nil
	}
	return SizeNone, fmt.Errorf("%w: %q", ErrInvalidSize, v)
}

func (s Size) MarshalJSON() ([]byte, error) {
	if s == SizeNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON keeps unknown labels as-is so stored line items survive a
// catalog change; price resolution falls back for them.
func (s *Size) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = SizeNone
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Size(strings.TrimSpace(raw))
	return nil
}
