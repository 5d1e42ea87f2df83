package favorites

import "restaurant/ordering/internal/domain"

// Outcome reports what a toggle did.
type Outcome int

const (
	Added Outcome = iota + 1
	Removed
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Set holds favorite product ids in insertion order with set semantics.
type Set struct {
	ids []domain.ProductID
}

// New builds a set from persisted ids, dropping repeats.
func New(ids []domain.ProductID) *Set {
	s := &Set{ids: make([]domain.ProductID, 0, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s *Set) Contains(id domain.ProductID) bool {
	return s.indexOf(id) >= 0
}

// Toggle removes id when present and adds it otherwise.
func (s *Set) Toggle(id domain.ProductID) Outcome {
	if s.Remove(id) {
		return Removed
	}
	s.ids = append(s.ids, id)
	return Added
}

// Add is a no-op when id is already present.
func (s *Set) Add(id domain.ProductID) bool {
	if s.Contains(id) {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Remove is a no-op when id is absent.
func (s *Set) Remove(id domain.ProductID) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.ids = append(s.ids[:idx:idx], s.ids[idx+1:]...)
	return true
}

// IDs returns a copy in insertion order.
func (s *Set) IDs() []domain.ProductID {
	out := make([]domain.ProductID, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Set) Len() int {
	return len(s.ids)
}

func (s *Set) indexOf(id domain.ProductID) int {
	for i, v := range s.ids {
		if v == id {
			return i
		}
	}
	return -1
}
