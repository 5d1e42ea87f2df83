package favorites

import (
	"testing"

	"restaurant/ordering/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestToggle(t *testing.T) {
	s := New(nil)

	assert.Equal(t, Added, s.Toggle(3))
	assert.True(t, s.Contains(3))

	assert.Equal(t, Removed, s.Toggle(3))
	assert.False(t, s.Contains(3))
}

func TestToggle_IsItsOwnInverse(t *testing.T) {
	for _, start := range [][]domain.ProductID{nil, {1}, {1, 2, 3}, {2}} {
		s := New(start)
		before := s.IDs()
		for _, id := range []domain.ProductID{1, 2, 5} {
			s.Toggle(id)
			s.Toggle(id)
			assert.Equal(t, contains(before, id), s.Contains(id), "start=%v id=%d", start, id)
		}
	}
}

func TestAddRemove(t *testing.T) {
	s := New([]domain.ProductID{4, 4, 2})
	assert.Equal(t, []domain.ProductID{4, 2}, s.IDs())

	assert.False(t, s.Add(4))
	assert.True(t, s.Add(9))
	assert.Equal(t, []domain.ProductID{4, 2, 9}, s.IDs())

	assert.True(t, s.Remove(2))
	assert.False(t, s.Remove(2))
	assert.Equal(t, []domain.ProductID{4, 9}, s.IDs())
	assert.Equal(t, 2, s.Len())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "added", Added.String())
	assert.Equal(t, "removed", Removed.String())
}

func contains(ids []domain.ProductID, id domain.ProductID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
