package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	got []Notification
}

func (r *recorder) Notify(n Notification) {
	r.got = append(r.got, n)
}

func TestQueue_DrainAndForward(t *testing.T) {
	next := &recorder{}
	q := NewQueue(next)

	q.Notify(Success("Added to cart"))
	q.Notify(Error("Product not found"))

	assert.Equal(t, []Notification{
		{Level: LevelSuccess, Message: "Added to cart"},
		{Level: LevelError, Message: "Product not found"},
	}, q.Drain())
	assert.Empty(t, q.Drain())
	assert.Len(t, next.got, 2)
}

func TestQueue_WithoutNext(t *testing.T) {
	q := NewQueue(nil)
	q.Notify(Success("ok"))
	assert.Len(t, q.Drain(), 1)

	LogNotifier{}.Notify(Error("logged"))
}
