package session

import (
	"restaurant/ordering/internal/cart"
	"restaurant/ordering/internal/domain"
	"restaurant/ordering/internal/favorites"

	"github.com/shopspring/decimal"
)

type ChangeKind int

const (
	ChangeLoaded ChangeKind = iota + 1
	ChangeCartLine
	ChangeCartCleared
	ChangeFavorite
)

// Change describes one applied mutation together with the state a view
// needs to patch itself without re-reading the session.
type Change struct {
	Kind ChangeKind
	// Seq orders changes. It is taken under the session lock, so a higher Seq
	// always describes newer state even when deliveries race.
	Seq uint64

	// Cart line changes. Removed is set when the line no longer exists.
	Key       domain.LineKey
	Line      cart.ResolvedLine
	Resolved  bool
	Removed   bool
	CartTotal decimal.Decimal
	CartCount int

	// Favorite changes.
	ProductID     domain.ProductID
	Outcome       favorites.Outcome
	FavoriteCount int
}

type Subscriber func(Change)

// CartSnapshot is the resolved cart as of the change numbered Seq.
type CartSnapshot struct {
	Lines []cart.ResolvedLine
	Total decimal.Decimal
	Seq   uint64
}

// CartSnapshot reads lines, total and sequence under one lock.
func (s *Session) CartSnapshot() CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CartSnapshot{
		Lines: s.cart.Lines(s.index),
		Total: s.cart.Total(s.index),
		Seq:   s.seq,
	}
}

// Subscribe registers fn for every applied change and returns a function
// that unregisters it.
func (s *Session) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// changeLocked snapshots the cart side of a change. Caller holds s.mu.
func (s *Session) changeLocked(kind ChangeKind, key domain.LineKey) Change {
	s.seq++
	ch := Change{
		Kind:          kind,
		Seq:           s.seq,
		Key:           key,
		CartTotal:     s.cart.Total(s.index),
		CartCount:     s.cart.Count(),
		FavoriteCount: s.favs.Len(),
	}
	if kind != ChangeCartLine {
		return ch
	}
	if _, ok := s.cart.Get(key); !ok {
		ch.Removed = true
		return ch
	}
	ch.Line, ch.Resolved = s.cart.Line(s.index, key)
	return ch
}

func (s *Session) favoriteChangeLocked(id domain.ProductID, outcome favorites.Outcome) Change {
	s.seq++
	return Change{
		Kind:          ChangeFavorite,
		Seq:           s.seq,
		ProductID:     id,
		Outcome:       outcome,
		CartTotal:     s.cart.Total(s.index),
		CartCount:     s.cart.Count(),
		FavoriteCount: s.favs.Len(),
	}
}

// publish runs outside s.mu, so subscribers may see changes out of order and
// must compare Seq.
func (s *Session) publish(ch Change) {
	s.mu.Lock()
	subs := make([]Subscriber, 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ch)
	}
}
