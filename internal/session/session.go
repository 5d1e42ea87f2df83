package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"restaurant/ordering/internal/cart"
	"restaurant/ordering/internal/catalog"
	"restaurant/ordering/internal/domain"
	"restaurant/ordering/internal/favorites"
	"restaurant/ordering/internal/notify"
	"restaurant/ordering/internal/order"
	"restaurant/ordering/internal/state"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Session owns the cart and favorites of one customer over the loaded
// catalog. Mutations apply synchronously, are published to subscribers and
// persisted through the debounced persister.
type Session struct {
	index     *catalog.Index
	snapshots *state.Snapshots
	persister *state.Persister
	notifier  notify.Notifier
	composer  *order.Composer

	clearOnCheckout bool

	mu          sync.Mutex
	cart        *cart.Cart
	favs        *favorites.Set
	subscribers map[int]Subscriber
	nextSubID   int
	seq         uint64
}

type Option func(*Session)

// WithClearOnCheckout controls whether a successful checkout empties the cart.
func WithClearOnCheckout(enabled bool) Option {
	return func(s *Session) {
		s.clearOnCheckout = enabled
	}
}

func New(
	index *catalog.Index,
	snapshots *state.Snapshots,
	persister *state.Persister,
	notifier notify.Notifier,
	composer *order.Composer,
	opts ...Option,
) *Session {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	s := &Session{
		index:           index,
		snapshots:       snapshots,
		persister:       persister,
		notifier:        notifier,
		composer:        composer,
		clearOnCheckout: true,
		cart:            cart.New(nil),
		favs:            favorites.New(nil),
		subscribers:     make(map[int]Subscriber),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads both persisted collections. Missing or corrupt snapshots start empty.
func (s *Session) Load(ctx context.Context) {
	items := s.snapshots.LoadCart(ctx)
	ids := s.snapshots.LoadFavorites(ctx)

	s.mu.Lock()
	s.cart = cart.New(items)
	s.favs = favorites.New(ids)
	lines, favCount := s.cart.Len(), s.favs.Len()
	change := s.changeLocked(ChangeLoaded, domain.LineKey{})
	s.mu.Unlock()

	log.Infof("📦 Session loaded: %d cart lines, %d favorites", lines, favCount)
	s.publish(change)
}

// Flush writes pending snapshots immediately.
func (s *Session) Flush(ctx context.Context) {
	s.persister.Flush(ctx)
}

func (s *Session) Catalog() *catalog.Index {
	return s.index
}

func (s *Session) Composer() *order.Composer {
	return s.composer
}

// Reads

func (s *Session) CartItems() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Items()
}

func (s *Session) CartLines() []cart.ResolvedLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines(s.index)
}

func (s *Session) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total(s.index)
}

func (s *Session) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Count()
}

func (s *Session) FavoriteIDs() []domain.ProductID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favs.IDs()
}

func (s *Session) FavoriteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favs.Len()
}

func (s *Session) IsFavorite(id domain.ProductID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favs.Contains(id)
}

// FavoriteProducts resolves favorites in insertion order, skipping ids no
// longer in the catalog.
func (s *Session) FavoriteProducts() []domain.Product {
	ids := s.FavoriteIDs()
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.index.Product(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// Cart mutations

// AddToCart merges qty units of the product in size into the cart.
func (s *Session) AddToCart(id any, size string, qty int) (domain.LineItem, error) {
	p, err := s.index.Lookup(id)
	if err != nil {
		s.notifier.Notify(notify.Error("Product not found"))
		log.Warnf("⚠️ Add to cart ignored for unknown product %v", id)
		return domain.LineItem{}, err
	}

	parsed, err := domain.ParseSize(size)
	if err != nil {
		s.notifier.Notify(notify.Error("Please pick a valid size"))
		return domain.LineItem{}, err
	}
	key, err := cart.KeyFor(p, parsed)
	if err != nil {
		s.notifier.Notify(notify.Error("This size is not available"))
		return domain.LineItem{}, err
	}

	s.mu.Lock()
	item, err := s.cart.Add(key, qty)
	if err != nil {
		s.mu.Unlock()
		s.notifier.Notify(notify.Error("Quantity must be at least 1"))
		return domain.LineItem{}, err
	}
	s.persister.ScheduleCart(s.cart.Items())
	change := s.changeLocked(ChangeCartLine, key)
	s.mu.Unlock()

	s.publish(change)
	s.notifier.Notify(notify.Success(fmt.Sprintf("%s added to cart", p.Name)))
	return item, nil
}

func (s *Session) IncrementLine(key domain.LineKey) (domain.LineItem, bool) {
	return s.mutateLine(key, func(c *cart.Cart) (domain.LineItem, bool) {
		return c.Increment(key)
	})
}

// DecrementLine never drops a line below 1; the bool is false when nothing changed.
func (s *Session) DecrementLine(key domain.LineKey) (domain.LineItem, bool) {
	return s.mutateLine(key, func(c *cart.Cart) (domain.LineItem, bool) {
		return c.Decrement(key)
	})
}

// SetLineQuantity overwrites a line's quantity; qty <= 0 removes the line.
func (s *Session) SetLineQuantity(key domain.LineKey, qty int) (domain.LineItem, bool) {
	return s.mutateLine(key, func(c *cart.Cart) (domain.LineItem, bool) {
		return c.SetQuantity(key, qty)
	})
}

func (s *Session) RemoveLine(key domain.LineKey) bool {
	_, ok := s.mutateLine(key, func(c *cart.Cart) (domain.LineItem, bool) {
		item, found := c.Get(key)
		return item, found && c.Remove(key)
	})
	if ok {
		s.notifier.Notify(notify.Success("Removed from cart"))
	}
	return ok
}

// RemoveLineAt removes the line at its position in CartItems.
func (s *Session) RemoveLineAt(index int) (domain.LineItem, bool) {
	s.mu.Lock()
	removed, ok := s.cart.RemoveAt(index)
	if !ok {
		s.mu.Unlock()
		return domain.LineItem{}, false
	}
	s.persister.ScheduleCart(s.cart.Items())
	change := s.changeLocked(ChangeCartLine, removed.Key())
	s.mu.Unlock()

	s.publish(change)
	s.notifier.Notify(notify.Success("Removed from cart"))
	return removed, true
}

func (s *Session) ClearCart() {
	s.mu.Lock()
	s.cart.Clear()
	s.persister.ScheduleCart(s.cart.Items())
	change := s.changeLocked(ChangeCartCleared, domain.LineKey{})
	s.mu.Unlock()

	s.publish(change)
}

func (s *Session) mutateLine(key domain.LineKey, fn func(c *cart.Cart) (domain.LineItem, bool)) (domain.LineItem, bool) {
	s.mu.Lock()
	item, changed := fn(s.cart)
	if !changed {
		s.mu.Unlock()
		return item, false
	}
	s.persister.ScheduleCart(s.cart.Items())
	change := s.changeLocked(ChangeCartLine, key)
	s.mu.Unlock()

	s.publish(change)
	return item, true
}

// Favorites

// ToggleFavorite adds or removes the product from favorites.
func (s *Session) ToggleFavorite(id any) (favorites.Outcome, error) {
	p, err := s.index.Lookup(id)
	if err != nil {
		s.notifier.Notify(notify.Error("Product not found"))
		log.Warnf("⚠️ Favorite toggle ignored for unknown product %v", id)
		return 0, err
	}

	s.mu.Lock()
	outcome := s.favs.Toggle(p.ID)
	s.persister.ScheduleFavorites(s.favs.IDs())
	change := s.favoriteChangeLocked(p.ID, outcome)
	s.mu.Unlock()

	s.publish(change)
	if outcome == favorites.Added {
		s.notifier.Notify(notify.Success(fmt.Sprintf("%s added to favorites", p.Name)))
	} else {
		s.notifier.Notify(notify.Success(fmt.Sprintf("%s removed from favorites", p.Name)))
	}
	return outcome, nil
}

// RemoveFavorite drops the id from favorites. Ids are not resolved against the
// catalog so stale favorites can still be removed.
func (s *Session) RemoveFavorite(id any) bool {
	pid, err := domain.ParseProductID(id)
	if err != nil {
		return false
	}

	s.mu.Lock()
	if !s.favs.Remove(pid) {
		s.mu.Unlock()
		return false
	}
	s.persister.ScheduleFavorites(s.favs.IDs())
	change := s.favoriteChangeLocked(pid, favorites.Removed)
	s.mu.Unlock()

	s.publish(change)
	s.notifier.Notify(notify.Success("Removed from favorites"))
	return true
}

// Checkout

// Checkout composes the order from the current cart. Validation failures
// leave the cart untouched.
func (s *Session) Checkout(ctx context.Context, contact domain.Contact) (order.Message, error) {
	s.mu.Lock()
	lines := s.cart.Lines(s.index)
	s.mu.Unlock()

	msg, err := s.composer.Compose(lines, contact)
	if err != nil {
		s.notifier.Notify(notify.Error(checkoutErrorText(err)))
		log.Infof("🛑 Checkout rejected: %v", err)
		return order.Message{}, err
	}

	log.Infof("🧾 Order composed: %d lines, total %s", len(lines), msg.Total.String())

	if s.clearOnCheckout {
		s.ClearCart()
		s.persister.Flush(ctx)
	}
	return msg, nil
}

func checkoutErrorText(err error) string {
	var missing *domain.MissingFieldError
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return "Your cart is empty"
	case errors.As(err, &missing):
		return fmt.Sprintf("Please fill in your %s", missing.Field)
	case errors.Is(err, domain.ErrInvalidPhoneFormat):
		return "Phone number must be 11 digits"
	default:
		return "Could not place the order"
	}
}
