package state

import (
	"context"
	"sync"
	"time"

	"restaurant/ordering/internal/domain"

	"github.com/benbjohnson/clock"
	log "github.com/sirupsen/logrus"
)

const flushTimeout = 5 * time.Second

// Persister coalesces snapshot writes. Every Schedule call replaces the
// pending snapshot of its collection and restarts the debounce window, so
// only the last state within a window reaches the store.
type Persister struct {
	snapshots *Snapshots
	debouncer *Debouncer

	// writeMu orders flushes so an older snapshot never overwrites a newer one.
	writeMu sync.Mutex

	mu           sync.Mutex
	pendingCart  []domain.LineItem
	pendingFavs  []domain.ProductID
	cartDirty    bool
	favsDirty    bool
	flushedCount int
}

func NewPersister(snapshots *Snapshots, clk clock.Clock, window time.Duration) *Persister {
	p := &Persister{snapshots: snapshots}
	p.debouncer = NewDebouncer(clk, window, func() {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		p.flush(ctx)
	})
	return p
}

func (p *Persister) ScheduleCart(items []domain.LineItem) {
	p.mu.Lock()
	p.pendingCart = append([]domain.LineItem{}, items...)
	p.cartDirty = true
	p.mu.Unlock()

	p.debouncer.Trigger()
}

func (p *Persister) ScheduleFavorites(ids []domain.ProductID) {
	p.mu.Lock()
	p.pendingFavs = append([]domain.ProductID{}, ids...)
	p.favsDirty = true
	p.mu.Unlock()

	p.debouncer.Trigger()
}

// Flush writes pending snapshots immediately.
func (p *Persister) Flush(ctx context.Context) {
	p.debouncer.Stop()
	p.flush(ctx)
}

// Flushes counts debounce windows that wrote at least one collection.
func (p *Persister) Flushes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flushedCount
}

func (p *Persister) flush(ctx context.Context) {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.mu.Lock()
	cart, cartDirty := p.pendingCart, p.cartDirty
	favs, favsDirty := p.pendingFavs, p.favsDirty
	p.pendingCart, p.pendingFavs = nil, nil
	p.cartDirty, p.favsDirty = false, false
	p.mu.Unlock()

	if !cartDirty && !favsDirty {
		return
	}

	if cartDirty {
		p.snapshots.SaveCart(ctx, cart)
	}
	if favsDirty {
		p.snapshots.SaveFavorites(ctx, favs)
	}
	log.Debugf("💾 Flushed snapshots (cart=%t, favorites=%t)", cartDirty, favsDirty)

	p.mu.Lock()
	p.flushedCount++
	p.mu.Unlock()
}
