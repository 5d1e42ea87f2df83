package state

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Debouncer runs fn once after wait has elapsed since the last Trigger.
type Debouncer struct {
	clock clock.Clock
	wait  time.Duration
	fn    func()

	mu    sync.Mutex
	timer *clock.Timer
}

func NewDebouncer(clk clock.Clock, wait time.Duration, fn func()) *Debouncer {
	if clk == nil {
		clk = clock.New()
	}
	return &Debouncer{
		clock: clk,
		wait:  wait,
		fn:    fn,
	}
}

// Trigger (re)starts the trailing window.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.wait, d.fn)
}

// Stop cancels a pending run and reports whether one was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	pending := d.timer.Stop()
	d.timer = nil
	return pending
}
