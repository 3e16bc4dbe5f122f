package search

import (
	"context"
	"sync"
	"time"
)

// Debouncer delays a function until a quiet period has elapsed. Each new
// call cancels the pending one, so of N calls inside the wait window only
// the last fires. This is the trailing-edge behavior a search-as-you-type
// box needs.
type Debouncer struct {
	mu    sync.Mutex
	wait  time.Duration
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait}
}

// Do schedules fn after the quiet period, replacing any pending call.
// The context is re-checked when the timer fires: a consumer that went
// away never observes a late trailing invocation.
func (d *Debouncer) Do(ctx context.Context, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() {
		if ctx.Err() != nil {
			return
		}
		fn()
	})
}

// Stop cancels any pending invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
