// Package debounce coalesces bursts of frequent operations into a single
// trailing call per key.
package debounce

import (
	"sync"
	"time"
)

// Debouncer delays each keyed function until the debounce window has passed
// without another call for the same key. A burst of edits therefore yields
// one write, not one per keystroke.
type Debouncer struct {
	mu       sync.Mutex
	timers   map[string]*time.Timer
	duration time.Duration
}

// New creates a debouncer with the given window.
func New(duration time.Duration) *Debouncer {
	return &Debouncer{
		timers:   make(map[string]*time.Timer),
		duration: duration,
	}
}

// Debounce schedules fn after the window. Calling again with the same key
// before the window expires cancels the previous schedule. A call already
// in flight is never interrupted; the newer call simply runs afterward.
func (d *Debouncer) Debounce(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[key]; ok {
		timer.Stop()
	}
	d.timers[key] = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops a pending call for the key, if any.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if timer, ok := d.timers[key]; ok {
		timer.Stop()
		delete(d.timers, key)
	}
}

// Flush cancels the pending schedule for the key and runs fn immediately.
func (d *Debouncer) Flush(key string, fn func()) {
	d.Cancel(key)
	fn()
}
