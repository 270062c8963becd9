// Package debounce delays a call until its input has been quiet for a while.
package debounce

import (
	"sync"
	"time"
)

// Debouncer calls fn with the last value passed to Trigger once no further
// Trigger has happened for delay.
type Debouncer struct {
	delay time.Duration
	fn    func(string)

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

// New returns a Debouncer. fn runs on its own goroutine.
func New(delay time.Duration, fn func(string)) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger restarts the quiet period with v as the pending value.
func (d *Debouncer) Trigger(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := d.seq == seq
		d.mu.Unlock()
		// a Trigger may have raced the timer firing
		if current {
			d.fn(v)
		}
	})
}

// Stop cancels the pending call, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
}
