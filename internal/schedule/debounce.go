package schedule

import (
	"sync"
	"time"
)

// Debouncer groups rapid successive calls into a single callback after a
// quiet period. The callback never runs concurrently with itself.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	pending  bool
	seq      uint64 // detects stale timer callbacks
	callback func()
}

// NewDebouncer creates a debouncer that calls callback once no Call has
// happened for delay.
func NewDebouncer(delay time.Duration, callback func()) *Debouncer {
	return &Debouncer{delay: delay, callback: callback}
}

// Call schedules the callback, restarting the quiet period.
func (d *Debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = true
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if !d.pending || d.seq != seq || d.callback == nil {
			d.mu.Unlock()
			return
		}
		d.pending = false
		d.mu.Unlock()
		d.callback()
	})
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
}

// Pending reports whether a call is waiting for its quiet period.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
