// Package schedule provides cancellable deferred execution.
//
// Hosts use a Scheduler to reapply a selection after the surface has
// processed a value write. Every scheduled callback can be cancelled
// through its Handle, so a disposed host never runs stale work.
package schedule

import (
	"sync"
	"time"
)

// Handle cancels a scheduled callback.
type Handle interface {
	// Cancel prevents the callback from running. It reports whether the
	// callback was still pending.
	Cancel() bool
}

// Scheduler runs callbacks at a later point.
type Scheduler interface {
	Schedule(fn func()) Handle
}

// Func adapts a plain function to a Scheduler.
type Func func(fn func()) Handle

// Schedule calls f(fn).
func (f Func) Schedule(fn func()) Handle { return f(fn) }

// task is the shared Handle implementation.
type task struct {
	mu   sync.Mutex
	done bool
	stop func() bool
}

func (t *task) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	if t.stop != nil {
		t.stop()
	}
	return true
}

// claim marks the task as run. It returns false if it was cancelled.
func (t *task) claim() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// Timer schedules callbacks on a goroutine after a fixed delay.
type Timer struct {
	Delay time.Duration
}

// NewTimer returns a Timer with the given delay.
func NewTimer(delay time.Duration) *Timer {
	return &Timer{Delay: delay}
}

// Schedule runs fn after the delay unless the handle is cancelled first.
func (s *Timer) Schedule(fn func()) Handle {
	t := &task{}
	t.mu.Lock()
	timer := time.AfterFunc(s.Delay, func() {
		if t.claim() {
			fn()
		}
	})
	t.stop = timer.Stop
	t.mu.Unlock()
	return t
}

// Poster hands callbacks to an event loop. Post must arrange for run to be
// called on the loop; a callback whose post fails is dropped.
type Poster struct {
	Post func(run func()) error
}

// Schedule posts fn wrapped so that a cancelled handle skips it.
func (p Poster) Schedule(fn func()) Handle {
	t := &task{}
	err := p.Post(func() {
		if t.claim() {
			fn()
		}
	})
	if err != nil {
		t.claim()
	}
	return t
}

// Immediate runs every callback synchronously inside Schedule.
type Immediate struct{}

// Schedule runs fn and returns a handle that is already spent.
func (Immediate) Schedule(fn func()) Handle {
	fn()
	return &task{done: true}
}

// Manual queues callbacks until Flush is called.
type Manual struct {
	mu    sync.Mutex
	queue []manualEntry
}

type manualEntry struct {
	t  *task
	fn func()
}

// Schedule queues fn.
func (s *Manual) Schedule(fn func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &task{}
	s.queue = append(s.queue, manualEntry{t: t, fn: fn})
	return t
}

// Pending returns the number of queued callbacks that were not cancelled.
func (s *Manual) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.queue {
		e.t.mu.Lock()
		if !e.t.done {
			n++
		}
		e.t.mu.Unlock()
	}
	return n
}

// Flush runs the queued callbacks in order and returns how many ran.
// Callbacks scheduled during Flush wait for the next call.
func (s *Manual) Flush() int {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()

	ran := 0
	for _, e := range queue {
		if e.t.claim() {
			e.fn()
			ran++
		}
	}
	return ran
}
