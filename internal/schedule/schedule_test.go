package schedule

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestImmediate(t *testing.T) {
	ran := false
	h := Immediate{}.Schedule(func() { ran = true })
	if !ran {
		t.Fatal("expected callback to run synchronously")
	}
	if h.Cancel() {
		t.Error("cancelling a spent handle should report false")
	}
}

func TestManualFlush(t *testing.T) {
	var s Manual
	var order []int

	s.Schedule(func() { order = append(order, 1) })
	h := s.Schedule(func() { order = append(order, 2) })
	s.Schedule(func() { order = append(order, 3) })

	if !h.Cancel() {
		t.Error("expected pending handle to cancel")
	}
	if s.Pending() != 2 {
		t.Errorf("expected 2 pending, got %d", s.Pending())
	}
	if n := s.Flush(); n != 2 {
		t.Errorf("expected 2 callbacks to run, got %d", n)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 3 {
		t.Errorf("unexpected order %v", order)
	}
	if s.Flush() != 0 {
		t.Error("second flush should run nothing")
	}
}

func TestManualScheduleDuringFlush(t *testing.T) {
	var s Manual
	ran := 0
	s.Schedule(func() {
		ran++
		s.Schedule(func() { ran++ })
	})

	s.Flush()
	if ran != 1 {
		t.Fatalf("nested callback should wait, ran=%d", ran)
	}
	s.Flush()
	if ran != 2 {
		t.Errorf("expected nested callback on second flush, ran=%d", ran)
	}
}

func TestTimerRunsAndCancels(t *testing.T) {
	s := NewTimer(5 * time.Millisecond)

	done := make(chan struct{})
	s.Schedule(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer callback did not run")
	}

	var calls atomic.Int32
	h := s.Schedule(func() { calls.Add(1) })
	if !h.Cancel() {
		t.Error("expected cancel before the delay to succeed")
	}
	time.Sleep(20 * time.Millisecond)
	if calls.Load() != 0 {
		t.Error("cancelled callback ran")
	}
}

func TestDebouncer(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(10*time.Millisecond, func() { calls.Add(1) })

	for i := 0; i < 5; i++ {
		d.Call()
	}
	if !d.Pending() {
		t.Error("expected pending call")
	}
	time.Sleep(50 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}

	d.Call()
	d.Cancel()
	time.Sleep(30 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("cancelled call ran, got %d calls", got)
	}
}

func TestPoster(t *testing.T) {
	var loop []func()
	p := Poster{Post: func(run func()) error {
		loop = append(loop, run)
		return nil
	}}

	ran := 0
	p.Schedule(func() { ran++ })
	h := p.Schedule(func() { ran += 10 })
	if !h.Cancel() {
		t.Error("expected posted handle to cancel")
	}
	for _, run := range loop {
		run()
	}
	if ran != 1 {
		t.Errorf("expected only the live callback to run, ran=%d", ran)
	}
}

func TestPosterFailedPost(t *testing.T) {
	p := Poster{Post: func(func()) error { return errors.New("queue full") }}
	h := p.Schedule(func() { t.Error("dropped callback ran") })
	if h.Cancel() {
		t.Error("a dropped callback should not be pending")
	}
}
