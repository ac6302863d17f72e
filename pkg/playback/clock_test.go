package playback

import (
	"sync"
	"time"
)

// manualClock fires timers only when the test says so.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Pending returns the number of armed timers.
func (c *manualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Next fires the earliest armed timer and reports whether one existed.
func (c *manualClock) Next() bool {
	c.mu.Lock()
	var next *manualTimer
	for _, t := range c.timers {
		if t.stopped || t.fired {
			continue
		}
		if next == nil || t.at < next.at {
			next = t
		}
	}
	if next == nil {
		c.mu.Unlock()
		return false
	}
	next.fired = true
	if next.at > c.now {
		c.now = next.at
	}
	c.mu.Unlock()

	next.f()
	return true
}

// Drain fires timers until none are armed, up to limit.
func (c *manualClock) Drain(limit int) int {
	n := 0
	for n < limit && c.Next() {
		n++
	}
	return n
}

// FireStopped runs the callbacks of stopped timers, the way a timer that
// fired just before Stop would.
func (c *manualClock) FireStopped() {
	c.mu.Lock()
	var late []func()
	for _, t := range c.timers {
		if t.stopped && !t.fired {
			t.fired = true
			late = append(late, t.f)
		}
	}
	c.mu.Unlock()

	for _, f := range late {
		f()
	}
}

// Armed returns the delays of armed timers relative to now.
func (c *manualClock) Armed() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []time.Duration
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			out = append(out, t.at-c.now)
		}
	}
	return out
}
