// Package clock provides the two timers the control panel needs: a countdown
// that fires a callback once and can be cancelled, and a stopwatch for set
// duration. Both expose explicit start/stop/elapsed so nothing leaks when a
// session shuts down mid-count.
package clock

import (
	"sync"
	"time"
)

// Countdown runs a single fixed-length count. Starting again reuses the same
// Countdown; a generation counter makes sure a stale fire from a previous
// count is dropped after Stop or restart.
type Countdown struct {
	mu       sync.Mutex
	gen      int
	deadline time.Time
	timer    *time.Timer
	active   bool
}

func NewCountdown() *Countdown {
	return &Countdown{}
}

// Start arms the countdown. onExpire runs once on its own goroutine unless
// Stop (or another Start) happens first.
func (c *Countdown) Start(d time.Duration, onExpire func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.active = true
	c.deadline = time.Now().Add(d)
	c.timer = time.AfterFunc(d, func() {
		c.mu.Lock()
		stale := gen != c.gen || !c.active
		if !stale {
			c.active = false
		}
		c.mu.Unlock()
		if !stale && onExpire != nil {
			onExpire()
		}
	})
}

func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.active = false
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Countdown) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Remaining is zero when the countdown is idle.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return 0
	}
	r := time.Until(c.deadline)
	if r < 0 {
		return 0
	}
	return r
}

// Stopwatch tracks elapsed time from an explicit start instant, so a set
// clock can be reconstructed from the server's start_time after a reload.
type Stopwatch struct {
	mu      sync.Mutex
	start   time.Time
	running bool
}

func NewStopwatch() *Stopwatch {
	return &Stopwatch{}
}

// Start begins counting from the given instant, which may be in the past.
func (s *Stopwatch) Start(from time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start = from
	s.running = true
}

func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.start = time.Time{}
}

func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return 0
	}
	return time.Since(s.start)
}
