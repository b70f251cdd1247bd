package testutil

import (
	"sync"
	"time"
)

// DeterministicClock is a settable wall clock for tests.
//
// It only moves when told to, so the same scenario always sees the same
// "now" and produces identical timestamps, dates and golden output.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu    sync.Mutex
	start time.Time
	now   time.Time
}

// NewDeterministicClock creates a clock fixed at start.
func NewDeterministicClock(start time.Time) *DeterministicClock {
	return &DeterministicClock{start: start, now: start}
}

// Now returns the current clock reading.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t. Moving backwards is allowed so tests can
// simulate a skewed client clock.
func (c *DeterministicClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d and returns the new reading.
func (c *DeterministicClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// Reset returns the clock to its starting time.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.start
}
