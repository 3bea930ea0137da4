package testkit

import (
	"sync"
	"testing"
	"time"
)

var seamMu sync.Mutex

// Swap replaces a package level variable for the duration of the test
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}

// Serial runs the test under a global lock for tests that mutate package level seams
func Serial(t *testing.T) {
	t.Helper()
	seamMu.Lock()
	t.Cleanup(func() { seamMu.Unlock() })
}

// Clock is a settable clock for services that take a func() time.Time
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock starts a clock at now
func NewClock(now time.Time) *Clock { return &Clock{now: now} }

// Now returns the current fake time
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Set jumps the clock to t
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}
