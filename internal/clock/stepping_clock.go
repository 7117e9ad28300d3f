package clock

import (
	"sync"
	"time"
)

// SteppingClock is a Clock that returns a given series of time values, one
// at a time, and records every requested sleep instead of actually
// blocking - exactly what a test of the supervisor's backoff loop needs to
// assert on elapsed delays without waiting for them.
type SteppingClock struct {
	mutex     sync.Mutex
	nextTime  int
	times     []time.Time
	sleeps    []time.Duration
}

var _ Clock = (*SteppingClock)(nil)

// NewSteppingClock creates a SteppingClock that returns each of times in
// turn, repeating the last entry once exhausted (or the Unix epoch if times
// is empty).
func NewSteppingClock(times []time.Time) *SteppingClock {
	return &SteppingClock{times: times}
}

func (c *SteppingClock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if len(c.times) == 0 {
		return time.Unix(0, 0).UTC()
	}
	if c.nextTime >= len(c.times) {
		return c.times[len(c.times)-1]
	}

	result := c.times[c.nextTime]
	c.nextTime++
	return result
}

// Sleep records the requested duration instead of blocking.
func (c *SteppingClock) Sleep(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.sleeps = append(c.sleeps, d)
}

// Sleeps returns every duration requested via Sleep so far, in order.
func (c *SteppingClock) Sleeps() []time.Duration {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}
