// Package clock provides an injectable notion of "now" and "sleep" so that
// time-dependent logic - the supervisor's reconnect backoff, the daily log
// rotation - can be driven deterministically in tests. Grounded on
// rtcmlogger/clock in the teacher, extended with Sleep since this module's
// consumers (the reconnect backoff loop) need to wait for a duration, not
// just read the current time.
package clock

import "time"

// Clock abstracts time so tests can run a reconnect backoff loop without
// actually waiting.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the production Clock, backed by the real wall clock.
type SystemClock struct{}

var _ Clock = SystemClock{}

// NewSystemClock returns a Clock backed by time.Now and time.Sleep.
func NewSystemClock() Clock {
	return SystemClock{}
}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
