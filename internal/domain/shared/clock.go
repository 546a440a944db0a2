package shared

import "time"

// Clock abstracts the time source so that date-dependent behaviour
// (movement dates, code scopes) is controllable in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock backed by time.Now
type SystemClock struct{}

// Now returns the current wall-clock time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant. Intended for tests.
type FixedClock struct {
	Instant time.Time
}

// Now returns the fixed instant
func (c FixedClock) Now() time.Time {
	return c.Instant
}
