package clock

import "time"

// Clock provides time operations that can be mocked for testing.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// New creates a new RealClock.
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time.
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// Mock is a settable Clock for tests.
type Mock struct {
	Current time.Time
}

var _ Clock = (*Mock)(nil)

// NewMock creates a Mock frozen at t.
func NewMock(t time.Time) *Mock {
	return &Mock{Current: t}
}

// Now returns the mock's current time.
func (c *Mock) Now() time.Time {
	return c.Current
}

// Advance moves the mock's current time forward by d.
func (c *Mock) Advance(d time.Duration) {
	c.Current = c.Current.Add(d)
}
