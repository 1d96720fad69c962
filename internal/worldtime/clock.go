// Package worldtime provides the monotonic game clock read by the effect
// pipeline.
package worldtime

import "time"

// Clock tracks elapsed world time. Only the clock system advances it; every
// other consumer reads Passed.
type Clock struct {
	passed   time.Duration
	lastReal time.Time
	now      func() time.Time
}

func New() *Clock {
	return &Clock{now: time.Now}
}

// NewWithSource uses now as the wall clock for RealTimeTick. Tests pass a
// fake source.
func NewWithSource(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Passed returns the elapsed world time.
func (c *Clock) Passed() time.Duration { return c.passed }

// Tick advances world time by dt. Negative steps are ignored so the clock
// never runs backwards.
func (c *Clock) Tick(dt time.Duration) {
	if dt > 0 {
		c.passed += dt
	}
}

// RealTimeTick advances world time by the wall time elapsed since the
// previous call. The first call only records the reference point.
func (c *Clock) RealTimeTick() time.Duration {
	t := c.now()
	if c.lastReal.IsZero() {
		c.lastReal = t
		return 0
	}
	dt := t.Sub(c.lastReal)
	c.lastReal = t
	c.Tick(dt)
	if dt < 0 {
		return 0
	}
	return dt
}
