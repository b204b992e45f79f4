// Package clock abstracts wall-clock access so that time-driven license
// decisions and cache expiry are deterministic under test.
package clock

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// System is a Clock backed by time.Now.
type System struct{}

// Now returns the current wall-clock time.
func (System) Now() time.Time { return time.Now() }

// Func adapts a plain function to the Clock interface.
type Func func() time.Time

// Now invokes the wrapped function.
func (f Func) Now() time.Time { return f() }
