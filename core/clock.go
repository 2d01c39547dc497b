package core

import "time"

// Clock supplies the current time for interest accrual. It must be
// non-decreasing across calls within a single operation.
type Clock interface {
	Now() time.Time
}

// ClockFunc func adapter for Clock
type ClockFunc func() time.Time

// Now implements Clock
func (f ClockFunc) Now() time.Time {
	return f()
}
