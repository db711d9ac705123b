// Package ratelimit provides framework-agnostic sliding-window rate
// limiting. It is used by the learning engine's anomaly guard to reject
// abnormally frequent interaction events from a single user, but carries
// no domain knowledge of its own.
package ratelimit

import "time"

// Clock provides time operations for testability.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time { return time.Now() }
