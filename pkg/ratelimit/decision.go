package ratelimit

import "time"

// Decision is the outcome of one rate limit check.
type Decision struct {
	// Allowed reports whether the request fits within the window.
	Allowed bool

	// Key is the subject the check was performed for.
	Key string

	// Count is the number of requests observed in the window, including
	// this one.
	Count int

	// Limit is the configured ceiling for the window.
	Limit int

	// Remaining is how many further requests the window accepts.
	Remaining int

	// ResetAt is when the window has rolled past the current request.
	ResetAt time.Time

	// RetryAfter is how long a denied caller should wait before retrying.
	// Zero for allowed decisions.
	RetryAfter time.Duration
}
