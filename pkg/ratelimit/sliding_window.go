package ratelimit

import (
	"sync"
	"time"
)

// SlidingWindow implements sliding window rate limiting over an
// InMemoryStore.
//
// The algorithm tracks individual request timestamps and counts the
// requests inside a rolling time window, which avoids the boundary burst
// spikes of fixed-window counting.
//
// Clock skew protection: the last seen timestamp per key is remembered,
// and if the clock reports an earlier time (the clock went backwards) the
// last seen time is used instead. This prevents limit bypass through time
// manipulation.
type SlidingWindow struct {
	store  *InMemoryStore
	clock  Clock
	limit  int
	window time.Duration

	mu             sync.Mutex
	lastTimestamps map[string]time.Time
}

// NewSlidingWindow creates a limiter admitting up to limit requests per key
// within the rolling window. A nil clock defaults to the system clock.
func NewSlidingWindow(limit int, window time.Duration, clock Clock) *SlidingWindow {
	if clock == nil {
		clock = SystemClock{}
	}
	return &SlidingWindow{
		store:          NewInMemoryStore(0),
		clock:          clock,
		limit:          limit,
		window:         window,
		lastTimestamps: make(map[string]time.Time),
	}
}

// Allow checks whether one more request for key fits in the window and
// records it if so. Denied requests are not recorded: the window counts
// accepted requests only.
func (w *SlidingWindow) Allow(key string) Decision {
	now := w.validTimestamp(key)
	cutoff := now.Add(-w.window)

	allowed, count, oldest := w.store.CheckAndAdd(key, now, cutoff, w.limit)

	resetAt := now.Add(w.window)
	if !oldest.IsZero() {
		resetAt = oldest.Add(w.window)
	}

	d := Decision{
		Allowed: allowed,
		Key:     key,
		Count:   count,
		Limit:   w.limit,
		ResetAt: resetAt,
	}
	if allowed {
		d.Remaining = w.limit - count
	} else {
		d.RetryAfter = resetAt.Sub(now)
	}
	return d
}

// Limit returns the configured ceiling.
func (w *SlidingWindow) Limit() int { return w.limit }

// Window returns the configured window duration.
func (w *SlidingWindow) Window() time.Duration { return w.window }

// Cleanup drops state older than one full window. Intended for periodic
// maintenance so idle keys do not accumulate.
func (w *SlidingWindow) Cleanup() int {
	cutoff := w.clock.Now().Add(-w.window)
	return w.store.Cleanup(cutoff)
}

// KeyCount returns the number of subjects currently tracked.
func (w *SlidingWindow) KeyCount() int { return w.store.KeyCount() }

// validTimestamp returns the current time, clamped to never run backwards
// for a given key.
func (w *SlidingWindow) validTimestamp(key string) time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clock.Now()
	if last, ok := w.lastTimestamps[key]; ok && now.Before(last) {
		now = last
	}
	w.lastTimestamps[key] = now
	return now
}
