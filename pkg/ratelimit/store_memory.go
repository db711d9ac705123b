package ratelimit

import (
	"sync"
	"time"
)

// defaultMaxKeys bounds the number of tracked subjects so a stream of
// one-shot keys cannot grow memory without limit.
const defaultMaxKeys = 10000

// InMemoryStore is a thread-safe in-memory timestamp store for the sliding
// window algorithm. It tracks request timestamps per key and prunes entries
// older than the window cutoff on every access, so memory per key is
// bounded by the limit itself.
type InMemoryStore struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	maxKeys  int
}

// NewInMemoryStore creates an empty store. maxKeys bounds the number of
// distinct keys; a non-positive value applies the default (10000).
func NewInMemoryStore(maxKeys int) *InMemoryStore {
	if maxKeys <= 0 {
		maxKeys = defaultMaxKeys
	}
	return &InMemoryStore{
		requests: make(map[string][]time.Time),
		maxKeys:  maxKeys,
	}
}

// CheckAndAdd atomically counts the requests for key after cutoff and, if
// the count is below limit, records the new timestamp. It returns whether
// the request was admitted, the in-window count including the current
// attempt, and the oldest in-window timestamp (zero when none).
//
// The check and the insert happen under one lock acquisition so two
// concurrent callers cannot both slip under the limit.
func (s *InMemoryStore) CheckAndAdd(key string, now, cutoff time.Time, limit int) (allowed bool, count int, oldest time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := pruneBefore(s.requests[key], cutoff)

	if len(live) >= limit {
		s.requests[key] = live
		if len(live) > 0 {
			oldest = live[0]
		}
		return false, len(live) + 1, oldest
	}

	if _, exists := s.requests[key]; !exists && len(s.requests) >= s.maxKeys {
		s.evictStalestLocked(cutoff)
	}

	live = append(live, now)
	s.requests[key] = live
	return true, len(live), live[0]
}

// CountSince returns how many requests for key happened after cutoff.
func (s *InMemoryStore) CountSince(key string, cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := pruneBefore(s.requests[key], cutoff)
	s.requests[key] = live
	return len(live)
}

// Cleanup drops timestamps older than cutoff for every key and removes
// keys that end up empty. Returns the number of keys removed.
func (s *InMemoryStore) Cleanup(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, ts := range s.requests {
		live := pruneBefore(ts, cutoff)
		if len(live) == 0 {
			delete(s.requests, key)
			removed++
			continue
		}
		s.requests[key] = live
	}
	return removed
}

// KeyCount returns the number of keys currently tracked.
func (s *InMemoryStore) KeyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// evictStalestLocked removes the key whose newest timestamp is oldest.
// Keys fully outside the window go first. Caller must hold s.mu.
func (s *InMemoryStore) evictStalestLocked(cutoff time.Time) {
	var victim string
	var victimNewest time.Time
	for key, ts := range s.requests {
		if len(ts) == 0 {
			victim = key
			break
		}
		newest := ts[len(ts)-1]
		if victim == "" || newest.Before(victimNewest) {
			victim = key
			victimNewest = newest
		}
	}
	if victim != "" {
		delete(s.requests, victim)
	}
}

// pruneBefore returns the suffix of ts at or after cutoff. Timestamps are
// appended in arrival order, so a linear scan from the front suffices.
func pruneBefore(ts []time.Time, cutoff time.Time) []time.Time {
	idx := 0
	for idx < len(ts) && ts[idx].Before(cutoff) {
		idx++
	}
	if idx == 0 {
		return ts
	}
	return append([]time.Time(nil), ts[idx:]...)
}
