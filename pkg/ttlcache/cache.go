// Package ttlcache provides a bounded in-memory cache with per-entry TTL
// expiry and capacity-based eviction. It is framework-agnostic and safe for
// concurrent use; the recommendation pipeline shares one instance per cache
// tier (candidates, scores, recommendations).
package ttlcache

import (
	"sort"
	"sync"
	"time"
)

// evictFraction is the share of entries removed (oldest first) when the
// cache grows past its capacity bound.
const evictFraction = 0.2

// Stats is a point-in-time snapshot of one cache's counters.
type Stats struct {
	Name      string  `json:"name"`
	Size      int     `json:"size"`
	Capacity  int     `json:"capacity"`
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Evictions uint64  `json:"evictions"`
	HitRate   float64 `json:"hit_rate"`
}

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is a bounded TTL cache keyed by string.
//
// Every entry records its insertion time; a Get after the TTL elapses is a
// miss and removes the entry. When Set pushes the entry count past the
// capacity, the oldest fifth of entries by insertion time is evicted. This
// is deliberate insertion-order eviction, not LRU: reads do not refresh an
// entry's position.
type Cache[V any] struct {
	mu       sync.RWMutex
	name     string
	ttl      time.Duration
	capacity int
	entries  map[string]entry[V]
	now      func() time.Time

	hits      uint64
	misses    uint64
	evictions uint64
}

// Option configures optional cache behavior.
type Option[V any] func(*Cache[V])

// WithClock overrides the time source. Intended for tests.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) { c.now = now }
}

// New creates a cache with the given display name, entry TTL and capacity
// bound. A non-positive capacity disables capacity eviction.
func New[V any](name string, ttl time.Duration, capacity int, opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		name:     name,
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[string]entry[V]),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the live value for key. Expired entries count as misses and
// are removed on access.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return zero, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		c.misses++
		return zero, false
	}
	c.hits++
	return e.value, true
}

// Set stores value under key, stamping it with the current time. If the
// entry count exceeds the capacity bound afterwards, the oldest 20% of
// entries is evicted.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, storedAt: c.now()}

	if c.capacity > 0 && len(c.entries) > c.capacity {
		c.evictOldestLocked()
	}
}

// evictOldestLocked removes the oldest evictFraction of entries by
// insertion timestamp. Caller must hold c.mu.
func (c *Cache[V]) evictOldestLocked() {
	n := int(float64(len(c.entries)) * evictFraction)
	if n < 1 {
		n = 1
	}

	type aged struct {
		key      string
		storedAt time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{key: k, storedAt: e.storedAt})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].storedAt.Equal(all[j].storedAt) {
			return all[i].key < all[j].key
		}
		return all[i].storedAt.Before(all[j].storedAt)
	})
	for _, a := range all[:n] {
		delete(c.entries, a.key)
		c.evictions++
	}
}

// Delete removes key if present.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes every entry. Counters are kept.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Sweep removes expired entries and returns how many were dropped.
// Intended to be run periodically by a maintenance job so abandoned keys
// do not linger until their next Get.
func (c *Cache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the current entry count.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Name returns the cache's display name.
func (c *Cache[V]) Name() string { return c.name }

// Stats returns a snapshot of the cache's counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	rate := 0.0
	if total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return Stats{
		Name:      c.name,
		Size:      len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   rate,
	}
}
