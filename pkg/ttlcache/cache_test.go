package ttlcache_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"newsagent/pkg/ttlcache"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 7, 17, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCache_GetSet(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := ttlcache.New[string]("test", 10*time.Minute, 100, ttlcache.WithClock[string](clock.Now))

	if _, ok := c.Get("missing"); ok {
		t.Fatal("Get on empty cache returned a value")
	}

	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("Get(k) = %q, %v; want \"v\", true", got, ok)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit / 1 miss", stats)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := ttlcache.New[int]("test", 10*time.Minute, 100, ttlcache.WithClock[int](clock.Now))

	c.Set("k", 1)
	clock.Advance(9 * time.Minute)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired before TTL elapsed")
	}

	clock.Advance(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry survived past TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not removed on access, len = %d", c.Len())
	}
}

func TestCache_CapacityEviction(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := ttlcache.New[int]("test", time.Hour, 100, ttlcache.WithClock[int](clock.Now))

	// Insert 101 entries with strictly increasing timestamps. Crossing the
	// capacity bound must drop the oldest 20% (20 entries).
	for i := 0; i <= 100; i++ {
		c.Set(fmt.Sprintf("key-%03d", i), i)
		clock.Advance(time.Second)
	}

	if got := c.Len(); got != 81 {
		t.Fatalf("len after eviction = %d, want 81", got)
	}

	// Oldest entries gone, newest retained.
	if _, ok := c.Get("key-000"); ok {
		t.Error("oldest entry survived eviction")
	}
	if _, ok := c.Get("key-019"); ok {
		t.Error("entry inside oldest 20% survived eviction")
	}
	if _, ok := c.Get("key-020"); !ok {
		t.Error("entry just outside oldest 20% was evicted")
	}
	if _, ok := c.Get("key-100"); !ok {
		t.Error("newest entry was evicted")
	}
	if got := c.Stats().Evictions; got != 20 {
		t.Errorf("evictions = %d, want 20", got)
	}
}

func TestCache_Sweep(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := ttlcache.New[int]("test", 10*time.Minute, 100, ttlcache.WithClock[int](clock.Now))

	c.Set("old", 1)
	clock.Advance(11 * time.Minute)
	c.Set("fresh", 2)

	if removed := c.Sweep(); removed != 1 {
		t.Fatalf("Sweep() = %d, want 1", removed)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("Sweep removed a live entry")
	}
}

func TestCache_ClearAndDelete(t *testing.T) {
	t.Parallel()

	c := ttlcache.New[int]("test", time.Hour, 100)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("Delete left the entry behind")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Clear left %d entries", c.Len())
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := ttlcache.New[int]("test", time.Hour, 50)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("key-%d", i%60)
				c.Set(key, g)
				c.Get(key)
				if i%50 == 0 {
					c.Sweep()
				}
			}
		}(g)
	}
	wg.Wait()

	// The structure must survive concurrent churn; exact contents are
	// unspecified because duplicate computation is allowed.
	if c.Len() > 60 {
		t.Errorf("len = %d, want <= 60", c.Len())
	}
}
