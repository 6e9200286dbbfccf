package cache

import (
	"fmt"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestCache(maxSize int, ttl time.Duration, clk *fakeClock) *Cache[string, int] {
	return New[string, int](Config{
		MaxSize: maxSize,
		TTL:     ttl,
		Now:     clk.Now,
	})
}

func TestCache_GetAfterSet(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(4, time.Second, clk)

	c.Set("a", 1)
	v, ok := c.Get("a")
	if !ok {
		t.Fatal("expected hit immediately after Set")
	}
	if v != 1 {
		t.Errorf("Get = %d, want 1", v)
	}
}

func TestCache_MissOnAbsentKey(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(4, time.Second, clk)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestCache_ZeroTTLAlwaysMisses(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(4, 0, clk)

	c.Set("a", 1)
	if _, ok := c.Get("a"); ok {
		t.Error("expected miss with zero TTL")
	}
}

func TestCache_LazyExpiryOnGet(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(4, time.Second, clk)

	c.Set("a", 1)
	clk.Advance(1001 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after TTL elapsed, without GC")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0 after lazy removal", c.Len())
	}
}

func TestCache_BoundedAfterEverySet(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(3, time.Minute, clk)

	for i := 0; i < 50; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
		if c.Len() > 3 {
			t.Fatalf("Len = %d after set %d, want <= 3", c.Len(), i)
		}
	}
}

func TestCache_FIFOEviction(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(2, time.Minute, clk)

	c.Set("a", 1)
	c.Set("b", 2)

	// Reading "a" must not protect it from eviction; this is not an LRU.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected hit for a")
	}

	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Error("expected first-inserted key evicted")
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Errorf("Get(b) = %d, %v, want 2, true", v, ok)
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("Get(c) = %d, %v, want 3, true", v, ok)
	}
}

func TestCache_OverwriteKeepsOrderPosition(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(2, time.Minute, clk)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10) // overwrite, no reorder

	c.Set("c", 3) // forces eviction

	// "a" is still oldest by insertion order despite the overwrite.
	if _, ok := c.Get("a"); ok {
		t.Error("expected a evicted: overwrite must not refresh order position")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("expected b to survive")
	}
}

func TestCache_OverwriteRefreshesTimestamp(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(4, time.Second, clk)

	c.Set("a", 1)
	clk.Advance(900 * time.Millisecond)
	c.Set("a", 2)
	clk.Advance(900 * time.Millisecond)

	v, ok := c.Get("a")
	if !ok {
		t.Fatal("expected hit: overwrite refreshed the timestamp")
	}
	if v != 2 {
		t.Errorf("Get = %d, want 2", v)
	}
}

func TestCache_EvictionSkipsTombstones(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(2, time.Minute, clk)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a") // tombstones slot 0

	c.Set("c", 3)
	c.Set("d", 4) // capacity again: oldest live is b

	if _, ok := c.Get("b"); ok {
		t.Error("expected b evicted as oldest live key")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected c to survive")
	}
	if _, ok := c.Get("d"); !ok {
		t.Error("expected d to survive")
	}
}

func TestCache_Scenario(t *testing.T) {
	// maxSize=2, ttl=1000ms: set a@0, b@10, c@20; a is evicted;
	// at t=1100 b has expired.
	clk := newFakeClock()
	c := newTestCache(2, time.Second, clk)

	c.Set("a", 1)
	clk.Advance(10 * time.Millisecond)
	c.Set("b", 2)
	clk.Advance(10 * time.Millisecond)
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Error("expected a evicted")
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Errorf("Get(b) = %d, %v, want 2, true", v, ok)
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("Get(c) = %d, %v, want 3, true", v, ok)
	}

	clk.Advance(1080 * time.Millisecond) // t = 1100
	if _, ok := c.Get("b"); ok {
		t.Error("expected b expired at t=1100")
	}
}

func TestCache_GC(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(8, time.Second, clk)

	c.Set("a", 1)
	c.Set("b", 2)
	clk.Advance(500 * time.Millisecond)
	c.Set("c", 3)
	clk.Advance(600 * time.Millisecond)

	removed := c.GC()
	if removed != 2 {
		t.Errorf("GC removed %d, want 2", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected c to survive the sweep")
	}

	// Sweep compacts: no tombstones remain.
	if got := c.Stats().OrderLen; got != 1 {
		t.Errorf("OrderLen = %d after GC, want 1", got)
	}
}

func TestCache_Clear(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(4, time.Minute, clk)

	c.Set("a", 1)
	c.Set("b", 2)

	// A second holder of the same instance must observe the cleared state.
	holder := c
	c.Clear()

	if holder.Len() != 0 {
		t.Errorf("Len = %d after Clear, want 0", holder.Len())
	}
	if _, ok := holder.Get("a"); ok {
		t.Error("expected miss after Clear")
	}

	// Cache remains usable.
	c.Set("x", 9)
	if v, ok := c.Get("x"); !ok || v != 9 {
		t.Errorf("Get(x) = %d, %v, want 9, true", v, ok)
	}
}

func TestCache_CompactionBound(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(4, time.Minute, clk)

	// Churn enough distinct keys to repeatedly trip the 2x compaction
	// threshold; the order sequence must stay bounded.
	for i := 0; i < 200; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
		if got := c.Stats().OrderLen; got > 2*4+1 {
			t.Fatalf("OrderLen = %d at set %d, want <= %d", got, i, 2*4+1)
		}
	}
	if c.Stats().Compactions == 0 {
		t.Error("expected at least one compaction under churn")
	}
}

func TestCache_StatsCounters(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(2, time.Second, clk)

	c.Set("a", 1)
	c.Get("a")       // hit
	c.Get("missing") // miss
	c.Set("b", 2)
	c.Set("c", 3) // evicts a

	s := c.Stats()
	if s.Hits != 1 {
		t.Errorf("Hits = %d, want 1", s.Hits)
	}
	if s.Misses != 1 {
		t.Errorf("Misses = %d, want 1", s.Misses)
	}
	if s.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", s.Evictions)
	}
	if s.HitRate != 0.5 {
		t.Errorf("HitRate = %v, want 0.5", s.HitRate)
	}
}
