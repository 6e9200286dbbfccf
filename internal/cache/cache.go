// Package cache provides a bounded key/value store with time-to-live expiry
// and insertion-order eviction.
//
// Eviction under capacity pressure removes the oldest still-live key in
// insertion order. Overwriting an existing key refreshes its value and
// timestamp but keeps its position, so the cache behaves as FIFO-with-TTL
// rather than true LRU. Reads never update recency.
package cache

import (
	"sync"
	"time"
)

// entry holds a stored value and the time it was inserted.
type entry[V any] struct {
	value      V
	insertedAt time.Time
}

// slot is one position in the insertion-order sequence. Removed keys leave
// a tombstone behind until the next compaction.
type slot[K comparable] struct {
	key  K
	dead bool
}

// Config controls cache capacity and expiry behavior.
type Config struct {
	// MaxSize is the maximum number of live entries. Values < 1 are
	// clamped to 1.
	MaxSize int

	// TTL is the maximum entry age. Entries older than TTL are treated
	// as absent. TTL <= 0 means every entry is already expired on read.
	TTL time.Duration

	// Now supplies the current time. Defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		MaxSize: 128,
		TTL:     time.Minute,
	}
}

// Cache is a bounded key/value store with TTL expiry and FIFO eviction.
//
// Expired entries are removed lazily on Get; GC performs an explicit sweep
// for low-frequency triggers. Clear empties the cache in place so every
// holder of the same instance observes the emptied state.
type Cache[K comparable, V any] struct {
	mu sync.Mutex

	entries map[K]entry[V]
	order   []slot[K]
	index   map[K]int

	maxSize int
	ttl     time.Duration
	now     func() time.Time

	// Stats counters.
	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64
	compactions uint64
}

// New creates a cache with the given configuration.
func New[K comparable, V any](cfg Config) *Cache[K, V] {
	if cfg.MaxSize < 1 {
		cfg.MaxSize = 1
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Cache[K, V]{
		entries: make(map[K]entry[V]),
		order:   make([]slot[K], 0, cfg.MaxSize),
		index:   make(map[K]int),
		maxSize: cfg.MaxSize,
		ttl:     cfg.TTL,
		now:     cfg.Now,
	}
}

// Get returns the value stored under key. An absent key and an expired key
// both report a miss; an expired entry is deleted before returning.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return zero, false
	}

	if c.expiredLocked(e, c.now()) {
		c.removeLocked(key)
		c.expirations++
		c.misses++
		return zero, false
	}

	c.hits++
	return e.value, true
}

// Set stores value under key. An existing key is overwritten in place with
// a fresh timestamp and keeps its insertion-order position. Inserting a new
// key at capacity first evicts the oldest still-live key.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry[V]{value: value, insertedAt: now}
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldestLocked()
	}

	c.entries[key] = entry[V]{value: value, insertedAt: now}
	c.order = append(c.order, slot[K]{key: key})
	c.index[key] = len(c.order) - 1

	if len(c.order) > 2*c.maxSize {
		c.compactLocked()
	}
}

// Delete removes key if present.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeLocked(key)
}

// GC sweeps out every expired entry and compacts the order sequence if the
// sweep removed anything. Intended for low-frequency triggers (focus lost,
// periodic timer), not the hot path.
func (c *Cache[K, V]) GC() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if c.expiredLocked(e, now) {
			c.removeLocked(key)
			removed++
		}
	}
	if removed > 0 {
		c.expirations += uint64(removed)
		c.compactLocked()
	}
	return removed
}

// Clear empties the cache in place. Holders sharing this instance observe
// the same emptied state; internal structures are reused, not reassigned.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	clear(c.index)
	c.order = c.order[:0]
}

// Len returns the number of stored entries, including entries that have
// expired but not yet been removed by a read or a sweep.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// expiredLocked reports whether e is past its TTL at the given time.
func (c *Cache[K, V]) expiredLocked(e entry[V], now time.Time) bool {
	if c.ttl <= 0 {
		return true
	}
	return now.Sub(e.insertedAt) > c.ttl
}

// removeLocked deletes key from the entry map and tombstones its order slot.
func (c *Cache[K, V]) removeLocked(key K) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	if pos, ok := c.index[key]; ok {
		c.order[pos].dead = true
		delete(c.index, key)
	}
}

// evictOldestLocked removes the first non-tombstoned key in insertion order.
func (c *Cache[K, V]) evictOldestLocked() {
	for i := range c.order {
		if c.order[i].dead {
			continue
		}
		c.removeLocked(c.order[i].key)
		c.evictions++
		return
	}
}

// compactLocked rebuilds the order sequence and position index with only
// live keys, preserving relative insertion order.
func (c *Cache[K, V]) compactLocked() {
	live := c.order[:0]
	for _, s := range c.order {
		if s.dead {
			continue
		}
		c.index[s.key] = len(live)
		live = append(live, s)
	}
	c.order = live
	c.compactions++
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Size:        len(c.entries),
		MaxSize:     c.maxSize,
		OrderLen:    len(c.order),
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		Expirations: c.expirations,
		Compactions: c.compactions,
		HitRate:     hitRate,
	}
}

// Stats holds cache statistics.
type Stats struct {
	Size        int
	MaxSize     int
	OrderLen    int
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Expirations uint64
	Compactions uint64
	HitRate     float64
}
