package utils

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// -----------------------------------------------------------------------------
// TTLCache is a size-bounded LRU whose entries carry an absolute expiry time.
// Expired entries are treated as misses and evicted on read.
// -----------------------------------------------------------------------------

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

type TTLCache[K comparable, V any] struct {
	entries *lru.Cache[K, cacheEntry[V]]
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
	hits    int
	misses  int
}

// -----------------------------------------------------------------------------

func NewTTLCache[K comparable, V any](size int, ttl time.Duration) (*TTLCache[K, V], error) {
	if size <= 0 {
		size = 128
	}
	entries, err := lru.New[K, cacheEntry[V]](size)
	if err != nil {
		return nil, err
	}
	return &TTLCache[K, V]{entries: entries, ttl: ttl, now: time.Now}, nil
}

// -----------------------------------------------------------------------------

// SetClock replaces the time source (tests).
func (c *TTLCache[K, V]) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// -----------------------------------------------------------------------------

// Get returns the cached value if present and not expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	entry, ok := c.entries.Get(key)
	if !ok {
		c.misses++
		return zero, false
	}
	if !c.now().Before(entry.expiresAt) {
		c.entries.Remove(key)
		c.misses++
		return zero, false
	}
	c.hits++
	return entry.value, true
}

// -----------------------------------------------------------------------------

// Put stores value with expiry now+ttl. A non-positive ttl disables caching.
func (c *TTLCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl <= 0 {
		return
	}
	c.entries.Add(key, cacheEntry[V]{value: value, expiresAt: c.now().Add(c.ttl)})
}

// -----------------------------------------------------------------------------

func (c *TTLCache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Remove(key)
}

// Stats returns hit and miss counters.
func (c *TTLCache[K, V]) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
