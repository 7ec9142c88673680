package dedup

import (
	"sync"
	"time"
)

// DefaultTTL is the lifetime of a cache entry when none is configured.
const DefaultTTL = 5 * time.Minute

type entry[T any] struct {
	value   T
	created time.Time
}

// Cache stores values for a fixed time-to-live. Expired entries are
// evicted when read.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache with the given TTL. A non-positive TTL uses
// DefaultTTL.
func NewCache[T any](ttl time.Duration) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[T]{value: value, created: c.now()}
}

func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}

	if c.now().Sub(e.created) > c.ttl {
		delete(c.entries, key)
		var zero T
		return zero, false
	}

	return e.value, true
}

func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry[T])
}
