// Package cache provides a TTL-keyed memoization cache for remote query
// results. Eviction is time-based only; growth is bounded by the number of
// distinct (country, city, category, radius) combinations actually visited.
package cache

import (
	"strings"
	"sync"
	"time"
)

// Cache memoizes computed values by string key until their TTL elapses.
// The clock is injectable so expiry can be unit-tested without sleeping.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Option configures the cache.
type Option func(*Cache)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Key joins request signature parts into a cache key.
func Key(parts ...string) string {
	return strings.Join(parts, "|")
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge removes expired entries and reports how many were dropped.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	dropped := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			dropped++
		}
	}
	return dropped
}

func (c *Cache) lookup(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) store(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
}

// GetOrCompute returns the cached value for key, or invokes fn, stores its
// result, and returns it. Within a TTL window at most one fresh computation
// happens per key; simultaneous first-time callers may each compute once
// (acceptable for a low-concurrency interactive workload). A failed fn is
// not cached, so the next call retries.
func GetOrCompute[T any](c *Cache, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	if cached, ok := c.lookup(key); ok {
		if value, matches := cached.(T); matches {
			return value, nil
		}
	}

	value, err := fn()
	if err != nil {
		var zero T
		return zero, err
	}
	c.store(key, value, ttl)
	return value, nil
}
