// Package cache provides bounded, expiring in-memory response caches.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/sureshchouksey8/MOVIERATINGS/pkg/metrics"
)

const (
	defaultSize = 500
	defaultTTL  = 5 * time.Minute
)

// Option configures a Cache.
type Option func(*settings)

type settings struct {
	size int
	ttl  time.Duration
}

// WithSize bounds the number of entries. Zero disables the cache.
func WithSize(n int) Option {
	return func(s *settings) {
		if n >= 0 {
			s.size = n
		}
	}
}

// WithTTL sets the entry lifetime. Zero means entries never expire.
func WithTTL(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.ttl = d
		}
	}
}

// Cache is an LRU with per-entry expiry. It is safe for concurrent use.
// A disabled cache (size 0) misses every lookup and drops every write.
type Cache[V any] struct {
	name string
	lru  *expirable.LRU[string, V]
}

// New creates a named cache; the name labels its metrics.
func New[V any](name string, opts ...Option) *Cache[V] {
	s := settings{size: defaultSize, ttl: defaultTTL}
	for _, opt := range opts {
		opt(&s)
	}
	c := &Cache[V]{name: name}
	if s.size > 0 {
		// The eviction callback runs under the LRU lock, so gauges are
		// refreshed from Add instead.
		c.lru = expirable.NewLRU[string, V](s.size, nil, s.ttl)
	}
	return c
}

// Name returns the metrics label.
func (c *Cache[V]) Name() string { return c.name }

// Get returns a live entry.
func (c *Cache[V]) Get(key string) (V, bool) {
	if c.lru == nil {
		var zero V
		return zero, false
	}
	v, ok := c.lru.Get(key)
	if ok {
		metrics.RecordCacheHit(c.name)
	} else {
		metrics.RecordCacheMiss(c.name)
	}
	return v, ok
}

// Contains reports presence without touching recency or metrics.
func (c *Cache[V]) Contains(key string) bool {
	return c.lru != nil && c.lru.Contains(key)
}

// Add stores v, evicting the least recently used entry when full.
func (c *Cache[V]) Add(key string, v V) {
	if c.lru == nil {
		return
	}
	c.lru.Add(key, v)
	metrics.UpdateCacheEntries(c.name, c.lru.Len())
}

// Len returns the number of live entries.
func (c *Cache[V]) Len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
