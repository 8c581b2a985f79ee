// Package cache provides a small bounded TTL cache used for search results
// and cursor decoding. Eviction is advisory: a miss only costs recomputation,
// never correctness.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache is a bounded, TTL-based key/value cache. Safe for concurrent use.
// Each engine instance owns its caches; there is no module-level state.
type Cache[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

// New creates a cache holding at most capacity entries, each expiring after
// ttl. A non-positive ttl disables expiry.
func New[K comparable, V any](capacity int, ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		lru: expirable.NewLRU[K, V](capacity, nil, ttl),
	}
}

// Get returns the value for key if present and not expired.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.lru.Get(key)
}

// Set stores a value under key, evicting the oldest entry when full.
func (c *Cache[K, V]) Set(key K, value V) {
	c.lru.Add(key, value)
}

// Len returns the number of live entries.
func (c *Cache[K, V]) Len() int {
	return c.lru.Len()
}

// Purge drops all entries.
func (c *Cache[K, V]) Purge() {
	c.lru.Purge()
}
