// Package memory provides an in-process cache adapter. It backs unit tests
// and cache-less local runs; production deployments use the redis adapter.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Cache is a thread-safe in-memory key/value store with per-key TTL.
// It implements both ports.Cache and ports.PrefixScanner, so listing
// invalidation behaves the same as against redis.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewCache creates an empty in-memory cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]entry),
	}
}

// Get returns the value stored under key, or a miss if the key is absent or
// its TTL has lapsed. Expired entries are removed lazily on read.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}

	value := make([]byte, len(e.value))
	copy(value, e.value)
	return value, true, nil
}

// Set stores value under key with the given time-to-live.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	c.entries[key] = entry{value: stored, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Del removes the given keys. Absent keys are ignored.
func (c *Cache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	return nil
}

// ScanPrefix returns every live key stored under the given prefix.
func (c *Cache) ScanPrefix(_ context.Context, prefix string) ([]string, error) {
	now := time.Now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0)
	for key, e := range c.entries {
		if strings.HasPrefix(key, prefix) && now.Before(e.expiresAt) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Len returns the number of stored entries, including not-yet-collected
// expired ones. Intended for tests.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
