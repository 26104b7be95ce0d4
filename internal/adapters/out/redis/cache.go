// Package redis provides the Redis-backed cache adapter. It implements both
// the plain key-value cache contract and the prefix scan capability used for
// listing invalidation.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin adapter over a Redis client. All methods map one-to-one to
// Redis commands; TTL handling and key naming live with the callers.
type Cache struct {
	client *redis.Client
}

// NewCache creates a cache adapter over the given Redis client.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get returns the value stored under key. A missing key is not an error: the
// second return value reports whether the key was present.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// Set stores value under key with the given expiration.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Del removes the given keys. Missing keys are ignored.
func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// ScanPrefix returns all keys starting with prefix. Uses SCAN rather than
// KEYS so large keyspaces are walked without blocking the server.
func (c *Cache) ScanPrefix(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := c.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
