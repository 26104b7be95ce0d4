package ports

import (
	"context"
	"time"
)

// Cache defines the key/value contract used for cache-aside reads.
// Implementations must be safe for concurrent use. Values are opaque byte
// slices; the caller owns serialization.
type Cache interface {
	// Get returns the value stored under key, or (nil, false, nil) on a miss.
	// An error indicates a backend failure, not a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key with the given time-to-live.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Del removes the given keys. Deleting an absent key is not an error.
	Del(ctx context.Context, keys ...string) error
}

// PrefixScanner is an optional capability of cache backends that can enumerate
// keys by prefix. Invalidation of a user's paginated listings requires it;
// callers must treat its absence (a failed type assertion on the Cache) as a
// no-op, accepting that stale listings persist until their TTL expires.
type PrefixScanner interface {
	// ScanPrefix returns every key currently stored under the given prefix.
	// Best-effort: keys written concurrently with the scan may be missed.
	ScanPrefix(ctx context.Context, prefix string) ([]string, error)
}
