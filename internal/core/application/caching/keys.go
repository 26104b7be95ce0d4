// Package caching provides the cache glue for order reads: key layout, the
// snapshot codec used as the single serialization boundary between domain
// orders and cache values, the shared cache-aside loader, and invalidation.
//
// The cache is strictly an optimization. Every function in this package
// degrades to store reads (or to a no-op, for prefix invalidation on backends
// without scan support) when the cache misbehaves; cache failures are logged
// and never surface to callers as errors.
package caching

import (
	"fmt"
	"time"

	"orders/internal/core/domain/model/kernel"
)

// TTL is the lifetime of every cached order read. Stale entries that escape
// invalidation (e.g. on backends without prefix scans) expire after this long.
const TTL = 300 * time.Second

// OrderKey returns the cache key of a single order.
func OrderKey(id kernel.UUID) string {
	return "order:" + id.String()
}

// UserOrdersKey returns the cache key of one page of a user's order listing.
// Page and limit are part of the key so differently-shaped pages never collide.
func UserOrdersKey(userID kernel.UUID, page, limit int) string {
	return fmt.Sprintf("%spage:%d:limit:%d", UserOrdersPrefix(userID), page, limit)
}

// UserOrdersPrefix returns the key prefix shared by all cached listing pages
// of one user. Invalidation scans this prefix.
func UserOrdersPrefix(userID kernel.UUID) string {
	return "orders:user:" + userID.String() + ":"
}
