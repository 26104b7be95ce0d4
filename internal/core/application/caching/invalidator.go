package caching

import (
	"context"
	"log/slog"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/ports"
)

// Invalidator removes cached order reads after a successful write.
// All operations are best-effort: failures are logged and swallowed, since a
// missed invalidation only means staleness until the TTL expires, while a
// surfaced error would fail an already-committed write.
type Invalidator struct {
	cache  ports.Cache
	logger *slog.Logger
}

// NewInvalidator creates an invalidator over the given cache backend.
func NewInvalidator(cache ports.Cache, logger *slog.Logger) *Invalidator {
	return &Invalidator{
		cache:  cache,
		logger: logger.With("component", "order_cache"),
	}
}

// InvalidateOrder removes the single-order cache entry.
func (inv *Invalidator) InvalidateOrder(ctx context.Context, id kernel.UUID) {
	if err := inv.cache.Del(ctx, OrderKey(id)); err != nil {
		inv.logger.WarnContext(ctx, "order cache invalidation failed", "orderId", id, "error", err)
	}
}

// InvalidateUserOrders removes every cached listing page of the given user.
//
// Requires the cache backend to support prefix scans (ports.PrefixScanner).
// On backends without that capability this is a no-op: stale listing pages
// persist until their TTL expires. This is an accepted weakness, not a crash.
func (inv *Invalidator) InvalidateUserOrders(ctx context.Context, userID kernel.UUID) {
	scanner, ok := inv.cache.(ports.PrefixScanner)
	if !ok {
		inv.logger.DebugContext(ctx, "cache backend has no prefix scan, skipping listing invalidation",
			"userId", userID)
		return
	}

	prefix := UserOrdersPrefix(userID)
	keys, err := scanner.ScanPrefix(ctx, prefix)
	if err != nil {
		inv.logger.WarnContext(ctx, "listing cache scan failed", "prefix", prefix, "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}

	if err := inv.cache.Del(ctx, keys...); err != nil {
		inv.logger.WarnContext(ctx, "listing cache invalidation failed", "prefix", prefix, "error", err)
	}
}
