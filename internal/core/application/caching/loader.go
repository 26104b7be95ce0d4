package caching

import (
	"context"
	"log/slog"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
)

// OrderLoader performs the cache-aside read of a single order, shared by the
// order query and the status update command so both see the same cache.
//
// On a hit the cached snapshot is returned without touching the store. On a
// miss the order is loaded from the repository with items attached and the
// cache is populated for subsequent reads. Concurrent misses race to populate
// the cache; the writes are idempotent overwrites of identical data, so no
// read lock is taken.
type OrderLoader struct {
	cache  ports.Cache
	logger *slog.Logger
}

// NewOrderLoader creates a loader over the given cache backend.
func NewOrderLoader(cache ports.Cache, logger *slog.Logger) *OrderLoader {
	return &OrderLoader{
		cache:  cache,
		logger: logger.With("component", "order_cache"),
	}
}

// Load returns the order with the given id, serving it from the cache when
// possible and falling back to the repository otherwise.
//
// Cache failures (backend errors, undecodable snapshots) are logged and
// treated as misses. Repository errors, including ObjectNotFoundError for
// unknown ids, propagate to the caller.
func (l *OrderLoader) Load(ctx context.Context, repo ports.OrderRepository, id kernel.UUID) (*order.Order, error) {
	key := OrderKey(id)

	data, hit, err := l.cache.Get(ctx, key)
	if err != nil {
		l.logger.WarnContext(ctx, "cache read failed, falling back to store", "key", key, "error", err)
	} else if hit {
		aggregate, decodeErr := DecodeOrder(data)
		if decodeErr == nil {
			return aggregate, nil
		}
		l.logger.WarnContext(ctx, "cached order snapshot is undecodable, falling back to store",
			"key", key, "error", decodeErr)
	}

	aggregate, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	l.Store(ctx, aggregate)
	return aggregate, nil
}

// Store writes the order snapshot to the cache with the standard TTL.
// Best-effort: failures are logged, never returned.
func (l *OrderLoader) Store(ctx context.Context, aggregate *order.Order) {
	data, err := EncodeOrder(aggregate)
	if err != nil {
		l.logger.WarnContext(ctx, "order snapshot encoding failed", "orderId", aggregate.ID(), "error", err)
		return
	}
	if err := l.cache.Set(ctx, OrderKey(aggregate.ID()), data, TTL); err != nil {
		l.logger.WarnContext(ctx, "cache write failed", "orderId", aggregate.ID(), "error", err)
	}
}
