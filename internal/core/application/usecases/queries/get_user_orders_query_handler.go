package queries

import (
	"context"
	"log/slog"

	"orders/internal/core/application/caching"
	"orders/internal/core/ports"
)

// GetUserOrdersQueryHandler reads one page of a user's orders, cache-aside.
// The cache key carries the user id, page, and limit, so differently-shaped
// pages are cached independently. On a miss the store is queried ordered by
// creation time descending, and the page is cached with the standard TTL.
type GetUserOrdersQueryHandler struct {
	repo   ports.OrderRepository
	cache  ports.Cache
	logger *slog.Logger
}

// NewGetUserOrdersQueryHandler creates a handler for paginated listing reads.
func NewGetUserOrdersQueryHandler(repo ports.OrderRepository, cache ports.Cache, logger *slog.Logger) GetUserOrdersQueryHandler {
	return GetUserOrdersQueryHandler{
		repo:   repo,
		cache:  cache,
		logger: logger.With("component", "get_user_orders_handler"),
	}
}

// Handle executes the listing read.
// Cache failures are logged and degrade to a store read, never surfacing to
// the caller.
func (h GetUserOrdersQueryHandler) Handle(ctx context.Context, query GetUserOrdersQuery) (caching.OrderPage, error) {
	if err := query.Validate(); err != nil {
		return caching.OrderPage{}, err
	}

	key := caching.UserOrdersKey(query.UserID(), query.Page(), query.Limit())

	data, hit, err := h.cache.Get(ctx, key)
	if err != nil {
		h.logger.WarnContext(ctx, "cache read failed, falling back to store", "key", key, "error", err)
	} else if hit {
		page, decodeErr := caching.DecodeOrderPage(data)
		if decodeErr == nil {
			return page, nil
		}
		h.logger.WarnContext(ctx, "cached listing page is undecodable, falling back to store",
			"key", key, "error", decodeErr)
	}

	orders, total, err := h.repo.GetByUser(ctx, query.UserID(), query.Page(), query.Limit())
	if err != nil {
		return caching.OrderPage{}, err
	}

	page := caching.OrderPage{Orders: orders, Total: total}

	encoded, err := caching.EncodeOrderPage(page)
	if err != nil {
		h.logger.WarnContext(ctx, "listing page encoding failed", "key", key, "error", err)
		return page, nil
	}
	if err := h.cache.Set(ctx, key, encoded, caching.TTL); err != nil {
		h.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}

	return page, nil
}
