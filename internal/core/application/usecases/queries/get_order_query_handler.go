package queries

import (
	"context"

	"orders/internal/core/application/caching"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
)

// GetOrderQueryHandler reads a single order through the shared cache-aside
// loader: a warm cache serves the read without touching the store; a miss
// loads the order with items attached and populates the cache with the
// standard TTL. Two consecutive reads of the same id return equal data.
type GetOrderQueryHandler struct {
	repo   ports.OrderRepository
	loader *caching.OrderLoader
}

// NewGetOrderQueryHandler creates a handler for single-order reads.
func NewGetOrderQueryHandler(repo ports.OrderRepository, loader *caching.OrderLoader) GetOrderQueryHandler {
	return GetOrderQueryHandler{
		repo:   repo,
		loader: loader,
	}
}

// Handle executes the read. Returns ObjectNotFoundError for unknown ids.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.loader.Load(ctx, h.repo, query.OrderID())
}
