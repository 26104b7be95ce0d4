package queries

import (
	"context"

	"orders/internal/core/ports"
)

// GetOrderStatsQueryHandler returns order counts and summed total amounts
// grouped by status. Statistics reads are never cached: freshness matters
// more than latency here, and the aggregation is cheap at the store.
type GetOrderStatsQueryHandler struct {
	repo ports.OrderRepository
}

// NewGetOrderStatsQueryHandler creates a handler for statistics reads.
func NewGetOrderStatsQueryHandler(repo ports.OrderRepository) GetOrderStatsQueryHandler {
	return GetOrderStatsQueryHandler{repo: repo}
}

// Handle executes the aggregation, optionally scoped to one user.
func (h GetOrderStatsQueryHandler) Handle(ctx context.Context, query GetOrderStatsQuery) ([]ports.StatusStat, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.repo.GetStats(ctx, query.UserID())
}
