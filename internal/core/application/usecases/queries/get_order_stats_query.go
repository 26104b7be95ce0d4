package queries

import (
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/guard"
)

var (
	ErrGetOrderStatsQueryIsNotConstructed = errors.New(
		"GetOrderStatsQuery must be created via NewGetOrderStatsQuery constructor",
	)
)

// GetOrderStatsQuery represents a request for order counts and summed totals
// grouped by status, optionally scoped to a single user.
type GetOrderStatsQuery struct { //nolint:recvcheck //using for validation
	userID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderStatsQuery creates a statistics query over all users.
func NewGetOrderStatsQuery() GetOrderStatsQuery {
	return GetOrderStatsQuery{
		guard: guard.NewConstructorGuard(),
	}
}

// NewGetUserOrderStatsQuery creates a statistics query scoped to one user.
func NewGetUserOrderStatsQuery(userID kernel.UUID) (GetOrderStatsQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetOrderStatsQuery{}, err
	}
	return GetOrderStatsQuery{
		userID: &userID,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through a constructor.
func (q GetOrderStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatsQueryIsNotConstructed)
}

// UserID returns the optional user scope; nil means every user.
func (q GetOrderStatsQuery) UserID() *kernel.UUID {
	return q.userID
}
