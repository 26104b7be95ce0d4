package queries

import (
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var (
	ErrGetUserOrdersQueryIsNotConstructed = errors.New(
		"GetUserOrdersQuery must be created via NewGetUserOrdersQuery constructor",
	)
)

// Pagination bounds for user order listings.
const (
	minPage  = 1
	minLimit = 1
	maxLimit = 100
)

// GetUserOrdersQuery represents a request for one page of a user's orders,
// newest first.
type GetUserOrdersQuery struct { //nolint:recvcheck //using for validation
	userID kernel.UUID
	page   int
	limit  int

	guard guard.ConstructorGuard
}

// NewGetUserOrdersQuery creates a paginated listing query.
// Page is 1-based; limit must lie within [1, 100].
func NewGetUserOrdersQuery(userID kernel.UUID, page, limit int) (GetUserOrdersQuery, error) {
	query := GetUserOrdersQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		query.setUserID(userID),
		query.setPage(page),
		query.setLimit(limit),
	); err != nil {
		return GetUserOrdersQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetUserOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUserOrdersQueryIsNotConstructed)
}

// UserID returns the identifier of the user whose orders are listed.
func (q GetUserOrdersQuery) UserID() kernel.UUID {
	return q.userID
}

// Page returns the 1-based page number.
func (q GetUserOrdersQuery) Page() int {
	return q.page
}

// Limit returns the page size.
func (q GetUserOrdersQuery) Limit() int {
	return q.limit
}

func (q *GetUserOrdersQuery) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	q.userID = userID
	return nil
}

func (q *GetUserOrdersQuery) setPage(page int) error {
	if page < minPage {
		return errs.NewValueIsOutOfRangeError("page", page, minPage, "unbounded")
	}
	q.page = page
	return nil
}

func (q *GetUserOrdersQuery) setLimit(limit int) error {
	if limit < minLimit || limit > maxLimit {
		return errs.NewValueIsOutOfRangeError("limit", limit, minLimit, maxLimit)
	}
	q.limit = limit
	return nil
}
