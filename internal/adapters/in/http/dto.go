package http

import (
	"fmt"
	"strconv"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	UserID          string         `json:"userId"`
	Items           []ItemRequest  `json:"items"`
	ShippingAddress AddressRequest `json:"shippingAddress"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// ItemRequest is one order line. UnitPrice is a decimal string so amounts
// survive the trip without float rounding.
type ItemRequest struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
}

// AddressRequest is the shipping destination of an order.
type AddressRequest struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country"`
}

// UpdateStatusRequest is the body of PATCH /api/v1/orders/:orderId/status.
type UpdateStatusRequest struct {
	Status       string `json:"status"`
	CancelReason string `json:"cancelReason,omitempty"`
}

// CancelOrderRequest is the body of POST /api/v1/orders/:orderId/cancel.
type CancelOrderRequest struct {
	Reason string `json:"reason,omitempty"`
}

// OrderResponse is the wire form of an order aggregate.
type OrderResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Status          string          `json:"status"`
	Items           []ItemResponse  `json:"items"`
	TotalAmount     string          `json:"totalAmount"`
	ShippingAddress AddressRequest  `json:"shippingAddress"`
	Metadata        map[string]any  `json:"metadata,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	CancelledAt     *time.Time      `json:"cancelledAt,omitempty"`
	CancelReason    string          `json:"cancelReason,omitempty"`
	Version         int             `json:"version"`
}

// ItemResponse is one order line in a response.
type ItemResponse struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	TotalPrice  string `json:"totalPrice"`
}

// OrderListResponse is one page of a user's orders.
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

// StatusStatResponse is one row of the per-status breakdown.
type StatusStatResponse struct {
	Status      string `json:"status"`
	Count       int64  `json:"count"`
	TotalAmount string `json:"totalAmount"`
}

// StatsResponse wraps the stats rows.
type StatsResponse struct {
	Stats []StatusStatResponse `json:"stats"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (r ItemRequest) toDomain() (order.Item, error) {
	productID, err := kernel.UUIDFromString(r.ProductID)
	if err != nil {
		return order.Item{}, fmt.Errorf("product id %q: %w", r.ProductID, err)
	}

	unitPrice, err := kernel.NewMoneyFromString(r.UnitPrice)
	if err != nil {
		return order.Item{}, fmt.Errorf("unit price %q: %w", r.UnitPrice, err)
	}

	return order.NewItem(productID, r.ProductName, r.Quantity, unitPrice)
}

func orderFromDomain(aggregate *order.Order) OrderResponse {
	items := make([]ItemResponse, len(aggregate.Items()))
	for i, item := range aggregate.Items() {
		items[i] = ItemResponse{
			ProductID:   item.ProductID().String(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().String(),
			TotalPrice:  item.TotalPrice().String(),
		}
	}

	address := aggregate.ShippingAddress()

	return OrderResponse{
		ID:          aggregate.ID().String(),
		UserID:      aggregate.UserID().String(),
		Status:      aggregate.Status().String(),
		Items:       items,
		TotalAmount: aggregate.TotalAmount().String(),
		ShippingAddress: AddressRequest{
			Street:     address.Street(),
			City:       address.City(),
			PostalCode: address.PostalCode(),
			Country:    address.Country(),
		},
		Metadata:     aggregate.Metadata(),
		CreatedAt:    aggregate.CreatedAt(),
		UpdatedAt:    aggregate.UpdatedAt(),
		CancelledAt:  aggregate.CancelledAt(),
		CancelReason: aggregate.CancelReason(),
		Version:      aggregate.Version(),
	}
}

// paginationParams reads page and limit query parameters with defaults.
func paginationParams(ctx echo.Context) (int, int, error) {
	page := defaultPage
	if raw := ctx.QueryParam("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid page parameter %q", raw)
		}
		page = parsed
	}

	limit := defaultLimit
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid limit parameter %q", raw)
		}
		limit = parsed
	}

	return page, limit, nil
}
