package services

import (
	"context"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
)

// InventoryClient calls the inventory service over HTTP.
type InventoryClient struct {
	http httpClient
}

// NewInventoryClient creates an inventory client for the given base URL.
func NewInventoryClient(baseURL string, timeout time.Duration) *InventoryClient {
	return &InventoryClient{http: newHTTPClient(baseURL, timeout)}
}

type itemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

func toItemRequests(items []order.Item) []itemRequest {
	requests := make([]itemRequest, 0, len(items))
	for _, item := range items {
		requests = append(requests, itemRequest{
			ProductID: item.ProductID().String(),
			Quantity:  item.Quantity(),
		})
	}
	return requests
}

// CheckAvailability reports whether every item can be fulfilled from stock.
// An unavailable item is a regular business outcome, not an error.
func (c *InventoryClient) CheckAvailability(ctx context.Context, items []order.Item) (bool, error) {
	request := struct {
		Items []itemRequest `json:"items"`
	}{Items: toItemRequests(items)}

	var response availabilityResponse
	if err := c.http.postJSON(ctx, "/availability", request, &response); err != nil {
		return false, err
	}
	return response.Available, nil
}

// Reserve puts a hold on the stock for the given order.
func (c *InventoryClient) Reserve(ctx context.Context, orderID kernel.UUID, items []order.Item) error {
	request := struct {
		OrderID string        `json:"orderId"`
		Items   []itemRequest `json:"items"`
	}{OrderID: orderID.String(), Items: toItemRequests(items)}

	return c.http.postJSON(ctx, "/reservations", request, nil)
}
