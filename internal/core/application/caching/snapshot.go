package caching

import (
	"encoding/json"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
)

// orderSnapshot is the cached wire form of an order aggregate. It is private
// to this package: everything that reads or writes cached orders goes through
// EncodeOrder and DecodeOrder, so the cache format has exactly one owner.
type orderSnapshot struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	Status       string          `json:"status"`
	TotalAmount  string          `json:"totalAmount"`
	Items        []itemSnapshot  `json:"items"`
	Address      addressSnapshot `json:"shippingAddress"`
	Metadata     map[string]any  `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	CancelledAt  *time.Time      `json:"cancelledAt,omitempty"`
	CancelReason string          `json:"cancelReason,omitempty"`
	Version      int             `json:"version"`
}

type itemSnapshot struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	TotalPrice  string `json:"totalPrice"`
}

type addressSnapshot struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country"`
}

// EncodeOrder serializes an order aggregate into its cached JSON form.
func EncodeOrder(aggregate *order.Order) ([]byte, error) {
	if err := aggregate.Validate(); err != nil {
		return nil, err
	}

	items := make([]itemSnapshot, 0, aggregate.ItemCount())
	for _, item := range aggregate.Items() {
		items = append(items, itemSnapshot{
			ProductID:   item.ProductID().String(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().String(),
			TotalPrice:  item.TotalPrice().String(),
		})
	}

	address := aggregate.ShippingAddress()
	snapshot := orderSnapshot{
		ID:          aggregate.ID().String(),
		UserID:      aggregate.UserID().String(),
		Status:      aggregate.Status().String(),
		TotalAmount: aggregate.TotalAmount().String(),
		Items:       items,
		Address: addressSnapshot{
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

	return json.Marshal(snapshot)
}

// DecodeOrder reconstructs an order aggregate from its cached JSON form.
func DecodeOrder(data []byte) (*order.Order, error) {
	var snapshot orderSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}

	id, err := kernel.UUIDFromString(snapshot.ID)
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromString(snapshot.UserID)
	if err != nil {
		return nil, err
	}
	status, err := order.StatusFromString(snapshot.Status)
	if err != nil {
		return nil, err
	}
	totalAmount, err := kernel.NewMoneyFromString(snapshot.TotalAmount)
	if err != nil {
		return nil, err
	}

	address, err := order.NewAddress(
		snapshot.Address.Street,
		snapshot.Address.City,
		snapshot.Address.PostalCode,
		snapshot.Address.Country,
	)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(snapshot.Items))
	for _, is := range snapshot.Items {
		productID, itemErr := kernel.UUIDFromString(is.ProductID)
		if itemErr != nil {
			return nil, itemErr
		}
		unitPrice, itemErr := kernel.NewMoneyFromString(is.UnitPrice)
		if itemErr != nil {
			return nil, itemErr
		}
		totalPrice, itemErr := kernel.NewMoneyFromString(is.TotalPrice)
		if itemErr != nil {
			return nil, itemErr
		}
		item, itemErr := order.RestoreItem(productID, is.ProductName, is.Quantity, unitPrice, totalPrice)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id, userID, status, totalAmount,
		items, address, snapshot.Metadata,
		snapshot.CreatedAt, snapshot.UpdatedAt,
		snapshot.CancelledAt, snapshot.CancelReason,
		snapshot.Version,
	)
}
