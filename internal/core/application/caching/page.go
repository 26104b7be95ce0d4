package caching

import (
	"encoding/json"

	"orders/internal/core/domain/model/order"
)

// OrderPage is one page of a user's order listing together with the user's
// total order count across all pages.
type OrderPage struct {
	Orders []*order.Order
	Total  int64
}

// pageEnvelope is the cached wire form of a listing page. Each element of
// Orders is a serialized order snapshot, reusing the single-order codec.
type pageEnvelope struct {
	Orders []json.RawMessage `json:"orders"`
	Total  int64             `json:"total"`
}

// EncodeOrderPage serializes a listing page into its cached JSON form.
func EncodeOrderPage(page OrderPage) ([]byte, error) {
	envelope := pageEnvelope{
		Orders: make([]json.RawMessage, 0, len(page.Orders)),
		Total:  page.Total,
	}
	for _, aggregate := range page.Orders {
		data, err := EncodeOrder(aggregate)
		if err != nil {
			return nil, err
		}
		envelope.Orders = append(envelope.Orders, data)
	}
	return json.Marshal(envelope)
}

// DecodeOrderPage reconstructs a listing page from its cached JSON form.
func DecodeOrderPage(data []byte) (OrderPage, error) {
	var envelope pageEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return OrderPage{}, err
	}

	page := OrderPage{
		Orders: make([]*order.Order, 0, len(envelope.Orders)),
		Total:  envelope.Total,
	}
	for _, raw := range envelope.Orders {
		aggregate, err := DecodeOrder(raw)
		if err != nil {
			return OrderPage{}, err
		}
		page.Orders = append(page.Orders, aggregate)
	}
	return page, nil
}
