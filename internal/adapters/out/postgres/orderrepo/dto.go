// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"encoding/json"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Maps order domain entities to relational database tables with indexes for
// the common access paths: lookup by user and listing by creation time.
// The version column backs the conditional update check in Update.
type OrderDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID  `gorm:"type:uuid;index"`
	Status       int        `gorm:"index"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(14,2)"`
	Address      AddressDTO `gorm:"embedded;embeddedPrefix:shipping_"`
	Metadata     []byte     `gorm:"type:jsonb"`
	Items        []ItemDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time  `gorm:"index"`
	UpdatedAt    time.Time
	CancelledAt  *time.Time
	CancelReason string
	Version      int
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO represents the embedded shipping address within the order table.
type AddressDTO struct {
	Street     string
	City       string
	PostalCode string
	Country    string
}

// ItemDTO represents one order line. Lines are owned by their order and are
// written and removed with it, never addressed independently.
type ItemDTO struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	OrderID     uuid.UUID `gorm:"type:uuid;index"`
	ProductID   uuid.UUID `gorm:"type:uuid"`
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2)"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(14,2)"`
}

// TableName specifies the database table name for order line entities.
func (ItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	var metadata []byte
	if m := aggregate.Metadata(); len(m) > 0 {
		raw, err := json.Marshal(m)
		if err != nil {
			return OrderDTO{}, err
		}
		metadata = raw
	}

	items := aggregate.Items()
	itemDTOs := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		itemDTOs = append(itemDTOs, ItemDTO{
			OrderID:     aggregate.ID().Bytes(),
			ProductID:   item.ProductID().Bytes(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().Amount(),
			TotalPrice:  item.TotalPrice().Amount(),
		})
	}

	address := aggregate.ShippingAddress()
	return OrderDTO{
		ID:          aggregate.ID().Bytes(),
		UserID:      aggregate.UserID().Bytes(),
		Status:      int(aggregate.Status()),
		TotalAmount: aggregate.TotalAmount().Amount(),
		Address: AddressDTO{
			Street:     address.Street(),
			City:       address.City(),
			PostalCode: address.PostalCode(),
			Country:    address.Country(),
		},
		Metadata:     metadata,
		Items:        itemDTOs,
		CreatedAt:    aggregate.CreatedAt(),
		UpdatedAt:    aggregate.UpdatedAt(),
		CancelledAt:  aggregate.CancelledAt(),
		CancelReason: aggregate.CancelReason(),
		Version:      aggregate.Version(),
	}, nil
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including its lines using RestoreOrder,
// taking the stored total amount as authoritative.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	address, err := order.NewAddress(dto.Address.Street, dto.Address.City, dto.Address.PostalCode, dto.Address.Country)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := toDomainItem(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	var metadata map[string]any
	if len(dto.Metadata) > 0 {
		if err = json.Unmarshal(dto.Metadata, &metadata); err != nil {
			return nil, err
		}
	}

	totalAmount, err := kernel.NewMoney(dto.TotalAmount)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		userID,
		order.Status(dto.Status),
		totalAmount,
		items,
		address,
		metadata,
		dto.CreatedAt,
		dto.UpdatedAt,
		dto.CancelledAt,
		dto.CancelReason,
		dto.Version,
	)
}

func toDomainItem(dto ItemDTO) (order.Item, error) {
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return order.Item{}, err
	}

	unitPrice, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return order.Item{}, err
	}

	totalPrice, err := kernel.NewMoney(dto.TotalPrice)
	if err != nil {
		return order.Item{}, err
	}

	return order.RestoreItem(productID, dto.ProductName, dto.Quantity, unitPrice, totalPrice)
}
