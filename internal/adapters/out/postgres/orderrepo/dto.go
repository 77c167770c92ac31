// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The consolidation index covers the grouping key the fulfillment orchestrator
// searches on: client, shipping method and pickup point.
type OrderDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number         string    `gorm:"uniqueIndex"`
	ClientID       uuid.UUID `gorm:"type:uuid;index:idx_orders_consolidation"`
	Currency       string
	TotalAmount    int64
	Carrier        string
	ShippingMethod string  `gorm:"index:idx_orders_consolidation"`
	PickupPointID  *string `gorm:"index:idx_orders_consolidation"`

	PaymentID          *string `gorm:"index"`
	ExternalShipmentID *string `gorm:"index"`
	ParcelGroupID      *string `gorm:"index"`
	LabelPath          *string

	Address  AddressDTO        `gorm:"embedded;embeddedPrefix:address_"`
	Items    []ItemDTO         `gorm:"serializer:json;type:jsonb"`
	Metadata map[string]string `gorm:"serializer:json;type:jsonb"`

	Status string `gorm:"index"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO represents the embedded shipping address within the order table.
type AddressDTO struct {
	Line1      string
	City       string
	PostalCode string
	Country    string
}

// ItemDTO is one order line inside the items JSON column.
type ItemDTO struct {
	ID       uuid.UUID `json:"id"`
	Quantity int       `json:"quantity"`
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			ID:       item.ID().Bytes(),
			Quantity: item.Quantity(),
		})
	}

	address := aggregate.Address()
	return OrderDTO{
		ID:                 aggregate.ID().Bytes(),
		Number:             aggregate.Number(),
		ClientID:           aggregate.ClientID().Bytes(),
		Currency:           aggregate.Currency(),
		TotalAmount:        aggregate.TotalAmount(),
		Carrier:            aggregate.Carrier().String(),
		ShippingMethod:     aggregate.ShippingMethod(),
		PickupPointID:      aggregate.PickupPointID(),
		PaymentID:          aggregate.PaymentID(),
		ExternalShipmentID: aggregate.ExternalShipmentID(),
		ParcelGroupID:      aggregate.ParcelGroupID(),
		LabelPath:          aggregate.LabelPath(),
		Address: AddressDTO{
			Line1:      address.Line1(),
			City:       address.City(),
			PostalCode: address.PostalCode(),
			Country:    address.Country(),
		},
		Items:    items,
		Metadata: aggregate.Metadata(),
		Status:   aggregate.Status().String(),
	}
}

// toDomain converts a database DTO to an order domain aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	clientID, err := kernel.UUIDFromBytes(dto.ClientID[:])
	if err != nil {
		return nil, err
	}
	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		itemID, itemErr := kernel.UUIDFromBytes(itemDTO.ID[:])
		if itemErr != nil {
			return nil, itemErr
		}
		item, itemErr := order.NewItem(itemID, itemDTO.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	address, err := order.NewAddress(
		dto.Address.Line1, dto.Address.City, dto.Address.PostalCode, dto.Address.Country)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		dto.Number,
		clientID,
		dto.Currency,
		dto.TotalAmount,
		kernel.Carrier(dto.Carrier),
		dto.ShippingMethod,
		dto.PickupPointID,
		dto.PaymentID,
		dto.ExternalShipmentID,
		dto.ParcelGroupID,
		dto.LabelPath,
		address,
		items,
		dto.Metadata,
		status,
	)
}
