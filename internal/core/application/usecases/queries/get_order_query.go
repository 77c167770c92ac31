// Package queries contains read operations that bypass the domain model.
// Implements the Query pattern for the read side of the CQRS architecture:
// handlers run raw SQL against the database and return plain response
// structs, never aggregates.
package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order's lifecycle and shipment view.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewGetOrderQueryHandler(db)
//	view, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for the given order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderQueryIsNotConstructed if validation fails.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the identifier of the order to read.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the read-side view of one order.
type GetOrderQueryResponse struct {
	ID                 kernel.UUID       `json:"id"`
	Number             string            `json:"number"`
	ClientID           kernel.UUID       `json:"client_id"`
	Status             string            `json:"status"`
	Currency           string            `json:"currency"`
	TotalAmount        int64             `json:"total_amount"`
	Carrier            string            `json:"carrier,omitempty"`
	ShippingMethod     string            `json:"shipping_method"`
	PickupPointID      *string           `json:"pickup_point_id,omitempty"`
	PaymentID          *string           `json:"payment_id,omitempty"`
	ExternalShipmentID *string           `json:"external_shipment_id,omitempty"`
	ParcelGroupID      *string           `json:"parcel_group_id,omitempty"`
	LabelPath          *string           `json:"label_path,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}
