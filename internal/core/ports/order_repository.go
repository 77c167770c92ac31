package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Locking variants acquire row locks inside the current unit of work
// transaction and must not be called outside of one.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber retrieves an order by its human-readable order number.
	GetByNumber(ctx context.Context, number string) (*order.Order, error)

	// GetByPaymentID retrieves an order by its payment correlation identifier.
	GetByPaymentID(ctx context.Context, paymentID string) (*order.Order, error)

	// GetForUpdate retrieves an order and locks its row for the duration of
	// the current transaction. Used to serialize concurrent transitions.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// FindConsolidatable returns the ids of orders eligible to share a
	// shipment with the given seed order: same client, same shipping method,
	// same pickup point, in paid status and without an assigned shipment.
	// The seed order itself is included in the result.
	FindConsolidatable(ctx context.Context, seed *order.Order) ([]kernel.UUID, error)

	// GetGroupForUpdate retrieves and locks the given orders in ascending
	// identifier sequence, so that two workers locking overlapping groups
	// always acquire the rows in the same relative position.
	GetGroupForUpdate(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error)

	// GetByParcelGroupForUpdate retrieves and locks every order that shares
	// the given parcel group, in ascending identifier sequence.
	GetByParcelGroupForUpdate(ctx context.Context, parcelGroupID string) ([]*order.Order, error)
}
