package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipping"
)

// LabelRepository defines the persistence contract for shipping labels.
type LabelRepository interface {
	// Add persists a new label record.
	Add(ctx context.Context, label *shipping.Label) error

	// Update persists changes to an existing label record.
	Update(ctx context.Context, label *shipping.Label) error

	// Get retrieves a label by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*shipping.Label, error)

	// GetByOrderAndShipment retrieves the label recorded for the given order
	// under the given carrier shipment. Repeated label events for the same
	// shipment resolve to this record instead of creating duplicates.
	GetByOrderAndShipment(ctx context.Context, orderID kernel.UUID, externalShipmentID string) (*shipping.Label, error)

	// GetByOrder retrieves all labels ever recorded for an order, newest first.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*shipping.Label, error)

	// GetGeneratedByShipment retrieves the labels still in generated status
	// for the given carrier shipment, across all orders of its parcel group.
	GetGeneratedByShipment(ctx context.Context, externalShipmentID string) ([]*shipping.Label, error)
}
