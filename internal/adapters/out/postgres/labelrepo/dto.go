// Package labelrepo provides data transfer objects and mapping functions for
// shipping label persistence.
package labelrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipping"

	"github.com/google/uuid"
)

// LabelDTO represents the database structure for persisting shipping labels.
// The (order_id, external_shipment_id) pair carries a unique index: repeated
// label events for the same shipment upsert into one row instead of
// multiplying.
type LabelDTO struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID            uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_labels_order_shipment"`
	Carrier            string
	ExternalShipmentID *string `gorm:"uniqueIndex:idx_labels_order_shipment;index"`
	TrackingNumber     string
	ArtifactPath       string
	Status             string `gorm:"index"`
	RawResponse        []byte
	ErrorMessage       string
}

// TableName specifies the database table name for label entities.
func (LabelDTO) TableName() string {
	return "labels"
}

// fromDomain converts a label entity to its database representation.
func fromDomain(label *shipping.Label) LabelDTO {
	var shipmentID *string
	if label.ExternalShipmentID() != "" {
		v := label.ExternalShipmentID()
		shipmentID = &v
	}

	return LabelDTO{
		ID:                 label.ID().Bytes(),
		OrderID:            label.OrderID().Bytes(),
		Carrier:            label.Carrier().String(),
		ExternalShipmentID: shipmentID,
		TrackingNumber:     label.TrackingNumber(),
		ArtifactPath:       label.ArtifactPath(),
		Status:             label.Status().String(),
		RawResponse:        label.RawResponse(),
		ErrorMessage:       label.ErrorMessage(),
	}
}

// toDomain converts a database DTO to a label entity using RestoreLabel.
func toDomain(dto LabelDTO) (*shipping.Label, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	status, err := shipping.LabelStatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	shipmentID := ""
	if dto.ExternalShipmentID != nil {
		shipmentID = *dto.ExternalShipmentID
	}

	return shipping.RestoreLabel(
		id,
		orderID,
		kernel.Carrier(dto.Carrier),
		shipmentID,
		dto.TrackingNumber,
		dto.ArtifactPath,
		status,
		dto.RawResponse,
		dto.ErrorMessage,
	)
}
