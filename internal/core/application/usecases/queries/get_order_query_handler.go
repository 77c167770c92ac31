package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order's lifecycle and shipment view
// straight from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order reads.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query.
// Returns an object-not-found error when the order does not exist.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			client_id,
			status,
			currency,
			total_amount,
			carrier,
			shipping_method,
			pickup_point_id,
			payment_id,
			external_shipment_id,
			parcel_group_id,
			label_path,
			metadata
		FROM orders
		WHERE id = ?
	`, query.OrderID().String()).Row()

	var (
		id       uuid.UUID
		clientID uuid.UUID
		resp     GetOrderQueryResponse
		metadata []byte
		pickup   sql.NullString
		payment  sql.NullString
		shipment sql.NullString
		group    sql.NullString
		label    sql.NullString
	)

	err := row.Scan(
		&id,
		&resp.Number,
		&clientID,
		&resp.Status,
		&resp.Currency,
		&resp.TotalAmount,
		&resp.Carrier,
		&resp.ShippingMethod,
		&pickup,
		&payment,
		&shipment,
		&group,
		&label,
		&metadata,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.ClientID, err = kernel.UUIDFromBytes(clientID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.PickupPointID = nullableString(pickup)
	resp.PaymentID = nullableString(payment)
	resp.ExternalShipmentID = nullableString(shipment)
	resp.ParcelGroupID = nullableString(group)
	resp.LabelPath = nullableString(label)

	if len(metadata) > 0 {
		if err = json.Unmarshal(metadata, &resp.Metadata); err != nil {
			return GetOrderQueryResponse{}, err
		}
	}

	return resp, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
