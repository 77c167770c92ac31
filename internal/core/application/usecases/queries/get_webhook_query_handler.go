package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetWebhookQueryHandler reads one webhook row straight from the database.
type GetWebhookQueryHandler struct {
	db *gorm.DB
}

// NewGetWebhookQueryHandler creates a handler for webhook reads.
// Requires a GORM database connection for query execution.
func NewGetWebhookQueryHandler(db *gorm.DB) GetWebhookQueryHandler {
	return GetWebhookQueryHandler{db: db}
}

// Handle executes the query.
// Returns an object-not-found error when the webhook does not exist.
func (h GetWebhookQueryHandler) Handle(
	ctx context.Context,
	query GetWebhookQuery,
) (GetWebhookQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetWebhookQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			source,
			event,
			status,
			payload,
			processed_at,
			error_message
		FROM webhooks
		WHERE id = ?
	`, query.WebhookID().String()).Row()

	var (
		id          uuid.UUID
		resp        GetWebhookQueryResponse
		payload     []byte
		processedAt sql.NullTime
	)

	err := row.Scan(
		&id,
		&resp.Source,
		&resp.Event,
		&resp.Status,
		&payload,
		&processedAt,
		&resp.ErrorMessage,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetWebhookQueryResponse{}, errs.NewObjectNotFoundError("webhook", query.WebhookID())
	}
	if err != nil {
		return GetWebhookQueryResponse{}, err
	}

	resp.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetWebhookQueryResponse{}, err
	}
	resp.Payload = payload
	if processedAt.Valid {
		at := processedAt.Time.UTC()
		resp.ProcessedAt = &at
	}

	return resp, nil
}
