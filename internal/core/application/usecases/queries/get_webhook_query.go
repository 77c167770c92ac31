package queries

import (
	"encoding/json"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetWebhookQueryIsNotConstructed = errors.New(
	"GetWebhookQuery must be created via NewGetWebhookQuery constructor",
)

// GetWebhookQuery retrieves one webhook's processing state, so an operator
// can see what a received or replayed webhook did.
type GetWebhookQuery struct {
	webhookID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetWebhookQuery creates a query for the given webhook.
func NewGetWebhookQuery(webhookID kernel.UUID) (GetWebhookQuery, error) {
	if err := webhookID.Validate(); err != nil {
		return GetWebhookQuery{}, err
	}

	return GetWebhookQuery{
		webhookID: webhookID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetWebhookQueryIsNotConstructed if validation fails.
func (q GetWebhookQuery) Validate() error {
	return q.guard.Validate(ErrGetWebhookQueryIsNotConstructed)
}

// WebhookID returns the identifier of the webhook to read.
func (q GetWebhookQuery) WebhookID() kernel.UUID {
	return q.webhookID
}

// GetWebhookQueryResponse is the read-side view of one webhook.
type GetWebhookQueryResponse struct {
	ID           kernel.UUID     `json:"id"`
	Source       string          `json:"source"`
	Event        string          `json:"event,omitempty"`
	Status       string          `json:"status"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	ProcessedAt  *time.Time      `json:"processed_at,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
}
