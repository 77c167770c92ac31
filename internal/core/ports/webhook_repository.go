package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/webhook"
)

// WebhookRepository defines the persistence contract for received webhooks.
// A webhook row is written before any processing is attempted, so a crash
// between receipt and processing never loses the payload.
type WebhookRepository interface {
	// Add persists a newly received webhook.
	Add(ctx context.Context, hook *webhook.Webhook) error

	// Update persists processing-state changes to an existing webhook.
	Update(ctx context.Context, hook *webhook.Webhook) error

	// Get retrieves a webhook by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*webhook.Webhook, error)
}
