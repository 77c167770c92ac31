// Package webhookrepo provides data transfer objects and mapping functions for
// inbound webhook persistence.
package webhookrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/webhook"

	"github.com/google/uuid"
)

// WebhookDTO represents the database structure for persisting inbound webhooks.
type WebhookDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Source       string    `gorm:"index"`
	Event        string
	Payload      []byte `gorm:"type:jsonb"`
	Status       string `gorm:"index"`
	ProcessedAt  *time.Time
	ErrorMessage string
}

// TableName specifies the database table name for webhook entities.
func (WebhookDTO) TableName() string {
	return "webhooks"
}

// fromDomain converts a webhook entity to its database representation.
func fromDomain(hook *webhook.Webhook) WebhookDTO {
	return WebhookDTO{
		ID:           hook.ID().Bytes(),
		Source:       hook.Source().String(),
		Event:        hook.Event(),
		Payload:      hook.Payload(),
		Status:       hook.Status().String(),
		ProcessedAt:  hook.ProcessedAt(),
		ErrorMessage: hook.ErrorMessage(),
	}
}

// toDomain converts a database DTO to a webhook entity using RestoreWebhook.
func toDomain(dto WebhookDTO) (*webhook.Webhook, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	status, err := webhook.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return webhook.RestoreWebhook(
		id,
		webhook.Source(dto.Source),
		dto.Event,
		dto.Payload,
		status,
		dto.ProcessedAt,
		dto.ErrorMessage,
	)
}
