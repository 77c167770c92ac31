package webhookrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWebhookRepository implements WebhookRepository using GORM.
type GormWebhookRepository struct {
	db *gorm.DB
}

// NewGormWebhookRepository creates a new GORM webhook repository.
func NewGormWebhookRepository(db *gorm.DB) *GormWebhookRepository {
	return &GormWebhookRepository{db: db}
}

// Add saves a new webhook to the database.
func (r *GormWebhookRepository) Add(ctx context.Context, hook *webhook.Webhook) error {
	if err := hook.Validate(); err != nil {
		return err
	}

	dto := fromDomain(hook)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing webhook to the database.
func (r *GormWebhookRepository) Update(ctx context.Context, hook *webhook.Webhook) error {
	if err := hook.Validate(); err != nil {
		return err
	}

	dto := fromDomain(hook)
	result := r.db.WithContext(ctx).
		Model(&WebhookDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Get retrieves a webhook by ID.
func (r *GormWebhookRepository) Get(ctx context.Context, id kernel.UUID) (*webhook.Webhook, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto WebhookDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("webhook", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
