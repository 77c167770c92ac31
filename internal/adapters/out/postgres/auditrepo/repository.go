package auditrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/audit"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAuditRepository implements AuditRepository using GORM.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GORM audit repository.
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Add appends a ledger entry.
func (r *GormAuditRepository) Add(ctx context.Context, entry *audit.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetByEntity retrieves all entries recorded for one entity, oldest first.
func (r *GormAuditRepository) GetByEntity(ctx context.Context, entityType, entityID string) ([]*audit.Entry, error) {
	if entityType == "" {
		return nil, errs.NewValueIsRequiredError("entity type")
	}
	if entityID == "" {
		return nil, errs.NewValueIsRequiredError("entity id")
	}

	var dtos []EntryDTO
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*audit.Entry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
