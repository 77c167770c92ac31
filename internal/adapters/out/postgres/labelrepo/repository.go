package labelrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipping"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormLabelRepository implements LabelRepository using GORM.
type GormLabelRepository struct {
	db *gorm.DB
}

// NewGormLabelRepository creates a new GORM label repository.
func NewGormLabelRepository(db *gorm.DB) *GormLabelRepository {
	return &GormLabelRepository{db: db}
}

// Add saves a new label to the database.
func (r *GormLabelRepository) Add(ctx context.Context, label *shipping.Label) error {
	if err := label.Validate(); err != nil {
		return err
	}

	dto := fromDomain(label)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing label to the database.
func (r *GormLabelRepository) Update(ctx context.Context, label *shipping.Label) error {
	if err := label.Validate(); err != nil {
		return err
	}

	dto := fromDomain(label)
	result := r.db.WithContext(ctx).
		Model(&LabelDTO{}).
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

// Get retrieves a label by ID.
func (r *GormLabelRepository) Get(ctx context.Context, id kernel.UUID) (*shipping.Label, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto LabelDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("label", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrderAndShipment retrieves the one label recorded for an order under
// a carrier shipment.
func (r *GormLabelRepository) GetByOrderAndShipment(
	ctx context.Context,
	orderID kernel.UUID,
	externalShipmentID string,
) (*shipping.Label, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if externalShipmentID == "" {
		return nil, errs.NewValueIsRequiredError("external shipment id")
	}

	var dto LabelDTO
	err := r.db.WithContext(ctx).
		First(&dto, "order_id = ? AND external_shipment_id = ?", orderID.Bytes(), externalShipmentID).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("label", externalShipmentID)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrder retrieves all labels recorded for an order, newest first.
func (r *GormLabelRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*shipping.Label, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []LabelDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("id DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetGeneratedByShipment retrieves the labels still in generated status for
// a carrier shipment, across every order of its parcel group.
func (r *GormLabelRepository) GetGeneratedByShipment(
	ctx context.Context,
	externalShipmentID string,
) ([]*shipping.Label, error) {
	if externalShipmentID == "" {
		return nil, errs.NewValueIsRequiredError("external shipment id")
	}

	var dtos []LabelDTO
	err := r.db.WithContext(ctx).
		Where("external_shipment_id = ? AND status = ?", externalShipmentID, shipping.LabelGenerated.String()).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

func toDomainSlice(dtos []LabelDTO) ([]*shipping.Label, error) {
	labels := make([]*shipping.Label, 0, len(dtos))
	for _, dto := range dtos {
		label, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, nil
}
