package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database. All columns are written,
// so cleared shipment fields persist as NULLs.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.getOne(ctx, id, false)
}

// GetForUpdate retrieves an order by ID and locks its row for the duration
// of the surrounding transaction.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.getOne(ctx, id, true)
}

func (r *GormOrderRepository) getOne(ctx context.Context, id kernel.UUID, lock bool) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto OrderDTO
	if err := query.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByNumber retrieves an order by its human-readable order number.
func (r *GormOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	if number == "" {
		return nil, errs.NewValueIsRequiredError("order number")
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", number)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByPaymentID retrieves an order by its payment correlation identifier.
func (r *GormOrderRepository) GetByPaymentID(ctx context.Context, paymentID string) (*order.Order, error) {
	if paymentID == "" {
		return nil, errs.NewValueIsRequiredError("payment id")
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "payment_id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", paymentID)
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindConsolidatable returns the ids of all orders sharing the seed's
// consolidation key (client, shipping method, pickup point) that are paid and
// unshipped, the seed included, in ascending id sequence.
func (r *GormOrderRepository) FindConsolidatable(ctx context.Context, seed *order.Order) ([]kernel.UUID, error) {
	if err := seed.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("client_id = ?", seed.ClientID().Bytes()).
		Where("shipping_method = ?", seed.ShippingMethod()).
		Where("status = ?", order.Paid.String()).
		Where("external_shipment_id IS NULL")

	if seed.PickupPointID() == nil {
		query = query.Where("pickup_point_id IS NULL")
	} else {
		query = query.Where("pickup_point_id = ?", *seed.PickupPointID())
	}

	var rawIDs []uuid.UUID
	if err := query.Order("id").Pluck("id", &rawIDs).Error; err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(rawIDs))
	for _, rawID := range rawIDs {
		id, err := kernel.UUIDFromBytes(rawID[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// GetGroupForUpdate retrieves and locks the given orders. Rows are locked in
// ascending id sequence so overlapping groups always contend in the same
// relative position instead of deadlocking.
func (r *GormOrderRepository) GetGroupForUpdate(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error) {
	if len(ids) == 0 {
		return []*order.Order{}, nil
	}

	rawIDs := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		rawIDs = append(rawIDs, id.Bytes())
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", rawIDs).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetByParcelGroupForUpdate retrieves and locks every order of a parcel
// group, in ascending id sequence.
func (r *GormOrderRepository) GetByParcelGroupForUpdate(ctx context.Context, parcelGroupID string) ([]*order.Order, error) {
	if parcelGroupID == "" {
		return nil, errs.NewValueIsRequiredError("parcel group id")
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("parcel_group_id = ?", parcelGroupID).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

func toDomainSlice(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, aggregate)
	}
	return orders, nil
}
