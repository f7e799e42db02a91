package originrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/origin"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOriginOrderRepository implements ports.OriginOrderRepository using GORM.
type GormOriginOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOriginOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOriginOrderRepository {
	return &GormOriginOrderRepository{db: db, tracker: tracker}
}

func (r *GormOriginOrderRepository) Add(ctx context.Context, aggregate *origin.OriginOrder) error {
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

func (r *GormOriginOrderRepository) Update(ctx context.Context, aggregate *origin.OriginOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.conditionalUpdate(ctx, aggregate, "")
}

// CompleteDelivery writes a redeemed origin order only while the stored token is
// still expectedToken.
func (r *GormOriginOrderRepository) CompleteDelivery(
	ctx context.Context,
	aggregate *origin.OriginOrder,
	expectedToken string,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if expectedToken == "" {
		return errs.NewValueIsRequiredError("expectedToken")
	}
	return r.conditionalUpdate(ctx, aggregate, expectedToken)
}

func (r *GormOriginOrderRepository) conditionalUpdate(
	ctx context.Context,
	aggregate *origin.OriginOrder,
	expectedToken string,
) error {
	dto := fromDomain(aggregate)
	readVersion := dto.Version
	dto.Version = readVersion + 1

	query := r.db.WithContext(ctx).
		Model(&OriginOrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, readVersion)
	if expectedToken != "" {
		query = query.Where("verification_token = ?", expectedToken)
	}

	result := query.Updates(dto.updateColumns())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&OriginOrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("origin order", aggregate.ID().String())
		}
		return errs.NewConcurrentModificationError("origin order", aggregate.ID().String())
	}

	aggregate.AdvanceVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOriginOrderRepository) Get(ctx context.Context, id kernel.UUID) (*origin.OriginOrder, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OriginOrderDTO
	err := r.withItems(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("origin order", id.String())
	}
	if err != nil {
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOriginOrderRepository) ListByOwner(ctx context.Context, ownerID kernel.OwnerID) ([]*origin.OriginOrder, error) {
	if err := ownerID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OriginOrderDTO
	err := r.withItems(ctx).
		Where("owner_id = ?", ownerID.String()).
		Order("created_at DESC").
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*origin.OriginOrder, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *GormOriginOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position")
	})
}
