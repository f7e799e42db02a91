package orderrepo

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order and its items.
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

// Update writes the mutable columns if the stored version still matches.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return r.conditionalUpdate(ctx, aggregate, func(tx *gorm.DB) *gorm.DB { return tx })
}

// CompleteDelivery writes a redeemed order only while the stored token is still
// expectedToken. A losing concurrent redemption finds zero matching rows.
func (r *GormOrderRepository) CompleteDelivery(ctx context.Context, aggregate *order.Order, expectedToken string) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if expectedToken == "" {
		return errs.NewValueIsRequiredError("expectedToken")
	}

	return r.conditionalUpdate(ctx, aggregate, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("verification_token = ?", expectedToken)
	})
}

func (r *GormOrderRepository) conditionalUpdate(
	ctx context.Context,
	aggregate *order.Order,
	scope func(tx *gorm.DB) *gorm.DB,
) error {
	dto := fromDomain(aggregate)
	readVersion := dto.Version
	dto.Version = readVersion + 1

	query := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, readVersion)
	result := scope(query).Updates(dto.updateColumns())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missOrConflict(ctx, aggregate.ID())
	}

	aggregate.AdvanceVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// missOrConflict tells a vanished row apart from a lost race.
func (r *GormOrderRepository) missOrConflict(ctx context.Context, id kernel.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return errs.NewConcurrentModificationError("order", id.String())
}

// Get retrieves an order by ID with its items.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.withItems(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	if err != nil {
		return nil, err
	}

	return toDomain(dto)
}

// ListByOwner returns the owner's orders, newest first.
func (r *GormOrderRepository) ListByOwner(ctx context.Context, ownerID kernel.OwnerID) ([]*order.Order, error) {
	if err := ownerID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.withItems(ctx).
		Where("owner_id = ?", ownerID.String()).
		Order("created_at DESC").
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// GetAllWithExpiredTokens returns orders holding a token whose expiry is before now.
func (r *GormOrderRepository) GetAllWithExpiredTokens(ctx context.Context, now time.Time, limit int) ([]*order.Order, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var dtos []OrderDTO
	err := r.withItems(ctx).
		Where("verification_token IS NOT NULL AND verification_token_expiry < ?", now.UTC()).
		Order("verification_token_expiry").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position")
	})
}

func toDomainList(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
