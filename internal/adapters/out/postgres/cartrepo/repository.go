// Package cartrepo owns the "cart_items" table. Carts are filled by the storefront;
// this service only clears them at checkout.
package cartrepo

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// CartItemDTO is a "cart_items" row.
type CartItemDTO struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	OwnerID   string `gorm:"type:varchar(255);not null;index"`
	ProductID string `gorm:"type:varchar(255);not null"`
	Quantity  int    `gorm:"not null"`
}

func (CartItemDTO) TableName() string {
	return "cart_items"
}

// GormCartRepository implements ports.CartRepository using GORM.
type GormCartRepository struct {
	db *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Clear removes every cart line of the owner. Clearing an empty cart is not an error.
func (r *GormCartRepository) Clear(ctx context.Context, ownerID kernel.OwnerID) error {
	if err := ownerID.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("owner_id = ?", ownerID.String()).Delete(&CartItemDTO{}).Error
}
