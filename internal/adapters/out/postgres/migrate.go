package postgres

import (
	"orderflow/internal/adapters/out/postgres/cartrepo"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/postgres/originrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table owned by this service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&originrepo.OriginOrderDTO{},
		&originrepo.OriginOrderItemDTO{},
		&cartrepo.CartItemDTO{},
	)
}
