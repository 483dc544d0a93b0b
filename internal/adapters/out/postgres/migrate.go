package postgres

import (
	"ordering/internal/adapters/out/postgres/catalogrepo"
	"ordering/internal/adapters/out/postgres/orderrepo"
	"ordering/internal/adapters/out/postgres/zonerepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderLineDTO{},
		&zonerepo.ZoneDTO{},
		&catalogrepo.MenuItemDTO{},
		&catalogrepo.MenuItemSizeDTO{},
		&catalogrepo.MenuItemOptionDTO{},
	)
}
