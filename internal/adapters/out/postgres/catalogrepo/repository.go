package catalogrepo

import (
	"context"

	"ordering/internal/adapters/out/postgres/pgerr"
	"ordering/internal/core/domain/model/menu"
	"ordering/internal/pkg/clock"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCatalogRepository implements ports.CatalogSource.
type GormCatalogRepository struct {
	db    *gorm.DB
	clock clock.Clock
}

func NewGormCatalogRepository(db *gorm.DB, clk clock.Clock) *GormCatalogRepository {
	if clk == nil {
		clk = clock.System{}
	}
	return &GormCatalogRepository{db: db, clock: clk}
}

// Load reads the whole menu into a fresh snapshot.
func (r *GormCatalogRepository) Load(ctx context.Context) (*menu.Catalog, error) {
	var dtos []MenuItemDTO
	err := r.db.WithContext(ctx).
		Preload("Sizes", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, pgerr.Classify(err)
	}

	items := make([]menu.Item, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, toDomain(dto))
	}
	return menu.NewCatalog(items, r.clock.Now())
}

// Replace swaps the stored menu for items in one transaction.
func (r *GormCatalogRepository) Replace(ctx context.Context, items []menu.Item) error {
	if _, err := menu.NewCatalog(items, r.clock.Now()); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&MenuItemOptionDTO{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&MenuItemSizeDTO{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&MenuItemDTO{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}

		dtos := make([]MenuItemDTO, 0, len(items))
		for _, item := range items {
			dtos = append(dtos, fromDomain(item))
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&dtos).Error
	})
	return pgerr.Classify(err)
}
