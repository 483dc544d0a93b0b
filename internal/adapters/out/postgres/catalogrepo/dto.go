// Package catalogrepo reads the menu from PostgreSQL.
package catalogrepo

import (
	"ordering/internal/core/domain/model/menu"

	"github.com/shopspring/decimal"
)

type MenuItemDTO struct {
	ID        string              `gorm:"type:varchar(64);primaryKey"`
	Name      string              `gorm:"type:varchar(255);not null"`
	Price     decimal.Decimal     `gorm:"type:numeric(12,4);not null"`
	Available bool                `gorm:"not null;default:true"`
	Sizes     []MenuItemSizeDTO   `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	Options   []MenuItemOptionDTO `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
}

func (MenuItemDTO) TableName() string {
	return "menu_items"
}

type MenuItemSizeDTO struct {
	ItemID    string          `gorm:"type:varchar(64);primaryKey"`
	Name      string          `gorm:"type:varchar(64);primaryKey"`
	Price     decimal.Decimal `gorm:"type:numeric(12,4);not null"`
	Available bool            `gorm:"not null;default:true"`
}

func (MenuItemSizeDTO) TableName() string {
	return "menu_item_sizes"
}

type MenuItemOptionDTO struct {
	ItemID    string          `gorm:"type:varchar(64);primaryKey"`
	ID        string          `gorm:"type:varchar(64);primaryKey"`
	Name      string          `gorm:"type:varchar(255);not null"`
	Price     decimal.Decimal `gorm:"type:numeric(12,4);not null"`
	Available bool            `gorm:"not null;default:true"`
	PerLine   bool            `gorm:"not null;default:false"`
}

func (MenuItemOptionDTO) TableName() string {
	return "menu_item_options"
}

func toDomain(dto MenuItemDTO) menu.Item {
	item := menu.Item{
		ID:        dto.ID,
		Name:      dto.Name,
		Price:     dto.Price,
		Available: dto.Available,
	}
	for _, s := range dto.Sizes {
		item.Sizes = append(item.Sizes, menu.Size{Name: s.Name, Price: s.Price, Available: s.Available})
	}
	for _, o := range dto.Options {
		item.Options = append(item.Options, menu.Option{
			ID:        o.ID,
			Name:      o.Name,
			Price:     o.Price,
			Available: o.Available,
			PerLine:   o.PerLine,
		})
	}
	return item
}

func fromDomain(item menu.Item) MenuItemDTO {
	dto := MenuItemDTO{
		ID:        item.ID,
		Name:      item.Name,
		Price:     item.Price,
		Available: item.Available,
	}
	for _, s := range item.Sizes {
		dto.Sizes = append(dto.Sizes, MenuItemSizeDTO{ItemID: item.ID, Name: s.Name, Price: s.Price, Available: s.Available})
	}
	for _, o := range item.Options {
		dto.Options = append(dto.Options, MenuItemOptionDTO{
			ItemID:    item.ID,
			ID:        o.ID,
			Name:      o.Name,
			Price:     o.Price,
			Available: o.Available,
			PerLine:   o.PerLine,
		})
	}
	return dto
}
