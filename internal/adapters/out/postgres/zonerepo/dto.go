// Package zonerepo stores delivery zones and seeds them from a YAML file.
package zonerepo

import (
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/zone"

	"github.com/shopspring/decimal"
)

// ZoneDTO is one delivery_zones row.
type ZoneDTO struct {
	ID           string          `gorm:"type:varchar(64);primaryKey"`
	Name         string          `gorm:"type:varchar(255)"`
	CenterLat    float64         `gorm:"type:double precision;not null"`
	CenterLng    float64         `gorm:"type:double precision;not null"`
	RadiusMeters float64         `gorm:"type:double precision;not null"`
	Fee          decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (ZoneDTO) TableName() string {
	return "delivery_zones"
}

func fromDomain(z zone.Zone) ZoneDTO {
	return ZoneDTO{
		ID:           z.ID(),
		Name:         z.Name(),
		CenterLat:    z.Center().Lat(),
		CenterLng:    z.Center().Lng(),
		RadiusMeters: z.RadiusMeters(),
		Fee:          z.Fee(),
	}
}

func toDomain(dto ZoneDTO) (zone.Zone, error) {
	center, err := kernel.NewGeoPoint(dto.CenterLat, dto.CenterLng)
	if err != nil {
		return zone.Zone{}, err
	}
	return zone.NewZone(dto.ID, dto.Name, center, dto.RadiusMeters, dto.Fee)
}
