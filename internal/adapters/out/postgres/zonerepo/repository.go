package zonerepo

import (
	"context"

	"ordering/internal/adapters/out/postgres/pgerr"
	"ordering/internal/core/domain/model/zone"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormZoneRepository implements ports.ZoneDirectory.
type GormZoneRepository struct {
	db *gorm.DB
}

func NewGormZoneRepository(db *gorm.DB) *GormZoneRepository {
	return &GormZoneRepository{db: db}
}

// All returns every zone ordered by id.
func (r *GormZoneRepository) All(ctx context.Context) ([]zone.Zone, error) {
	var dtos []ZoneDTO
	if err := r.db.WithContext(ctx).Order("id").Find(&dtos).Error; err != nil {
		return nil, pgerr.Classify(err)
	}

	zones := make([]zone.Zone, 0, len(dtos))
	for _, dto := range dtos {
		z, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}

// Upsert inserts zones or overwrites existing ones with the same id.
func (r *GormZoneRepository) Upsert(ctx context.Context, zones []zone.Zone) error {
	if len(zones) == 0 {
		return nil
	}

	dtos := make([]ZoneDTO, 0, len(zones))
	for _, z := range zones {
		if err := z.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(z))
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&dtos).Error
	return pgerr.Classify(err)
}
