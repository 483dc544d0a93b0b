package ports

import (
	"context"

	"ordering/internal/core/domain/model/zone"
)

// ZoneDirectory lists the configured delivery zones.
type ZoneDirectory interface {
	All(ctx context.Context) ([]zone.Zone, error)
}
