package services

import (
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/zone"
)

// ErrOutOfServiceArea is returned when no delivery zone encloses the address.
var ErrOutOfServiceArea = errors.New("address is outside every delivery zone")

// ZoneResolver picks the delivery zone, and so the fee, for a point.
//
// Selection rules:
//   - a zone encloses the point when its radius is at least the haversine
//     distance from its center
//   - among enclosing zones the lowest fee wins, not the nearest center
//   - equal fees fall back to the smaller radius, then the smaller zone id
type ZoneResolver struct{}

// NewZoneResolver creates a ZoneResolver.
func NewZoneResolver() ZoneResolver {
	return ZoneResolver{}
}

// Resolve returns the cheapest zone enclosing point, or ErrOutOfServiceArea.
//
// Example:
//
//	z, err := services.NewZoneResolver().Resolve(point, zones)
//	if errors.Is(err, services.ErrOutOfServiceArea) {
//	    // reject the order, nothing has been written
//	}
func (r ZoneResolver) Resolve(point kernel.GeoPoint, zones []zone.Zone) (zone.Zone, error) {
	if err := point.Validate(); err != nil {
		return zone.Zone{}, err
	}

	var (
		best  zone.Zone
		found bool
	)

	for _, z := range zones {
		if err := z.Validate(); err != nil {
			return zone.Zone{}, err
		}

		inside, _, err := z.Encloses(point)
		if err != nil {
			return zone.Zone{}, err
		}
		if !inside {
			continue
		}

		if !found || r.cheaper(z, best) {
			best = z
			found = true
		}
	}

	if !found {
		return zone.Zone{}, ErrOutOfServiceArea
	}
	return best, nil
}

func (r ZoneResolver) cheaper(a, b zone.Zone) bool {
	if c := a.Fee().Cmp(b.Fee()); c != 0 {
		return c < 0
	}
	if a.RadiusMeters() != b.RadiusMeters() {
		return a.RadiusMeters() < b.RadiusMeters()
	}
	return a.ID() < b.ID()
}
