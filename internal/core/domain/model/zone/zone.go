package zone

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrZoneIsNotConstructed is returned when a zero Zone is used.
var ErrZoneIsNotConstructed = errors.New("Zone must be created via NewZone constructor")

// Zone is a circular delivery area with a flat fee.
type Zone struct { //nolint:recvcheck //using for validation
	id           string
	name         string
	center       kernel.GeoPoint
	radiusMeters float64
	fee          decimal.Decimal
	guard        guard.ConstructorGuard
}

// NewZone validates a zone definition.
//
// Example:
//
//	center, _ := kernel.NewGeoPoint(52.52, 13.405)
//	z, err := zone.NewZone("mitte", "Mitte", center, 1000, decimal.RequireFromString("2.00"))
func NewZone(id, name string, center kernel.GeoPoint, radiusMeters float64, fee decimal.Decimal) (Zone, error) {
	z := Zone{
		name:  strings.TrimSpace(name),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		z.setID(id),
		z.setCenter(center),
		z.setRadius(radiusMeters),
		z.setFee(fee),
	); err != nil {
		return Zone{}, err
	}

	return z, nil
}

// Validate fails for a zero Zone.
func (z Zone) Validate() error {
	return z.guard.Validate(ErrZoneIsNotConstructed)
}

func (z Zone) ID() string              { return z.id }
func (z Zone) Name() string            { return z.name }
func (z Zone) Center() kernel.GeoPoint { return z.center }
func (z Zone) RadiusMeters() float64   { return z.radiusMeters }
func (z Zone) Fee() decimal.Decimal    { return z.fee }

// Encloses reports whether p lies within the zone radius, boundary included,
// and returns the distance from the center.
func (z Zone) Encloses(p kernel.GeoPoint) (bool, float64, error) {
	d, err := z.center.DistanceMeters(p)
	if err != nil {
		return false, 0, err
	}
	return d <= z.radiusMeters, d, nil
}

func (z *Zone) setID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errs.NewValueIsRequiredError("zone id")
	}
	z.id = id
	return nil
}

func (z *Zone) setCenter(center kernel.GeoPoint) error {
	if err := center.Validate(); err != nil {
		return err
	}
	z.center = center
	return nil
}

func (z *Zone) setRadius(radius float64) error {
	if math.IsNaN(radius) || radius <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("zone radius is invalid", fmt.Errorf("%v is not greater than 0", radius))
	}
	z.radiusMeters = radius
	return nil
}

func (z *Zone) setFee(fee decimal.Decimal) error {
	if fee.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("zone fee is invalid", fmt.Errorf("%s is negative", fee))
	}
	z.fee = fee
	return nil
}
