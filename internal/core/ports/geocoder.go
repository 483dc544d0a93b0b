package ports

import (
	"context"
	"errors"

	"ordering/internal/core/domain/model/kernel"
)

// ErrAddressNotFound is returned by a Geocoder that found no match for an
// address. It is a domain outcome and is never retried.
var ErrAddressNotFound = errors.New("address not found")

// Geocoder turns a free-form address into a point. Infrastructure failures
// (timeouts, upstream errors) are reported as errs.UnavailableError.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (kernel.GeoPoint, error)
}
