package zone_test

import (
	"testing"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/zone"
	"ordering/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return p
}

func TestNewZone(t *testing.T) {
	center := point(t, 52.52, 13.405)

	t.Run("should create a valid zone", func(t *testing.T) {
		z, err := zone.NewZone("mitte", " Mitte ", center, 1000, decimal.RequireFromString("2.00"))

		require.NoError(t, err)
		require.NoError(t, z.Validate())
		assert.Equal(t, "mitte", z.ID())
		assert.Equal(t, "Mitte", z.Name())
		assert.InDelta(t, 1000.0, z.RadiusMeters(), 1e-9)
		assert.Equal(t, "2.00", z.Fee().StringFixed(2))
	})

	t.Run("should join validation errors", func(t *testing.T) {
		_, err := zone.NewZone("", "", kernel.GeoPoint{}, 0, decimal.NewFromInt(-1))

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, kernel.ErrGeoPointIsNotConstructed)
		assert.Contains(t, err.Error(), "zone radius is invalid")
		assert.Contains(t, err.Error(), "zone fee is invalid")
	})

	t.Run("should accept a free zone", func(t *testing.T) {
		_, err := zone.NewZone("free", "Free", center, 10, decimal.Zero)

		require.NoError(t, err)
	})
}

func TestZone_Encloses(t *testing.T) {
	center := point(t, 0, 0)
	z, err := zone.NewZone("z", "Z", center, 1000, decimal.NewFromInt(2))
	require.NoError(t, err)

	t.Run("should enclose a point 800 m away", func(t *testing.T) {
		inside, d, err := z.Encloses(point(t, 0.0072, 0))

		require.NoError(t, err)
		assert.True(t, inside)
		assert.InDelta(t, 800.6, d, 0.5)
	})

	t.Run("should not enclose a point 2 km away", func(t *testing.T) {
		inside, _, err := z.Encloses(point(t, 0.018, 0))

		require.NoError(t, err)
		assert.False(t, inside)
	})

	t.Run("should fail on a zero point", func(t *testing.T) {
		_, _, err := z.Encloses(kernel.GeoPoint{})

		require.ErrorIs(t, err, kernel.ErrGeoPointIsNotConstructed)
	})
}
