package services_test

import (
	"testing"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
	"ordering/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qty(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestPriceValue_Decimal(t *testing.T) {
	tests := map[string]string{
		"10.50":  "10.5",
		" 3 ":    "3",
		"":       "0",
		"abc":    "0",
		"1e2":    "100",
		"-0.001": "-0.001",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, services.PriceValue(in).Decimal().String())
		})
	}
}

func TestLinePricer_Price(t *testing.T) {
	pricer := services.NewLinePricer()

	t.Run("should price the 23.00 cart", func(t *testing.T) {
		priced, err := pricer.Price(services.CartLine{
			MenuItemID: "margherita",
			UnitPrice:  "10.00",
			Quantity:   2,
			Options:    []services.CartOption{{ID: "extra-cheese", UnitPrice: "1.50", Quantity: qty("1")}},
		})

		require.NoError(t, err)
		assert.Equal(t, "23.00", priced.LineTotal.StringFixed(2))
		assert.Equal(t, "10.00", priced.BasePrice.StringFixed(2))
		assert.Equal(t, "1.50", priced.PaidOptionsPerUnit.StringFixed(2))
		assert.Equal(t, 2, priced.Quantity)
		assert.True(t, priced.Line.Total().Equal(priced.LineTotal))
	})

	t.Run("should default a paid option without quantity to one", func(t *testing.T) {
		priced, err := pricer.Price(services.CartLine{
			MenuItemID: "burger",
			UnitPrice:  "8",
			Quantity:   1,
			Options:    []services.CartOption{{ID: "bacon", UnitPrice: "2"}},
		})

		require.NoError(t, err)
		assert.Equal(t, "10.00", priced.LineTotal.StringFixed(2))
	})

	t.Run("should coerce a non-numeric option price to zero", func(t *testing.T) {
		priced, err := pricer.Price(services.CartLine{
			MenuItemID: "burger",
			UnitPrice:  "8",
			Quantity:   1,
			Options:    []services.CartOption{{ID: "sauce", UnitPrice: "free!", Quantity: qty("3")}},
		})

		require.NoError(t, err)
		assert.Equal(t, "8.00", priced.LineTotal.StringFixed(2))
		require.Len(t, priced.NormalizedOptions, 1)
		assert.True(t, priced.NormalizedOptions[0].Quantity().Equal(decimal.NewFromInt(1)))
	})

	t.Run("should drop unselected options", func(t *testing.T) {
		priced, err := pricer.Price(services.CartLine{
			MenuItemID: "burger",
			UnitPrice:  "8",
			Quantity:   1,
			Options: []services.CartOption{
				{ID: "no-onion", UnitPrice: "0", Quantity: qty("0")},
				{ID: "bacon", UnitPrice: "2", Quantity: qty("0")},
			},
		})

		require.NoError(t, err)
		assert.Empty(t, priced.NormalizedOptions)
		assert.Equal(t, "8.00", priced.LineTotal.StringFixed(2))
	})

	t.Run("should charge per-line options once", func(t *testing.T) {
		priced, err := pricer.Price(services.CartLine{
			MenuItemID: "cupcake",
			UnitPrice:  "3",
			Quantity:   3,
			Options:    []services.CartOption{{ID: "box", UnitPrice: "2", Quantity: qty("1"), Scope: scopePtr(order.PerLine)}},
		})

		require.NoError(t, err)
		assert.Equal(t, "11.00", priced.LineTotal.StringFixed(2))
		assert.Equal(t, "2.00", priced.PerLineCharges.StringFixed(2))
	})

	t.Run("should reject a negative option quantity", func(t *testing.T) {
		_, err := pricer.Price(services.CartLine{
			MenuItemID: "burger",
			UnitPrice:  "8",
			Quantity:   1,
			Options:    []services.CartOption{{ID: "bacon", UnitPrice: "2", Quantity: qty("-1")}},
		})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject a line quantity below one", func(t *testing.T) {
		_, err := pricer.Price(services.CartLine{MenuItemID: "burger", UnitPrice: "8", Quantity: 0})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should be pure", func(t *testing.T) {
		cl := services.CartLine{
			MenuItemID: "margherita",
			UnitPrice:  "10.00",
			Quantity:   2,
			Options:    []services.CartOption{{ID: "extra-cheese", UnitPrice: "1.50"}},
		}

		first, err := pricer.Price(cl)
		require.NoError(t, err)
		second, err := pricer.Price(cl)
		require.NoError(t, err)

		assert.True(t, first.LineTotal.Equal(second.LineTotal))
	})
}

func scopePtr(s order.OptionScope) *order.OptionScope {
	return &s
}
