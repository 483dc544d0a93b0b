// Package ordertest builds ready-made orders for tests in other packages.
package ordertest

import (
	"testing"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// PlacedAt is the creation time of every fixture order.
var PlacedAt = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// PizzaLine is 2 × Margherita (large, 10.00) with extra cheese (1.50): 23.00.
func PizzaLine(t testing.TB) order.Line {
	t.Helper()
	cheese, err := order.NewOptionSelection("extra-cheese", "Extra cheese",
		decimal.RequireFromString("1.50"), decimal.NewFromInt(1), order.PerUnit)
	require.NoError(t, err)

	line, err := order.NewLine("margherita", "Margherita", "large",
		decimal.RequireFromString("10.00"), 2, []order.OptionSelection{cheese})
	require.NoError(t, err)
	return line
}

// BoxLine is 3 × Cupcake (3.00) with a per-line gift box (2.00): 11.00.
func BoxLine(t testing.TB) order.Line {
	t.Helper()
	box, err := order.NewOptionSelection("gift-box", "Gift box",
		decimal.RequireFromString("2.00"), decimal.NewFromInt(1), order.PerLine)
	require.NoError(t, err)

	line, err := order.NewLine("cupcake", "Cupcake", "",
		decimal.RequireFromString("3.00"), 3, []order.OptionSelection{box})
	require.NoError(t, err)
	return line
}

// TableOrder is a pending table order at T4 worth 34.00.
func TableOrder(t testing.TB) *order.Order {
	return TableOrderAt(t, PlacedAt)
}

// TableOrderAt is TableOrder created at now.
func TableOrderAt(t testing.TB, now time.Time) *order.Order {
	t.Helper()
	o, err := order.NewTableOrder(order.TableOrderParams{
		ID:           kernel.NewUUID(),
		TableID:      "T4",
		Lines:        []order.Line{PizzaLine(t), BoxLine(t)},
		Notes:        "window seat",
		PaymentLabel: "card",
		Now:          now,
	})
	require.NoError(t, err)
	return o
}

// DeliveryOrder is a pending delivery order for Ada worth 25.00 (23.00 + 2.00 fee).
func DeliveryOrder(t testing.TB) *order.Order {
	t.Helper()
	point, err := kernel.NewGeoPoint(52.52, 13.405)
	require.NoError(t, err)
	customer, err := order.NewCustomer("Ada", "+49 30 1234567", "Unter den Linden 1", point)
	require.NoError(t, err)

	o, err := order.NewDeliveryOrder(order.DeliveryOrderParams{
		ID:          kernel.NewUUID(),
		Customer:    customer,
		DeliveryFee: decimal.RequireFromString("2.00"),
		Lines:       []order.Line{PizzaLine(t)},
		Now:         PlacedAt,
	})
	require.NoError(t, err)
	return o
}
