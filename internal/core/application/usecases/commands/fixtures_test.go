package commands_test

import (
	"testing"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func pendingTableOrder(t *testing.T) *order.Order {
	t.Helper()
	line, err := order.NewLine("tea", "Tea", "", decimal.RequireFromString("2.50"), 2, nil)
	require.NoError(t, err)
	o, err := order.NewTableOrder(order.TableOrderParams{
		ID:      kernel.NewUUID(),
		TableID: "T1",
		Lines:   []order.Line{line},
		Now:     fixedNow,
	})
	require.NoError(t, err)
	return o
}
