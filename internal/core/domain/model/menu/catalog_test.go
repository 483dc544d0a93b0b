package menu_test

import (
	"testing"
	"time"

	"ordering/internal/core/domain/model/menu"
	"ordering/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pizza() menu.Item {
	return menu.Item{
		ID:        "margherita",
		Name:      "Margherita",
		Available: true,
		Sizes: []menu.Size{
			{Name: "small", Price: decimal.RequireFromString("8.00"), Available: true},
			{Name: "large", Price: decimal.RequireFromString("10.00"), Available: true},
			{Name: "family", Price: decimal.RequireFromString("16.00")},
		},
		Options: []menu.Option{
			{ID: "extra-cheese", Name: "Extra cheese", Price: decimal.RequireFromString("1.50"), Available: true},
			{ID: "truffle", Name: "Truffle", Price: decimal.RequireFromString("4.00")},
		},
	}
}

func TestNewCatalog(t *testing.T) {
	loadedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	t.Run("should index items by id", func(t *testing.T) {
		tea := menu.Item{ID: "tea", Name: "Tea", Price: decimal.NewFromInt(2), Available: true}

		c, err := menu.NewCatalog([]menu.Item{tea, pizza()}, loadedAt)

		require.NoError(t, err)
		assert.Equal(t, 2, c.Len())
		assert.Equal(t, loadedAt, c.LoadedAt())
		items := c.Items()
		assert.Equal(t, "margherita", items[0].ID)
		assert.Equal(t, "tea", items[1].ID)
	})

	t.Run("should reject duplicates, empty ids and negative prices", func(t *testing.T) {
		bad := menu.Item{ID: "soup", Price: decimal.NewFromInt(-1)}

		_, err := menu.NewCatalog([]menu.Item{pizza(), pizza(), {ID: " "}, bad}, loadedAt)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "duplicated")
		assert.Contains(t, err.Error(), "negative")
	})
}

func TestCatalog_Lookup(t *testing.T) {
	c, err := menu.NewCatalog([]menu.Item{pizza()}, time.Now())
	require.NoError(t, err)

	t.Run("should price a size case-insensitively", func(t *testing.T) {
		it, err := c.Item("margherita")
		require.NoError(t, err)

		price, err := it.UnitPrice("Large")

		require.NoError(t, err)
		assert.Equal(t, "10.00", price.StringFixed(2))
	})

	t.Run("should report missing and unavailable sizes", func(t *testing.T) {
		it, _ := c.Item("margherita")

		_, err := it.UnitPrice("medium")
		require.ErrorIs(t, err, menu.ErrSizeNotFound)

		_, err = it.UnitPrice("family")
		require.ErrorIs(t, err, menu.ErrSizeUnavailable)
		assert.True(t, menu.IsUnavailable(err))
	})

	t.Run("should report missing and unavailable options", func(t *testing.T) {
		it, _ := c.Item("margherita")

		o, err := it.Option("extra-cheese")
		require.NoError(t, err)
		assert.Equal(t, "Extra cheese", o.Name)

		_, err = it.Option("truffle")
		require.ErrorIs(t, err, menu.ErrOptionUnavailable)

		_, err = it.Option("anchovies")
		require.ErrorIs(t, err, menu.ErrOptionNotFound)
	})

	t.Run("should report an unknown item", func(t *testing.T) {
		_, err := c.Item("sushi")

		require.ErrorIs(t, err, menu.ErrItemNotFound)
		assert.False(t, menu.IsUnavailable(err))
	})

	t.Run("should refuse to price an unavailable item", func(t *testing.T) {
		it := pizza()
		it.Available = false

		_, err := it.UnitPrice("large")

		require.ErrorIs(t, err, menu.ErrItemUnavailable)
	})
}
