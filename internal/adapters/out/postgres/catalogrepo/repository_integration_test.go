package catalogrepo_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"ordering/internal/adapters/out/postgres/catalogrepo"
	"ordering/internal/adapters/out/postgres/pgtest"
	"ordering/internal/core/domain/model/menu"
	"ordering/internal/pkg/clock"

	"github.com/stretchr/testify/suite"
)

type CatalogRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	clock      *clock.Manual
	repository *catalogrepo.GormCatalogRepository
}

func (suite *CatalogRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.Require().NoError(database.DB.AutoMigrate(
		&catalogrepo.MenuItemDTO{},
		&catalogrepo.MenuItemSizeDTO{},
		&catalogrepo.MenuItemOptionDTO{},
	))
}

func (suite *CatalogRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.DB.
		Exec("TRUNCATE TABLE menu_item_options, menu_item_sizes, menu_items").Error)
	suite.clock = clock.NewManual(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	suite.repository = catalogrepo.NewGormCatalogRepository(suite.database.DB, suite.clock)
}

func (suite *CatalogRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *CatalogRepositoryIntegrationTestSuite) TestReplace_ThenLoad() {
	ctx := context.Background()
	items, err := catalogrepo.ParseSeed(strings.NewReader(menuYAML))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Replace(ctx, items))

	catalog, err := suite.repository.Load(ctx)
	suite.Require().NoError(err)
	suite.Equal(3, catalog.Len())
	suite.Equal(suite.clock.Now(), catalog.LoadedAt())

	pizza, err := catalog.Item("pizza")
	suite.Require().NoError(err)
	price, err := pizza.UnitPrice("LARGE")
	suite.Require().NoError(err)
	suite.Equal("10.00", price.StringFixed(2))

	_, err = pizza.UnitPrice("family")
	suite.ErrorIs(err, menu.ErrSizeUnavailable)

	tea, err := catalog.Item("tea")
	suite.Require().NoError(err)
	box, err := tea.Option("box")
	suite.Require().NoError(err)
	suite.True(box.PerLine)

	soup, err := catalog.Item("soup")
	suite.Require().NoError(err)
	suite.False(soup.Available)
}

func (suite *CatalogRepositoryIntegrationTestSuite) TestReplace_DropsPreviousMenu() {
	ctx := context.Background()
	items, err := catalogrepo.ParseSeed(strings.NewReader(menuYAML))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Replace(ctx, items))

	suite.Require().NoError(suite.repository.Replace(ctx, items[1:2]))

	catalog, err := suite.repository.Load(ctx)
	suite.Require().NoError(err)
	suite.Equal(1, catalog.Len())
	_, err = catalog.Item("pizza")
	suite.ErrorIs(err, menu.ErrItemNotFound)
}

func (suite *CatalogRepositoryIntegrationTestSuite) TestReplace_RejectsDuplicateIDs() {
	items := []menu.Item{{ID: "tea", Available: true}, {ID: "tea", Available: true}}

	err := suite.repository.Replace(context.Background(), items)

	suite.Require().Error(err)
	catalog, err := suite.repository.Load(context.Background())
	suite.Require().NoError(err)
	suite.Equal(0, catalog.Len())
}

func TestCatalogRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CatalogRepositoryIntegrationTestSuite))
}
