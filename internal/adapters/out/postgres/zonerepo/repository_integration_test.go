package zonerepo_test

import (
	"context"
	"strings"
	"testing"

	"ordering/internal/adapters/out/postgres/pgtest"
	"ordering/internal/adapters/out/postgres/zonerepo"

	"github.com/stretchr/testify/suite"
)

type ZoneRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	repository *zonerepo.GormZoneRepository
}

func (suite *ZoneRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.Require().NoError(database.DB.AutoMigrate(&zonerepo.ZoneDTO{}))
}

func (suite *ZoneRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.DB.Exec("TRUNCATE TABLE delivery_zones").Error)
	suite.repository = zonerepo.NewGormZoneRepository(suite.database.DB)
}

func (suite *ZoneRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *ZoneRepositoryIntegrationTestSuite) TestUpsert_ThenAll() {
	ctx := context.Background()
	zones, err := zonerepo.ParseSeed(strings.NewReader(seedYAML))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Upsert(ctx, zones))
	suite.Require().NoError(suite.repository.Upsert(ctx, zones), "seeding twice is harmless")

	loaded, err := suite.repository.All(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(loaded, 2)
	suite.Equal("greater", loaded[0].ID())
	suite.Equal("mitte", loaded[1].ID())
	suite.Equal("2.00", loaded[1].Fee().StringFixed(2))
}

func (suite *ZoneRepositoryIntegrationTestSuite) TestAll_Empty() {
	loaded, err := suite.repository.All(context.Background())

	suite.Require().NoError(err)
	suite.Empty(loaded)
}

func TestZoneRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ZoneRepositoryIntegrationTestSuite))
}
