package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	postgres_adapter "ordering/internal/adapters/out/postgres"
	"ordering/internal/adapters/out/postgres/pgtest"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/model/order/ordertest"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// recordingPublisher keeps every published event in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []order.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e order.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) Events() []order.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]order.Event, len(p.events))
	copy(out, p.events)
	return out
}

type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	database  *pgtest.Database
	db        *gorm.DB
	publisher *recordingPublisher
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.db = database.DB

	suite.Require().NoError(postgres_adapter.Migrate(suite.db))
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, order_lines").Error)
	suite.publisher = &recordingPublisher{}
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(suite.db, suite.publisher)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "second Begin must not nest")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PublishesPlacedEventOnce() {
	ctx := context.Background()
	placed := ordertest.TableOrder(suite.T())

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, placed))

	suite.Empty(suite.publisher.Events(), "nothing is published before commit")
	suite.Require().NoError(uow.Commit(ctx))

	events := suite.publisher.Events()
	suite.Require().Len(events, 1)
	suite.Equal(order.Placed, events[0].Kind)
	suite.Same(placed, events[0].Order)
	suite.Empty(placed.DomainEvents())
	suite.assertOrderCount(1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsRowsAndEvents() {
	ctx := context.Background()
	placed := ordertest.TableOrder(suite.T())

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, placed))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Empty(suite.publisher.Events())
	suite.assertOrderCount(0)
	suite.assertLineCount(0)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestStatusUpdate_PublishesStatusChanged() {
	ctx := context.Background()
	placed := ordertest.TableOrder(suite.T())
	suite.addCommitted(placed)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	repo := uow.OrderRepository()
	loaded, err := repo.Get(ctx, placed.ID())
	suite.Require().NoError(err)

	wait := 20
	suite.Require().NoError(loaded.Accept(&wait, ordertest.PlacedAt.Add(time.Minute)))
	suite.Require().NoError(repo.Update(ctx, loaded))
	suite.Require().NoError(uow.Commit(ctx))

	events := suite.publisher.Events()
	suite.Require().Len(events, 2)
	suite.Equal(order.StatusChanged, events[1].Kind)
	suite.Equal(order.Pending, events[1].From)
	suite.Equal(order.Accepted, events[1].To)
	suite.Equal(int64(2), events[1].Version)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConcurrentUpdates_OneLosesOnVersion() {
	ctx := context.Background()
	placed := ordertest.TableOrder(suite.T())
	suite.addCommitted(placed)

	first := suite.factory.Create()
	second := suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	suite.Require().NoError(second.Begin(ctx))

	a, err := first.OrderRepository().Get(ctx, placed.ID())
	suite.Require().NoError(err)
	b, err := second.OrderRepository().Get(ctx, placed.ID())
	suite.Require().NoError(err)

	now := ordertest.PlacedAt.Add(time.Minute)
	suite.Require().NoError(a.Accept(nil, now))
	suite.Require().NoError(b.Decline(now))

	suite.Require().NoError(first.OrderRepository().Update(ctx, a))
	suite.Require().NoError(first.Commit(ctx))

	err = second.OrderRepository().Update(ctx, b)
	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
	suite.Require().NoError(second.Rollback(ctx))

	var status string
	suite.Require().NoError(suite.db.Raw("SELECT status FROM orders WHERE id = ?", placed.ID().Bytes()).Scan(&status).Error)
	suite.Equal("accepted", status)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestWithoutTransaction_UsesPlainConnection() {
	ctx := context.Background()
	placed := ordertest.DeliveryOrder(suite.T())

	uow := suite.factory.Create()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, placed))

	suite.assertOrderCount(1)
	suite.Empty(suite.publisher.Events(), "events are only dispatched by Commit")
}

func (suite *UnitOfWorkIntegrationTestSuite) addCommitted(o *order.Order) {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) assertOrderCount(expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Table("orders").Count(&count).Error)
	suite.Equal(expected, count)
}

func (suite *UnitOfWorkIntegrationTestSuite) assertLineCount(expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Table("order_lines").Count(&count).Error)
	suite.Equal(expected, count)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
