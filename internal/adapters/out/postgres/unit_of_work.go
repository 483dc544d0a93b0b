// Package postgres provides the GORM implementation of the unit of work and
// the schema migration for the ordering service.
//
// A unit of work wraps one database transaction. Repositories obtained from it
// write through that transaction and register the aggregates they touch.
// When Commit succeeds the unit of work publishes the domain events recorded
// by those aggregates; Rollback discards them, so an order that was never
// stored is never announced.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Add(ctx, placed); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx) // publishes new_order
//
// Each UnitOfWork instance is meant for a single goroutine; concurrent
// requests get their own instance from the factory.
package postgres

import (
	"context"

	"ordering/internal/adapters/out/postgres/orderrepo"
	"ordering/internal/adapters/out/postgres/pgerr"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// eventSource is implemented by aggregates that record domain events.
type eventSource interface {
	DomainEvents() []order.Event
	ClearDomainEvents()
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection
// pool and one event publisher.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.EventPublisher
}

// NewGormUnitOfWorkFactory creates a factory. publisher may be nil, in which
// case committed events are dropped.
func NewGormUnitOfWorkFactory(db *gorm.DB, publisher ports.EventPublisher) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, publisher: publisher}
}

// Create produces a fresh UnitOfWork with its own transaction state and
// tracked aggregates.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		publisher:         f.publisher,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and the aggregates
// modified inside it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	publisher         ports.EventPublisher
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling Begin twice does not nest.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return pgerr.Classify(tx.Error)
	}

	uow.tx = tx
	return nil
}

// Commit finalizes the transaction and then publishes the recorded domain
// events of every tracked aggregate, in tracking order.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.discard()
		return pgerr.Classify(err)
	}

	uow.dispatch(ctx)
	return nil
}

// Rollback discards the transaction and every recorded event. After a
// successful Commit it returns gorm.ErrInvalidTransaction, which deferred
// rollbacks ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.discard()
	return err
}

// OrderRepository returns a repository bound to the current transaction, or
// to the plain connection when no transaction is active.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return orderrepo.NewGormOrderRepository(db, uow)
}

// TrackAggregate registers an aggregate written in this unit of work. An
// aggregate tracked twice (e.g. added then updated) is dispatched once.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	for _, t := range uow.trackedAggregates {
		if t.ID.IsEqual(id) && t.Aggregate == aggregate {
			return
		}
	}
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) dispatch(ctx context.Context) {
	tracked := uow.trackedAggregates
	uow.trackedAggregates = make([]trackedAggregate, 0)

	for _, t := range tracked {
		src, ok := t.Aggregate.(eventSource)
		if !ok {
			continue
		}
		events := src.DomainEvents()
		src.ClearDomainEvents()

		if uow.publisher == nil {
			continue
		}
		for _, e := range events {
			uow.publisher.Publish(ctx, e)
		}
	}
}

func (uow *GormUnitOfWork) discard() {
	for _, t := range uow.trackedAggregates {
		if src, ok := t.Aggregate.(eventSource); ok {
			src.ClearDomainEvents()
		}
	}
	uow.trackedAggregates = make([]trackedAggregate, 0)
}
