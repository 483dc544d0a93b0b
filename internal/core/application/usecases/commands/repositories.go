// Package commands contains the operations that change order state: placing
// table and delivery orders and moving orders through their lifecycle.
// Every handler follows the same shape: validate the command, do the domain
// work, persist inside a unit of work and commit. Events are published by the
// unit of work after the commit succeeds.
package commands

import (
	"context"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
	"ordering/internal/core/ports"
)

type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW manages transactions for order operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// TableAssembler builds priced table orders from carts.
	TableAssembler interface {
		AssembleTable(ctx context.Context, req services.TableOrderRequest) (*order.Order, error)
	}

	// DeliveryAssembler builds priced delivery orders from carts.
	DeliveryAssembler interface {
		AssembleDelivery(ctx context.Context, req services.DeliveryOrderRequest) (*order.Order, error)
	}
)

// persistNew adds a freshly assembled order in its own transaction.
func persistNew(ctx context.Context, uowFactory OrderUoWFactory, o *order.Order) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
