package ports

import (
	"context"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// An order is stored as a header plus its lines and is never deleted.
type OrderRepository interface {
	// Add persists a new order with all of its lines.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the header of an existing order. The write only
	// succeeds if the stored version is the one preceding aggregate.Version();
	// otherwise an errs.VersionIsInvalidError is returned.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its lines, or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
