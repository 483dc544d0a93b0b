package ports

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
)

// Sort keys accepted by OrderReader.List.
const (
	SortByCreatedAt = "created_at"
	SortByUpdatedAt = "updated_at"
	SortByTotal     = "total"
	SortByStatus    = "status"
)

// OrderFilter selects one page of orders. Zero fields do not filter.
type OrderFilter struct {
	From   *time.Time
	To     *time.Time
	Status order.Status
	Type   order.Type

	SortBy     string
	Descending bool
	Limit      int
	Offset     int
}

// OrderPage is a slice of matching orders and the count of all matches.
type OrderPage struct {
	Orders []*order.Order
	Total  int64
}

// OrderReader is the read side of order storage. Nothing it returns is
// tracked by a unit of work.
type OrderReader interface {
	// Find returns an order with its lines, or an errs.ObjectNotFoundError.
	Find(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// List returns the page described by filter, each order with its lines.
	List(ctx context.Context, filter OrderFilter) (OrderPage, error)
}
