package ports

import (
	"context"

	"ordering/internal/core/domain/model/order"
)

// EventPublisher delivers order events to connected parties. Delivery is
// best effort: Publish must not block on slow consumers and reports no
// delivery outcome.
type EventPublisher interface {
	Publish(ctx context.Context, event order.Event)
}
