package reconcile

import (
	"context"

	"ordering/internal/pkg/wire"
)

// ActiveOrdersKey is the store key holding a replica's active orders.
const ActiveOrdersKey = "active_orders"

// OrderPolicy tracks orders by id. Declined orders leave the set; completed
// ones stay until dismissed so the final state can be shown.
var OrderPolicy = Policy[wire.Order, string]{
	Key: func(o wire.Order) string { return o.ID },
	Trackable: func(o wire.Order) bool {
		return o.ID != "" && o.Status != "" && o.Status != "declined"
	},
	Version: func(o wire.Order) int64 { return o.Version },
}

// OrderReconciler follows a replica's own orders.
type OrderReconciler = Reconciler[wire.Order, string]

// NewOrderReconciler creates a reconciler for wire orders.
func NewOrderReconciler(store Store) *OrderReconciler {
	return NewReconciler(store, ActiveOrdersKey, OrderPolicy)
}

// ApplyEvent applies the order carried by an event-channel message. Both
// new_order and order_status_update only touch orders already tracked.
func ApplyEvent(ctx context.Context, r *OrderReconciler, ev wire.Event) (bool, error) {
	return r.Apply(ctx, ev.Order)
}
