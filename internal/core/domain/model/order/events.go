package order

import "time"

// EventKind distinguishes the domain events an Order records.
type EventKind int

const (
	// Placed is recorded once, when the order is created.
	Placed EventKind = iota + 1
	// StatusChanged is recorded on every successful transition.
	StatusChanged
)

func (k EventKind) String() string {
	switch k {
	case Placed:
		return "placed"
	case StatusChanged:
		return "status_changed"
	default:
		return "unknown"
	}
}

// Event is a domain event recorded by the aggregate. Order points at the
// aggregate itself, so by the time the unit of work publishes after commit it
// carries the committed state.
type Event struct {
	Kind       EventKind
	From       Status
	To         Status
	Version    int64
	OccurredAt time.Time
	Order      *Order
}
