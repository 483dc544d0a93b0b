package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewTableOrder, NewDeliveryOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewTableOrder, NewDeliveryOrder or RestoreOrder")

	// ErrOrderHasNoLines is returned when an order is assembled from an empty cart.
	ErrOrderHasNoLines = errs.NewValueIsRequiredError("order lines")
)

// Order is the aggregate root of the ordering domain.
//
// Order follows these invariants:
//   - total is always Σ line totals + delivery fee; it is never set directly
//   - a table order has a table id and no customer or fee
//   - a delivery order has a customer and a non-negative fee
//   - status only moves along the lifecycle graph (see Status)
//   - version starts at 1 and grows by one per transition
type Order struct {
	id           kernel.UUID
	orderType    Type
	status       Status
	lines        []Line
	deliveryFee  *decimal.Decimal
	total        decimal.Decimal
	tableID      string
	customer     *Customer
	notes        string
	paymentLabel string
	waitTime     *int
	createdAt    time.Time
	updatedAt    time.Time
	acceptedAt   *time.Time
	version      int64

	events []Event

	isConstructed bool
}

// TableOrderParams groups the inputs of NewTableOrder.
type TableOrderParams struct {
	ID           kernel.UUID
	TableID      string
	Lines        []Line
	Notes        string
	PaymentLabel string
	Now          time.Time
}

// DeliveryOrderParams groups the inputs of NewDeliveryOrder.
type DeliveryOrderParams struct {
	ID           kernel.UUID
	Customer     Customer
	DeliveryFee  decimal.Decimal
	Lines        []Line
	Notes        string
	PaymentLabel string
	Now          time.Time
}

// NewTableOrder creates a pending table order and records a Placed event.
//
// Example:
//
//	line, _ := order.NewLine("margherita", "Margherita", "large", decimal.NewFromInt(10), 2, nil)
//	o, err := order.NewTableOrder(order.TableOrderParams{
//	    ID:      kernel.NewUUID(),
//	    TableID: "T4",
//	    Lines:   []order.Line{line},
//	    Now:     time.Now(),
//	})
func NewTableOrder(p TableOrderParams) (*Order, error) {
	o := &Order{
		orderType:     Table,
		status:        Pending,
		notes:         strings.TrimSpace(p.Notes),
		paymentLabel:  strings.TrimSpace(p.PaymentLabel),
		createdAt:     p.Now,
		updatedAt:     p.Now,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setTableID(p.TableID),
		o.setLines(p.Lines),
	); err != nil {
		return nil, err
	}

	o.recomputeTotal()
	o.record(Placed, Unknown, Pending, p.Now)
	return o, nil
}

// NewDeliveryOrder creates a pending delivery order and records a Placed event.
func NewDeliveryOrder(p DeliveryOrderParams) (*Order, error) {
	o := &Order{
		orderType:     Delivery,
		status:        Pending,
		notes:         strings.TrimSpace(p.Notes),
		paymentLabel:  strings.TrimSpace(p.PaymentLabel),
		createdAt:     p.Now,
		updatedAt:     p.Now,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setCustomer(p.Customer),
		o.setDeliveryFee(p.DeliveryFee),
		o.setLines(p.Lines),
	); err != nil {
		return nil, err
	}

	o.recomputeTotal()
	o.record(Placed, Unknown, Pending, p.Now)
	return o, nil
}

// RestoreParams carries a persisted order back into the domain.
type RestoreParams struct {
	ID           kernel.UUID
	Type         Type
	Status       Status
	Lines        []Line
	DeliveryFee  *decimal.Decimal
	TableID      string
	Customer     *Customer
	Notes        string
	PaymentLabel string
	WaitTime     *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	AcceptedAt   *time.Time
	Version      int64
}

// RestoreOrder rebuilds an order from storage. It validates the same
// invariants as the constructors but records no events. The total is
// recomputed from the restored lines.
func RestoreOrder(p RestoreParams) (*Order, error) {
	o := &Order{
		orderType:     p.Type,
		notes:         p.Notes,
		paymentLabel:  p.PaymentLabel,
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
		acceptedAt:    p.AcceptedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.orderType.Validate(),
		o.setStatus(p.Status),
		o.setLines(p.Lines),
		o.setWaitTime(p.WaitTime),
		o.setVersion(p.Version),
	); err != nil {
		return nil, err
	}

	switch o.orderType {
	case Table:
		if err := o.setTableID(p.TableID); err != nil {
			return nil, err
		}
	case Delivery:
		if p.Customer == nil {
			return nil, errs.NewValueIsRequiredError("customer")
		}
		fee := decimal.Zero
		if p.DeliveryFee != nil {
			fee = *p.DeliveryFee
		}
		if err := errors.Join(o.setCustomer(*p.Customer), o.setDeliveryFee(fee)); err != nil {
			return nil, err
		}
	}

	o.recomputeTotal()
	return o, nil
}

// Validate ensures the Order was built by one of its constructors.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID        { return o.id }
func (o *Order) Type() Type             { return o.orderType }
func (o *Order) Status() Status         { return o.status }
func (o *Order) Total() decimal.Decimal { return o.total }
func (o *Order) TableID() string        { return o.tableID }
func (o *Order) Notes() string          { return o.notes }
func (o *Order) PaymentLabel() string   { return o.paymentLabel }
func (o *Order) CreatedAt() time.Time   { return o.createdAt }
func (o *Order) UpdatedAt() time.Time   { return o.updatedAt }
func (o *Order) Version() int64         { return o.version }

// Lines returns a copy of the order lines.
func (o *Order) Lines() []Line {
	out := make([]Line, len(o.lines))
	copy(out, o.lines)
	return out
}

// DeliveryFee returns the fee of a delivery order, nil for table orders.
func (o *Order) DeliveryFee() *decimal.Decimal {
	if o.deliveryFee == nil {
		return nil
	}
	fee := *o.deliveryFee
	return &fee
}

// Customer returns the customer of a delivery order, nil for table orders.
func (o *Order) Customer() *Customer {
	if o.customer == nil {
		return nil
	}
	c := *o.customer
	return &c
}

// WaitTimeMinutes returns the stored wait time estimate, if any.
func (o *Order) WaitTimeMinutes() *int {
	if o.waitTime == nil {
		return nil
	}
	w := *o.waitTime
	return &w
}

// AcceptedAt returns when the order was accepted, if it was.
func (o *Order) AcceptedAt() *time.Time {
	if o.acceptedAt == nil {
		return nil
	}
	t := *o.acceptedAt
	return &t
}

// ReadyBy estimates when the order will be ready: acceptance time plus the
// stored wait time. ok is false until both are known.
func (o *Order) ReadyBy() (eta time.Time, ok bool) {
	if o.acceptedAt == nil || o.waitTime == nil {
		return time.Time{}, false
	}
	return o.acceptedAt.Add(time.Duration(*o.waitTime) * time.Minute), true
}

// Transition moves the order to next.
//
// Business rules:
//   - next must be an edge of the lifecycle graph (see Status)
//   - waitTimeMinutes, when given, must be positive and replaces the stored
//     estimate; when nil the stored estimate is preserved
//   - accepting stamps AcceptedAt, every transition stamps UpdatedAt and
//     bumps Version
//
// Example:
//
//	wait := 25
//	if err := o.Transition(order.Accepted, &wait, now); err != nil {
//	    return err
//	}
func (o *Order) Transition(next Status, waitTimeMinutes *int, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.TransitionTo(next)
	if err != nil {
		return err
	}

	if waitTimeMinutes != nil {
		if err = o.setWaitTime(waitTimeMinutes); err != nil {
			return err
		}
	}

	from := o.status
	o.status = newStatus
	o.updatedAt = now
	o.version++
	if newStatus == Accepted {
		accepted := now
		o.acceptedAt = &accepted
	}

	o.record(StatusChanged, from, newStatus, now)
	return nil
}

// Accept is Transition(Accepted, waitTimeMinutes, now).
func (o *Order) Accept(waitTimeMinutes *int, now time.Time) error {
	return o.Transition(Accepted, waitTimeMinutes, now)
}

// Decline is Transition(Declined, nil, now).
func (o *Order) Decline(now time.Time) error {
	return o.Transition(Declined, nil, now)
}

// DomainEvents returns the events recorded since the last ClearDomainEvents.
func (o *Order) DomainEvents() []Event {
	out := make([]Event, len(o.events))
	copy(out, o.events)
	return out
}

// ClearDomainEvents drops recorded events once they have been dispatched.
func (o *Order) ClearDomainEvents() {
	o.events = nil
}

func (o *Order) record(kind EventKind, from, to Status, at time.Time) {
	o.events = append(o.events, Event{
		Kind:       kind,
		From:       from,
		To:         to,
		Version:    o.version,
		OccurredAt: at,
		Order:      o,
	})
}

func (o *Order) recomputeTotal() {
	total := decimal.Zero
	for _, l := range o.lines {
		total = total.Add(l.Total())
	}
	if o.deliveryFee != nil {
		total = total.Add(*o.deliveryFee)
	}
	o.total = total.Round(MoneyPlaces)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setTableID(tableID string) error {
	tableID = strings.TrimSpace(tableID)
	if tableID == "" {
		return errs.NewValueIsRequiredError("table id")
	}
	o.tableID = tableID
	return nil
}

func (o *Order) setCustomer(c Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	o.customer = &c
	return nil
}

func (o *Order) setDeliveryFee(fee decimal.Decimal) error {
	if fee.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("delivery fee is invalid", fmt.Errorf("%s is negative", fee))
	}
	o.deliveryFee = &fee
	return nil
}

func (o *Order) setLines(lines []Line) error {
	if len(lines) == 0 {
		return ErrOrderHasNoLines
	}
	copied := make([]Line, 0, len(lines))
	for i, l := range lines {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
		copied = append(copied, l)
	}
	o.lines = copied
	return nil
}

func (o *Order) setWaitTime(minutes *int) error {
	if minutes == nil {
		o.waitTime = nil
		return nil
	}
	if *minutes <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("wait time is invalid", fmt.Errorf("%d is not greater than 0", *minutes))
	}
	w := *minutes
	o.waitTime = &w
	return nil
}

func (o *Order) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version is invalid", fmt.Errorf("%d is not greater than 0", version))
	}
	o.version = version
	return nil
}
