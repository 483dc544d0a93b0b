// Package wire is the JSON contract shared by the server and its client
// replicas: order snapshots and lifecycle events.
package wire

import (
	"encoding/json"
	"fmt"
	"time"

	"ordering/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventNewOrder     EventType = "new_order"
	EventStatusUpdate EventType = "order_status_update"
)

// Event is one message on the event channel.
type Event struct {
	Type   EventType `json:"type"`
	Order  Order     `json:"order"`
	Notice string    `json:"notice,omitempty"`
}

// Order is a full order snapshot, header and lines.
type Order struct {
	ID              string     `json:"id"`
	Type            string     `json:"type"`
	Status          string     `json:"status"`
	TableID         string     `json:"tableId,omitempty"`
	Customer        *Customer  `json:"customer,omitempty"`
	Lines           []Line     `json:"lines"`
	DeliveryFee     string     `json:"deliveryFee,omitempty"`
	Total           string     `json:"total"`
	Notes           string     `json:"notes,omitempty"`
	PaymentLabel    string     `json:"paymentLabel,omitempty"`
	WaitTimeMinutes *int       `json:"waitTimeMinutes,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	AcceptedAt      *time.Time `json:"acceptedAt,omitempty"`
	Version         int64      `json:"version"`
}

type Customer struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type Line struct {
	MenuItemID string   `json:"menuItemId"`
	Name       string   `json:"name"`
	Size       string   `json:"size,omitempty"`
	UnitPrice  string   `json:"unitPrice"`
	Quantity   int      `json:"quantity"`
	Options    []Option `json:"options"`
	LineTotal  string   `json:"lineTotal"`
}

type Option struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  string `json:"quantity"`
	Scope     string `json:"scope"`
}

// FromOrder converts the aggregate into its wire snapshot.
func FromOrder(o *order.Order) Order {
	w := Order{
		ID:              o.ID().String(),
		Type:            o.Type().String(),
		Status:          o.Status().String(),
		TableID:         o.TableID(),
		Total:           Money(o.Total()),
		Notes:           o.Notes(),
		PaymentLabel:    o.PaymentLabel(),
		WaitTimeMinutes: o.WaitTimeMinutes(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
		AcceptedAt:      o.AcceptedAt(),
		Version:         o.Version(),
	}

	if fee := o.DeliveryFee(); fee != nil {
		w.DeliveryFee = Money(*fee)
	}
	if c := o.Customer(); c != nil {
		w.Customer = &Customer{
			Name:    c.Name(),
			Phone:   c.Phone(),
			Address: c.Address(),
			Lat:     c.Point().Lat(),
			Lng:     c.Point().Lng(),
		}
	}

	lines := o.Lines()
	w.Lines = make([]Line, 0, len(lines))
	for _, l := range lines {
		w.Lines = append(w.Lines, fromLine(l))
	}
	return w
}

func fromLine(l order.Line) Line {
	opts := l.Options()
	options := make([]Option, 0, len(opts))
	for _, o := range opts {
		options = append(options, Option{
			ID:        o.ID(),
			Name:      o.Name(),
			UnitPrice: Price(o.UnitPrice()),
			Quantity:  o.Quantity().String(),
			Scope:     o.Scope().String(),
		})
	}
	return Line{
		MenuItemID: l.MenuItemID(),
		Name:       l.Name(),
		Size:       l.Size(),
		UnitPrice:  Price(l.UnitPrice()),
		Quantity:   l.Quantity(),
		Options:    options,
		LineTotal:  Money(l.Total()),
	}
}

// Money renders an amount with two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(order.MoneyPlaces)
}

// Price renders a unit price. Catalog prices carry up to four decimals, so
// sub-cent digits are kept and anything coarser is padded to two.
func Price(d decimal.Decimal) string {
	if d.Equal(d.Round(order.MoneyPlaces)) {
		return d.StringFixed(order.MoneyPlaces)
	}
	return d.String()
}

// NewEvent builds the wire event for a domain event. Notice may be nil.
func NewEvent(e order.Event, notices *Notifier) (Event, error) {
	if e.Order == nil {
		return Event{}, fmt.Errorf("event %s carries no order", e.Kind)
	}

	var typ EventType
	switch e.Kind {
	case order.Placed:
		typ = EventNewOrder
	case order.StatusChanged:
		typ = EventStatusUpdate
	default:
		return Event{}, fmt.Errorf("unknown event kind %d", e.Kind)
	}

	ev := Event{Type: typ, Order: FromOrder(e.Order)}
	if notices != nil {
		ev.Notice = notices.Notice(e)
	}
	return ev, nil
}

// ParseEvent decodes and checks an event received from the channel.
func ParseEvent(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	switch ev.Type {
	case EventNewOrder, EventStatusUpdate:
	default:
		return Event{}, fmt.Errorf("unknown event type %q", ev.Type)
	}
	if ev.Order.ID == "" {
		return Event{}, fmt.Errorf("%s event without order id", ev.Type)
	}
	return ev, nil
}
