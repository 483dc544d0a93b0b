package wire

import (
	"fmt"
	"strings"

	"ordering/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Notifier writes the short customer-facing sentence attached to events.
type Notifier struct {
	unit    currency.Unit
	printer *message.Printer
}

// NewNotifier formats amounts in the ISO 4217 currency code.
func NewNotifier(code string) (*Notifier, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("currency %q: %w", code, err)
	}
	return &Notifier{unit: unit, printer: message.NewPrinter(language.English)}, nil
}

// Amount renders d as e.g. "EUR 34.00".
func (n *Notifier) Amount(d decimal.Decimal) string {
	return n.printer.Sprint(currency.ISO(n.unit.Amount(d.InexactFloat64())))
}

// Notice describes what just happened to the order.
func (n *Notifier) Notice(e order.Event) string {
	o := e.Order
	if e.Kind == order.Placed {
		return fmt.Sprintf("Order received. Total %s.", n.Amount(o.Total()))
	}

	switch e.To {
	case order.Accepted:
		if eta, ok := o.ReadyBy(); ok {
			return fmt.Sprintf("Order accepted. Ready by %s UTC (%d min). Total %s.",
				eta.UTC().Format("15:04"), *o.WaitTimeMinutes(), n.Amount(o.Total()))
		}
		return fmt.Sprintf("Order accepted. Total %s.", n.Amount(o.Total()))
	case order.Preparing:
		return "Your order is being prepared."
	case order.Ready:
		if o.Type() == order.Delivery {
			return "Your order is ready and will be on its way shortly."
		}
		return "Your order is ready."
	case order.Completed:
		return "Order completed. Thank you!"
	case order.Declined:
		return "Sorry, your order was declined."
	default:
		return ""
	}
}
