package commands

import (
	"errors"
	"strings"

	"ordering/internal/core/domain/services"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var ErrPlaceDeliveryOrderCommandIsNotConstructed = errors.New(
	"PlaceDeliveryOrderCommand must be created via NewPlaceDeliveryOrderCommand constructor",
)

// PlaceDeliveryOrderCommand asks for a new order delivered to an address.
type PlaceDeliveryOrderCommand struct { //nolint:recvcheck //using for validation
	customer     services.CustomerRequest
	lines        []services.CartLine
	notes        string
	paymentLabel string

	guard guard.ConstructorGuard
}

// NewPlaceDeliveryOrderCommand validates the customer block and that at
// least one line is given.
func NewPlaceDeliveryOrderCommand(
	customer services.CustomerRequest,
	lines []services.CartLine,
	notes, paymentLabel string,
) (PlaceDeliveryOrderCommand, error) {
	cmd := PlaceDeliveryOrderCommand{
		notes:        notes,
		paymentLabel: paymentLabel,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomer(customer),
		cmd.setLines(lines),
	); err != nil {
		return PlaceDeliveryOrderCommand{}, err
	}

	return cmd, nil
}

func (c PlaceDeliveryOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceDeliveryOrderCommandIsNotConstructed)
}

func (c PlaceDeliveryOrderCommand) Request() services.DeliveryOrderRequest {
	return services.DeliveryOrderRequest{
		Customer:     c.customer,
		Lines:        c.lines,
		Notes:        c.notes,
		PaymentLabel: c.paymentLabel,
	}
}

func (c *PlaceDeliveryOrderCommand) setCustomer(customer services.CustomerRequest) error {
	var problems []error
	if strings.TrimSpace(customer.Name) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("customer name"))
	}
	if strings.TrimSpace(customer.Phone) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("customer phone"))
	}
	if strings.TrimSpace(customer.Address) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("customer address"))
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}
	c.customer = customer
	return nil
}

func (c *PlaceDeliveryOrderCommand) setLines(lines []services.CartLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("lines")
	}
	c.lines = lines
	return nil
}
