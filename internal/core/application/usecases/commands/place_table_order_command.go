package commands

import (
	"errors"
	"strings"

	"ordering/internal/core/domain/services"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var ErrPlaceTableOrderCommandIsNotConstructed = errors.New(
	"PlaceTableOrderCommand must be created via NewPlaceTableOrderCommand constructor",
)

// PlaceTableOrderCommand asks for a new order served at a table.
//
// Example:
//
//	cmd, err := NewPlaceTableOrderCommand("T4", lines, "no ice", "card")
//	if err != nil {
//	    return fmt.Errorf("invalid order: %w", err)
//	}
//	placed, err := handler.Handle(ctx, cmd)
type PlaceTableOrderCommand struct { //nolint:recvcheck //using for validation
	tableID      string
	lines        []services.CartLine
	notes        string
	paymentLabel string

	guard guard.ConstructorGuard
}

// NewPlaceTableOrderCommand validates that a table and at least one line are given.
func NewPlaceTableOrderCommand(
	tableID string,
	lines []services.CartLine,
	notes, paymentLabel string,
) (PlaceTableOrderCommand, error) {
	cmd := PlaceTableOrderCommand{
		notes:        notes,
		paymentLabel: paymentLabel,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTableID(tableID),
		cmd.setLines(lines),
	); err != nil {
		return PlaceTableOrderCommand{}, err
	}

	return cmd, nil
}

func (c PlaceTableOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceTableOrderCommandIsNotConstructed)
}

func (c PlaceTableOrderCommand) Request() services.TableOrderRequest {
	return services.TableOrderRequest{
		TableID:      c.tableID,
		Lines:        c.lines,
		Notes:        c.notes,
		PaymentLabel: c.paymentLabel,
	}
}

func (c *PlaceTableOrderCommand) setTableID(tableID string) error {
	if strings.TrimSpace(tableID) == "" {
		return errs.NewValueIsRequiredError("table id")
	}
	c.tableID = tableID
	return nil
}

func (c *PlaceTableOrderCommand) setLines(lines []services.CartLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("lines")
	}
	c.lines = lines
	return nil
}
