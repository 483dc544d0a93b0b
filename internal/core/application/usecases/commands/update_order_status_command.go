package commands

import (
	"errors"
	"fmt"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand moves an order to a new status, optionally
// revising the wait time estimate.
//
// Example:
//
//	wait := 20
//	cmd, _ := NewUpdateOrderStatusCommand(orderID, "accepted", &wait)
//	updated, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, order.ErrInvalidTransition) {
//	    // 409
//	}
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	status          order.Status
	waitTimeMinutes *int

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand parses the target status and rejects a
// non-positive wait time.
func NewUpdateOrderStatusCommand(orderID kernel.UUID, status string, waitTimeMinutes *int) (UpdateOrderStatusCommand, error) {
	cmd := UpdateOrderStatusCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStatus(status),
		cmd.setWaitTime(waitTimeMinutes),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return cmd, nil
}

func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) OrderID() kernel.UUID { return c.orderID }
func (c UpdateOrderStatusCommand) Status() order.Status { return c.status }

// WaitTimeMinutes is nil when the caller did not send one.
func (c UpdateOrderStatusCommand) WaitTimeMinutes() *int { return c.waitTimeMinutes }

func (c *UpdateOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *UpdateOrderStatusCommand) setStatus(status string) error {
	s, err := order.ParseStatus(status)
	if err != nil {
		return err
	}
	c.status = s
	return nil
}

func (c *UpdateOrderStatusCommand) setWaitTime(minutes *int) error {
	if minutes == nil {
		return nil
	}
	if *minutes <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("wait time is invalid", fmt.Errorf("%d is not greater than 0", *minutes))
	}
	w := *minutes
	c.waitTimeMinutes = &w
	return nil
}
