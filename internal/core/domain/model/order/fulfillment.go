package order

import (
	"errors"
	"fmt"
	"strings"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

// Type tells how an order reaches the customer.
type Type int

const (
	UnknownType Type = iota
	// Table orders are served to a table in the restaurant.
	Table
	// Delivery orders are brought to the customer's address for a fee.
	Delivery
)

// ParseType converts the wire name ("table" or "delivery") into a Type.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table":
		return Table, nil
	case "delivery":
		return Delivery, nil
	default:
		return UnknownType, errs.NewValueIsInvalidErrorWithCause("order type is invalid", fmt.Errorf("%q is not a valid order type", s))
	}
}

func (t Type) String() string {
	switch t {
	case Table:
		return "table"
	case Delivery:
		return "delivery"
	default:
		return "unknown"
	}
}

// Validate rejects UnknownType and out-of-range values.
func (t Type) Validate() error {
	if t != Table && t != Delivery {
		return errs.NewValueIsInvalidErrorWithCause("order type is invalid", fmt.Errorf("%d is not a valid order type", t))
	}
	return nil
}

// ErrCustomerIsNotConstructed is returned when a zero Customer is used.
var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer constructor")

// Customer is the contact and address block of a delivery order. Point is
// the geocoded address and is what the delivery fee was resolved against.
type Customer struct { //nolint:recvcheck //using for validation
	name    string
	phone   string
	address string
	point   kernel.GeoPoint
	guard   guard.ConstructorGuard
}

// NewCustomer validates that name, phone and address are present and that
// point was constructed.
func NewCustomer(name, phone, address string, point kernel.GeoPoint) (Customer, error) {
	c := Customer{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		c.setName(name),
		c.setPhone(phone),
		c.setAddress(address),
		c.setPoint(point),
	); err != nil {
		return Customer{}, err
	}

	return c, nil
}

// Validate fails for a zero Customer.
func (c Customer) Validate() error {
	return c.guard.Validate(ErrCustomerIsNotConstructed)
}

func (c Customer) Name() string           { return c.name }
func (c Customer) Phone() string          { return c.phone }
func (c Customer) Address() string        { return c.address }
func (c Customer) Point() kernel.GeoPoint { return c.point }

func (c *Customer) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("customer name")
	}
	c.name = name
	return nil
}

func (c *Customer) setPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return errs.NewValueIsRequiredError("customer phone")
	}
	c.phone = phone
	return nil
}

func (c *Customer) setAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errs.NewValueIsRequiredError("customer address")
	}
	c.address = address
	return nil
}

func (c *Customer) setPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	c.point = point
	return nil
}
