// Package orderrepo persists order aggregates with GORM. An order is stored
// as one row in orders plus one row per line in order_lines; selected options
// travel with their line as a JSON column.
package orderrepo

import (
	"fmt"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderDTO is the orders header row.
type OrderDTO struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Type            string           `gorm:"type:varchar(16);not null;index"`
	Status          string           `gorm:"type:varchar(16);not null;index"`
	Total           decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	DeliveryFee     *decimal.Decimal `gorm:"type:numeric(12,2)"`
	TableID         *string          `gorm:"type:varchar(64)"`
	Customer        CustomerDTO      `gorm:"embedded;embeddedPrefix:customer_"`
	Notes           string           `gorm:"type:text"`
	PaymentLabel    string           `gorm:"type:varchar(64)"`
	WaitTimeMinutes *int
	AcceptedAt      *time.Time
	CreatedAt       time.Time      `gorm:"not null;index"`
	UpdatedAt       time.Time      `gorm:"not null;index"`
	Version         int64          `gorm:"not null;default:1"`
	Lines           []OrderLineDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// CustomerDTO is embedded into the orders row; every column is NULL for
// table orders.
type CustomerDTO struct {
	Name    *string  `gorm:"type:varchar(255)"`
	Phone   *string  `gorm:"type:varchar(64)"`
	Address *string  `gorm:"type:text"`
	Lat     *float64 `gorm:"type:double precision"`
	Lng     *float64 `gorm:"type:double precision"`
}

// OrderLineDTO is one order_lines row.
type OrderLineDTO struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position   int             `gorm:"not null"`
	MenuItemID string          `gorm:"type:varchar(64);not null"`
	Name       string          `gorm:"type:varchar(255)"`
	Size       string          `gorm:"type:varchar(64)"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,4);not null"`
	Quantity   int             `gorm:"not null"`
	LineTotal  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Options    datatypes.JSONSlice[OptionDTO]
}

func (OrderLineDTO) TableName() string {
	return "order_lines"
}

// OptionDTO is one element of the order_lines.options JSON array.
type OptionDTO struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  decimal.Decimal `json:"quantity"`
	Scope     string          `json:"scope"`
}

func fromDomain(o *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:              o.ID().Bytes(),
		Type:            o.Type().String(),
		Status:          o.Status().String(),
		Total:           o.Total(),
		DeliveryFee:     o.DeliveryFee(),
		Notes:           o.Notes(),
		PaymentLabel:    o.PaymentLabel(),
		WaitTimeMinutes: o.WaitTimeMinutes(),
		AcceptedAt:      o.AcceptedAt(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
		Version:         o.Version(),
	}

	if tableID := o.TableID(); tableID != "" {
		dto.TableID = &tableID
	}

	if c := o.Customer(); c != nil {
		name, phone, address := c.Name(), c.Phone(), c.Address()
		lat, lng := c.Point().Lat(), c.Point().Lng()
		dto.Customer = CustomerDTO{Name: &name, Phone: &phone, Address: &address, Lat: &lat, Lng: &lng}
	}

	lines := o.Lines()
	dto.Lines = make([]OrderLineDTO, 0, len(lines))
	for i, l := range lines {
		dto.Lines = append(dto.Lines, lineFromDomain(dto.ID, i, l))
	}

	return dto
}

func lineFromDomain(orderID uuid.UUID, position int, l order.Line) OrderLineDTO {
	opts := l.Options()
	options := make([]OptionDTO, 0, len(opts))
	for _, o := range opts {
		options = append(options, OptionDTO{
			ID:        o.ID(),
			Name:      o.Name(),
			UnitPrice: o.UnitPrice(),
			Quantity:  o.Quantity(),
			Scope:     o.Scope().String(),
		})
	}

	return OrderLineDTO{
		OrderID:    orderID,
		Position:   position,
		MenuItemID: l.MenuItemID(),
		Name:       l.Name(),
		Size:       l.Size(),
		UnitPrice:  l.UnitPrice(),
		Quantity:   l.Quantity(),
		LineTotal:  l.Total(),
		Options:    options,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderType, err := order.ParseType(dto.Type)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, 0, len(dto.Lines))
	for _, l := range dto.Lines {
		line, lineErr := lineToDomain(l)
		if lineErr != nil {
			return nil, fmt.Errorf("order %s line %d: %w", id, l.Position, lineErr)
		}
		lines = append(lines, line)
	}

	var customer *order.Customer
	if dto.Customer.Name != nil {
		c, custErr := customerToDomain(dto.Customer)
		if custErr != nil {
			return nil, custErr
		}
		customer = &c
	}

	var tableID string
	if dto.TableID != nil {
		tableID = *dto.TableID
	}

	return order.RestoreOrder(order.RestoreParams{
		ID:           id,
		Type:         orderType,
		Status:       status,
		Lines:        lines,
		DeliveryFee:  dto.DeliveryFee,
		TableID:      tableID,
		Customer:     customer,
		Notes:        dto.Notes,
		PaymentLabel: dto.PaymentLabel,
		WaitTime:     dto.WaitTimeMinutes,
		CreatedAt:    dto.CreatedAt,
		UpdatedAt:    dto.UpdatedAt,
		AcceptedAt:   dto.AcceptedAt,
		Version:      dto.Version,
	})
}

func lineToDomain(dto OrderLineDTO) (order.Line, error) {
	options := make([]order.OptionSelection, 0, len(dto.Options))
	for _, o := range dto.Options {
		scope, err := order.ParseOptionScope(o.Scope)
		if err != nil {
			return order.Line{}, err
		}
		sel, err := order.NewOptionSelection(o.ID, o.Name, o.UnitPrice, o.Quantity, scope)
		if err != nil {
			return order.Line{}, err
		}
		options = append(options, sel)
	}

	return order.NewLine(dto.MenuItemID, dto.Name, dto.Size, dto.UnitPrice, dto.Quantity, options)
}

func customerToDomain(dto CustomerDTO) (order.Customer, error) {
	var lat, lng float64
	if dto.Lat != nil {
		lat = *dto.Lat
	}
	if dto.Lng != nil {
		lng = *dto.Lng
	}
	point, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return order.Customer{}, err
	}

	return order.NewCustomer(deref(dto.Name), deref(dto.Phone), deref(dto.Address), point)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
