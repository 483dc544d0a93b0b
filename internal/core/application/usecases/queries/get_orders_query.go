// Package queries contains read operations for retrieving order state.
// Queries bypass the unit of work and read through ports.OrderReader.
package queries

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

var ErrGetOrdersQueryIsNotConstructed = errors.New(
	"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
)

var sortKeys = map[string]bool{
	ports.SortByCreatedAt: true,
	ports.SortByUpdatedAt: true,
	ports.SortByTotal:     true,
	ports.SortByStatus:    true,
}

// GetOrdersParams are the raw filter, paging and sort inputs. Zero values
// mean "no filter" or the default.
type GetOrdersParams struct {
	From   *time.Time
	To     *time.Time
	Status string
	Type   string
	Page   int
	Limit  int
	Sort   string
	Order  string
}

// GetOrdersQuery lists orders matching a filter, one page at a time.
//
// Example:
//
//	query, err := NewGetOrdersQuery(GetOrdersParams{Status: "pending", Limit: 50})
//	if err != nil {
//	    return err
//	}
//	page, err := handler.Handle(ctx, query)
type GetOrdersQuery struct {
	from       *time.Time
	to         *time.Time
	status     order.Status
	orderType  order.Type
	page       int
	limit      int
	sortBy     string
	descending bool
	guard      guard.ConstructorGuard
}

// NewGetOrdersQuery validates params and applies defaults: page 1, limit
// 20, newest first.
func NewGetOrdersQuery(p GetOrdersParams) (GetOrdersQuery, error) {
	q := GetOrdersQuery{
		from:  p.From,
		to:    p.To,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setRange(p.From, p.To),
		q.setStatus(p.Status),
		q.setType(p.Type),
		q.setPage(p.Page),
		q.setLimit(p.Limit),
		q.setSort(p.Sort, p.Order),
	); err != nil {
		return GetOrdersQuery{}, err
	}

	return q, nil
}

func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

func (q GetOrdersQuery) Page() int  { return q.page }
func (q GetOrdersQuery) Limit() int { return q.limit }

// Filter is the storage filter for the requested page.
func (q GetOrdersQuery) Filter() ports.OrderFilter {
	return ports.OrderFilter{
		From:       q.from,
		To:         q.to,
		Status:     q.status,
		Type:       q.orderType,
		SortBy:     q.sortBy,
		Descending: q.descending,
		Limit:      q.limit,
		Offset:     (q.page - 1) * q.limit,
	}
}

func (q *GetOrdersQuery) setRange(from, to *time.Time) error {
	if from != nil && to != nil && from.After(*to) {
		return errs.NewValueIsInvalidErrorWithCause("from", fmt.Errorf("%s is after to %s",
			from.Format(time.RFC3339), to.Format(time.RFC3339)))
	}
	return nil
}

func (q *GetOrdersQuery) setStatus(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	status, err := order.ParseStatus(strings.TrimSpace(s))
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("status", err)
	}
	q.status = status
	return nil
}

func (q *GetOrdersQuery) setType(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	t, err := order.ParseType(strings.TrimSpace(s))
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("type", err)
	}
	q.orderType = t
	return nil
}

func (q *GetOrdersQuery) setPage(page int) error {
	switch {
	case page == 0:
		q.page = 1
	case page < 1:
		return errs.NewValueIsOutOfRangeError("page", page, 1, "unbounded")
	default:
		q.page = page
	}
	return nil
}

func (q *GetOrdersQuery) setLimit(limit int) error {
	switch {
	case limit == 0:
		q.limit = DefaultPageLimit
	case limit < 1 || limit > MaxPageLimit:
		return errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPageLimit)
	default:
		q.limit = limit
	}
	return nil
}

func (q *GetOrdersQuery) setSort(sort, direction string) error {
	sort = strings.ToLower(strings.TrimSpace(sort))
	if sort == "" {
		sort = ports.SortByCreatedAt
	}
	if !sortKeys[sort] {
		return errs.NewValueIsInvalidErrorWithCause("sort", fmt.Errorf("unknown column %q", sort))
	}
	q.sortBy = sort

	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "", "desc":
		q.descending = true
	case "asc":
		q.descending = false
	default:
		return errs.NewValueIsInvalidErrorWithCause("order", fmt.Errorf("%q is neither asc nor desc", direction))
	}
	return nil
}

// Pagination describes the returned page.
type Pagination struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// GetOrdersQueryResponse is one page of orders, with lines.
type GetOrdersQueryResponse struct {
	Orders     []*order.Order
	Pagination Pagination
}
