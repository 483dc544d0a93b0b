package queries

import (
	"errors"

	"ordering/internal/core/domain/services"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var ErrRepriceOrderQueryIsNotConstructed = errors.New(
	"RepriceOrderQuery must be created via NewRepriceOrderQuery constructor",
)

// RepriceOrderQuery prices a cart against the current menu without storing
// anything.
type RepriceOrderQuery struct {
	lines []services.CartLine
	guard guard.ConstructorGuard
}

func NewRepriceOrderQuery(lines []services.CartLine) (RepriceOrderQuery, error) {
	if len(lines) == 0 {
		return RepriceOrderQuery{}, errs.NewValueIsRequiredError("lines")
	}
	return RepriceOrderQuery{
		lines: append([]services.CartLine(nil), lines...),
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (q RepriceOrderQuery) Validate() error {
	return q.guard.Validate(ErrRepriceOrderQueryIsNotConstructed)
}
