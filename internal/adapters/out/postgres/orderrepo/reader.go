package orderrepo

import (
	"context"
	"fmt"
	"strings"

	"ordering/internal/adapters/out/postgres/pgerr"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sortColumns maps sort keys to SQL columns. Only these are ever
// interpolated into ORDER BY.
var sortColumns = map[string]string{
	ports.SortByCreatedAt: "created_at",
	ports.SortByUpdatedAt: "updated_at",
	ports.SortByTotal:     "total",
	ports.SortByStatus:    "status",
}

// GormOrderReader implements ports.OrderReader with plain SQL.
type GormOrderReader struct {
	db *gorm.DB
}

func NewGormOrderReader(db *gorm.DB) *GormOrderReader {
	return &GormOrderReader{db: db}
}

func (r *GormOrderReader) Find(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	var headers []OrderDTO
	err := r.db.WithContext(ctx).Raw(`SELECT * FROM orders WHERE id = ?`, id.Bytes()).Scan(&headers).Error
	if err != nil {
		return nil, pgerr.Classify(err)
	}
	if len(headers) == 0 {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}

	orders, err := r.withLines(ctx, headers)
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

// List counts matching orders, then loads the requested page and the lines
// of every order on it.
func (r *GormOrderReader) List(ctx context.Context, f ports.OrderFilter) (ports.OrderPage, error) {
	column, ok := sortColumns[f.SortBy]
	if !ok {
		return ports.OrderPage{}, errs.NewValueIsInvalidErrorWithCause("sort", fmt.Errorf("unknown column %q", f.SortBy))
	}

	where, args := whereClause(f)
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Raw(`SELECT COUNT(*) FROM orders`+where, args...).Scan(&total).Error; err != nil {
		return ports.OrderPage{}, pgerr.Classify(err)
	}

	dir := "ASC"
	if f.Descending {
		dir = "DESC"
	}
	// id keeps pages stable when the sort column has duplicates.
	pageSQL := fmt.Sprintf(`SELECT * FROM orders%s ORDER BY %s %s, id %s LIMIT ? OFFSET ?`, where, column, dir, dir)

	headers := make([]OrderDTO, 0, f.Limit)
	if err := db.Raw(pageSQL, append(args, f.Limit, f.Offset)...).Scan(&headers).Error; err != nil {
		return ports.OrderPage{}, pgerr.Classify(err)
	}

	orders, err := r.withLines(ctx, headers)
	if err != nil {
		return ports.OrderPage{}, err
	}
	return ports.OrderPage{Orders: orders, Total: total}, nil
}

func whereClause(f ports.OrderFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.From != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		conds = append(conds, "created_at <= ?")
		args = append(args, *f.To)
	}
	if f.Status != order.Unknown {
		conds = append(conds, "status = ?")
		args = append(args, f.Status.String())
	}
	if f.Type != order.UnknownType {
		conds = append(conds, "type = ?")
		args = append(args, f.Type.String())
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// withLines attaches lines to headers and restores the aggregates,
// preserving header order.
func (r *GormOrderReader) withLines(ctx context.Context, headers []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(headers))
	if len(headers) == 0 {
		return orders, nil
	}

	ids := make([]uuid.UUID, 0, len(headers))
	for _, h := range headers {
		ids = append(ids, h.ID)
	}

	var lines []OrderLineDTO
	err := r.db.WithContext(ctx).Raw(`
		SELECT *
		FROM order_lines
		WHERE order_id IN ?
		ORDER BY order_id, position
	`, ids).Scan(&lines).Error
	if err != nil {
		return nil, pgerr.Classify(err)
	}

	byOrder := make(map[uuid.UUID][]OrderLineDTO, len(headers))
	for _, l := range lines {
		byOrder[l.OrderID] = append(byOrder[l.OrderID], l)
	}

	for _, h := range headers {
		h.Lines = byOrder[h.ID]
		o, err := toDomain(h)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
