// Package pgerr maps PostgreSQL driver failures onto the service's error
// taxonomy. Connection-level problems become errs.UnavailableError so the
// HTTP layer can answer 503; everything else passes through unchanged.
package pgerr

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"ordering/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

const dependency = "order store"

// Classify wraps infrastructure failures in errs.UnavailableError. A nil
// error stays nil.
func Classify(err error) error {
	if err == nil || !IsUnavailable(err) {
		return err
	}
	return errs.NewUnavailableError(dependency, err)
}

// IsUnavailable reports whether err means the database could not be reached
// or is refusing work, as opposed to rejecting this particular statement.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errs.ErrUnavailable) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isUnavailableCode(pgErr.Code)
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// isUnavailableCode matches SQLSTATE classes 08 (connection exception),
// 53 (insufficient resources) and 57P (operator intervention, e.g. shutdown).
func isUnavailableCode(code string) bool {
	return strings.HasPrefix(code, "08") ||
		strings.HasPrefix(code, "53") ||
		strings.HasPrefix(code, "57P")
}
