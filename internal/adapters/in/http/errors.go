package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// StatusFor maps an error returned by a handler to its HTTP status and body.
//
// Mapping:
//   - echo.HTTPError keeps its own status
//   - out of service area and unknown address: 422
//   - unreachable store or geocoder: 503
//   - unknown order: 404
//   - forbidden transition and concurrent update: 409
//   - validation errors: 400
//   - anything else: 500
func StatusFor(err error) (int, Error) {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code, Error{Code: codeForStatus(httpErr.Code), Message: fmt.Sprint(httpErr.Message)}
	case errors.Is(err, services.ErrOutOfServiceArea):
		return http.StatusUnprocessableEntity, Error{Code: CodeOutOfServiceArea, Message: err.Error()}
	case errors.Is(err, ports.ErrAddressNotFound):
		return http.StatusUnprocessableEntity, Error{Code: CodeAddressNotFound, Message: err.Error()}
	case errors.Is(err, errs.ErrUnavailable):
		return http.StatusServiceUnavailable, Error{Code: CodeUnavailable, Message: "A required service is temporarily unavailable, please retry"}
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, Error{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, order.ErrInvalidTransition), errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict, Error{Code: CodeConflict, Message: err.Error()}
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, Error{Code: CodeInvalidRequest, Message: err.Error()}
	default:
		return http.StatusInternalServerError, Error{Code: CodeInternal, Message: "Internal server error"}
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeInvalidRequest
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusServiceUnavailable:
		return CodeUnavailable
	}
	if status >= http.StatusInternalServerError {
		return CodeInternal
	}
	return http.StatusText(status)
}

// ErrorHandler renders every handler error as an Error body. Server side
// failures are logged with the request path.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := StatusFor(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", status,
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Error("write error response", "error", err)
		}
	}
}
