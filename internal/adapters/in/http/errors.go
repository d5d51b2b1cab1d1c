package http

import (
	"errors"
	"log/slog"
	"net/http"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var (
	errActorMissing     = errors.New("actor identity headers are missing or invalid")
	errInvalidSignature = errors.New("callback signature is invalid")
)

// Error is the body of every non-2xx JSON response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func statusFor(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, errActorMissing), errors.Is(err, errInvalidSignature):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidStateTransition),
		errors.Is(err, errs.ErrObjectAlreadyExists),
		errors.Is(err, commands.ErrPaymentAlreadyExists),
		errors.Is(err, commands.ErrDriverAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as an Error body with the status of its kind. Unclassified
// errors are logged and hidden from the caller.
func WriteError(c echo.Context, logger *slog.Logger, err error) error {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		logger.ErrorContext(c.Request().Context(), "request failed",
			slog.String("method", c.Request().Method),
			slog.String("path", c.Path()),
			slog.Any("error", err))
		message = "Internal server error"
	}
	return c.JSON(code, Error{Code: code, Message: message})
}

func (s *Server) fail(c echo.Context, err error) error {
	return WriteError(c, s.logger, err)
}
