package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/settings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
	HeaderSignature = "X-Signature"

	settingsKey = "settings"
)

// Paths that stay writable in maintenance mode.
var maintenanceExempt = []string{
	"/api/v1/payments/webhook",
	"/api/v1/admin/settings",
}

// requestValidator adapts validator/v10 to echo.Validator.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() requestValidator {
	return requestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// actorFrom reads the identity the authentication gateway put on the request.
func actorFrom(c echo.Context) (kernel.Actor, error) {
	rawID := c.Request().Header.Get(HeaderActorID)
	rawRole := c.Request().Header.Get(HeaderActorRole)
	if rawID == "" || rawRole == "" {
		return kernel.Actor{}, errActorMissing
	}

	id, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return kernel.Actor{}, fmt.Errorf("%w: %w", errActorMissing, err)
	}
	role, err := kernel.ParseRole(rawRole)
	if err != nil {
		return kernel.Actor{}, fmt.Errorf("%w: %w", errActorMissing, err)
	}
	return kernel.NewActor(id, role)
}

// snapshotSettings pins the runtime settings for the whole request and turns away
// mutating requests while maintenance mode is on.
func (s *Server) snapshotSettings(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		snapshot := s.settings.Current()
		c.Set(settingsKey, snapshot)

		if snapshot.MaintenanceMode && isMutating(c.Request().Method) && !isMaintenanceExempt(c.Request().URL.Path) {
			return c.JSON(http.StatusServiceUnavailable, Error{
				Code:    http.StatusServiceUnavailable,
				Message: snapshot.MaintenanceMessage,
			})
		}
		return next(c)
	}
}

func settingsFrom(c echo.Context) settings.Snapshot {
	if snapshot, ok := c.Get(settingsKey).(settings.Snapshot); ok {
		return snapshot
	}
	return settings.Defaults()
}

func isMutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}

func isMaintenanceExempt(path string) bool {
	for _, prefix := range maintenanceExempt {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// validateRequest checks parameters and bodies against the OpenAPI document. Requests
// for operations it does not describe are left to the echo router.
func (s *Server) validateRequest(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		route, pathParams, err := s.router.FindRoute(req)
		if err != nil {
			return next(c)
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}
		if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
			return c.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: describeValidation(err),
			})
		}
		return next(c)
	}
}

func describeValidation(err error) string {
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
			return fmt.Sprintf("%s: %s", strings.Join(pointer, "."), schemaErr.Reason)
		}
		return schemaErr.Reason
	}

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		switch {
		case reqErr.Parameter != nil:
			return fmt.Sprintf("parameter %s is invalid", reqErr.Parameter.Name)
		case reqErr.RequestBody != nil:
			return "request body is invalid"
		case reqErr.Reason != "":
			return reqErr.Reason
		}
	}
	return err.Error()
}
