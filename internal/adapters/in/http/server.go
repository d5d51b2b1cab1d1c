// Package http exposes the booking core over a JSON API built on echo.
//
// Every /api/v1 request passes through two middlewares before it reaches a handler:
// the settings snapshot (with the maintenance gate) and the OpenAPI request validator.
// Handlers then read the actor from the gateway headers, build the command or query
// and map the result, or the error taxonomy, to a response.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/application/usecases/queries"
	"cargo/internal/core/ports"
	"cargo/internal/pkg/settings"

	"github.com/getkin/kin-openapi/routers"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	CreateShipment   commands.CreateShipmentCommandHandler
	InitiatePayment  commands.InitiatePaymentCommandHandler
	PaymentCallback  commands.HandlePaymentCallbackCommandHandler
	ConfirmPayment   commands.ConfirmPaymentCommandHandler
	AssignDriver     commands.AssignDriverCommandHandler
	AdvanceShipment  commands.AdvanceShipmentCommandHandler
	CancelShipment   commands.CancelShipmentCommandHandler
	GenerateManifest commands.GenerateCustomsManifestCommandHandler
	RegisterDriver   commands.RegisterDriverCommandHandler
	UpdateLocation   commands.UpdateDriverLocationCommandHandler

	GetShipment       queries.GetShipmentQueryHandler
	GetShipmentEvents queries.GetShipmentEventsQueryHandler
	GetRecentEvents   queries.GetRecentEventsQueryHandler
	EstimateTariff    queries.EstimateTariffQueryHandler
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	verifier ports.CallbackVerifier
	settings *settings.Store
	router   routers.Router
	logger   *slog.Logger
}

func NewServer(
	ctx context.Context,
	handlers Handlers,
	verifier ports.CallbackVerifier,
	store *settings.Store,
	logger *slog.Logger,
) (*Server, error) {
	doc, err := LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	router, err := newRequestRouter(doc)
	if err != nil {
		return nil, err
	}
	if err = registerSwaggerDoc(doc); err != nil {
		return nil, err
	}

	return &Server{
		handlers: handlers,
		verifier: verifier,
		settings: store,
		router:   router,
		logger:   logger.With("component", "HTTPServer"),
	}, nil
}

// Register installs the validator and every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.Validator = newRequestValidator()

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", s.snapshotSettings, s.validateRequest)

	api.POST("/shipments", s.CreateShipment)
	api.GET("/shipments/:trackingCode", s.GetShipment)
	api.POST("/tariffs/estimate", s.EstimateTariff)
	api.POST("/shipments/:id/payments", s.InitiatePayment)
	api.POST("/payments/webhook", s.PaymentWebhook)
	api.POST("/shipments/:id/payment-confirmation", s.ConfirmPayment)
	api.POST("/shipments/:id/driver-assignment", s.AssignDriver)
	api.POST("/shipments/:id/transitions", s.AdvanceShipment)
	api.POST("/shipments/:id/cancellation", s.CancelShipment)
	api.POST("/shipments/:id/customs-manifest", s.GenerateCustomsManifest)
	api.GET("/shipments/:id/events", s.GetShipmentEvents)
	api.GET("/audit/events", s.GetRecentEvents)

	api.POST("/drivers", s.RegisterDriver)
	api.PUT("/drivers/:id/location", s.UpdateDriverLocation)

	api.GET("/admin/settings", s.GetSettings)
	api.POST("/admin/settings/reload", s.ReloadSettings)
}
