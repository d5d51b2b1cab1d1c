package http

import (
	"net/http"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/application/usecases/queries"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"

	"github.com/labstack/echo/v4"
)

// CreateShipment handles POST /api/v1/shipments. A replayed sync id answers 200 with the
// shipment of the first call.
func (s *Server) CreateShipment(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	var body newShipmentRequest
	if err = bindBody(c, &body); err != nil {
		return s.fail(c, err)
	}
	req, err := body.toBooking()
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewCreateShipmentCommand(actor, req)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.handlers.CreateShipment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	return c.JSON(status, newShipmentResponse(result.Shipment))
}

// GetShipment handles GET /api/v1/shipments/{trackingCode}.
func (s *Server) GetShipment(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetShipmentQuery(actor, c.Param("trackingCode"))
	if err != nil {
		return s.fail(c, err)
	}

	view, err := s.handlers.GetShipment.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newShipmentViewResponse(view))
}

// EstimateTariff handles POST /api/v1/tariffs/estimate.
func (s *Server) EstimateTariff(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	var body tariffRequest
	if err = bindBody(c, &body); err != nil {
		return s.fail(c, err)
	}
	kind, err := shipment.ParseType(body.Type)
	if err != nil {
		return s.fail(c, err)
	}
	origin, err := kernel.UUIDFromRaw(body.OriginZoneID)
	if err != nil {
		return s.fail(c, err)
	}
	commodity, err := kernel.UUIDFromRaw(body.CommodityID)
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewEstimateTariffQuery(actor, origin, commodity, kind, body.WeightKg)
	if err != nil {
		return s.fail(c, err)
	}

	estimate, err := s.handlers.EstimateTariff.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, tariffResponse{
		Base:      estimate.Base,
		Surcharge: estimate.Surcharge,
		VAT:       estimate.VAT,
		Total:     estimate.Total,
		Currency:  estimate.Currency,
	})
}

// AssignDriver handles POST /api/v1/shipments/{id}/driver-assignment. Finding nobody is
// not an error: the response says so and whether a retry is queued.
func (s *Server) AssignDriver(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	id, err := uuidPathParam(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewAssignDriverCommand(actor, id, 0)
	if err != nil {
		return s.fail(c, err)
	}

	assignment, err := s.handlers.AssignDriver.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newAssignmentResponse(assignment))
}

// AdvanceShipment handles POST /api/v1/shipments/{id}/transitions.
func (s *Server) AdvanceShipment(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	id, err := uuidPathParam(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	var body transitionRequest
	if err = bindBody(c, &body); err != nil {
		return s.fail(c, err)
	}
	step, err := commands.ParseTransitStep(body.Step)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewAdvanceShipmentCommand(actor, id, step)
	if err != nil {
		return s.fail(c, err)
	}

	updated, err := s.handlers.AdvanceShipment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newShipmentResponse(updated))
}

// CancelShipment handles POST /api/v1/shipments/{id}/cancellation.
func (s *Server) CancelShipment(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	id, err := uuidPathParam(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	var body cancellationRequest
	if err = bindBody(c, &body); err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewCancelShipmentCommand(actor, id, body.Reason)
	if err != nil {
		return s.fail(c, err)
	}

	cancelled, err := s.handlers.CancelShipment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newShipmentResponse(cancelled))
}

// GenerateCustomsManifest handles POST /api/v1/shipments/{id}/customs-manifest and
// answers with the XML document.
func (s *Server) GenerateCustomsManifest(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	id, err := uuidPathParam(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewGenerateCustomsManifestCommand(actor, id)
	if err != nil {
		return s.fail(c, err)
	}

	document, err := s.handlers.GenerateManifest.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationXMLCharsetUTF8, []byte(document))
}

// GetShipmentEvents handles GET /api/v1/shipments/{id}/events.
func (s *Server) GetShipmentEvents(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	id, err := uuidPathParam(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetShipmentEventsQuery(actor, id)
	if err != nil {
		return s.fail(c, err)
	}

	events, err := s.handlers.GetShipmentEvents.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newEventResponses(events))
}

// GetRecentEvents handles GET /api/v1/audit/events. Without a limit the runtime
// settings decide how many events are returned.
func (s *Server) GetRecentEvents(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	limit, err := optionalIntQueryParam(c, "limit")
	if err != nil {
		return s.fail(c, err)
	}
	n := settingsFrom(c).AuditRecentLimit
	if limit != nil {
		n = *limit
	}
	query, err := queries.NewGetRecentEventsQuery(actor, n)
	if err != nil {
		return s.fail(c, err)
	}

	events, err := s.handlers.GetRecentEvents.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newEventResponses(events))
}
