package http

import (
	"net/http"
	"time"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// RegisterDriver handles POST /api/v1/drivers. Drivers register themselves; an admin
// names the driver in the body.
func (s *Server) RegisterDriver(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	var body newDriverRequest
	if err = bindBody(c, &body); err != nil {
		return s.fail(c, err)
	}

	driverID := *actor.ID()
	if body.DriverID != nil {
		if driverID, err = kernel.UUIDFromRaw(*body.DriverID); err != nil {
			return s.fail(c, err)
		}
	}
	cmd, err := commands.NewRegisterDriverCommand(actor, driverID, body.LicenseNumber, body.VehiclePlate, body.CapacityKg)
	if err != nil {
		return s.fail(c, err)
	}

	profile, err := s.handlers.RegisterDriver.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, newDriverResponse(profile))
}

// UpdateDriverLocation handles PUT /api/v1/drivers/{id}/location.
func (s *Server) UpdateDriverLocation(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	id, err := uuidPathParam(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	var body locationRequest
	if err = bindBody(c, &body); err != nil {
		return s.fail(c, err)
	}
	point, err := kernel.NewGeoPoint(body.Lat, body.Lon)
	if err != nil {
		return s.fail(c, err)
	}
	reportedAt := time.Now().UTC()
	if body.ReportedAt != nil {
		reportedAt = body.ReportedAt.UTC()
	}
	cmd, err := commands.NewUpdateDriverLocationCommand(actor, id, point, reportedAt)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.handlers.UpdateLocation.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
