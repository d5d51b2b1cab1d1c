package http

import (
	"net/http"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// GetSettings handles GET /api/v1/admin/settings.
func (s *Server) GetSettings(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	if err = actor.Authorize(kernel.CapManageSettings); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newSettingsResponse(settingsFrom(c)))
}

// ReloadSettings handles POST /api/v1/admin/settings/reload. A file that fails to parse
// leaves the settings in effect untouched.
func (s *Server) ReloadSettings(c echo.Context) error {
	ctx := c.Request().Context()
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	if err = actor.Authorize(kernel.CapManageSettings); err != nil {
		return s.fail(c, err)
	}

	snapshot, err := s.settings.Reload()
	if err != nil {
		s.logger.WarnContext(ctx, "settings reload failed", "actor", actor.String(), "error", err)
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("settings", err))
	}

	s.logger.InfoContext(ctx, "settings reloaded",
		"actor", actor.String(),
		"maintenance_mode", snapshot.MaintenanceMode,
		"audit_recent_limit", snapshot.AuditRecentLimit)
	return c.JSON(http.StatusOK, newSettingsResponse(snapshot))
}
