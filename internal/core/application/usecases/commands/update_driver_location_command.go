package commands

import (
	"errors"
	"time"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"
)

var ErrUpdateDriverLocationCommandIsNotConstructed = errors.New(
	"UpdateDriverLocationCommand must be created via NewUpdateDriverLocationCommand constructor",
)

type UpdateDriverLocationCommand struct {
	actor      kernel.Actor
	driverID   kernel.UUID
	location   kernel.GeoPoint
	reportedAt time.Time

	guard guard.ConstructorGuard
}

func NewUpdateDriverLocationCommand(
	actor kernel.Actor,
	driverID kernel.UUID,
	location kernel.GeoPoint,
	reportedAt time.Time,
) (UpdateDriverLocationCommand, error) {
	var errAt error
	if reportedAt.IsZero() {
		errAt = errs.NewValueIsRequiredError("reported at")
	}
	if err := errors.Join(actor.Validate(), driverID.Validate(), location.Validate(), errAt); err != nil {
		return UpdateDriverLocationCommand{}, err
	}

	return UpdateDriverLocationCommand{
		actor:      actor,
		driverID:   driverID,
		location:   location,
		reportedAt: reportedAt.UTC(),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateDriverLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDriverLocationCommandIsNotConstructed)
}

func (c UpdateDriverLocationCommand) Actor() kernel.Actor {
	return c.actor
}

func (c UpdateDriverLocationCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c UpdateDriverLocationCommand) Location() kernel.GeoPoint {
	return c.location
}

func (c UpdateDriverLocationCommand) ReportedAt() time.Time {
	return c.reportedAt
}
