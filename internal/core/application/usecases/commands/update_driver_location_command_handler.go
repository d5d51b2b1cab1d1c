package commands

import (
	"context"
	"log/slog"

	"cargo/internal/core/domain/model/kernel"
)

// UpdateDriverLocationCommandHandler stores the last known position used to rank
// candidates by distance. Out-of-order reports are rejected.
type UpdateDriverLocationCommandHandler struct {
	uowFactory DriverUoWFactory
	logger     *slog.Logger
}

func NewUpdateDriverLocationCommandHandler(
	uowFactory DriverUoWFactory,
	logger *slog.Logger,
) UpdateDriverLocationCommandHandler {
	return UpdateDriverLocationCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "UpdateDriverLocationCommandHandler"),
	}
}

func (h UpdateDriverLocationCommandHandler) Handle(ctx context.Context, cmd UpdateDriverLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := authorizeSelf(cmd.Actor(), cmd.DriverID(), kernel.CapManageDrivers); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	drivers := uow.DriverRepository()
	d, err := drivers.GetForUpdate(ctx, cmd.DriverID())
	if err != nil {
		return err
	}
	if err = d.UpdateLocation(cmd.Location(), cmd.ReportedAt()); err != nil {
		return err
	}
	if err = drivers.Update(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
