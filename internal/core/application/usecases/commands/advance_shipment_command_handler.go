package commands

import (
	"context"
	"log/slog"
	"time"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"
)

// AdvanceShipmentCommandHandler moves an assigned shipment along its route on behalf of
// the assigned driver or an admin. Delivery returns the driver to the pool.
type AdvanceShipmentCommandHandler struct {
	uowFactory UoWFactory
	notifier   Notifier
	logger     *slog.Logger
}

func NewAdvanceShipmentCommandHandler(
	uowFactory UoWFactory,
	notifier Notifier,
	logger *slog.Logger,
) AdvanceShipmentCommandHandler {
	return AdvanceShipmentCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger.With("component", "AdvanceShipmentCommandHandler"),
	}
}

func (h AdvanceShipmentCommandHandler) Handle(ctx context.Context, cmd AdvanceShipmentCommand) (*shipment.Shipment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	s, err := uow.ShipmentRepository().GetForUpdate(ctx, cmd.ShipmentID())
	if err != nil {
		return nil, err
	}
	if err = authorizeOwner(cmd.Actor(), s, kernel.CapAdvanceShipment); err != nil {
		return nil, err
	}

	now := utcNow()
	t, err := h.apply(s, cmd.Step(), now)
	if err != nil {
		return nil, err
	}
	if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
		return nil, err
	}
	if err = recordTransition(ctx, uow.AuditTrail(), s, t, cmd.Actor()); err != nil {
		return nil, err
	}

	if t.To == shipment.Delivered {
		if err = releaseDriver(ctx, uow, s); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "shipment advanced",
		"shipment_id", s.ID().String(),
		"from", t.From.String(),
		"to", t.To.String())

	h.notifier.StatusChanged(ctx, s, t)
	return s, nil
}

func (h AdvanceShipmentCommandHandler) apply(s *shipment.Shipment, step TransitStep, now time.Time) (shipment.Transition, error) {
	switch step {
	case StepStartTransit:
		return s.StartTransit(now)
	case StepReachBorder:
		return s.ReachBorder(now)
	default:
		return s.Deliver(now)
	}
}

// releaseDriver makes the driver of s available again. The driver row is locked after
// the shipment row, the same order assignment uses.
func releaseDriver(ctx context.Context, uow UoW, s *shipment.Shipment) error {
	if s.DriverID() == nil {
		return nil
	}

	drivers := uow.DriverRepository()
	d, err := drivers.GetForUpdate(ctx, *s.DriverID())
	if err != nil {
		return err
	}

	d.Release()
	return drivers.Update(ctx, d)
}
