package commands

import (
	"context"
	"errors"
	"log/slog"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/pkg/errs"
)

// AssignDriverCommandHandler runs driver assignment for one shipment. It is safe to run
// concurrently with another assignment of the same shipment: the shipment row lock
// serializes them and the second one finds the shipment ASSIGNED.
type AssignDriverCommandHandler struct {
	uowFactory UoWFactory
	capture    PaymentCapture
	logger     *slog.Logger
}

func NewAssignDriverCommandHandler(
	uowFactory UoWFactory,
	capture PaymentCapture,
	logger *slog.Logger,
) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory: uowFactory,
		capture:    capture,
		logger:     logger.With("component", "AssignDriverCommandHandler"),
	}
}

// Handle returns an Assignment whose Driver is nil when nobody was available.
// "No driver yet" is not an error.
func (h AssignDriverCommandHandler) Handle(ctx context.Context, cmd AssignDriverCommand) (Assignment, error) {
	if err := cmd.Validate(); err != nil {
		return Assignment{}, err
	}
	if err := cmd.Actor().Authorize(kernel.CapAssignDriver); err != nil {
		return Assignment{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return Assignment{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	s, err := uow.ShipmentRepository().GetForUpdate(ctx, cmd.ShipmentID())
	if cmd.IsRetry() && errors.Is(err, errs.ErrObjectNotFound) {
		h.logger.WarnContext(ctx, "retry for unknown shipment dropped", "shipment_id", cmd.ShipmentID().String())
		return Assignment{}, nil
	}
	if err != nil {
		return Assignment{}, err
	}

	if s.Status() != shipment.Paid {
		if cmd.IsRetry() {
			h.logger.InfoContext(ctx, "retry skipped, shipment no longer awaiting a driver",
				"shipment_id", s.ID().String(),
				"status", s.Status().String(),
				"attempt", cmd.Attempt())
			return Assignment{}, nil
		}
		return Assignment{}, errs.NewInvalidStateTransitionError("shipment", s.Status().String(), shipment.Assigned.String())
	}

	a, err := h.capture.pool.Assign(ctx, uow, s, cmd.Actor(), cmd.Attempt(), utcNow())
	if err != nil {
		return Assignment{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return Assignment{}, err
	}

	var effects afterCommit
	h.capture.notifyAssignment(s, a, &effects)
	effects.run(ctx)
	return a, nil
}
