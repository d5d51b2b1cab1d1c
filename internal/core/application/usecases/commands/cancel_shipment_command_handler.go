package commands

import (
	"context"
	"errors"
	"log/slog"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/payment"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/pkg/errs"
)

// CancelShipmentCommandHandler is the administrative exit from any non-terminal status.
// It frees the assigned driver, drops queued assignment retries of the shipment and marks
// a captured payment REFUNDED for the finance team to pay back.
type CancelShipmentCommandHandler struct {
	uowFactory UoWFactory
	pool       DriverPool
	notifier   Notifier
	logger     *slog.Logger
}

func NewCancelShipmentCommandHandler(
	uowFactory UoWFactory,
	pool DriverPool,
	notifier Notifier,
	logger *slog.Logger,
) CancelShipmentCommandHandler {
	return CancelShipmentCommandHandler{
		uowFactory: uowFactory,
		pool:       pool,
		notifier:   notifier,
		logger:     logger.With("component", "CancelShipmentCommandHandler"),
	}
}

func (h CancelShipmentCommandHandler) Handle(ctx context.Context, cmd CancelShipmentCommand) (*shipment.Shipment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := cmd.Actor().Authorize(kernel.CapCancelShipment); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := h.lockPayment(ctx, uow, cmd.ShipmentID())
	if err != nil {
		return nil, err
	}

	s, err := uow.ShipmentRepository().GetForUpdate(ctx, cmd.ShipmentID())
	if err != nil {
		return nil, err
	}

	now := utcNow()
	hadDriver := s.Status().HasDriver()
	t, err := s.Cancel(cmd.Reason(), now)
	if err != nil {
		return nil, err
	}
	if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
		return nil, err
	}
	if err = recordTransition(ctx, uow.AuditTrail(), s, t, cmd.Actor()); err != nil {
		return nil, err
	}

	if hadDriver {
		if err = releaseDriver(ctx, uow, s); err != nil {
			return nil, err
		}
	}
	if t.From == shipment.Paid {
		if err = uow.TaskQueue().Cancel(ctx, h.pool.retryTaskIDs(s.ID())...); err != nil {
			return nil, err
		}
	}

	refunded := p != nil && p.Status() == payment.Success
	if refunded {
		if err = p.Refund(now); err != nil {
			return nil, err
		}
		if err = uow.PaymentRepository().Update(ctx, p); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "shipment cancelled",
		"shipment_id", s.ID().String(),
		"from", t.From.String(),
		"refund_due", refunded,
		"actor", cmd.Actor().String())

	h.notifier.StatusChanged(ctx, s, t)
	return s, nil
}

// lockPayment locks the payment of the shipment, if any, before the shipment row is
// locked. Payment callbacks and receipt signing take the same order.
func (h CancelShipmentCommandHandler) lockPayment(ctx context.Context, uow UoW, shipmentID kernel.UUID) (*payment.Payment, error) {
	payments := uow.PaymentRepository()
	existing, err := payments.GetByShipment(ctx, shipmentID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payments.GetByGatewayRefForUpdate(ctx, existing.GatewayRef())
}
