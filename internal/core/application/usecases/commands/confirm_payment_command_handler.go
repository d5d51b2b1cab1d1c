package commands

import (
	"context"
	"log/slog"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/payment"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/pkg/errs"
)

// ConfirmPaymentCommandHandler confirms the payment of a CONFIRMED shipment. Confirming
// twice, or for a shipment not awaiting payment, fails with an InvalidStateTransitionError.
type ConfirmPaymentCommandHandler struct {
	uowFactory UoWFactory
	capture    PaymentCapture
	logger     *slog.Logger
}

func NewConfirmPaymentCommandHandler(
	uowFactory UoWFactory,
	capture PaymentCapture,
	logger *slog.Logger,
) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{
		uowFactory: uowFactory,
		capture:    capture,
		logger:     logger.With("component", "ConfirmPaymentCommandHandler"),
	}
}

func (h ConfirmPaymentCommandHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) (*shipment.Shipment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := cmd.Actor().Authorize(kernel.CapConfirmPayment); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	payments := uow.PaymentRepository()
	existing, err := payments.GetByShipment(ctx, cmd.ShipmentID())
	if err != nil {
		return nil, err
	}

	// Same lock order as the gateway callback: payment, then shipment.
	p, err := payments.GetByGatewayRefForUpdate(ctx, existing.GatewayRef())
	if err != nil {
		return nil, err
	}

	now := utcNow()
	switch p.Status() {
	case payment.Pending:
		if _, err = p.Resolve(payment.Success, "", now); err != nil {
			return nil, err
		}
		if err = payments.Update(ctx, p); err != nil {
			return nil, err
		}
	case payment.Success:
	default:
		return nil, errs.NewInvalidStateTransitionError("payment", p.Status().String(), payment.Success.String())
	}

	s, err := uow.ShipmentRepository().GetForUpdate(ctx, cmd.ShipmentID())
	if err != nil {
		return nil, err
	}

	var effects afterCommit
	if _, err = h.capture.Confirm(ctx, uow, s, p, cmd.Actor(), now, &effects); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "payment confirmed manually",
		"shipment_id", s.ID().String(),
		"actor", cmd.Actor().String())

	effects.run(ctx)
	return s, nil
}
