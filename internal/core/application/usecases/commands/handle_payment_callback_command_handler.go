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

// PaymentCallbackResult reports what a callback changed. AlreadyProcessed is set for
// duplicate deliveries and for callbacks that lost the race against the timeout sweep.
type PaymentCallbackResult struct {
	AlreadyProcessed bool
	Shipment         *shipment.Shipment
	Assignment       Assignment
}

// HandlePaymentCallbackCommandHandler applies gateway outcomes exactly once.
//
// Locks are taken payment first, then shipment, then driver. A duplicate delivery waits
// on the payment row, finds it resolved and returns AlreadyProcessed.
type HandlePaymentCallbackCommandHandler struct {
	uowFactory UoWFactory
	capture    PaymentCapture
	logger     *slog.Logger
}

func NewHandlePaymentCallbackCommandHandler(
	uowFactory UoWFactory,
	capture PaymentCapture,
	logger *slog.Logger,
) HandlePaymentCallbackCommandHandler {
	return HandlePaymentCallbackCommandHandler{
		uowFactory: uowFactory,
		capture:    capture,
		logger:     logger.With("component", "HandlePaymentCallbackCommandHandler"),
	}
}

func (h HandlePaymentCallbackCommandHandler) Handle(
	ctx context.Context,
	cmd HandlePaymentCallbackCommand,
) (PaymentCallbackResult, error) {
	if err := cmd.Validate(); err != nil {
		return PaymentCallbackResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return PaymentCallbackResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	payments := uow.PaymentRepository()
	p, err := payments.GetByGatewayRefForUpdate(ctx, cmd.GatewayRef())
	if errors.Is(err, errs.ErrObjectNotFound) {
		h.logger.WarnContext(ctx, "callback for unknown gateway reference", "gateway_ref", cmd.GatewayRef())
		return PaymentCallbackResult{}, err
	}
	if err != nil {
		return PaymentCallbackResult{}, err
	}

	if !p.Status().IsPending() {
		h.logger.InfoContext(ctx, "duplicate callback ignored",
			"gateway_ref", cmd.GatewayRef(),
			"payment_status", p.Status().String())
		return PaymentCallbackResult{AlreadyProcessed: true}, nil
	}

	now := utcNow()
	if _, err = p.Resolve(cmd.Outcome(), cmd.Reason(), now); err != nil {
		return PaymentCallbackResult{}, err
	}
	if err = payments.Update(ctx, p); err != nil {
		return PaymentCallbackResult{}, err
	}

	s, err := uow.ShipmentRepository().GetForUpdate(ctx, p.ShipmentID())
	if err != nil {
		return PaymentCallbackResult{}, err
	}

	if s.Status() != shipment.Confirmed {
		// The payment outcome is kept for reconciliation even though the shipment moved on.
		if err = uow.Commit(ctx); err != nil {
			return PaymentCallbackResult{}, err
		}
		h.reportLostRace(ctx, p, s, cmd.Outcome())
		return PaymentCallbackResult{AlreadyProcessed: true, Shipment: s}, nil
	}

	var (
		effects afterCommit
		result  = PaymentCallbackResult{Shipment: s}
		actor   = kernel.SystemActor()
	)

	switch cmd.Outcome() {
	case payment.Success:
		result.Assignment, err = h.capture.Confirm(ctx, uow, s, p, actor, now, &effects)
	default:
		_, err = h.capture.Fail(ctx, uow, s, cmd.Reason(), actor, now, &effects)
	}
	if err != nil {
		return PaymentCallbackResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PaymentCallbackResult{}, err
	}

	h.logger.InfoContext(ctx, "payment callback applied",
		"gateway_ref", cmd.GatewayRef(),
		"outcome", cmd.Outcome().String(),
		"shipment_id", s.ID().String(),
		"shipment_status", s.Status().String())

	effects.run(ctx)
	return result, nil
}

func (h HandlePaymentCallbackCommandHandler) reportLostRace(
	ctx context.Context,
	p *payment.Payment,
	s *shipment.Shipment,
	outcome payment.Status,
) {
	if outcome == payment.Success {
		h.logger.ErrorContext(ctx, "payment captured for a shipment no longer awaiting payment, refund reconciliation required",
			"alert", true,
			"gateway_ref", p.GatewayRef(),
			"payment_id", p.ID().String(),
			"shipment_id", s.ID().String(),
			"shipment_status", s.Status().String())
		return
	}
	h.logger.InfoContext(ctx, "payment failure for a shipment no longer awaiting payment",
		"gateway_ref", p.GatewayRef(),
		"shipment_status", s.Status().String())
}
