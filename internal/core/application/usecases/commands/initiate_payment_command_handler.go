package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/payment"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"
)

const paymentGatewayService = "payment gateway"

// InitiatePaymentCommandHandler creates the single payment of a shipment. The gateway is
// called while the shipment row is held, so two concurrent initiations cannot both reach
// the provider; a gateway failure leaves nothing behind.
type InitiatePaymentCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.PaymentGateway
	logger     *slog.Logger
}

func NewInitiatePaymentCommandHandler(
	uowFactory UoWFactory,
	gateway ports.PaymentGateway,
	logger *slog.Logger,
) InitiatePaymentCommandHandler {
	return InitiatePaymentCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		logger:     logger.With("component", "InitiatePaymentCommandHandler"),
	}
}

func (h InitiatePaymentCommandHandler) Handle(ctx context.Context, cmd InitiatePaymentCommand) (*payment.Payment, error) {
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
	if err = authorizeOwner(cmd.Actor(), s, kernel.CapPayShipment); err != nil {
		return nil, err
	}
	if s.Status() != shipment.Confirmed {
		return nil, errs.NewInvalidStateTransitionErrorWithCause("shipment", s.Status().String(), shipment.Paid.String(),
			errors.New("payment can only be initiated for a CONFIRMED shipment"))
	}

	payments := uow.PaymentRepository()
	_, err = payments.GetByShipment(ctx, s.ID())
	switch {
	case err == nil:
		return nil, ErrPaymentAlreadyExists
	case !errors.Is(err, errs.ErrObjectNotFound):
		return nil, err
	}

	now := utcNow()
	p, err := payment.NewPayment(kernel.NewUUID(), s.ID(), cmd.Provider(), s.Tariff().Total(), cmd.PayerPhone(), now)
	if err != nil {
		return nil, err
	}

	resp, err := h.gateway.Initiate(ctx, p)
	if err != nil {
		return nil, errs.NewExternalServiceError(paymentGatewayService, err)
	}
	if resp.Status == payment.Failed {
		return nil, errs.NewExternalServiceError(paymentGatewayService,
			fmt.Errorf("collection request %s was declined", resp.GatewayRef))
	}
	if err = p.AttachGatewayRef(resp.GatewayRef, now); err != nil {
		return nil, errs.NewExternalServiceError(paymentGatewayService, err)
	}

	if err = payments.Add(ctx, p); err != nil {
		if errors.Is(err, errs.ErrObjectAlreadyExists) {
			return nil, ErrPaymentAlreadyExists
		}
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "payment initiated",
		"shipment_id", s.ID().String(),
		"payment_id", p.ID().String(),
		"gateway_ref", p.GatewayRef(),
		"provider", p.Provider().String())
	return p, nil
}
