package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"
)

// CustomsManifestPayload is the payload of a generate_customs_manifest task.
type CustomsManifestPayload struct {
	ShipmentID string `json:"shipment_id"`
}

func CustomsManifestTaskID(shipmentID kernel.UUID) string {
	return "customs-manifest:" + shipmentID.String()
}

// SignTaxReceiptCommandHandler obtains the revenue authority receipt of a captured
// payment and attaches it to the shipment.
//
// The signer is called before the unit of work begins, so no row is locked during the
// remote call. A replayed task finds the payment signed and does nothing.
type SignTaxReceiptCommandHandler struct {
	uowFactory UoWFactory
	signer     ports.TaxReceiptSigner
	logger     *slog.Logger
}

func NewSignTaxReceiptCommandHandler(
	uowFactory UoWFactory,
	signer ports.TaxReceiptSigner,
	logger *slog.Logger,
) SignTaxReceiptCommandHandler {
	return SignTaxReceiptCommandHandler{
		uowFactory: uowFactory,
		signer:     signer,
		logger:     logger.With("component", "SignTaxReceiptCommandHandler"),
	}
}

func (h SignTaxReceiptCommandHandler) Handle(ctx context.Context, cmd SignTaxReceiptCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	p, err := h.uowFactory.Create().PaymentRepository().Get(ctx, cmd.PaymentID())
	if err != nil {
		return err
	}
	if p.IsTaxReceiptSigned() {
		return nil
	}

	receipt, err := h.signer.Sign(ctx, p)
	if err != nil {
		return errs.NewExternalServiceError("tax receipt signer", err)
	}
	if receipt.IsFallback() {
		h.logger.ErrorContext(ctx, "tax receipt signed locally, shipment flagged for reconciliation",
			"alert", true,
			"payment_id", p.ID().String(),
			"receipt_number", receipt.Number())
	}

	return h.attach(ctx, p.GatewayRef(), receipt)
}

func (h SignTaxReceiptCommandHandler) attach(ctx context.Context, gatewayRef string, receipt shipment.TaxReceipt) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := uow.PaymentRepository().GetByGatewayRefForUpdate(ctx, gatewayRef)
	if err != nil {
		return err
	}
	if p.IsTaxReceiptSigned() {
		return nil
	}

	s, err := uow.ShipmentRepository().GetForUpdate(ctx, p.ShipmentID())
	if err != nil {
		return err
	}

	now := utcNow()
	err = s.AttachTaxReceipt(receipt, now)
	switch {
	case errors.Is(err, shipment.ErrTaxReceiptAlreadyAttached):
	case err != nil:
		return err
	default:
		if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
			return err
		}
		if s.IsInternational() {
			if err = h.enqueueManifest(ctx, uow, s, now); err != nil {
				return err
			}
		}
	}

	if err = p.MarkTaxReceiptSigned(now); err != nil {
		return err
	}
	if err = uow.PaymentRepository().Update(ctx, p); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "tax receipt attached",
		"shipment_id", s.ID().String(),
		"payment_id", p.ID().String(),
		"fallback", receipt.IsFallback())
	return nil
}

func (h SignTaxReceiptCommandHandler) enqueueManifest(ctx context.Context, uow UoW, s *shipment.Shipment, now time.Time) error {
	payload, err := json.Marshal(CustomsManifestPayload{ShipmentID: s.ID().String()})
	if err != nil {
		return err
	}
	_, err = uow.TaskQueue().Enqueue(ctx, ports.Task{
		ID:        CustomsManifestTaskID(s.ID()),
		Kind:      ports.TaskGenerateCustomsManifest,
		Payload:   string(payload),
		NotBefore: now,
	})
	return err
}
