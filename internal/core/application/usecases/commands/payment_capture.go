package commands

import (
	"context"
	"encoding/json"
	"time"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/payment"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/core/ports"
)

const defaultPaymentFailureReason = "Payment failed"

// SignTaxReceiptPayload is the payload of a sign_tax_receipt task.
type SignTaxReceiptPayload struct {
	PaymentID string `json:"payment_id"`
}

func SignTaxReceiptTaskID(paymentID kernel.UUID) string {
	return "sign-tax-receipt:" + paymentID.String()
}

// PaymentCapture holds the shipment side of a payment outcome. It is shared by the
// gateway callback, manual confirmation and the payment timeout sweep, and always runs
// inside the caller's unit of work with the shipment row locked.
type PaymentCapture struct {
	pool     DriverPool
	notifier Notifier
}

func NewPaymentCapture(pool DriverPool, notifier Notifier) PaymentCapture {
	return PaymentCapture{pool: pool, notifier: notifier}
}

// Confirm moves s to PAID, queues the tax receipt of p and tries to assign a driver.
// It fails with an InvalidStateTransitionError unless s is CONFIRMED.
func (c PaymentCapture) Confirm(
	ctx context.Context,
	uow UoW,
	s *shipment.Shipment,
	p *payment.Payment,
	actor kernel.Actor,
	now time.Time,
	effects *afterCommit,
) (Assignment, error) {
	t, err := s.MarkPaid(now)
	if err != nil {
		return Assignment{}, err
	}
	if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
		return Assignment{}, err
	}
	if err = recordTransition(ctx, uow.AuditTrail(), s, t, actor); err != nil {
		return Assignment{}, err
	}

	payload, err := json.Marshal(SignTaxReceiptPayload{PaymentID: p.ID().String()})
	if err != nil {
		return Assignment{}, err
	}
	_, err = uow.TaskQueue().Enqueue(ctx, ports.Task{
		ID:        SignTaxReceiptTaskID(p.ID()),
		Kind:      ports.TaskSignTaxReceipt,
		Payload:   string(payload),
		NotBefore: now,
	})
	if err != nil {
		return Assignment{}, err
	}

	a, err := c.pool.Assign(ctx, uow, s, actor, 0, now)
	if err != nil {
		return Assignment{}, err
	}

	effects.add(func(ctx context.Context) { c.notifier.StatusChanged(ctx, s, t) })
	c.notifyAssignment(s, a, effects)
	return a, nil
}

// Fail moves a CONFIRMED shipment to FAILED. It reports false, without error, when the
// shipment had already failed.
func (c PaymentCapture) Fail(
	ctx context.Context,
	uow UoW,
	s *shipment.Shipment,
	reason string,
	actor kernel.Actor,
	now time.Time,
	effects *afterCommit,
) (bool, error) {
	if reason == "" {
		reason = defaultPaymentFailureReason
	}

	t, err := s.Fail(reason, now)
	if err != nil {
		return false, err
	}
	if !t.IsChange() {
		return false, nil
	}

	if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
		return false, err
	}
	if err = recordTransition(ctx, uow.AuditTrail(), s, t, actor); err != nil {
		return false, err
	}

	effects.add(func(ctx context.Context) { c.notifier.StatusChanged(ctx, s, t) })
	return true, nil
}

func (c PaymentCapture) notifyAssignment(s *shipment.Shipment, a Assignment, effects *afterCommit) {
	if a.Driver == nil {
		return
	}

	d := a.Driver
	effects.add(func(ctx context.Context) { c.notifier.DriverAssigned(ctx, s, d) })
	if s.IsInternational() {
		effects.add(func(ctx context.Context) { c.notifier.CustomsReminder(ctx, s) })
	}
}
