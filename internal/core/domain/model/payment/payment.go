// Package payment provides the Payment aggregate: the single payment attempt owned by a shipment.
//
// A payment resolves exactly once. After it leaves PENDING, repeated gateway callbacks
// for its reference change nothing, which is what makes webhook delivery idempotent.
package payment

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const (
	entityName = "payment"

	// CurrencyRWF is the only settlement currency.
	CurrencyRWF = "RWF"

	maxGatewayRefLen = 100
)

var (
	ErrPaymentIsNotConstructed = errors.New("Payment must be created via NewPayment or RestorePayment")
	ErrGatewayRefAlreadySet    = errors.New("gateway reference is already set")

	phonePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)
)

type Payment struct {
	id               kernel.UUID
	shipmentID       kernel.UUID
	provider         Provider
	amount           decimal.Decimal
	currency         string
	payerPhone       string
	gatewayRef       string
	status           Status
	failureReason    string
	taxReceiptSigned bool
	createdAt        time.Time
	updatedAt        time.Time

	guard guard.ConstructorGuard
}

// NewPayment creates a PENDING payment in RWF. The gateway reference is attached
// once the provider has accepted the collection request.
func NewPayment(
	id, shipmentID kernel.UUID,
	provider Provider,
	amount decimal.Decimal,
	payerPhone string,
	now time.Time,
) (*Payment, error) {
	p := &Payment{
		status:    Pending,
		currency:  CurrencyRWF,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setIdentity(id, shipmentID),
		provider.Validate(),
		p.setAmount(amount),
		p.setPayerPhone(payerPhone),
	); err != nil {
		return nil, err
	}
	p.provider = provider

	return p, nil
}

// State is the persisted form of a Payment.
type State struct {
	ID               kernel.UUID
	ShipmentID       kernel.UUID
	Provider         Provider
	Amount           decimal.Decimal
	Currency         string
	PayerPhone       string
	GatewayRef       string
	Status           Status
	FailureReason    string
	TaxReceiptSigned bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func RestorePayment(st State) (*Payment, error) {
	p := &Payment{
		provider:         st.Provider,
		currency:         st.Currency,
		gatewayRef:       st.GatewayRef,
		status:           st.Status,
		failureReason:    st.FailureReason,
		taxReceiptSigned: st.TaxReceiptSigned,
		createdAt:        st.CreatedAt,
		updatedAt:        st.UpdatedAt,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setIdentity(st.ID, st.ShipmentID),
		st.Provider.Validate(),
		st.Status.Validate(),
		p.setAmount(st.Amount),
		p.setPayerPhone(st.PayerPhone),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Payment) Validate() error {
	if p == nil {
		return ErrPaymentIsNotConstructed
	}
	return p.guard.Validate(ErrPaymentIsNotConstructed)
}

func (p *Payment) ID() kernel.UUID {
	return p.id
}

func (p *Payment) ShipmentID() kernel.UUID {
	return p.shipmentID
}

func (p *Payment) Provider() Provider {
	return p.provider
}

func (p *Payment) Amount() decimal.Decimal {
	return p.amount
}

func (p *Payment) Currency() string {
	return p.currency
}

func (p *Payment) PayerPhone() string {
	return p.payerPhone
}

// GatewayRef is empty until the provider has accepted the request.
func (p *Payment) GatewayRef() string {
	return p.gatewayRef
}

func (p *Payment) Status() Status {
	return p.status
}

func (p *Payment) FailureReason() string {
	return p.failureReason
}

func (p *Payment) IsTaxReceiptSigned() bool {
	return p.taxReceiptSigned
}

func (p *Payment) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Payment) UpdatedAt() time.Time {
	return p.updatedAt
}

func (p *Payment) AttachGatewayRef(ref string, now time.Time) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return errs.NewValueIsRequiredError("gateway reference")
	}
	if len(ref) > maxGatewayRefLen {
		return errs.NewValueIsOutOfRangeError("gateway reference length", len(ref), 1, maxGatewayRefLen)
	}
	if p.gatewayRef != "" {
		return ErrGatewayRefAlreadySet
	}

	p.gatewayRef = ref
	p.updatedAt = now
	return nil
}

// Resolve applies the gateway outcome (SUCCESS or FAILED). It returns false without an
// error when the payment is already resolved, so duplicate callbacks are no-ops.
func (p *Payment) Resolve(outcome Status, reason string, now time.Time) (bool, error) {
	if outcome != Success && outcome != Failed {
		return false, errs.NewValueIsInvalidErrorWithCause("payment outcome",
			fmt.Errorf("%s is neither SUCCESS nor FAILED", outcome))
	}
	if !p.status.IsPending() {
		return false, nil
	}

	p.status = outcome
	if outcome == Failed {
		p.failureReason = strings.TrimSpace(reason)
	}
	p.updatedAt = now
	return true, nil
}

func (p *Payment) Refund(now time.Time) error {
	if p.status != Success {
		return errs.NewInvalidStateTransitionError(entityName, p.status.String(), Refunded.String())
	}
	p.status = Refunded
	p.updatedAt = now
	return nil
}

// MarkTaxReceiptSigned is idempotent. Only captured money can be receipted.
func (p *Payment) MarkTaxReceiptSigned(now time.Time) error {
	if p.status != Success && p.status != Refunded {
		return errs.NewValueIsInvalidErrorWithCause("tax receipt",
			fmt.Errorf("%s payment has no captured amount", p.status))
	}
	if p.taxReceiptSigned {
		return nil
	}
	p.taxReceiptSigned = true
	p.updatedAt = now
	return nil
}

func (p *Payment) setIdentity(id, shipmentID kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := shipmentID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("shipment", err)
	}
	p.id = id
	p.shipmentID = shipmentID
	return nil
}

func (p *Payment) setAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%s is not greater than 0", amount.String()))
	}
	p.amount = amount.Round(2)
	return nil
}

func (p *Payment) setPayerPhone(phone string) error {
	phone = strings.Join(strings.Fields(phone), "")
	if phone == "" {
		return errs.NewValueIsRequiredError("payer phone")
	}
	if !phonePattern.MatchString(phone) {
		return errs.NewValueIsInvalidErrorWithCause("payer phone", fmt.Errorf("%q is not a phone number", phone))
	}
	p.payerPhone = phone
	return nil
}
