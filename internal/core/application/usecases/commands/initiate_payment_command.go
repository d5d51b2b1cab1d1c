package commands

import (
	"errors"
	"strings"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/payment"
	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"
)

var ErrInitiatePaymentCommandIsNotConstructed = errors.New(
	"InitiatePaymentCommand must be created via NewInitiatePaymentCommand constructor",
)

// InitiatePaymentCommand asks the mobile money provider to collect the tariff total
// of a CONFIRMED shipment from payerPhone.
type InitiatePaymentCommand struct {
	actor      kernel.Actor
	shipmentID kernel.UUID
	provider   payment.Provider
	payerPhone string

	guard guard.ConstructorGuard
}

func NewInitiatePaymentCommand(
	actor kernel.Actor,
	shipmentID kernel.UUID,
	provider payment.Provider,
	payerPhone string,
) (InitiatePaymentCommand, error) {
	var errPhone error
	payerPhone = strings.TrimSpace(payerPhone)
	if payerPhone == "" {
		errPhone = errs.NewValueIsRequiredError("payer phone")
	}

	if err := errors.Join(actor.Validate(), shipmentID.Validate(), provider.Validate(), errPhone); err != nil {
		return InitiatePaymentCommand{}, err
	}

	return InitiatePaymentCommand{
		actor:      actor,
		shipmentID: shipmentID,
		provider:   provider,
		payerPhone: payerPhone,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c InitiatePaymentCommand) Validate() error {
	return c.guard.Validate(ErrInitiatePaymentCommandIsNotConstructed)
}

func (c InitiatePaymentCommand) Actor() kernel.Actor {
	return c.actor
}

func (c InitiatePaymentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c InitiatePaymentCommand) Provider() payment.Provider {
	return c.provider
}

func (c InitiatePaymentCommand) PayerPhone() string {
	return c.payerPhone
}
