package commands

import (
	"errors"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/guard"
)

var ErrConfirmPaymentCommandIsNotConstructed = errors.New(
	"ConfirmPaymentCommand must be created via NewConfirmPaymentCommand constructor",
)

// ConfirmPaymentCommand lets an admin record a payment settled outside the gateway
// callback (cash, offline reconciliation). Effects match a SUCCESS callback.
type ConfirmPaymentCommand struct {
	actor      kernel.Actor
	shipmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewConfirmPaymentCommand(actor kernel.Actor, shipmentID kernel.UUID) (ConfirmPaymentCommand, error) {
	if err := errors.Join(actor.Validate(), shipmentID.Validate()); err != nil {
		return ConfirmPaymentCommand{}, err
	}

	return ConfirmPaymentCommand{
		actor:      actor,
		shipmentID: shipmentID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmPaymentCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPaymentCommandIsNotConstructed)
}

func (c ConfirmPaymentCommand) Actor() kernel.Actor {
	return c.actor
}

func (c ConfirmPaymentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}
