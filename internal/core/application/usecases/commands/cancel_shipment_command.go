package commands

import (
	"errors"
	"strings"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"
)

const maxCancelReasonLen = 500

var ErrCancelShipmentCommandIsNotConstructed = errors.New(
	"CancelShipmentCommand must be created via NewCancelShipmentCommand constructor",
)

type CancelShipmentCommand struct {
	actor      kernel.Actor
	shipmentID kernel.UUID
	reason     string

	guard guard.ConstructorGuard
}

func NewCancelShipmentCommand(actor kernel.Actor, shipmentID kernel.UUID, reason string) (CancelShipmentCommand, error) {
	reason = strings.TrimSpace(reason)

	var errReason error
	switch {
	case reason == "":
		errReason = errs.NewValueIsRequiredError("reason")
	case len(reason) > maxCancelReasonLen:
		errReason = errs.NewValueIsOutOfRangeError("reason", len(reason), 1, maxCancelReasonLen)
	}
	if err := errors.Join(actor.Validate(), shipmentID.Validate(), errReason); err != nil {
		return CancelShipmentCommand{}, err
	}

	return CancelShipmentCommand{
		actor:      actor,
		shipmentID: shipmentID,
		reason:     reason,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CancelShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCancelShipmentCommandIsNotConstructed)
}

func (c CancelShipmentCommand) Actor() kernel.Actor {
	return c.actor
}

func (c CancelShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c CancelShipmentCommand) Reason() string {
	return c.reason
}
