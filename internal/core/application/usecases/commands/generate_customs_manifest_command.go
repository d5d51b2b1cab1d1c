package commands

import (
	"errors"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/guard"
)

var ErrGenerateCustomsManifestCommandIsNotConstructed = errors.New(
	"GenerateCustomsManifestCommand must be created via NewGenerateCustomsManifestCommand constructor",
)

type GenerateCustomsManifestCommand struct {
	actor      kernel.Actor
	shipmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGenerateCustomsManifestCommand(actor kernel.Actor, shipmentID kernel.UUID) (GenerateCustomsManifestCommand, error) {
	if err := errors.Join(actor.Validate(), shipmentID.Validate()); err != nil {
		return GenerateCustomsManifestCommand{}, err
	}

	return GenerateCustomsManifestCommand{
		actor:      actor,
		shipmentID: shipmentID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c GenerateCustomsManifestCommand) Validate() error {
	return c.guard.Validate(ErrGenerateCustomsManifestCommandIsNotConstructed)
}

func (c GenerateCustomsManifestCommand) Actor() kernel.Actor {
	return c.actor
}

func (c GenerateCustomsManifestCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}
