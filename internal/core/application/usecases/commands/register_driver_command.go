package commands

import (
	"errors"

	"cargo/internal/core/domain/model/driver"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrRegisterDriverCommandIsNotConstructed = errors.New(
	"RegisterDriverCommand must be created via NewRegisterDriverCommand constructor",
)

// RegisterDriverCommand creates the driver profile of an agent. Drivers register
// themselves, admins may register anyone.
type RegisterDriverCommand struct {
	actor         kernel.Actor
	driverID      kernel.UUID
	licenseNumber string
	vehiclePlate  string
	capacityKg    decimal.Decimal

	guard guard.ConstructorGuard
}

func NewRegisterDriverCommand(
	actor kernel.Actor,
	driverID kernel.UUID,
	licenseNumber, vehiclePlate string,
	capacityKg decimal.Decimal,
) (RegisterDriverCommand, error) {
	if err := actor.Validate(); err != nil {
		return RegisterDriverCommand{}, err
	}

	// NewProfile normalizes license and plate; the command keeps the normalized values.
	profile, err := driver.NewProfile(driverID, licenseNumber, vehiclePlate, capacityKg)
	if err != nil {
		return RegisterDriverCommand{}, err
	}

	return RegisterDriverCommand{
		actor:         actor,
		driverID:      profile.ID(),
		licenseNumber: profile.LicenseNumber(),
		vehiclePlate:  profile.VehiclePlate(),
		capacityKg:    profile.CapacityKg(),
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterDriverCommand) Validate() error {
	return c.guard.Validate(ErrRegisterDriverCommandIsNotConstructed)
}

func (c RegisterDriverCommand) Actor() kernel.Actor {
	return c.actor
}

func (c RegisterDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c RegisterDriverCommand) LicenseNumber() string {
	return c.licenseNumber
}

func (c RegisterDriverCommand) VehiclePlate() string {
	return c.vehiclePlate
}

func (c RegisterDriverCommand) CapacityKg() decimal.Decimal {
	return c.capacityKg
}
