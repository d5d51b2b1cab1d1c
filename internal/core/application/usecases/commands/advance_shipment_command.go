package commands

import (
	"errors"
	"strings"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"
)

var ErrAdvanceShipmentCommandIsNotConstructed = errors.New(
	"AdvanceShipmentCommand must be created via NewAdvanceShipmentCommand constructor",
)

// TransitStep is a driver-reported move along the route.
type TransitStep int

const (
	StepUnknown TransitStep = iota
	StepStartTransit
	StepReachBorder
	StepDeliver
)

func getTransitStepStrings() map[TransitStep]string {
	return map[TransitStep]string{
		StepStartTransit: "START_TRANSIT",
		StepReachBorder:  "REACH_BORDER",
		StepDeliver:      "DELIVER",
	}
}

func ParseTransitStep(s string) (TransitStep, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for step, name := range getTransitStepStrings() {
		if name == s {
			return step, nil
		}
	}
	return StepUnknown, errs.NewValueIsInvalidError("step")
}

func (s TransitStep) String() string {
	if name, ok := getTransitStepStrings()[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s TransitStep) Validate() error {
	if _, ok := getTransitStepStrings()[s]; !ok {
		return errs.NewValueIsInvalidError("step")
	}
	return nil
}

type AdvanceShipmentCommand struct {
	actor      kernel.Actor
	shipmentID kernel.UUID
	step       TransitStep

	guard guard.ConstructorGuard
}

func NewAdvanceShipmentCommand(actor kernel.Actor, shipmentID kernel.UUID, step TransitStep) (AdvanceShipmentCommand, error) {
	if err := errors.Join(actor.Validate(), shipmentID.Validate(), step.Validate()); err != nil {
		return AdvanceShipmentCommand{}, err
	}

	return AdvanceShipmentCommand{
		actor:      actor,
		shipmentID: shipmentID,
		step:       step,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AdvanceShipmentCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceShipmentCommandIsNotConstructed)
}

func (c AdvanceShipmentCommand) Actor() kernel.Actor {
	return c.actor
}

func (c AdvanceShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c AdvanceShipmentCommand) Step() TransitStep {
	return c.step
}
