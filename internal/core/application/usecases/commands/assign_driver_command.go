package commands

import (
	"errors"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"
)

var ErrAssignDriverCommandIsNotConstructed = errors.New(
	"AssignDriverCommand must be created via NewAssignDriverCommand constructor",
)

// AssignDriverCommand tries to assign a driver to a PAID shipment.
//
// Attempt counts the retries already made: 0 for a direct call, n for the n-th queued
// retry. A retry for a shipment that has since left PAID is a no-op.
//
// Example:
//
//	cmd, _ := NewAssignDriverCommand(kernel.SystemActor(), shipmentID, 2)
//	result, err := handler.Handle(ctx, cmd)
//	if err == nil && result.Driver == nil {
//	    // nobody available yet, attempt 3 is queued
//	}
type AssignDriverCommand struct {
	actor      kernel.Actor
	shipmentID kernel.UUID
	attempt    int

	guard guard.ConstructorGuard
}

func NewAssignDriverCommand(actor kernel.Actor, shipmentID kernel.UUID, attempt int) (AssignDriverCommand, error) {
	var errAttempt error
	if attempt < 0 {
		errAttempt = errs.NewValueIsOutOfRangeError("attempt", attempt, 0, "unbounded")
	}
	if err := errors.Join(actor.Validate(), shipmentID.Validate(), errAttempt); err != nil {
		return AssignDriverCommand{}, err
	}

	return AssignDriverCommand{
		actor:      actor,
		shipmentID: shipmentID,
		attempt:    attempt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
}

func (c AssignDriverCommand) Actor() kernel.Actor {
	return c.actor
}

func (c AssignDriverCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c AssignDriverCommand) Attempt() int {
	return c.attempt
}

// IsRetry reports whether the command comes from the retry queue.
func (c AssignDriverCommand) IsRetry() bool {
	return c.attempt > 0
}
