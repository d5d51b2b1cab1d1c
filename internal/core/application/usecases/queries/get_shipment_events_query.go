package queries

import (
	"errors"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/guard"
)

var ErrGetShipmentEventsQueryIsNotConstructed = errors.New(
	"GetShipmentEventsQuery must be created via NewGetShipmentEventsQuery constructor",
)

// GetShipmentEventsQuery lists the audit trail of one shipment in occurrence order.
type GetShipmentEventsQuery struct {
	actor      kernel.Actor
	shipmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetShipmentEventsQuery(actor kernel.Actor, shipmentID kernel.UUID) (GetShipmentEventsQuery, error) {
	if err := errors.Join(actor.Validate(), shipmentID.Validate()); err != nil {
		return GetShipmentEventsQuery{}, err
	}

	return GetShipmentEventsQuery{
		actor:      actor,
		shipmentID: shipmentID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetShipmentEventsQuery) Validate() error {
	return q.guard.Validate(ErrGetShipmentEventsQueryIsNotConstructed)
}

func (q GetShipmentEventsQuery) Actor() kernel.Actor {
	return q.actor
}

func (q GetShipmentEventsQuery) ShipmentID() kernel.UUID {
	return q.shipmentID
}
