// Package audit provides the append-only ShipmentEvent record written for every status change.
package audit

import (
	"errors"
	"strings"
	"time"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"
)

var ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent or RestoreEvent")

// Event is immutable once built. A nil actor means the system made the change.
type Event struct {
	id         kernel.UUID
	shipmentID kernel.UUID
	from       shipment.Status
	to         shipment.Status
	actorID    *kernel.UUID
	note       string
	occurredAt time.Time

	guard guard.ConstructorGuard
}

// NewEvent records a shipment transition made by actor.
func NewEvent(shipmentID kernel.UUID, t shipment.Transition, actor kernel.Actor) (Event, error) {
	return RestoreEvent(kernel.NewUUID(), shipmentID, t.From, t.To, actor.ID(), t.Note, t.At)
}

func RestoreEvent(
	id, shipmentID kernel.UUID,
	from, to shipment.Status,
	actorID *kernel.UUID,
	note string,
	occurredAt time.Time,
) (Event, error) {
	var errTime error
	if occurredAt.IsZero() {
		errTime = errs.NewValueIsRequiredError("occurred at")
	}
	if err := errors.Join(id.Validate(), shipmentID.Validate(), from.Validate(), to.Validate(), errTime); err != nil {
		return Event{}, err
	}

	return Event{
		id:         id,
		shipmentID: shipmentID,
		from:       from,
		to:         to,
		actorID:    actorID,
		note:       strings.TrimSpace(note),
		occurredAt: occurredAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (e Event) Validate() error {
	return e.guard.Validate(ErrEventIsNotConstructed)
}

func (e Event) ID() kernel.UUID {
	return e.id
}

func (e Event) ShipmentID() kernel.UUID {
	return e.shipmentID
}

func (e Event) From() shipment.Status {
	return e.from
}

func (e Event) To() shipment.Status {
	return e.to
}

// ActorID is nil for system-initiated transitions.
func (e Event) ActorID() *kernel.UUID {
	return e.actorID
}

func (e Event) Note() string {
	return e.note
}

func (e Event) OccurredAt() time.Time {
	return e.occurredAt
}
