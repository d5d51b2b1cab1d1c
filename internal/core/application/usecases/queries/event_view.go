package queries

import (
	"database/sql"
	"time"

	"cargo/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// EventView is one audit trail entry. ActorID is nil for system changes.
type EventView struct {
	ID           kernel.UUID
	ShipmentID   kernel.UUID
	TrackingCode string
	FromStatus   string
	ToStatus     string
	ActorID      *kernel.UUID
	Note         string
	OccurredAt   time.Time
}

const eventColumns = `
	e.id, e.shipment_id, s.tracking_code, e.from_status, e.to_status,
	e.actor_id, e.note, e.occurred_at`

func scanEvents(rows *sql.Rows) ([]EventView, error) {
	events := make([]EventView, 0)
	for rows.Next() {
		var (
			event        EventView
			id, shipment uuid.UUID
			actor        uuid.NullUUID
			err          error
		)
		if err = rows.Scan(
			&id, &shipment, &event.TrackingCode, &event.FromStatus, &event.ToStatus,
			&actor, &event.Note, &event.OccurredAt,
		); err != nil {
			return nil, err
		}

		if event.ID, err = kernel.UUIDFromRaw(id); err != nil {
			return nil, err
		}
		if event.ShipmentID, err = kernel.UUIDFromRaw(shipment); err != nil {
			return nil, err
		}
		if event.ActorID, err = optionalUUID(actor); err != nil {
			return nil, err
		}
		event.OccurredAt = event.OccurredAt.UTC()
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
