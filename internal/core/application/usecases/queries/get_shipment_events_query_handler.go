package queries

import (
	"context"
	"database/sql"
	"errors"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetShipmentEventsQueryHandler struct {
	db *gorm.DB
}

func NewGetShipmentEventsQueryHandler(db *gorm.DB) GetShipmentEventsQueryHandler {
	return GetShipmentEventsQueryHandler{db: db}
}

// Handle checks that the actor may see the shipment, then returns its events oldest
// first. Events sharing a timestamp are ordered by id so pages are stable.
func (h GetShipmentEventsQueryHandler) Handle(ctx context.Context, query GetShipmentEventsQuery) ([]EventView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := query.Actor().Authorize(kernel.CapViewShipment); err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx)

	var owner struct {
		TrackingCode string
		SenderID     uuid.UUID
		DriverID     uuid.NullUUID
	}
	err := db.Raw(`SELECT tracking_code, sender_id, driver_id FROM shipments WHERE id = ?`,
		query.ShipmentID().Bytes()).Row().Scan(&owner.TrackingCode, &owner.SenderID, &owner.DriverID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundError("shipment", query.ShipmentID().String())
	}
	if err != nil {
		return nil, err
	}

	senderID, err := kernel.UUIDFromRaw(owner.SenderID)
	if err != nil {
		return nil, err
	}
	driverID, err := optionalUUID(owner.DriverID)
	if err != nil {
		return nil, err
	}
	if err = authorizeView(query.Actor(), senderID, driverID, owner.TrackingCode); err != nil {
		return nil, err
	}

	rows, err := db.Raw(`
		SELECT`+eventColumns+`
		FROM shipment_events e
		JOIN shipments s ON s.id = e.shipment_id
		WHERE e.shipment_id = ?
		ORDER BY e.occurred_at, e.id
	`, query.ShipmentID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}
