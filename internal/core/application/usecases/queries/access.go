package queries

import (
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"

	"github.com/google/uuid"
)

// authorizeView applies the shipment visibility rule: inspectors, admins and the system
// see everything, drivers see what they carry, everybody else sees what they booked.
func authorizeView(actor kernel.Actor, senderID kernel.UUID, driverID *kernel.UUID, trackingCode string) error {
	if err := actor.Authorize(kernel.CapViewShipment); err != nil {
		return err
	}
	if actor.IsSystem() || actor.Is(kernel.RoleAdmin) || actor.Is(kernel.RoleInspector) {
		return nil
	}

	if actor.Is(kernel.RoleDriver) {
		if driverID != nil && actor.IsIdentity(*driverID) {
			return nil
		}
	} else if actor.IsIdentity(senderID) {
		return nil
	}
	return errs.NewAccessDeniedError(actor.String(), kernel.CapViewShipment.String()+" on shipment "+trackingCode)
}

func optionalUUID(raw uuid.NullUUID) (*kernel.UUID, error) {
	if !raw.Valid {
		return nil, nil
	}
	id, err := kernel.UUIDFromRaw(raw.UUID)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
