// Package ports defines the contracts between the booking core and its infrastructure:
// repositories bound to a unit of work, the work queue, and the external collaborators
// (payment gateway, licensing authority, revenue authority, notifications, event stream).
package ports

import (
	"context"
	"time"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"
)

// ShipmentRepository defines the persistence contract for shipment aggregates.
// Lookups of missing shipments return an errs.ObjectNotFoundError.
type ShipmentRepository interface {
	// Add persists a new shipment. A second shipment with the same tracking code or
	// sync id fails with an errs.ObjectAlreadyExistsError.
	Add(ctx context.Context, aggregate *shipment.Shipment) error

	// Update persists changes to an existing shipment.
	Update(ctx context.Context, aggregate *shipment.Shipment) error

	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// GetForUpdate reads the shipment and holds its row lock until the unit of work ends.
	// Every status transition goes through it so that transitions of one shipment serialize.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	GetByTrackingCode(ctx context.Context, code shipment.TrackingCode) (*shipment.Shipment, error)

	GetBySyncID(ctx context.Context, syncID string) (*shipment.Shipment, error)

	TrackingCodeExists(ctx context.Context, code shipment.TrackingCode) (bool, error)

	// ListStaleConfirmed locks up to limit CONFIRMED shipments created before olderThan,
	// skipping rows another transaction holds.
	ListStaleConfirmed(ctx context.Context, olderThan time.Time, limit int) ([]*shipment.Shipment, error)
}
