package ports

import (
	"context"

	"cargo/internal/core/domain/model/audit"
)

// AuditTrail appends shipment events inside the unit of work of the transition they describe.
// Events are never updated or deleted; reads go through the query handlers.
type AuditTrail interface {
	Record(ctx context.Context, event audit.Event) error
}
