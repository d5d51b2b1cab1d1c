package queries

import (
	"context"

	"cargo/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GetRecentEventsQueryHandler serves the audit feed of inspectors and admins.
type GetRecentEventsQueryHandler struct {
	db *gorm.DB
}

func NewGetRecentEventsQueryHandler(db *gorm.DB) GetRecentEventsQueryHandler {
	return GetRecentEventsQueryHandler{db: db}
}

// Handle returns newest first.
func (h GetRecentEventsQueryHandler) Handle(ctx context.Context, query GetRecentEventsQuery) ([]EventView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := query.Actor().Authorize(kernel.CapViewAuditTrail); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT`+eventColumns+`
		FROM shipment_events e
		JOIN shipments s ON s.id = e.shipment_id
		ORDER BY e.occurred_at DESC, e.id DESC
		LIMIT ?
	`, query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}
