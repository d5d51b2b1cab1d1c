// Package auditrepo appends shipment events. Rows are never updated or deleted.
package auditrepo

import (
	"context"
	"time"

	"cargo/internal/core/domain/model/audit"
	"cargo/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ShipmentID uuid.UUID  `gorm:"type:uuid;not null;index:idx_shipment_events_shipment,priority:1"`
	FromStatus string     `gorm:"type:varchar(16);not null"`
	ToStatus   string     `gorm:"type:varchar(16);not null"`
	ActorID    *uuid.UUID `gorm:"type:uuid"`
	Note       string     `gorm:"type:text;not null;default:''"`
	OccurredAt time.Time  `gorm:"not null;index;index:idx_shipment_events_shipment,priority:2"`
}

func (EventDTO) TableName() string {
	return "shipment_events"
}

// GormAuditTrail records events in the caller's transaction and hands them to the
// tracker, which publishes them once the unit of work commits.
type GormAuditTrail struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormAuditTrail(db *gorm.DB, tracker aggregateTracker) *GormAuditTrail {
	return &GormAuditTrail{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormAuditTrail) Record(ctx context.Context, event audit.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	dto := EventDTO{
		ID:         event.ID().Bytes(),
		ShipmentID: event.ShipmentID().Bytes(),
		FromStatus: event.From().String(),
		ToStatus:   event.To().String(),
		Note:       event.Note(),
		OccurredAt: event.OccurredAt(),
	}
	if actor := event.ActorID(); actor != nil {
		raw := actor.Bytes()
		dto.ActorID = &raw
	}

	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(event.ID(), event)
	return nil
}
