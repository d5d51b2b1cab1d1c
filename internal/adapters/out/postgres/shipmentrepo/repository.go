package shipmentrepo

import (
	"context"
	"errors"
	"time"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormShipmentRepository implements ports.ShipmentRepository using GORM.
type GormShipmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormShipmentRepository(db *gorm.DB, tracker aggregateTracker) *GormShipmentRepository {
	return &GormShipmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new shipment. Tracking code and sync id collisions come back as
// errs.ObjectAlreadyExistsError when the connection translates driver errors.
func (r *GormShipmentRepository) Add(ctx context.Context, aggregate *shipment.Shipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsError("shipment", err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormShipmentRepository) Update(ctx context.Context, aggregate *shipment.Shipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&ShipmentDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("shipment", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(r.db.WithContext(ctx), "shipment", id.String(), "id = ?", id.Bytes())
}

func (r *GormShipmentRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.first(db, "shipment", id.String(), "id = ?", id.Bytes())
}

func (r *GormShipmentRepository) GetByTrackingCode(ctx context.Context, code shipment.TrackingCode) (*shipment.Shipment, error) {
	if err := code.Validate(); err != nil {
		return nil, err
	}
	return r.first(r.db.WithContext(ctx), "tracking code", code.String(), "tracking_code = ?", code.String())
}

func (r *GormShipmentRepository) GetBySyncID(ctx context.Context, syncID string) (*shipment.Shipment, error) {
	if syncID == "" {
		return nil, errs.NewValueIsRequiredError("sync id")
	}
	return r.first(r.db.WithContext(ctx), "sync id", syncID, "sync_id = ?", syncID)
}

func (r *GormShipmentRepository) TrackingCodeExists(ctx context.Context, code shipment.TrackingCode) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ShipmentDTO{}).Where("tracking_code = ?", code.String()).Count(&count).Error
	return count > 0, err
}

// ListStaleConfirmed locks the oldest unpaid shipments with SKIP LOCKED so the sweep
// never waits on a shipment whose payment callback is in flight.
func (r *GormShipmentRepository) ListStaleConfirmed(
	ctx context.Context,
	olderThan time.Time,
	limit int,
) ([]*shipment.Shipment, error) {
	var dtos []ShipmentDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ? AND created_at < ?", shipment.Confirmed.String(), olderThan).
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	shipments := make([]*shipment.Shipment, 0, len(dtos))
	for _, dto := range dtos {
		s, dErr := toDomain(dto)
		if dErr != nil {
			return nil, dErr
		}
		shipments = append(shipments, s)
	}
	return shipments, nil
}

func (r *GormShipmentRepository) first(db *gorm.DB, param string, id any, query string, args ...any) (*shipment.Shipment, error) {
	var dto ShipmentDTO
	if err := db.Where(query, args...).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(param, id)
		}
		return nil, err
	}
	return toDomain(dto)
}
