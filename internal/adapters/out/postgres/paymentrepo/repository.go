// Package paymentrepo persists payment aggregates.
package paymentrepo

import (
	"context"
	"errors"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/payment"
	"cargo/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormPaymentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPaymentRepository(db *gorm.DB, tracker aggregateTracker) *GormPaymentRepository {
	return &GormPaymentRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormPaymentRepository) Add(ctx context.Context, aggregate *payment.Payment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsError("payment", err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormPaymentRepository) Update(ctx context.Context, aggregate *payment.Payment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&PaymentDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("payment", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormPaymentRepository) Get(ctx context.Context, id kernel.UUID) (*payment.Payment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(r.db.WithContext(ctx), "payment", id.String(), "id = ?", id.Bytes())
}

func (r *GormPaymentRepository) GetByShipment(ctx context.Context, shipmentID kernel.UUID) (*payment.Payment, error) {
	if err := shipmentID.Validate(); err != nil {
		return nil, err
	}
	return r.first(r.db.WithContext(ctx), "payment", shipmentID.String(), "shipment_id = ?", shipmentID.Bytes())
}

// GetByGatewayRefForUpdate waits for the row lock. A second delivery of the same
// callback resumes only after the first one has committed its resolution.
func (r *GormPaymentRepository) GetByGatewayRefForUpdate(ctx context.Context, gatewayRef string) (*payment.Payment, error) {
	if gatewayRef == "" {
		return nil, errs.NewValueIsRequiredError("gateway reference")
	}
	db := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.first(db, "gateway reference", gatewayRef, "gateway_ref = ?", gatewayRef)
}

func (r *GormPaymentRepository) first(db *gorm.DB, param string, id any, query string, args ...any) (*payment.Payment, error) {
	var dto PaymentDTO
	if err := db.Where(query, args...).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(param, id)
		}
		return nil, err
	}
	return toDomain(dto)
}
