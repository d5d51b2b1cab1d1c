package driverrepo

import (
	"context"
	"errors"

	"cargo/internal/core/domain/model/driver"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormDriverRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormDriverRepository(db *gorm.DB, tracker aggregateTracker) *GormDriverRepository {
	return &GormDriverRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormDriverRepository) Add(ctx context.Context, aggregate *driver.Profile) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsError("driver", err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormDriverRepository) Update(ctx context.Context, aggregate *driver.Profile) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&DriverDTO{}).Where("id = ?", dto.ID).
		Omit("created_at").Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("driver", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Profile, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(r.db.WithContext(ctx), id)
}

func (r *GormDriverRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*driver.Profile, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// ListCandidates is a plain read. Eligibility is checked again by ClaimCandidate under
// the row lock.
func (r *GormDriverRepository) ListCandidates(
	ctx context.Context,
	minCapacityKg decimal.Decimal,
	exclude []kernel.UUID,
	limit int,
) ([]*driver.Profile, error) {
	query := r.eligible(r.db.WithContext(ctx), minCapacityKg)
	if len(exclude) > 0 {
		ids := make([]uuid.UUID, 0, len(exclude))
		for _, id := range exclude {
			ids = append(ids, id.Bytes())
		}
		query = query.Where("id NOT IN ?", ids)
	}

	var dtos []DriverDTO
	if err := query.Order("id").Limit(limit).Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

// ClaimCandidate never waits: a row held by a concurrent assignment is reported as not
// found and the caller moves on to the next candidate.
func (r *GormDriverRepository) ClaimCandidate(
	ctx context.Context,
	id kernel.UUID,
	minCapacityKg decimal.Decimal,
) (*driver.Profile, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
	var dto DriverDTO
	err := r.eligible(db, minCapacityKg).Where("id = ?", id.Bytes()).Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("driver candidate", id.String())
	}
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormDriverRepository) ListUnverified(ctx context.Context, limit int) ([]*driver.Profile, error) {
	var dtos []DriverDTO
	err := r.db.WithContext(ctx).
		Where("license_verified = ?", false).
		Order("updated_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func (r *GormDriverRepository) eligible(db *gorm.DB, minCapacityKg decimal.Decimal) *gorm.DB {
	return db.Where("available = ? AND license_verified = ? AND capacity_kg >= ?", true, true, minCapacityKg)
}

func (r *GormDriverRepository) first(db *gorm.DB, id kernel.UUID) (*driver.Profile, error) {
	var dto DriverDTO
	if err := db.Where("id = ?", id.Bytes()).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}
