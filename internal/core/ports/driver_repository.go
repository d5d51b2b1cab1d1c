package ports

import (
	"context"

	"cargo/internal/core/domain/model/driver"
	"cargo/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// DriverRepository defines the persistence contract for driver profiles.
type DriverRepository interface {
	// Add fails with an errs.ObjectAlreadyExistsError when the license number or plate is taken.
	Add(ctx context.Context, aggregate *driver.Profile) error

	Update(ctx context.Context, aggregate *driver.Profile) error

	Get(ctx context.Context, id kernel.UUID) (*driver.Profile, error)

	// GetForUpdate blocks until the profile row is free and holds it for the unit of work.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*driver.Profile, error)

	// ListCandidates reads, without locking, up to limit profiles that are available,
	// verified and able to carry minCapacityKg. Profiles listed in exclude are skipped.
	ListCandidates(ctx context.Context, minCapacityKg decimal.Decimal, exclude []kernel.UUID, limit int) ([]*driver.Profile, error)

	// ClaimCandidate locks the profile row with SKIP LOCKED and re-checks the candidate
	// filter under the lock. It returns an errs.ObjectNotFoundError when the row is held
	// by another transaction or no longer matches, and never waits.
	ClaimCandidate(ctx context.Context, id kernel.UUID, minCapacityKg decimal.Decimal) (*driver.Profile, error)

	// ListUnverified returns up to limit profiles whose license flag is false.
	ListUnverified(ctx context.Context, limit int) ([]*driver.Profile, error)
}
