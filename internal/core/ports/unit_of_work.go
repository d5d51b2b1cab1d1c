package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork for each command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the atomic boundary of every state transition. Repositories returned
// after Begin share its transaction; audit events recorded through it are published
// to the event stream only after Commit succeeds.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit returns an error if no transaction is active.
	Commit(ctx context.Context) error

	// Rollback returns an error if no transaction is active. Calling it after Commit is harmless.
	Rollback(ctx context.Context) error

	ShipmentRepository() ShipmentRepository
	PaymentRepository() PaymentRepository
	DriverRepository() DriverRepository
	CatalogRepository() CatalogRepository
	AuditTrail() AuditTrail
	TaskQueue() TaskQueue
}
