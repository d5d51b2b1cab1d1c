// Package postgres provides the GORM-based Unit of Work of the booking core.
//
// A unit of work owns at most one transaction. Every repository it hands out after Begin
// runs inside that transaction, so a status change, its audit event and the tasks it
// enqueues become visible together or not at all.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	s, err := uow.ShipmentRepository().GetForUpdate(ctx, id)
//	if err != nil {
//	    return err
//	}
//	// ... transition s, record the audit event, enqueue follow-up tasks
//
//	return uow.Commit(ctx)
//
// Audit events recorded through AuditTrail are tracked and, after a successful Commit,
// handed to the EventPublisher. Publishing is best effort: the database row is the
// record, the stream is a copy. Rollback drops whatever was tracked.
//
// Concurrency:
//   - A GormUnitOfWork is not safe for concurrent use; create one per operation.
//   - Row locks are taken by the repositories' ForUpdate methods. Callers lock payment
//     before shipment and shipment before driver.
package postgres

import (
	"context"
	"log/slog"

	"cargo/internal/adapters/out/postgres/auditrepo"
	"cargo/internal/adapters/out/postgres/catalogrepo"
	"cargo/internal/adapters/out/postgres/driverrepo"
	"cargo/internal/adapters/out/postgres/paymentrepo"
	"cargo/internal/adapters/out/postgres/shipmentrepo"
	"cargo/internal/adapters/out/postgres/taskqueue"
	"cargo/internal/core/domain/model/audit"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
// The publisher may be nil, in which case committed events are not streamed.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.EventPublisher
	logger    *slog.Logger
}

func NewGormUnitOfWorkFactory(db *gorm.DB, publisher ports.EventPublisher, logger *slog.Logger) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:        db,
		publisher: publisher,
		logger:    logger.With("component", "UnitOfWork"),
	}
}

// Create produces a fresh unit of work with no active transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.CreateGorm()
}

// CreateGorm is Create without the interface conversion, for callers that need
// TrackedAggregates.
func (f *GormUnitOfWorkFactory) CreateGorm() *GormUnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		publisher:         f.publisher,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and the aggregates written in it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	publisher         ports.EventPublisher
	logger            *slog.Logger
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it again while a transaction is active is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit makes the transaction durable and then publishes the audit events recorded in
// it. A publishing failure is logged, never returned: the commit already happened.
//
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	uow.publishEvents(ctx)
	return nil
}

// Rollback discards the transaction and everything tracked in it.
//
// Returns gorm.ErrInvalidTransaction if no transaction is active, which makes the
// deferred Rollback after a successful Commit harmless.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) ShipmentRepository() ports.ShipmentRepository {
	return shipmentrepo.NewGormShipmentRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) PaymentRepository() ports.PaymentRepository {
	return paymentrepo.NewGormPaymentRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) DriverRepository() ports.DriverRepository {
	return driverrepo.NewGormDriverRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) CatalogRepository() ports.CatalogRepository {
	return catalogrepo.NewGormCatalogRepository(uow.conn())
}

// AuditTrail records events in the transaction and tracks them for publishing.
func (uow *GormUnitOfWork) AuditTrail() ports.AuditTrail {
	return auditrepo.NewGormAuditTrail(uow.conn(), uow)
}

// TaskQueue enqueues inside the transaction, so a task and the transition that needs it
// commit together. The NOTIFY it sends is delivered only on commit.
func (uow *GormUnitOfWork) TaskQueue() ports.TaskQueue {
	return taskqueue.NewGormTaskQueue(uow.conn())
}

// TrackAggregate registers an aggregate written in this unit of work. Repositories call it
// on Add and Update; the audit trail calls it for every recorded event.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedAggregates returns the aggregates written since the last Commit or Rollback.
func (uow *GormUnitOfWork) TrackedAggregates() []any {
	out := make([]any, 0, len(uow.trackedAggregates))
	for _, t := range uow.trackedAggregates {
		out = append(out, t.Aggregate)
	}
	return out
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) publishEvents(ctx context.Context) {
	tracked := uow.trackedAggregates
	uow.trackedAggregates = make([]trackedAggregate, 0)

	if uow.publisher == nil {
		return
	}

	events := make([]audit.Event, 0)
	for _, t := range tracked {
		if e, ok := t.Aggregate.(audit.Event); ok {
			events = append(events, e)
		}
	}
	if len(events) == 0 {
		return
	}

	if err := uow.publisher.Publish(ctx, events); err != nil {
		uow.logger.WarnContext(ctx, "failed to publish shipment events",
			"count", len(events),
			"error", err)
	}
}
