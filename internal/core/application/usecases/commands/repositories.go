// Package commands contains the write side of the booking core. Every handler validates
// its command, authorizes the actor, runs one unit of work and only then talks to
// best-effort collaborators (notifications) for what it committed.
package commands

import (
	"context"

	"cargo/internal/core/ports"
)

// Unit of Work interfaces used by command handlers.
type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	ShipmentRepoFactory interface {
		ShipmentRepository() ports.ShipmentRepository
	}

	PaymentRepoFactory interface {
		PaymentRepository() ports.PaymentRepository
	}

	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	CatalogRepoFactory interface {
		CatalogRepository() ports.CatalogRepository
	}

	AuditTrailFactory interface {
		AuditTrail() ports.AuditTrail
	}

	TaskQueueFactory interface {
		TaskQueue() ports.TaskQueue
	}

	// DriverUoW manages transactions that touch driver profiles only.
	DriverUoW interface {
		TxManager
		DriverRepoFactory
	}

	DriverUoWFactory interface {
		Create() DriverUoW
	}

	// UoW spans every aggregate of the booking core. Shipment transitions use it so that
	// the status change, its audit event and any enqueued task commit together.
	//
	// Example:
	//   uow := factory.Create()
	//   if err := uow.Begin(ctx); err != nil {
	//       return err
	//   }
	//   defer func() { _ = uow.Rollback(ctx) }()
	//
	//   s, err := uow.ShipmentRepository().GetForUpdate(ctx, id)
	//   // ... transition, uow.AuditTrail().Record(ctx, event)
	//
	//   return uow.Commit(ctx)
	UoW interface {
		TxManager
		ShipmentRepoFactory
		PaymentRepoFactory
		DriverRepoFactory
		CatalogRepoFactory
		AuditTrailFactory
		TaskQueueFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
