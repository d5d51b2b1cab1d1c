package ports

import (
	"context"
	"time"
)

type TaskKind string

const (
	TaskAssignDriverRetry       TaskKind = "assign_driver_retry"
	TaskSignTaxReceipt          TaskKind = "sign_tax_receipt"
	TaskGenerateCustomsManifest TaskKind = "generate_customs_manifest"
)

// Task is one unit of deferred work. ID is chosen by the producer and makes
// enqueueing idempotent.
type Task struct {
	ID        string
	Kind      TaskKind
	Payload   string
	NotBefore time.Time
	Attempts  int
}

// TaskQueue is the durable work queue.
//
// Enqueue and Cancel are used through the unit of work so they commit or roll back with
// the transition that caused them. ClaimDue, Complete and Fail are used by the dispatcher,
// each in its own short transaction.
type TaskQueue interface {
	// Enqueue is a no-op when a task with the same ID already exists. It reports whether
	// the task was inserted.
	Enqueue(ctx context.Context, task Task) (bool, error)

	// Cancel removes the tasks that have not been claimed yet.
	Cancel(ctx context.Context, ids ...string) error

	// ClaimDue leases up to limit due tasks with SKIP LOCKED. A task whose lease has
	// expired can be claimed again.
	ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]Task, error)

	Complete(ctx context.Context, id string) error

	Fail(ctx context.Context, id string, reason string) error
}
