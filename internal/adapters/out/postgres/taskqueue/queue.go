package taskqueue

import (
	"context"
	"errors"
	"time"

	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotifyChannel is the LISTEN/NOTIFY channel that wakes the dispatcher when a task is
// enqueued. Postgres delivers the notification only if the enqueueing transaction commits.
const NotifyChannel = "cargo_tasks"

const (
	// MaxAttempts bounds how often a failing task is handed out again.
	MaxAttempts = 5

	failInitialDelay = time.Minute
	failMaxDelay     = 30 * time.Minute
)

type GormTaskQueue struct {
	db *gorm.DB
}

func NewGormTaskQueue(db *gorm.DB) *GormTaskQueue {
	return &GormTaskQueue{db: db}
}

func (q *GormTaskQueue) Enqueue(ctx context.Context, task ports.Task) (bool, error) {
	if task.ID == "" {
		return false, errs.NewValueIsRequiredError("task id")
	}
	if task.Kind == "" {
		return false, errs.NewValueIsRequiredError("task kind")
	}

	dto := TaskDTO{
		ID:        task.ID,
		Kind:      string(task.Kind),
		Payload:   task.Payload,
		Status:    statusPending,
		NotBefore: task.NotBefore.UTC(),
	}

	db := q.db.WithContext(ctx)
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&dto)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	if err := db.Exec("SELECT pg_notify(?, ?)", NotifyChannel, task.ID).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (q *GormTaskQueue) Cancel(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return q.db.WithContext(ctx).
		Where("id IN ? AND status = ?", ids, statusPending).
		Delete(&TaskDTO{}).Error
}

// ClaimDue runs in its own transaction, or in a savepoint when the queue is bound to one.
func (q *GormTaskQueue) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]ports.Task, error) {
	var dtos []TaskDTO

	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("(status = ? AND not_before <= ?) OR (status = ? AND leased_until < ?)",
				statusPending, now, statusRunning, now).
			Order("not_before").
			Limit(limit).
			Find(&dtos).Error; err != nil {
			return err
		}
		if len(dtos) == 0 {
			return nil
		}

		ids := make([]string, 0, len(dtos))
		for i := range dtos {
			ids = append(ids, dtos[i].ID)
			dtos[i].Attempts++
		}

		return tx.Model(&TaskDTO{}).Where("id IN ?", ids).Updates(map[string]any{
			"status":       statusRunning,
			"leased_until": now.Add(lease),
			"attempts":     gorm.Expr("attempts + 1"),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	tasks := make([]ports.Task, 0, len(dtos))
	for _, dto := range dtos {
		tasks = append(tasks, toTask(dto))
	}
	return tasks, nil
}

func (q *GormTaskQueue) Complete(ctx context.Context, id string) error {
	return q.db.WithContext(ctx).Model(&TaskDTO{}).Where("id = ?", id).Updates(map[string]any{
		"status":       statusDone,
		"leased_until": nil,
		"last_error":   "",
	}).Error
}

// Fail puts the task back with an exponential backoff, or parks it as FAILED once it has
// been attempted MaxAttempts times.
func (q *GormTaskQueue) Fail(ctx context.Context, id string, reason string) error {
	db := q.db.WithContext(ctx)

	var dto TaskDTO
	if err := db.Take(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("task", id)
		}
		return err
	}

	updates := map[string]any{
		"status":       statusPending,
		"leased_until": nil,
		"last_error":   reason,
		"not_before":   time.Now().UTC().Add(FailDelay(dto.Attempts)),
	}
	if dto.Attempts >= MaxAttempts {
		updates["status"] = statusFailed
	}

	return db.Model(&TaskDTO{}).Where("id = ?", id).Updates(updates).Error
}

// FailDelay is how long a task waits after its attempts-th failed attempt: one minute
// after the first, doubling up to thirty minutes.
func FailDelay(attempts int) time.Duration {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = failInitialDelay
	policy.Multiplier = 2
	policy.MaxInterval = failMaxDelay
	policy.RandomizationFactor = 0
	policy.MaxElapsedTime = 0
	policy.Reset()

	delay := policy.NextBackOff()
	for i := 1; i < attempts; i++ {
		delay = policy.NextBackOff()
	}
	return delay
}
