// Package taskqueue is the durable work queue behind ports.TaskQueue. Tasks live in the
// same database as the aggregates, so enqueueing commits with the transition that needs it.
package taskqueue

import (
	"time"

	"cargo/internal/core/ports"
)

const (
	statusPending = "PENDING"
	statusRunning = "RUNNING"
	statusDone    = "DONE"
	statusFailed  = "FAILED"
)

type TaskDTO struct {
	ID          string    `gorm:"type:varchar(128);primaryKey"`
	Kind        string    `gorm:"type:varchar(32);not null"`
	Payload     string    `gorm:"type:text;not null;default:''"`
	Status      string    `gorm:"type:varchar(16);not null;index:idx_tasks_due,priority:1"`
	NotBefore   time.Time `gorm:"not null;index:idx_tasks_due,priority:2"`
	LeasedUntil *time.Time
	Attempts    int    `gorm:"not null;default:0"`
	LastError   string `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (TaskDTO) TableName() string {
	return "tasks"
}

func toTask(dto TaskDTO) ports.Task {
	return ports.Task{
		ID:        dto.ID,
		Kind:      ports.TaskKind(dto.Kind),
		Payload:   dto.Payload,
		NotBefore: dto.NotBefore.UTC(),
		Attempts:  dto.Attempts,
	}
}
