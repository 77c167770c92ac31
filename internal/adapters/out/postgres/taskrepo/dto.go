// Package taskrepo implements the database-backed task queue. Tasks are
// enqueued transactionally with the state change that warrants them and
// claimed by workers with SKIP LOCKED, so concurrent workers never hand the
// same task out twice.
package taskrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
)

const (
	statusQueued    = "queued"
	statusRunning   = "running"
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
)

// TaskDTO represents the database structure for persisting queued tasks.
type TaskDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind           string    `gorm:"index"`
	Payload        []byte    `gorm:"type:jsonb"`
	Status         string    `gorm:"index:idx_tasks_due"`
	TryCount       int
	MaxTries       int
	TimeoutSeconds int
	NextRunAt      time.Time `gorm:"index:idx_tasks_due"`
	LastError      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the database table name for queued tasks.
func (TaskDTO) TableName() string {
	return "queue_tasks"
}

// fromTask converts a task to its freshly-queued database representation.
func fromTask(task ports.Task) TaskDTO {
	return TaskDTO{
		ID:             task.ID.Bytes(),
		Kind:           string(task.Kind),
		Payload:        task.Payload,
		Status:         statusQueued,
		TryCount:       0,
		MaxTries:       task.MaxTries,
		TimeoutSeconds: int(task.Timeout / time.Second),
		NextRunAt:      task.RunAt,
	}
}

// toQueuedTask converts a claimed DTO to the worker-facing representation.
func toQueuedTask(dto TaskDTO) (ports.QueuedTask, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.QueuedTask{}, err
	}

	return ports.QueuedTask{
		ID:       id,
		Kind:     ports.TaskKind(dto.Kind),
		Payload:  dto.Payload,
		TryCount: dto.TryCount,
		MaxTries: dto.MaxTries,
		Timeout:  time.Duration(dto.TimeoutSeconds) * time.Second,
	}, nil
}
