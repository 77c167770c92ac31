package taskrepo

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskStore is the worker side of the queue.
type GormTaskStore struct {
	db *gorm.DB
}

// NewGormTaskStore creates a new GORM task store.
func NewGormTaskStore(db *gorm.DB) *GormTaskStore {
	return &GormTaskStore{db: db}
}

// DequeueDue claims up to limit due tasks. The claim runs in its own short
// transaction: SELECT ... FOR UPDATE SKIP LOCKED picks rows no other worker
// holds, and the status flip to running plus the try counter increment commit
// before any task work begins.
func (s *GormTaskStore) DequeueDue(ctx context.Context, limit int) ([]ports.QueuedTask, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsInvalidError("limit")
	}

	var claimed []TaskDTO
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dtos []TaskDTO
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ? AND next_run_at <= ?", statusQueued, time.Now().UTC()).
			Order("next_run_at").
			Limit(limit).
			Find(&dtos).Error
		if err != nil {
			return err
		}

		for i := range dtos {
			dtos[i].Status = statusRunning
			dtos[i].TryCount++
			err = tx.Model(&TaskDTO{}).
				Where("id = ?", dtos[i].ID).
				Updates(map[string]any{
					"status":    statusRunning,
					"try_count": dtos[i].TryCount,
				}).Error
			if err != nil {
				return err
			}
		}

		claimed = dtos
		return nil
	})
	if err != nil {
		return nil, err
	}

	tasks := make([]ports.QueuedTask, 0, len(claimed))
	for _, dto := range claimed {
		task, err := toQueuedTask(dto)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// MarkSucceeded records a successful execution.
func (s *GormTaskStore) MarkSucceeded(ctx context.Context, id kernel.UUID) error {
	return s.finish(ctx, id, map[string]any{
		"status":     statusSucceeded,
		"last_error": "",
	})
}

// Reschedule returns a claimed task to the queue for another attempt.
func (s *GormTaskStore) Reschedule(ctx context.Context, id kernel.UUID, taskErr string, runAt time.Time) error {
	return s.finish(ctx, id, map[string]any{
		"status":      statusQueued,
		"last_error":  taskErr,
		"next_run_at": runAt,
	})
}

// MarkFailed records a terminal failure once the task is out of attempts.
func (s *GormTaskStore) MarkFailed(ctx context.Context, id kernel.UUID, taskErr string) error {
	return s.finish(ctx, id, map[string]any{
		"status":     statusFailed,
		"last_error": taskErr,
	})
}

func (s *GormTaskStore) finish(ctx context.Context, id kernel.UUID, updates map[string]any) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Model(&TaskDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("task", id.String())
	}
	return nil
}
