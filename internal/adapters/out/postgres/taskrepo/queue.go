package taskrepo

import (
	"context"

	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// GormTaskQueue is the enqueue side of the queue. It is handed a transactional
// *gorm.DB by the unit of work, so enqueued tasks commit or roll back together
// with the state change that warranted them.
type GormTaskQueue struct {
	db *gorm.DB
}

// NewGormTaskQueue creates a new GORM task queue.
func NewGormTaskQueue(db *gorm.DB) *GormTaskQueue {
	return &GormTaskQueue{db: db}
}

// Enqueue adds a task to the queue as part of the current transaction.
func (q *GormTaskQueue) Enqueue(ctx context.Context, task ports.Task) error {
	if err := task.ID.Validate(); err != nil {
		return err
	}

	dto := fromTask(task)
	return q.db.WithContext(ctx).Create(&dto).Error
}
