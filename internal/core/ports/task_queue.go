package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// TaskKind names the kind of deferred work a queued task carries.
type TaskKind string

const (
	// TaskGenerateShipment asks the fulfillment worker to create a carrier
	// shipment for the order named in the payload.
	TaskGenerateShipment TaskKind = "generate_shipment"

	// TaskProcessWebhook asks the webhook worker to process a persisted
	// webhook row.
	TaskProcessWebhook TaskKind = "process_webhook"

	// TaskNotifyOrderChanged asks the notification worker to publish an
	// order status change to downstream consumers.
	TaskNotifyOrderChanged TaskKind = "notify_order_changed"
)

// Task is a unit of deferred work placed on the database-backed queue.
// Enqueueing happens inside the same transaction as the state change that
// warrants the work, so a committed change always has its task and a rolled
// back change never does.
type Task struct {
	ID       kernel.UUID
	Kind     TaskKind
	Payload  []byte
	MaxTries int
	Timeout  time.Duration
	RunAt    time.Time
}

// QueuedTask is a task handed to a worker for one execution attempt.
// TryCount includes the current attempt.
type QueuedTask struct {
	ID       kernel.UUID
	Kind     TaskKind
	Payload  []byte
	TryCount int
	MaxTries int
	Timeout  time.Duration
}

// TaskQueue is the enqueue side of the queue, available inside a unit of work.
type TaskQueue interface {
	// Enqueue adds a task to the queue as part of the current transaction.
	Enqueue(ctx context.Context, task Task) error
}

// TaskStore is the worker side of the queue.
type TaskStore interface {
	// DequeueDue claims up to limit tasks whose run time has arrived.
	// Claimed tasks are invisible to other workers; each claim increments
	// the task's try counter.
	DequeueDue(ctx context.Context, limit int) ([]QueuedTask, error)

	// MarkSucceeded records a successful execution and removes the task
	// from further scheduling.
	MarkSucceeded(ctx context.Context, id kernel.UUID) error

	// Reschedule returns a claimed task to the queue for another attempt
	// at the given time, recording the error of the failed attempt.
	Reschedule(ctx context.Context, id kernel.UUID, taskErr string, runAt time.Time) error

	// MarkFailed records a terminal failure once the task is out of attempts.
	MarkFailed(ctx context.Context, id kernel.UUID, taskErr string) error
}
