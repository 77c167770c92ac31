package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/metrics"

	"github.com/robfig/cron/v3"
)

const dequeueBatchSize = 10

// generateShipmentBackoff is the delay before each retry of a shipment
// generation task, indexed by the try that just failed.
var generateShipmentBackoff = []time.Duration{30 * time.Second, 60 * time.Second, 120 * time.Second}

// webhookRetryDelay is the fixed delay between webhook processing attempts.
const webhookRetryDelay = 10 * time.Second

// QueueWorkerJob polls the task queue every second and executes due tasks.
// Delivery is at least once: a task that fails or times out goes back on the
// queue until it runs out of attempts.
type QueueWorkerJob struct {
	store           ports.TaskStore
	generateHandler commands.GenerateShipmentCommandHandler
	processHandler  commands.ProcessWebhookCommandHandler
	cron            *cron.Cron
	logger          *slog.Logger
	metrics         *metrics.Metrics
}

// NewQueueWorkerJob creates the queue worker. The metrics argument may be nil.
func NewQueueWorkerJob(
	store ports.TaskStore,
	generateHandler commands.GenerateShipmentCommandHandler,
	processHandler commands.ProcessWebhookCommandHandler,
	logger *slog.Logger,
	m *metrics.Metrics,
) *QueueWorkerJob {
	return &QueueWorkerJob{
		store:           store,
		generateHandler: generateHandler,
		processHandler:  processHandler,
		cron:            cron.New(cron.WithSeconds()),
		logger:          logger.With("component", "queue_worker_job"),
		metrics:         m,
	}
}

// Start begins polling the queue every second.
func (j *QueueWorkerJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		j.runOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Queue worker started (polling every second)")
	return nil
}

// Stop stops the queue worker.
func (j *QueueWorkerJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Queue worker stopped")
}

func (j *QueueWorkerJob) runOnce(ctx context.Context) {
	tasks, err := j.store.DequeueDue(ctx, dequeueBatchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Dequeue failed", "error", err)
		return
	}

	for _, task := range tasks {
		j.executeTask(ctx, task)
	}
}

func (j *QueueWorkerJob) executeTask(ctx context.Context, task ports.QueuedTask) {
	taskCtx, cancel := context.WithTimeout(ctx, task.Timeout)
	defer cancel()

	err := j.dispatch(taskCtx, task)

	if err == nil {
		j.countAttempt(task.Kind, "success")
		if err := j.store.MarkSucceeded(ctx, task.ID); err != nil {
			j.logger.ErrorContext(ctx, "Failed to mark task succeeded",
				"task_id", task.ID.String(), "error", err)
		}
		return
	}

	j.countAttempt(task.Kind, "failure")
	if task.TryCount >= task.MaxTries {
		j.logger.ErrorContext(ctx, "Task out of attempts",
			"task_id", task.ID.String(), "kind", string(task.Kind),
			"tries", task.TryCount, "error", err)
		if j.metrics != nil {
			j.metrics.TaskFailures.WithLabelValues(string(task.Kind)).Inc()
		}
		if markErr := j.store.MarkFailed(ctx, task.ID, err.Error()); markErr != nil {
			j.logger.ErrorContext(ctx, "Failed to mark task failed",
				"task_id", task.ID.String(), "error", markErr)
		}
		j.recordExhaustion(ctx, task, err)
		return
	}

	runAt := time.Now().UTC().Add(retryDelay(task.Kind, task.TryCount))
	j.logger.WarnContext(ctx, "Task attempt failed, rescheduling",
		"task_id", task.ID.String(), "kind", string(task.Kind),
		"try", task.TryCount, "next_run_at", runAt, "error", err)
	if rescheduleErr := j.store.Reschedule(ctx, task.ID, err.Error(), runAt); rescheduleErr != nil {
		j.logger.ErrorContext(ctx, "Failed to reschedule task",
			"task_id", task.ID.String(), "error", rescheduleErr)
	}
}

// recordExhaustion applies a task's terminal failure to the domain. Shipment
// generation is the only kind with a domain-visible outcome: after the last
// retry the orders involved must fail rather than sit in paid forever.
func (j *QueueWorkerJob) recordExhaustion(ctx context.Context, task ports.QueuedTask, cause error) {
	if task.Kind != ports.TaskGenerateShipment {
		return
	}

	cmd, err := parseGenerateShipmentCommand(task.Payload)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to parse exhausted shipment task",
			"task_id", task.ID.String(), "error", err)
		return
	}
	if err := j.generateHandler.RecordExhaustedAttempts(ctx, cmd, cause); err != nil {
		j.logger.ErrorContext(ctx, "Failed to record exhausted shipment attempts",
			"task_id", task.ID.String(), "error", err)
	}
}

func (j *QueueWorkerJob) dispatch(ctx context.Context, task ports.QueuedTask) error {
	switch task.Kind {
	case ports.TaskGenerateShipment:
		return j.generateShipment(ctx, task.Payload)
	case ports.TaskProcessWebhook:
		return j.processWebhook(ctx, task.Payload)
	case ports.TaskNotifyOrderChanged:
		return j.notifyOrderChanged(ctx, task.Payload)
	default:
		return fmt.Errorf("unknown task kind %q", task.Kind)
	}
}

func (j *QueueWorkerJob) generateShipment(ctx context.Context, payload []byte) error {
	cmd, err := parseGenerateShipmentCommand(payload)
	if err != nil {
		return err
	}
	return j.generateHandler.Handle(ctx, cmd)
}

func parseGenerateShipmentCommand(payload []byte) (commands.GenerateShipmentCommand, error) {
	var parsed commands.GenerateShipmentPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return commands.GenerateShipmentCommand{}, err
	}
	orderID, err := kernel.UUIDFromString(parsed.OrderID)
	if err != nil {
		return commands.GenerateShipmentCommand{}, err
	}
	var carrier kernel.Carrier
	if parsed.Carrier != "" {
		carrier, err = kernel.CarrierFromString(parsed.Carrier)
		if err != nil {
			return commands.GenerateShipmentCommand{}, err
		}
	}
	return commands.NewGenerateShipmentCommand(orderID, carrier)
}

func (j *QueueWorkerJob) processWebhook(ctx context.Context, payload []byte) error {
	var parsed commands.ProcessWebhookPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return err
	}
	webhookID, err := kernel.UUIDFromString(parsed.WebhookID)
	if err != nil {
		return err
	}
	cmd, err := commands.NewProcessWebhookCommand(webhookID)
	if err != nil {
		return err
	}
	return j.processHandler.Handle(ctx, cmd)
}

// notifyOrderChanged publishes a status change to downstream consumers.
// The downstream broker is not wired here; the notification is logged and
// counted, keeping the enqueue-exactly-once contract observable.
func (j *QueueWorkerJob) notifyOrderChanged(ctx context.Context, payload []byte) error {
	var parsed commands.NotifyOrderChangedPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return err
	}

	j.logger.InfoContext(ctx, "Order status changed",
		"order_id", parsed.OrderID,
		"previous_status", parsed.PreviousStatus,
		"new_status", parsed.NewStatus)
	return nil
}

func (j *QueueWorkerJob) countAttempt(kind ports.TaskKind, outcome string) {
	if j.metrics != nil {
		j.metrics.TaskAttempts.WithLabelValues(string(kind), outcome).Inc()
	}
}

// retryDelay returns how long to wait before the next attempt, given the try
// that just failed.
func retryDelay(kind ports.TaskKind, tryCount int) time.Duration {
	if kind == ports.TaskGenerateShipment {
		idx := tryCount - 1
		if idx < 0 {
			idx = 0
		}
		if idx >= len(generateShipmentBackoff) {
			idx = len(generateShipmentBackoff) - 1
		}
		return generateShipmentBackoff[idx]
	}
	return webhookRetryDelay
}
