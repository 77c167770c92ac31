package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/metrics"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	queueWorkerJob *QueueWorkerJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	store ports.TaskStore,
	generateHandler commands.GenerateShipmentCommandHandler,
	processHandler commands.ProcessWebhookCommandHandler,
	logger *slog.Logger,
	m *metrics.Metrics,
) *JobManager {
	return &JobManager{
		queueWorkerJob: NewQueueWorkerJob(store, generateHandler, processHandler, logger, m),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.queueWorkerJob.Start(); err != nil {
		return fmt.Errorf("failed to start queue worker: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.queueWorkerJob.Stop()
}
