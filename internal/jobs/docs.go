// Package jobs provides the scheduled background workers of the fulfillment
// service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// The single worker, QueueWorkerJob, polls the database-backed task queue
// every second, claims due tasks and dispatches them by kind:
//
//   - generate_shipment: runs the fulfillment orchestrator for an order,
//     retried with 30/60/120s backoff across 3 attempts
//   - process_webhook: applies a persisted webhook's effects, retried every
//     10s across 5 attempts
//   - notify_order_changed: publishes an order status change downstream
//
// Each attempt runs under a context deadline taken from the task's timeout.
// Delivery is at least once; a task that exhausts its attempts is marked
// failed with its last error retained for operators.
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(store, generateHandler, processHandler, logger, m)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
package jobs
