// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// LabelRepoFactory provides access to the label repository within a transaction.
	LabelRepoFactory interface {
		LabelRepository() ports.LabelRepository
	}

	// WebhookRepoFactory provides access to the webhook repository within a transaction.
	WebhookRepoFactory interface {
		WebhookRepository() ports.WebhookRepository
	}

	// AuditRepoFactory provides access to the audit ledger within a transaction.
	AuditRepoFactory interface {
		AuditRepository() ports.AuditRepository
	}

	// TaskQueueFactory provides access to the task queue within a transaction,
	// so deferred work is enqueued atomically with the state change that
	// warrants it.
	TaskQueueFactory interface {
		TaskQueue() ports.TaskQueue
	}

	// OrderUoW manages transactions for operations that touch orders, the
	// ledger and the queue.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		AuditRepoFactory
		TaskQueueFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// ShipmentUoW manages transactions for shipment fulfillment, which spans
	// orders and labels.
	ShipmentUoW interface {
		TxManager
		OrderRepoFactory
		LabelRepoFactory
		AuditRepoFactory
		TaskQueueFactory
	}

	// ShipmentUoWFactory creates new shipment unit of work instances.
	ShipmentUoWFactory interface {
		Create() ShipmentUoW
	}

	// WebhookUoW manages transactions for webhook ingestion and processing,
	// which may touch webhooks, orders and labels.
	WebhookUoW interface {
		TxManager
		WebhookRepoFactory
		OrderRepoFactory
		LabelRepoFactory
		AuditRepoFactory
		TaskQueueFactory
	}

	// WebhookUoWFactory creates new webhook unit of work instances.
	WebhookUoWFactory interface {
		Create() WebhookUoW
	}
)
