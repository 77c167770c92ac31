package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/audit"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/webhook"
)

// IngestWebhookCommandHandler durably records a received webhook and
// schedules its processing. The webhook row, its audit entry and the
// processing task commit in one transaction, so an acknowledged webhook can
// always be processed later, even across a crash.
type IngestWebhookCommandHandler struct {
	uowFactory WebhookUoWFactory
}

// NewIngestWebhookCommandHandler creates a handler for webhook ingestion.
func NewIngestWebhookCommandHandler(uowFactory WebhookUoWFactory) IngestWebhookCommandHandler {
	return IngestWebhookCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the ingestion command.
func (h *IngestWebhookCommandHandler) Handle(ctx context.Context, cmd IngestWebhookCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	hook, err := webhook.NewWebhook(cmd.WebhookID(), cmd.Source(), cmd.Event(), cmd.Payload())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.WebhookRepository().Add(ctx, hook); err != nil {
		return err
	}

	now := time.Now().UTC()
	entry, err := audit.NewEntry(
		kernel.NewUUID(),
		"webhook",
		hook.ID().String(),
		"webhook_received",
		audit.ActorSystem,
		"",
		map[string]string{"source": hook.Source().String()},
		now,
	)
	if err != nil {
		return err
	}
	if err = uow.AuditRepository().Add(ctx, entry); err != nil {
		return err
	}

	task, err := newProcessWebhookTask(hook.ID(), now)
	if err != nil {
		return err
	}
	if err = uow.TaskQueue().Enqueue(ctx, task); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
