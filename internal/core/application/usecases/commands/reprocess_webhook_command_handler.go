package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/audit"
	"fulfillment/internal/core/domain/model/kernel"
)

// ReprocessWebhookCommandHandler resets a failed webhook to pending and
// schedules it, in one transaction. Only failed webhooks can be reprocessed;
// the entity rejects anything else.
type ReprocessWebhookCommandHandler struct {
	uowFactory WebhookUoWFactory
}

// NewReprocessWebhookCommandHandler creates a handler for webhook reprocessing.
func NewReprocessWebhookCommandHandler(uowFactory WebhookUoWFactory) ReprocessWebhookCommandHandler {
	return ReprocessWebhookCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the reprocess command.
func (h *ReprocessWebhookCommandHandler) Handle(ctx context.Context, cmd ReprocessWebhookCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	webhookRepo := uow.WebhookRepository()
	hook, err := webhookRepo.Get(ctx, cmd.WebhookID())
	if err != nil {
		return err
	}
	if err = hook.ResetToPending(); err != nil {
		return err
	}
	if err = webhookRepo.Update(ctx, hook); err != nil {
		return err
	}

	now := time.Now().UTC()
	entry, err := audit.NewEntry(
		kernel.NewUUID(),
		"webhook",
		hook.ID().String(),
		"webhook_reprocessed",
		cmd.ActorType(),
		cmd.ActorID(),
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
