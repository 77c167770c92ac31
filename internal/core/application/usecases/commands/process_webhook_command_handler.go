package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/audit"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipping"
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ProcessWebhookCommandHandler applies the business effect of a persisted
// webhook: decode the payload through the source's decoder, resolve the
// order it refers to and apply the classified event under the order's row
// lock.
//
// Outcome classification:
//   - malformed payloads, unresolvable orders and rejected effects mark the
//     webhook failed and consume the task; reprocessing is explicit
//   - events whose transition is simply not allowed from the order's current
//     status are dropped without failing the webhook, so stale or duplicate
//     vendor events never corrupt a settled order
//   - infrastructure errors surface as errors so the queue retries
type ProcessWebhookCommandHandler struct {
	uowFactory WebhookUoWFactory
	decoders   ports.WebhookDecoderResolver
}

// NewProcessWebhookCommandHandler creates a handler for webhook processing.
func NewProcessWebhookCommandHandler(
	uowFactory WebhookUoWFactory,
	decoders ports.WebhookDecoderResolver,
) ProcessWebhookCommandHandler {
	return ProcessWebhookCommandHandler{
		uowFactory: uowFactory,
		decoders:   decoders,
	}
}

// Handle processes the webhook command.
func (h *ProcessWebhookCommandHandler) Handle(ctx context.Context, cmd ProcessWebhookCommand) error {
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
	if hook.Status() == webhook.StatusProcessed {
		return nil
	}

	now := time.Now().UTC()

	decoder, err := h.decoders.Resolve(hook.Source())
	if err != nil {
		return h.finishFailed(ctx, uow, hook, now, err.Error())
	}

	event, err := decoder.Decode(hook.Payload())
	if err != nil {
		return h.finishFailed(ctx, uow, hook, now, err.Error())
	}

	if event.Type == webhook.EventUnknown {
		return h.finishProcessed(ctx, uow, hook, now, "ignored")
	}

	aggregate, err := h.resolveOrder(ctx, uow.OrderRepository(), event)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return h.finishFailed(ctx, uow, hook, now, "order not found for webhook references")
		}
		return err
	}

	if err = h.applyEffect(ctx, uow, hook, aggregate, event, now); err != nil {
		if isPermanentEffectError(err) {
			return h.finishFailed(ctx, uow, hook, now, err.Error())
		}
		return err
	}

	return h.finishProcessed(ctx, uow, hook, now, "applied")
}

// resolveOrder maps webhook references to an order, locking its row. The
// references are tried in a fixed sequence: internal id, order number,
// payment correlation id.
func (h *ProcessWebhookCommandHandler) resolveOrder(
	ctx context.Context,
	orderRepo ports.OrderRepository,
	event webhook.Event,
) (*order.Order, error) {
	resolved, err := h.lookupOrder(ctx, orderRepo, event)
	if err != nil {
		return nil, err
	}
	return orderRepo.GetForUpdate(ctx, resolved.ID())
}

func (h *ProcessWebhookCommandHandler) lookupOrder(
	ctx context.Context,
	orderRepo ports.OrderRepository,
	event webhook.Event,
) (*order.Order, error) {
	if event.OrderID != "" {
		id, err := kernel.UUIDFromString(event.OrderID)
		if err == nil {
			resolved, getErr := orderRepo.Get(ctx, id)
			if getErr == nil {
				return resolved, nil
			}
			if !errors.Is(getErr, errs.ErrObjectNotFound) {
				return nil, getErr
			}
		}
	}

	if event.OrderNumber != "" {
		resolved, err := orderRepo.GetByNumber(ctx, event.OrderNumber)
		if err == nil {
			return resolved, nil
		}
		if !errors.Is(err, errs.ErrObjectNotFound) {
			return nil, err
		}
	}

	if event.PaymentID != "" {
		resolved, err := orderRepo.GetByPaymentID(ctx, event.PaymentID)
		if err == nil {
			return resolved, nil
		}
		if !errors.Is(err, errs.ErrObjectNotFound) {
			return nil, err
		}
	}

	return nil, errs.NewObjectNotFoundError("order", event.OrderID)
}

// applyEffect applies one classified event to the locked order.
func (h *ProcessWebhookCommandHandler) applyEffect(
	ctx context.Context,
	uow WebhookUoW,
	hook *webhook.Webhook,
	aggregate *order.Order,
	event webhook.Event,
	now time.Time,
) error {
	switch event.Type {
	case webhook.EventPaymentConfirmed:
		// A payment confirmation only pays a CONFIRMED order. ON_HOLD→PAID is
		// a legal operator edge, so without this guard a payment webhook would
		// silently un-freeze a held order.
		if aggregate.Status() != order.Confirmed {
			return nil
		}
		if event.PaymentID != "" {
			if err := aggregate.SetPaymentID(event.PaymentID); err != nil {
				return err
			}
		}
		return h.transitionFromWebhook(ctx, uow, hook, aggregate, order.Paid, now)

	case webhook.EventPaymentFailed:
		return h.transitionFromWebhook(ctx, uow, hook, aggregate, order.Failed, now)

	case webhook.EventPackageDelivered:
		return h.transitionFromWebhook(ctx, uow, hook, aggregate, order.Completed, now)

	case webhook.EventPackageReturned:
		return h.transitionFromWebhook(ctx, uow, hook, aggregate, order.Failed, now)

	case webhook.EventLabelCreated:
		if err := h.recordLabel(ctx, uow, hook, aggregate, event); err != nil {
			return err
		}
		// The carrier producing a label means fulfillment happened; a still
		// paid order moves on. Orders already fulfilled (or moved elsewhere)
		// only get the label record.
		if aggregate.Status() == order.Paid {
			return h.transitionFromWebhook(ctx, uow, hook, aggregate, order.Fulfilled, now)
		}
		return nil

	default:
		return nil
	}
}

// transitionFromWebhook moves the order and writes the bookkeeping of a
// successful transition. A transition the state machine does not allow from
// the current status is dropped: webhooks arrive late, duplicated and out of
// order, and a settled order must stay settled.
func (h *ProcessWebhookCommandHandler) transitionFromWebhook(
	ctx context.Context,
	uow WebhookUoW,
	hook *webhook.Webhook,
	aggregate *order.Order,
	target order.Status,
	now time.Time,
) error {
	previousStatus := aggregate.Status()
	changed, err := aggregate.TransitionTo(target)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidTransition) {
			return nil
		}
		return err
	}
	if !changed {
		return nil
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	entry, err := audit.NewEntry(
		kernel.NewUUID(),
		"order",
		aggregate.ID().String(),
		"status_transition",
		audit.ActorSystem,
		"",
		map[string]string{
			"previous":   previousStatus.String(),
			"new":        aggregate.Status().String(),
			"webhook_id": hook.ID().String(),
		},
		now,
	)
	if err != nil {
		return err
	}
	if err = uow.AuditRepository().Add(ctx, entry); err != nil {
		return err
	}

	notifyTask, err := newNotifyOrderChangedTask(
		aggregate.ID(), previousStatus.String(), aggregate.Status().String(), now)
	if err != nil {
		return err
	}
	if err = uow.TaskQueue().Enqueue(ctx, notifyTask); err != nil {
		return err
	}

	if target == order.Paid {
		shipmentTask, taskErr := newGenerateShipmentTask(aggregate.ID(), now)
		if taskErr != nil {
			return taskErr
		}
		if err = uow.TaskQueue().Enqueue(ctx, shipmentTask); err != nil {
			return err
		}
	}

	return nil
}

// recordLabel upserts the label a carrier reports via webhook. The
// (order, shipment) pair is the dedupe key: a label event seen twice
// resolves to the existing record instead of creating a duplicate.
func (h *ProcessWebhookCommandHandler) recordLabel(
	ctx context.Context,
	uow WebhookUoW,
	hook *webhook.Webhook,
	aggregate *order.Order,
	event webhook.Event,
) error {
	if event.ShipmentID == "" {
		return errs.NewValueIsRequiredError("shipment id")
	}

	labelRepo := uow.LabelRepository()
	_, err := labelRepo.GetByOrderAndShipment(ctx, aggregate.ID(), event.ShipmentID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	carrier := aggregate.Carrier()
	if carrier == "" {
		carrier, err = kernel.CarrierFromString(hook.Source().String())
		if err != nil {
			return err
		}
	}

	label, err := shipping.NewGeneratedLabel(
		kernel.NewUUID(),
		aggregate.ID(),
		carrier,
		event.ShipmentID,
		event.TrackingNumber,
		"",
		hook.Payload(),
	)
	if err != nil {
		return err
	}
	return labelRepo.Add(ctx, label)
}

// finishProcessed marks the webhook processed and commits.
func (h *ProcessWebhookCommandHandler) finishProcessed(
	ctx context.Context,
	uow WebhookUoW,
	hook *webhook.Webhook,
	now time.Time,
	outcome string,
) error {
	if err := hook.MarkProcessed(now); err != nil {
		return err
	}
	if err := uow.WebhookRepository().Update(ctx, hook); err != nil {
		return err
	}

	entry, err := audit.NewEntry(
		kernel.NewUUID(),
		"webhook",
		hook.ID().String(),
		"webhook_processed",
		audit.ActorSystem,
		"",
		map[string]string{"outcome": outcome},
		now,
	)
	if err != nil {
		return err
	}
	if err = uow.AuditRepository().Add(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// finishFailed marks the webhook failed and commits. The task is consumed:
// a failed webhook is only retried through explicit reprocessing.
func (h *ProcessWebhookCommandHandler) finishFailed(
	ctx context.Context,
	uow WebhookUoW,
	hook *webhook.Webhook,
	now time.Time,
	reason string,
) error {
	if err := hook.MarkFailed(now, reason); err != nil {
		return err
	}
	if err := uow.WebhookRepository().Update(ctx, hook); err != nil {
		return err
	}

	entry, err := audit.NewEntry(
		kernel.NewUUID(),
		"webhook",
		hook.ID().String(),
		"webhook_failed",
		audit.ActorSystem,
		"",
		map[string]string{"error": reason},
		now,
	)
	if err != nil {
		return err
	}
	if err = uow.AuditRepository().Add(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// isPermanentEffectError reports whether an effect failure is a business
// rejection rather than an infrastructure fault.
func isPermanentEffectError(err error) bool {
	return errors.Is(err, errs.ErrPreconditionFailed) ||
		errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsInvalid)
}
