package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/audit"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// TransitionOrderCommandHandler handles the business logic for order
// lifecycle transitions. The order row is locked for the duration of the
// transaction, so concurrent transitions of the same order serialize and the
// loser re-evaluates against the winner's committed status.
//
// A transition that changes the status writes exactly one audit ledger entry
// and enqueues a notification task in the same transaction. A request for the
// status the order already has is a no-op: no ledger entry, no notification.
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewTransitionOrderCommandHandler creates a handler for order transitions.
// Requires an OrderUoWFactory for transactional persistence.
func NewTransitionOrderCommandHandler(uowFactory OrderUoWFactory) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the transition command.
// Returns a typed error for disallowed edges and unmet preconditions, which
// the caller maps to its own error surface.
func (h *TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
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

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	previousStatus := aggregate.Status()
	changed, err := aggregate.TransitionTo(cmd.TargetStatus())
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err = appendTransitionAudit(ctx, uow, aggregate, previousStatus, cmd, now); err != nil {
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

	// Entering the paid status is what arms fulfillment: shipment creation
	// happens asynchronously, driven by the queue.
	if cmd.TargetStatus() == order.Paid {
		shipmentTask, taskErr := newGenerateShipmentTask(aggregate.ID(), now)
		if taskErr != nil {
			return taskErr
		}
		if err = uow.TaskQueue().Enqueue(ctx, shipmentTask); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}

func appendTransitionAudit(
	ctx context.Context,
	uow OrderUoW,
	aggregate *order.Order,
	previousStatus order.Status,
	cmd TransitionOrderCommand,
	now time.Time,
) error {
	metadata := map[string]string{
		"previous": previousStatus.String(),
		"new":      aggregate.Status().String(),
	}
	if cmd.Reason() != "" {
		metadata["reason"] = cmd.Reason()
	}

	entry, err := audit.NewEntry(
		kernel.NewUUID(),
		"order",
		aggregate.ID().String(),
		"status_transition",
		cmd.ActorType(),
		cmd.ActorID(),
		metadata,
		now,
	)
	if err != nil {
		return err
	}

	return uow.AuditRepository().Add(ctx, entry)
}
