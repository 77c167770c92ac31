package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/audit"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// DeleteShipmentCommandHandler voids a shipment on the carrier side and
// clears it from every order that shares it. The deletion mirrors the
// generation fan-out: either all members of the parcel group lose the
// shipment or none do.
type DeleteShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	carriers   ports.CarrierResolver
	labelStore ports.LabelStore
}

// NewDeleteShipmentCommandHandler creates a handler for shipment deletion.
func NewDeleteShipmentCommandHandler(
	uowFactory ShipmentUoWFactory,
	carriers ports.CarrierResolver,
	labelStore ports.LabelStore,
) DeleteShipmentCommandHandler {
	return DeleteShipmentCommandHandler{
		uowFactory: uowFactory,
		carriers:   carriers,
		labelStore: labelStore,
	}
}

// Handle processes the shipment deletion command.
// Returns an object-not-found error when the order carries no shipment.
func (h *DeleteShipmentCommandHandler) Handle(ctx context.Context, cmd DeleteShipmentCommand) error {
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
	if !aggregate.HasShipment() {
		return errs.NewObjectNotFoundError("shipment", cmd.OrderID())
	}

	shipmentID := *aggregate.ExternalShipmentID()
	members := []*order.Order{aggregate}
	if aggregate.ParcelGroupID() != nil {
		members, err = orderRepo.GetByParcelGroupForUpdate(ctx, *aggregate.ParcelGroupID())
		if err != nil {
			return err
		}
	}

	client, err := h.carriers.Resolve(aggregate.Carrier())
	if err != nil {
		return err
	}

	// The carrier call happens under the group lock so a concurrent
	// generation for the same orders cannot interleave with the void.
	if err = client.DeleteShipment(ctx, shipmentID); err != nil {
		return err
	}

	now := time.Now().UTC()
	labelRepo := uow.LabelRepository()
	labels, err := labelRepo.GetGeneratedByShipment(ctx, shipmentID)
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	for _, label := range labels {
		if err = label.Void(); err != nil {
			return err
		}
		if err = labelRepo.Update(ctx, label); err != nil {
			return err
		}
	}

	for _, member := range members {
		labelPath := member.LabelPath()
		if err = member.ClearShipment(); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, member); err != nil {
			return err
		}

		entry, entryErr := audit.NewEntry(
			kernel.NewUUID(),
			"order",
			member.ID().String(),
			"shipment_deleted",
			cmd.ActorType(),
			cmd.ActorID(),
			map[string]string{"shipment_id": shipmentID},
			now,
		)
		if entryErr != nil {
			return entryErr
		}
		if err = uow.AuditRepository().Add(ctx, entry); err != nil {
			return err
		}

		if labelPath != nil {
			if err = h.labelStore.Delete(ctx, *labelPath); err != nil {
				return err
			}
		}
	}

	return uow.Commit(ctx)
}
