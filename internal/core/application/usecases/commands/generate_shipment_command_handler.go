package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/audit"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipping"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// metadataIdempotencyKey is the order metadata key holding the idempotency
// key sent to the carrier. It is persisted before the first carrier call so
// a retry after a crash replays the same key instead of creating a second
// shipment.
const metadataIdempotencyKey = "shipment_idempotency_key"

// pickupPointMethod is the shipping method that delivers to a pickup point
// rather than the recipient's address, and therefore requires the order to
// name one.
const pickupPointMethod = "pickup-point"

// GenerateShipmentCommandHandler creates one carrier shipment for a paid
// order and every other order it consolidates with.
//
// The work spans three phases:
//  1. Lock the consolidation group (ascending order id), re-verify each
//     member under the lock, pick a carrier and persist the idempotency key.
//  2. Outside any transaction, create the shipment, download the label and
//     store the artifact.
//  3. Re-lock the group and fan the shipment out to every member atomically:
//     shipment assignment, fulfilled transition, label record, audit entry
//     and notification all commit together or not at all.
//
// The handler performs a single attempt. Transient carrier failures surface
// as errors so the task queue reschedules the whole command; permanent
// failures are recorded (failed label, failed orders) and not retried.
type GenerateShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	carriers   ports.CarrierResolver
	labelStore ports.LabelStore
	planner    services.PackagePlanner
}

// NewGenerateShipmentCommandHandler creates a handler for shipment generation.
func NewGenerateShipmentCommandHandler(
	uowFactory ShipmentUoWFactory,
	carriers ports.CarrierResolver,
	labelStore ports.LabelStore,
	planner services.PackagePlanner,
) GenerateShipmentCommandHandler {
	return GenerateShipmentCommandHandler{
		uowFactory: uowFactory,
		carriers:   carriers,
		labelStore: labelStore,
		planner:    planner,
	}
}

// shipmentPlan is the snapshot phase 1 hands to the carrier call: the locked
// and verified group reduced to the data the shipment request needs.
type shipmentPlan struct {
	memberIDs      []kernel.UUID
	seedID         kernel.UUID
	carrier        kernel.Carrier
	client         ports.CarrierClient
	idempotencyKey string
	reference      string
	shippingMethod string
	pickupPointID  *string
	recipient      order.Address
	totalQuantity  int
}

// Handle processes the shipment generation command.
// Orders that already carry a shipment, or that left the paid status before
// the group lock was acquired, make the command a no-op.
func (h *GenerateShipmentCommandHandler) Handle(ctx context.Context, cmd GenerateShipmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	plan, done, err := h.prepareShipment(ctx, cmd)
	if err != nil || done {
		return err
	}
	client := plan.client

	packages, err := h.planner.Plan(plan.totalQuantity)
	if err != nil {
		return err
	}

	response, err := client.CreateShipment(ctx, ports.ShipmentRequest{
		IdempotencyKey: plan.idempotencyKey,
		Reference:      plan.reference,
		ShippingMethod: plan.shippingMethod,
		PickupPointID:  plan.pickupPointID,
		Recipient:      plan.recipient,
		Packages:       packages,
	})
	if err != nil {
		return h.handleCarrierError(ctx, plan, err)
	}

	artifact, err := client.DownloadLabel(ctx, response.ShipmentID)
	if err != nil {
		return h.handleCarrierError(ctx, plan, err)
	}

	artifactKey := fmt.Sprintf("labels/%s/%s.pdf", plan.carrier.String(), response.ShipmentID)
	labelPath, err := h.labelStore.Save(ctx, artifactKey, artifact)
	if err != nil {
		return err
	}

	return h.assignShipment(ctx, plan, response, labelPath)
}

// prepareShipment runs phase 1 in its own committed transaction. The second
// return value reports that there is nothing to do (order already shipped or
// no longer eligible).
func (h *GenerateShipmentCommandHandler) prepareShipment(
	ctx context.Context,
	cmd GenerateShipmentCommand,
) (shipmentPlan, bool, error) {
	orderID := cmd.OrderID()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return shipmentPlan{}, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	seed, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return shipmentPlan{}, false, err
	}
	if seed.HasShipment() || seed.Status() != order.Paid {
		return shipmentPlan{}, true, nil
	}

	candidateIDs, err := orderRepo.FindConsolidatable(ctx, seed)
	if err != nil {
		return shipmentPlan{}, false, err
	}

	group, err := orderRepo.GetGroupForUpdate(ctx, candidateIDs)
	if err != nil {
		return shipmentPlan{}, false, err
	}

	// The group was computed before the locks were taken, so every member is
	// re-verified under the lock. Members that moved on are dropped; if the
	// seed itself moved on the whole command is a no-op.
	members := make([]*order.Order, 0, len(group))
	var lockedSeed *order.Order
	for _, member := range group {
		if member.ID().IsEqual(orderID) {
			lockedSeed = member
		}
		if member.Status() == order.Paid && !member.HasShipment() {
			members = append(members, member)
		}
	}
	if lockedSeed == nil || lockedSeed.Status() != order.Paid || lockedSeed.HasShipment() {
		return shipmentPlan{}, true, nil
	}

	carrier, client, err := h.ensureCarrier(lockedSeed, cmd.Carrier())
	if err != nil {
		return shipmentPlan{}, false, err
	}
	if err = checkShipmentPreconditions(lockedSeed, carrier, client); err != nil {
		return shipmentPlan{}, false, err
	}

	idempotencyKey, keyExists := lockedSeed.Metadata()[metadataIdempotencyKey]
	if !keyExists {
		idempotencyKey = kernel.NewUUID().String()
		lockedSeed.SetMetadataValue(metadataIdempotencyKey, idempotencyKey)
	}

	plan := shipmentPlan{
		seedID:         lockedSeed.ID(),
		carrier:        carrier,
		client:         client,
		idempotencyKey: idempotencyKey,
		reference:      lockedSeed.Number(),
		shippingMethod: lockedSeed.ShippingMethod(),
		pickupPointID:  lockedSeed.PickupPointID(),
		recipient:      lockedSeed.Address(),
	}
	for _, member := range members {
		if err = member.AssignCarrier(carrier); err != nil {
			return shipmentPlan{}, false, err
		}
		if err = orderRepo.Update(ctx, member); err != nil {
			return shipmentPlan{}, false, err
		}
		plan.memberIDs = append(plan.memberIDs, member.ID())
		plan.totalQuantity += member.ItemQuantity()
	}

	if err = uow.Commit(ctx); err != nil {
		return shipmentPlan{}, false, err
	}
	return plan, false, nil
}

// ensureCarrier resolves the carrier and its client. An explicitly requested
// carrier wins over the one already assigned to the order; with neither, one
// is selected by shipping method and destination country.
func (h *GenerateShipmentCommandHandler) ensureCarrier(
	seed *order.Order,
	requested kernel.Carrier,
) (kernel.Carrier, ports.CarrierClient, error) {
	carrier := requested
	if carrier == "" {
		carrier = seed.Carrier()
	}
	if carrier != "" {
		client, err := h.carriers.Resolve(carrier)
		if err != nil {
			return "", nil, err
		}
		return carrier, client, nil
	}

	client, err := h.carriers.Select(seed.ShippingMethod(), seed.Address().Country())
	if err != nil {
		return "", nil, err
	}
	return client.Carrier(), client, nil
}

// checkShipmentPreconditions verifies the order can be handed to the carrier
// before anything is mutated: a complete shipping address, a shipping method
// the carrier supports, a pickup point when the method needs one, and a
// destination country the carrier serves.
func checkShipmentPreconditions(seed *order.Order, carrier kernel.Carrier, client ports.CarrierClient) error {
	address := seed.Address()
	if err := address.Validate(); err != nil {
		return errs.NewPreconditionFailedErrorWithCause("shipping address is incomplete", err)
	}
	if !client.SupportsMethod(seed.ShippingMethod()) {
		return errs.NewPreconditionFailedError(fmt.Sprintf(
			"carrier %s does not support shipping method %s", carrier, seed.ShippingMethod()))
	}
	if seed.ShippingMethod() == pickupPointMethod && seed.PickupPointID() == nil {
		return errs.NewPreconditionFailedError("pickup point shipping requires a pickup point id")
	}
	if !client.ServesCountry(address.Country()) {
		return errs.NewPreconditionFailedError(fmt.Sprintf(
			"carrier %s does not serve country %s", carrier, address.Country()))
	}
	return nil
}

// handleCarrierError turns a classified carrier failure into the right
// outcome: transient errors bubble up so the queue retries the command,
// permanent errors are recorded and consume the task.
func (h *GenerateShipmentCommandHandler) handleCarrierError(
	ctx context.Context,
	plan shipmentPlan,
	carrierErr error,
) error {
	if errors.Is(carrierErr, errs.ErrTransientCarrier) {
		return carrierErr
	}
	return h.recordFailure(ctx, plan, carrierErr)
}

// RecordExhaustedAttempts records the terminal outcome after the queue has
// spent every retry on the command: the consolidation group is failed the
// same way a permanent carrier error fails it, so the exhaustion leaves a
// failed label behind instead of an order stuck in paid.
func (h *GenerateShipmentCommandHandler) RecordExhaustedAttempts(
	ctx context.Context,
	cmd GenerateShipmentCommand,
	cause error,
) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	plan, done, err := h.prepareShipment(ctx, cmd)
	if err != nil || done {
		return err
	}
	return h.recordFailure(ctx, plan, cause)
}

// recordFailure marks the group failed in a fresh transaction: a failed
// label for the seed order, a failed transition and audit entry per member.
func (h *GenerateShipmentCommandHandler) recordFailure(
	ctx context.Context,
	plan shipmentPlan,
	cause error,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()
	orderRepo := uow.OrderRepository()
	members, err := orderRepo.GetGroupForUpdate(ctx, plan.memberIDs)
	if err != nil {
		return err
	}

	for _, member := range members {
		previousStatus := member.Status()
		changed, transitionErr := member.TransitionTo(order.Failed)
		if transitionErr != nil {
			if errors.Is(transitionErr, errs.ErrInvalidTransition) {
				continue
			}
			return transitionErr
		}
		if !changed {
			continue
		}

		if err = orderRepo.Update(ctx, member); err != nil {
			return err
		}

		entry, entryErr := audit.NewEntry(
			kernel.NewUUID(),
			"order",
			member.ID().String(),
			"shipment_failed",
			audit.ActorSystem,
			"",
			map[string]string{
				"previous": previousStatus.String(),
				"new":      member.Status().String(),
				"error":    cause.Error(),
			},
			now,
		)
		if entryErr != nil {
			return entryErr
		}
		if err = uow.AuditRepository().Add(ctx, entry); err != nil {
			return err
		}

		notifyTask, taskErr := newNotifyOrderChangedTask(
			member.ID(), previousStatus.String(), member.Status().String(), now)
		if taskErr != nil {
			return taskErr
		}
		if err = uow.TaskQueue().Enqueue(ctx, notifyTask); err != nil {
			return err
		}
	}

	failedLabel, err := shipping.NewFailedLabel(
		kernel.NewUUID(), plan.seedID, plan.carrier, cause.Error())
	if err != nil {
		return err
	}
	if err = uow.LabelRepository().Add(ctx, failedLabel); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// assignShipment runs phase 3: re-lock the group and commit the fan-out
// atomically.
func (h *GenerateShipmentCommandHandler) assignShipment(
	ctx context.Context,
	plan shipmentPlan,
	response *ports.ShipmentResponse,
	labelPath string,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()
	orderRepo := uow.OrderRepository()
	members, err := orderRepo.GetGroupForUpdate(ctx, plan.memberIDs)
	if err != nil {
		return err
	}

	eligible := make([]*order.Order, 0, len(members))
	for _, member := range members {
		if member.Status() == order.Paid && !member.HasShipment() {
			eligible = append(eligible, member)
		}
	}

	// The shipment id doubles as the parcel group id: it is the one value
	// every member of a consolidated group shares. Singleton shipments carry
	// no group id.
	var parcelGroupID *string
	if len(eligible) > 1 {
		groupID := response.ShipmentID
		parcelGroupID = &groupID
	}

	for _, member := range eligible {
		previousStatus := member.Status()
		if err = member.AssignShipment(response.ShipmentID, parcelGroupID, labelPath); err != nil {
			return err
		}
		if _, err = member.TransitionTo(order.Fulfilled); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, member); err != nil {
			return err
		}

		label, labelErr := shipping.NewGeneratedLabel(
			kernel.NewUUID(),
			member.ID(),
			plan.carrier,
			response.ShipmentID,
			response.TrackingNumber,
			labelPath,
			response.RawResponse,
		)
		if labelErr != nil {
			return labelErr
		}
		if err = uow.LabelRepository().Add(ctx, label); err != nil {
			return err
		}

		entry, entryErr := audit.NewEntry(
			kernel.NewUUID(),
			"order",
			member.ID().String(),
			"shipment_assigned",
			audit.ActorSystem,
			"",
			map[string]string{
				"previous":        previousStatus.String(),
				"new":             member.Status().String(),
				"shipment_id":     response.ShipmentID,
				"tracking_number": response.TrackingNumber,
			},
			now,
		)
		if entryErr != nil {
			return entryErr
		}
		if err = uow.AuditRepository().Add(ctx, entry); err != nil {
			return err
		}

		notifyTask, taskErr := newNotifyOrderChangedTask(
			member.ID(), previousStatus.String(), member.Status().String(), now)
		if taskErr != nil {
			return taskErr
		}
		if err = uow.TaskQueue().Enqueue(ctx, notifyTask); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
