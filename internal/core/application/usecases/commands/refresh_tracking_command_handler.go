package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// Order metadata keys for the last known tracking state.
const (
	metadataTrackingStatus    = "tracking_status"
	metadataTrackingCheckedAt = "tracking_checked_at"
)

// RefreshTrackingCommandHandler fetches the carrier's current tracking
// status for an order's shipment. Statuses are served from a short-lived
// cache when possible; a fresh carrier answer is cached and persisted onto
// the order's metadata.
type RefreshTrackingCommandHandler struct {
	uowFactory ShipmentUoWFactory
	carriers   ports.CarrierResolver
	cache      ports.TrackingCache
}

// NewRefreshTrackingCommandHandler creates a handler for tracking refreshes.
func NewRefreshTrackingCommandHandler(
	uowFactory ShipmentUoWFactory,
	carriers ports.CarrierResolver,
	cache ports.TrackingCache,
) RefreshTrackingCommandHandler {
	return RefreshTrackingCommandHandler{
		uowFactory: uowFactory,
		carriers:   carriers,
		cache:      cache,
	}
}

// Handle processes the refresh command and returns the current tracking
// status. Returns an object-not-found error when the order has no shipment
// or no generated label to track.
func (h *RefreshTrackingCommandHandler) Handle(ctx context.Context, cmd RefreshTrackingCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return "", err
	}
	if !aggregate.HasShipment() {
		return "", errs.NewObjectNotFoundError("shipment", cmd.OrderID())
	}

	label, err := uow.LabelRepository().GetByOrderAndShipment(
		ctx, aggregate.ID(), *aggregate.ExternalShipmentID())
	if err != nil {
		return "", err
	}

	trackingNumber := label.TrackingNumber()
	status, cached, err := h.cache.Get(ctx, trackingNumber)
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return "", err
	}
	if !cached {
		client, resolveErr := h.carriers.Resolve(aggregate.Carrier())
		if resolveErr != nil {
			return "", resolveErr
		}
		status, err = client.GetTracking(ctx, trackingNumber)
		if err != nil {
			return "", err
		}
		if err = h.cache.Set(ctx, trackingNumber, status); err != nil {
			return "", err
		}
	}

	aggregate.SetMetadataValue(metadataTrackingStatus, status)
	aggregate.SetMetadataValue(metadataTrackingCheckedAt, time.Now().UTC().Format(time.RFC3339))
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return "", err
	}
	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	return status, nil
}
