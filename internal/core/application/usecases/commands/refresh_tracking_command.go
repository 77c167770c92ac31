package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRefreshTrackingCommandIsNotConstructed = errors.New(
	"RefreshTrackingCommand must be created via NewRefreshTrackingCommand constructor",
)

// RefreshTrackingCommand represents a request to refresh an order's carrier
// tracking status.
type RefreshTrackingCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRefreshTrackingCommand creates a command to refresh tracking for the
// given order.
func NewRefreshTrackingCommand(orderID kernel.UUID) (RefreshTrackingCommand, error) {
	refreshCommand := RefreshTrackingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return RefreshTrackingCommand{}, err
	}
	refreshCommand.orderID = orderID

	return refreshCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRefreshTrackingCommandIsNotConstructed if validation fails.
func (c RefreshTrackingCommand) Validate() error {
	return c.guard.Validate(ErrRefreshTrackingCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to refresh.
func (c RefreshTrackingCommand) OrderID() kernel.UUID {
	return c.orderID
}
