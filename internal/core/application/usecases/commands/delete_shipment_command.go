package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/audit"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrDeleteShipmentCommandIsNotConstructed = errors.New(
	"DeleteShipmentCommand must be created via NewDeleteShipmentCommand constructor",
)

// DeleteShipmentCommand represents a request to void an order's shipment.
// Voiding is symmetric to generation: it applies to every order sharing the
// shipment's parcel group, not just the one named in the request.
type DeleteShipmentCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	actorType audit.ActorType
	actorID   string

	guard guard.ConstructorGuard
}

// NewDeleteShipmentCommand creates a command to void the shipment assigned
// to the given order.
func NewDeleteShipmentCommand(
	orderID kernel.UUID,
	actorType audit.ActorType,
	actorID string,
) (DeleteShipmentCommand, error) {
	deleteCommand := DeleteShipmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		actorType.Validate(),
	); err != nil {
		return DeleteShipmentCommand{}, err
	}

	deleteCommand.orderID = orderID
	deleteCommand.actorType = actorType
	deleteCommand.actorID = actorID
	return deleteCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrDeleteShipmentCommandIsNotConstructed if validation fails.
func (c DeleteShipmentCommand) Validate() error {
	return c.guard.Validate(ErrDeleteShipmentCommandIsNotConstructed)
}

// OrderID returns the identifier of the order whose shipment is voided.
func (c DeleteShipmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorType returns the kind of actor requesting the void.
func (c DeleteShipmentCommand) ActorType() audit.ActorType {
	return c.actorType
}

// ActorID returns the actor's identifier.
func (c DeleteShipmentCommand) ActorID() string {
	return c.actorID
}
