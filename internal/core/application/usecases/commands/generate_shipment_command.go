package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGenerateShipmentCommandIsNotConstructed = errors.New(
	"GenerateShipmentCommand must be created via NewGenerateShipmentCommand constructor",
)

// GenerateShipmentCommand represents a request to create a carrier shipment
// for a paid order. Consolidation is implicit: the handler pulls every other
// eligible order of the same client, shipping method and pickup point into
// the same shipment.
type GenerateShipmentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	carrier kernel.Carrier

	guard guard.ConstructorGuard
}

// NewGenerateShipmentCommand creates a command to generate a shipment for
// the given order. The carrier may be empty, in which case the handler
// selects one by shipping method and destination country.
func NewGenerateShipmentCommand(orderID kernel.UUID, carrier kernel.Carrier) (GenerateShipmentCommand, error) {
	shipmentCommand := GenerateShipmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return GenerateShipmentCommand{}, err
	}
	if carrier != "" {
		if err := carrier.Validate(); err != nil {
			return GenerateShipmentCommand{}, err
		}
	}
	shipmentCommand.orderID = orderID
	shipmentCommand.carrier = carrier

	return shipmentCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrGenerateShipmentCommandIsNotConstructed if validation fails.
func (c GenerateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrGenerateShipmentCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to fulfill.
func (c GenerateShipmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Carrier returns the explicitly requested carrier, or the empty carrier
// when the handler should select one.
func (c GenerateShipmentCommand) Carrier() kernel.Carrier {
	return c.carrier
}
