package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/audit"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand represents a request to move an order to a new
// lifecycle status on behalf of an identified actor.
//
// Example:
//
//	cmd, err := NewTransitionOrderCommand(orderID, order.Confirmed, audit.ActorAPI, "", "stock confirmed")
//	if err != nil {
//	    return fmt.Errorf("invalid transition request: %w", err)
//	}
//
//	handler := NewTransitionOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("transition failed: %w", err)
//	}
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	targetStatus order.Status
	actorType    audit.ActorType
	actorID      string
	reason       string

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a command to transition an order.
// Validates the order ID, the target status and the actor type.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	targetStatus order.Status,
	actorType audit.ActorType,
	actorID string,
	reason string,
) (TransitionOrderCommand, error) {
	transitionCommand := TransitionOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		transitionCommand.setOrderID(orderID),
		transitionCommand.setTargetStatus(targetStatus),
		transitionCommand.setActor(actorType, actorID),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	transitionCommand.reason = reason
	return transitionCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrTransitionOrderCommandIsNotConstructed if validation fails.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TargetStatus returns the status the order should move to.
func (c TransitionOrderCommand) TargetStatus() order.Status {
	return c.targetStatus
}

// ActorType returns the kind of actor requesting the transition.
func (c TransitionOrderCommand) ActorType() audit.ActorType {
	return c.actorType
}

// ActorID returns the actor's identifier, empty for anonymous actors.
func (c TransitionOrderCommand) ActorID() string {
	return c.actorID
}

// Reason returns the optional free-text reason for the transition.
func (c TransitionOrderCommand) Reason() string {
	return c.reason
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setTargetStatus(targetStatus order.Status) error {
	if err := targetStatus.Validate(); err != nil {
		return err
	}

	c.targetStatus = targetStatus
	return nil
}

func (c *TransitionOrderCommand) setActor(actorType audit.ActorType, actorID string) error {
	if err := actorType.Validate(); err != nil {
		return err
	}

	c.actorType = actorType
	c.actorID = actorID
	return nil
}
