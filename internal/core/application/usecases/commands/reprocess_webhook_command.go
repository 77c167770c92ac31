package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/audit"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrReprocessWebhookCommandIsNotConstructed = errors.New(
	"ReprocessWebhookCommand must be created via NewReprocessWebhookCommand constructor",
)

// ReprocessWebhookCommand represents an operator's request to run a failed
// webhook through the pipeline again.
type ReprocessWebhookCommand struct { //nolint:recvcheck //using for validation
	webhookID kernel.UUID
	actorType audit.ActorType
	actorID   string

	guard guard.ConstructorGuard
}

// NewReprocessWebhookCommand creates a command to reprocess a failed webhook.
func NewReprocessWebhookCommand(
	webhookID kernel.UUID,
	actorType audit.ActorType,
	actorID string,
) (ReprocessWebhookCommand, error) {
	reprocessCommand := ReprocessWebhookCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		webhookID.Validate(),
		actorType.Validate(),
	); err != nil {
		return ReprocessWebhookCommand{}, err
	}

	reprocessCommand.webhookID = webhookID
	reprocessCommand.actorType = actorType
	reprocessCommand.actorID = actorID
	return reprocessCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReprocessWebhookCommandIsNotConstructed if validation fails.
func (c ReprocessWebhookCommand) Validate() error {
	return c.guard.Validate(ErrReprocessWebhookCommandIsNotConstructed)
}

// WebhookID returns the identifier of the webhook to reprocess.
func (c ReprocessWebhookCommand) WebhookID() kernel.UUID {
	return c.webhookID
}

// ActorType returns the kind of actor requesting the reprocess.
func (c ReprocessWebhookCommand) ActorType() audit.ActorType {
	return c.actorType
}

// ActorID returns the actor's identifier.
func (c ReprocessWebhookCommand) ActorID() string {
	return c.actorID
}
