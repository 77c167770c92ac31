package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrProcessWebhookCommandIsNotConstructed = errors.New(
	"ProcessWebhookCommand must be created via NewProcessWebhookCommand constructor",
)

// ProcessWebhookCommand represents a request to process a persisted webhook:
// classify its payload, resolve the order it refers to and apply the effect.
type ProcessWebhookCommand struct { //nolint:recvcheck //using for validation
	webhookID kernel.UUID

	guard guard.ConstructorGuard
}

// NewProcessWebhookCommand creates a command to process the given webhook.
func NewProcessWebhookCommand(webhookID kernel.UUID) (ProcessWebhookCommand, error) {
	processCommand := ProcessWebhookCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := webhookID.Validate(); err != nil {
		return ProcessWebhookCommand{}, err
	}
	processCommand.webhookID = webhookID

	return processCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrProcessWebhookCommandIsNotConstructed if validation fails.
func (c ProcessWebhookCommand) Validate() error {
	return c.guard.Validate(ErrProcessWebhookCommandIsNotConstructed)
}

// WebhookID returns the identifier of the webhook to process.
func (c ProcessWebhookCommand) WebhookID() kernel.UUID {
	return c.webhookID
}
