package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrIngestWebhookCommandIsNotConstructed = errors.New(
	"IngestWebhookCommand must be created via NewIngestWebhookCommand constructor",
)

// IngestWebhookCommand represents a request to durably record a received
// webhook. Ingestion only persists the raw payload and schedules processing;
// no business effect happens before the row is committed.
type IngestWebhookCommand struct { //nolint:recvcheck //using for validation
	webhookID kernel.UUID
	source    webhook.Source
	event     string
	payload   []byte

	guard guard.ConstructorGuard
}

// NewIngestWebhookCommand creates a command to record a received webhook.
// The event name is the sender's own label for the payload and may be empty;
// classification happens later, during processing.
func NewIngestWebhookCommand(
	webhookID kernel.UUID,
	source webhook.Source,
	event string,
	payload []byte,
) (IngestWebhookCommand, error) {
	ingestCommand := IngestWebhookCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		webhookID.Validate(),
		source.Validate(),
	); err != nil {
		return IngestWebhookCommand{}, err
	}
	if len(payload) == 0 {
		return IngestWebhookCommand{}, errs.NewValueIsRequiredError("payload")
	}

	ingestCommand.webhookID = webhookID
	ingestCommand.source = source
	ingestCommand.event = event
	ingestCommand.payload = payload
	return ingestCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrIngestWebhookCommandIsNotConstructed if validation fails.
func (c IngestWebhookCommand) Validate() error {
	return c.guard.Validate(ErrIngestWebhookCommandIsNotConstructed)
}

// WebhookID returns the identifier assigned to the webhook row.
func (c IngestWebhookCommand) WebhookID() kernel.UUID {
	return c.webhookID
}

// Source returns the sender the webhook arrived from.
func (c IngestWebhookCommand) Source() webhook.Source {
	return c.source
}

// Event returns the sender's event name, possibly empty.
func (c IngestWebhookCommand) Event() string {
	return c.event
}

// Payload returns the raw webhook body.
func (c IngestWebhookCommand) Payload() []byte {
	return c.payload
}
