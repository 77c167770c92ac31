package ports

import (
	"fulfillment/internal/core/domain/model/webhook"
)

// WebhookDecoder translates one source's raw webhook payload into the
// normalized event vocabulary. Each source registers its own decoder;
// dispatch happens on the source recorded at ingestion time.
type WebhookDecoder interface {
	// Source identifies the webhook source this decoder understands.
	Source() webhook.Source

	// Decode parses the payload into a normalized event. Unknown event
	// names decode without error into an event of type EventUnknown.
	Decode(payload []byte) (webhook.Event, error)
}

// WebhookDecoderResolver selects the decoder for a webhook source.
type WebhookDecoderResolver interface {
	// Resolve returns the decoder for the given source or an
	// object-not-found error when none is registered.
	Resolve(source webhook.Source) (WebhookDecoder, error)
}
