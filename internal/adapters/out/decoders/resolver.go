package decoders

import (
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// Resolver dispatches webhook payloads to the decoder registered for their
// source.
type Resolver struct {
	bySource map[webhook.Source]ports.WebhookDecoder
}

// NewResolver creates a resolver over the given decoders.
func NewResolver(decoders ...ports.WebhookDecoder) *Resolver {
	bySource := make(map[webhook.Source]ports.WebhookDecoder, len(decoders))
	for _, decoder := range decoders {
		bySource[decoder.Source()] = decoder
	}
	return &Resolver{bySource: bySource}
}

// Resolve returns the decoder for the given source.
func (r *Resolver) Resolve(source webhook.Source) (ports.WebhookDecoder, error) {
	decoder, ok := r.bySource[source]
	if !ok {
		return nil, errs.NewObjectNotFoundError("webhook decoder", source.String())
	}
	return decoder, nil
}
