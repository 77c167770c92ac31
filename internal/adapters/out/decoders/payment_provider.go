// Package decoders translates each webhook source's vendor payload into the
// internal event vocabulary. One decoder per source; unknown event names
// decode without error into EventUnknown, malformed payloads are errors.
package decoders

import (
	"encoding/json"

	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/pkg/errs"
)

// PaymentProviderDecoder understands the payment provider's event envelope.
type PaymentProviderDecoder struct{}

// NewPaymentProviderDecoder creates the payment provider decoder.
func NewPaymentProviderDecoder() *PaymentProviderDecoder {
	return &PaymentProviderDecoder{}
}

// Source identifies the webhook source this decoder understands.
func (d *PaymentProviderDecoder) Source() webhook.Source {
	return webhook.SourcePaymentProvider
}

type paymentProviderPayload struct {
	Type        string `json:"type"`
	PaymentID   string `json:"payment_id"`
	OrderNumber string `json:"order_number"`
	OrderID     string `json:"order_id"`
}

// Decode parses a payment provider payload into a normalized event.
func (d *PaymentProviderDecoder) Decode(payload []byte) (webhook.Event, error) {
	var parsed paymentProviderPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return webhook.Event{}, errs.NewValueIsInvalidErrorWithCause("webhook payload", err)
	}

	event := webhook.Event{
		OrderID:     parsed.OrderID,
		OrderNumber: parsed.OrderNumber,
		PaymentID:   parsed.PaymentID,
	}

	switch parsed.Type {
	case "payment.confirmed":
		event.Type = webhook.EventPaymentConfirmed
	case "payment.failed":
		event.Type = webhook.EventPaymentFailed
	default:
		event.Type = webhook.EventUnknown
	}
	return event, nil
}
