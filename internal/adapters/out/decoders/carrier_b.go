package decoders

import (
	"encoding/json"

	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/pkg/errs"
)

// CarrierBDecoder understands the secondary carrier's event envelope, which
// uses camelCase field names and status words instead of event names.
type CarrierBDecoder struct{}

// NewCarrierBDecoder creates the carrier-B decoder.
func NewCarrierBDecoder() *CarrierBDecoder {
	return &CarrierBDecoder{}
}

// Source identifies the webhook source this decoder understands.
func (d *CarrierBDecoder) Source() webhook.Source {
	return webhook.SourceCarrierB
}

type carrierBPayload struct {
	Status         string `json:"status"`
	OrderReference string `json:"orderReference"`
	ShipmentID     string `json:"shipmentId"`
	TrackingNumber string `json:"trackingNumber"`
}

// Decode parses a carrier-B payload into a normalized event.
func (d *CarrierBDecoder) Decode(payload []byte) (webhook.Event, error) {
	var parsed carrierBPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return webhook.Event{}, errs.NewValueIsInvalidErrorWithCause("webhook payload", err)
	}

	event := webhook.Event{
		OrderNumber:    parsed.OrderReference,
		ShipmentID:     parsed.ShipmentID,
		TrackingNumber: parsed.TrackingNumber,
	}

	switch parsed.Status {
	case "LABEL_READY":
		event.Type = webhook.EventLabelCreated
	case "DELIVERED":
		event.Type = webhook.EventPackageDelivered
	case "RETURNED":
		event.Type = webhook.EventPackageReturned
	default:
		event.Type = webhook.EventUnknown
	}
	return event, nil
}
