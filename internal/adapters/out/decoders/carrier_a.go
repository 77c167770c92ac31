package decoders

import (
	"encoding/json"

	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/pkg/errs"
)

// CarrierADecoder understands the primary carrier's event envelope.
type CarrierADecoder struct{}

// NewCarrierADecoder creates the carrier-A decoder.
func NewCarrierADecoder() *CarrierADecoder {
	return &CarrierADecoder{}
}

// Source identifies the webhook source this decoder understands.
func (d *CarrierADecoder) Source() webhook.Source {
	return webhook.SourceCarrierA
}

type carrierAPayload struct {
	Event          string `json:"event"`
	OrderID        string `json:"order_id"`
	Reference      string `json:"reference"`
	ShipmentID     string `json:"shipment_id"`
	TrackingNumber string `json:"tracking_number"`
}

// Decode parses a carrier-A payload into a normalized event. The carrier's
// "reference" field echoes the order number we sent at shipment creation.
func (d *CarrierADecoder) Decode(payload []byte) (webhook.Event, error) {
	var parsed carrierAPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return webhook.Event{}, errs.NewValueIsInvalidErrorWithCause("webhook payload", err)
	}

	event := webhook.Event{
		OrderID:        parsed.OrderID,
		OrderNumber:    parsed.Reference,
		ShipmentID:     parsed.ShipmentID,
		TrackingNumber: parsed.TrackingNumber,
	}

	switch parsed.Event {
	case "label.created":
		event.Type = webhook.EventLabelCreated
	case "parcel.delivered":
		event.Type = webhook.EventPackageDelivered
	case "parcel.returned":
		event.Type = webhook.EventPackageReturned
	default:
		event.Type = webhook.EventUnknown
	}
	return event, nil
}
