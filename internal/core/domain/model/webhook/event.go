package webhook

// EventType is the internal event vocabulary heterogeneous vendor payloads are
// classified into. Anything a decoder does not recognize maps to EventUnknown,
// which is logged and skipped, never treated as an error.
type EventType int

const (
	// EventUnknown is the classification for unrecognized vendor events.
	EventUnknown EventType = iota

	// EventLabelCreated means the carrier produced a shipping label.
	EventLabelCreated

	// EventPackageDelivered means the carrier delivered the parcel.
	EventPackageDelivered

	// EventPackageReturned means the parcel came back to the sender.
	EventPackageReturned

	// EventPaymentConfirmed means the payment provider confirmed payment.
	EventPaymentConfirmed

	// EventPaymentFailed means the payment provider reported a failed payment.
	EventPaymentFailed
)

// getEventTypeStrings returns a map of EventType values to their internal names.
func getEventTypeStrings() map[EventType]string {
	return map[EventType]string{
		EventUnknown:          "unknown",
		EventLabelCreated:     "label_created",
		EventPackageDelivered: "package_delivered",
		EventPackageReturned:  "package_returned",
		EventPaymentConfirmed: "payment_confirmed",
		EventPaymentFailed:    "payment_failed",
	}
}

// String returns the internal name of the event type.
func (t EventType) String() string {
	if str, ok := getEventTypeStrings()[t]; ok {
		return str
	}
	return "unknown"
}

// Event is a classified webhook: the internal event type plus whatever order
// references and shipment data the source's decoder could extract.
//
// Order resolution tries the references in a fixed sequence: internal order id,
// then human-readable order number, then external payment correlation id.
type Event struct {
	// Type is the internal classification of the vendor event.
	Type EventType

	// OrderID is the internal order id, when the payload carried one.
	OrderID string

	// OrderNumber is the human-readable order number, when present.
	OrderNumber string

	// PaymentID is the external payment correlation id, when present.
	PaymentID string

	// ShipmentID is the carrier shipment id, set for shipment events.
	ShipmentID string

	// TrackingNumber is the carrier tracking number, set for shipment events.
	TrackingNumber string
}
