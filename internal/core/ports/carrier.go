package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipping"
)

// ShipmentRequest describes the shipment the orchestrator asks a carrier to
// create. IdempotencyKey is generated and persisted by the caller before the
// first attempt, so retries of the same shipment replay the same key.
type ShipmentRequest struct {
	IdempotencyKey string
	Reference      string
	ShippingMethod string
	PickupPointID  *string
	Recipient      order.Address
	Packages       []shipping.Package
}

// ShipmentResponse is the carrier's answer to a shipment creation call.
type ShipmentResponse struct {
	ShipmentID     string
	TrackingNumber string
	RawResponse    []byte
}

// CarrierClient is the outbound contract to one carrier's API.
// Implementations classify failures: transport errors and carrier-side
// outages come back wrapping errs.ErrTransientCarrier, rejected requests
// come back wrapping errs.ErrPermanentCarrier.
type CarrierClient interface {
	// Carrier identifies which carrier this client talks to.
	Carrier() kernel.Carrier

	// SupportsMethod reports whether the carrier offers the shipping method.
	SupportsMethod(method string) bool

	// ServesCountry reports whether the carrier delivers to the country.
	ServesCountry(country string) bool

	// CreateShipment registers a shipment with the carrier.
	CreateShipment(ctx context.Context, request ShipmentRequest) (*ShipmentResponse, error)

	// DownloadLabel fetches the printable label artifact for a shipment.
	DownloadLabel(ctx context.Context, shipmentID string) ([]byte, error)

	// DeleteShipment voids a shipment on the carrier side.
	DeleteShipment(ctx context.Context, shipmentID string) error

	// GetTracking fetches the carrier's current status text for a tracking
	// number.
	GetTracking(ctx context.Context, trackingNumber string) (string, error)
}

// CarrierResolver selects the CarrierClient for a carrier.
type CarrierResolver interface {
	// Resolve returns the client for the given carrier or an object-not-found
	// error when no client is registered for it.
	Resolve(carrier kernel.Carrier) (CarrierClient, error)

	// Select returns the first registered client that supports the shipping
	// method and serves the destination country, or an object-not-found error
	// when no carrier qualifies.
	Select(method string, country string) (CarrierClient, error)
}
