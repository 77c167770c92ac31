// Package carrier implements the outbound HTTP clients to the parcel
// carriers' shipment APIs. Both carriers expose the same REST surface, so one
// client type configured per carrier serves both.
package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/metrics"
	"fulfillment/internal/pkg/errs"
)

const defaultRequestTimeout = 30 * time.Second

// Config describes one carrier endpoint and its capabilities.
type Config struct {
	Carrier   kernel.Carrier
	BaseURL   string
	APIKey    string
	Methods   []string
	Countries []string
	Timeout   time.Duration
}

// HTTPClient talks to one carrier's shipment API.
//
// Failures are classified at this boundary: transport errors, timeouts and
// carrier-side outages (5xx, 429) wrap errs.ErrTransientCarrier; any other
// rejection wraps errs.ErrPermanentCarrier. Callers never inspect HTTP codes.
type HTTPClient struct {
	config    Config
	client    *http.Client
	methods   map[string]struct{}
	countries map[string]struct{}
	metrics   *metrics.Metrics
}

// NewHTTPClient creates a carrier client from its endpoint configuration.
// The metrics argument may be nil.
func NewHTTPClient(config Config, m *metrics.Metrics) (*HTTPClient, error) {
	if err := config.Carrier.Validate(); err != nil {
		return nil, err
	}
	if config.BaseURL == "" {
		return nil, errs.NewValueIsRequiredError("carrier base url")
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultRequestTimeout
	}

	methods := make(map[string]struct{}, len(config.Methods))
	for _, method := range config.Methods {
		methods[method] = struct{}{}
	}
	countries := make(map[string]struct{}, len(config.Countries))
	for _, country := range config.Countries {
		countries[country] = struct{}{}
	}

	return &HTTPClient{
		config:    config,
		client:    &http.Client{Timeout: config.Timeout},
		methods:   methods,
		countries: countries,
		metrics:   m,
	}, nil
}

// Carrier identifies which carrier this client talks to.
func (c *HTTPClient) Carrier() kernel.Carrier {
	return c.config.Carrier
}

// SupportsMethod reports whether the carrier offers the shipping method.
func (c *HTTPClient) SupportsMethod(method string) bool {
	_, ok := c.methods[method]
	return ok
}

// ServesCountry reports whether the carrier delivers to the country.
func (c *HTTPClient) ServesCountry(country string) bool {
	_, ok := c.countries[country]
	return ok
}

type shipmentRequestBody struct {
	Reference      string        `json:"reference"`
	ShippingMethod string        `json:"shipping_method"`
	PickupPointID  *string       `json:"pickup_point_id,omitempty"`
	Recipient      recipientBody `json:"recipient"`
	Packages       []packageBody `json:"packages"`
}

type recipientBody struct {
	Line1      string `json:"line1"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type packageBody struct {
	WeightGrams int `json:"weight_grams"`
	LengthCm    int `json:"length_cm"`
	WidthCm     int `json:"width_cm"`
	HeightCm    int `json:"height_cm"`
}

type shipmentResponseBody struct {
	ShipmentID     string `json:"shipment_id"`
	TrackingNumber string `json:"tracking_number"`
}

type trackingResponseBody struct {
	Status string `json:"status"`
}

// CreateShipment registers a shipment with the carrier. The caller's
// idempotency key travels in the Idempotency-Key header, so replays of the
// same shipment return the original result instead of a duplicate.
func (c *HTTPClient) CreateShipment(ctx context.Context, request ports.ShipmentRequest) (*ports.ShipmentResponse, error) {
	const op = "create shipment"

	body := shipmentRequestBody{
		Reference:      request.Reference,
		ShippingMethod: request.ShippingMethod,
		PickupPointID:  request.PickupPointID,
		Recipient: recipientBody{
			Line1:      request.Recipient.Line1(),
			City:       request.Recipient.City(),
			PostalCode: request.Recipient.PostalCode(),
			Country:    request.Recipient.Country(),
		},
	}
	for _, pkg := range request.Packages {
		body.Packages = append(body.Packages, packageBody{
			WeightGrams: pkg.WeightGrams(),
			LengthCm:    pkg.LengthCm(),
			WidthCm:     pkg.WidthCm(),
			HeightCm:    pkg.HeightCm(),
		})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errs.NewPermanentCarrierError(op, err)
	}

	raw, err := c.do(ctx, op, http.MethodPost, "/shipments", payload, map[string]string{
		"Idempotency-Key": request.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	var parsed shipmentResponseBody
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, errs.NewPermanentCarrierError(op, err)
	}
	if parsed.ShipmentID == "" || parsed.TrackingNumber == "" {
		return nil, errs.NewPermanentCarrierError(op,
			errors.New("carrier response missing shipment id or tracking number"))
	}

	return &ports.ShipmentResponse{
		ShipmentID:     parsed.ShipmentID,
		TrackingNumber: parsed.TrackingNumber,
		RawResponse:    raw,
	}, nil
}

// DownloadLabel fetches the printable label artifact for a shipment.
func (c *HTTPClient) DownloadLabel(ctx context.Context, shipmentID string) ([]byte, error) {
	const op = "download label"

	if shipmentID == "" {
		return nil, errs.NewValueIsRequiredError("shipment id")
	}

	return c.do(ctx, op, http.MethodGet, "/shipments/"+shipmentID+"/label", nil, nil)
}

// DeleteShipment voids a shipment on the carrier side. A shipment the carrier
// no longer knows about counts as deleted.
func (c *HTTPClient) DeleteShipment(ctx context.Context, shipmentID string) error {
	const op = "delete shipment"

	if shipmentID == "" {
		return errs.NewValueIsRequiredError("shipment id")
	}

	_, err := c.do(ctx, op, http.MethodDelete, "/shipments/"+shipmentID, nil, nil)
	if err != nil {
		if errors.Is(err, errShipmentGone) {
			return nil
		}
		return err
	}
	return nil
}

// GetTracking fetches the carrier's current status text for a tracking number.
func (c *HTTPClient) GetTracking(ctx context.Context, trackingNumber string) (string, error) {
	const op = "get tracking"

	if trackingNumber == "" {
		return "", errs.NewValueIsRequiredError("tracking number")
	}

	raw, err := c.do(ctx, op, http.MethodGet, "/tracking/"+trackingNumber, nil, nil)
	if err != nil {
		return "", err
	}

	var parsed trackingResponseBody
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", errs.NewPermanentCarrierError(op, err)
	}
	return parsed.Status, nil
}

func (c *HTTPClient) do(
	ctx context.Context,
	op string,
	method string,
	path string,
	payload []byte,
	headers map[string]string,
) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reqBody)
	if err != nil {
		return nil, errs.NewPermanentCarrierError(op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if c.metrics != nil {
		c.metrics.CarrierRequestDuration.
			WithLabelValues(c.config.Carrier.String(), op).
			Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, errs.NewTransientCarrierError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.NewTransientCarrierError(op, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, nil
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, errs.NewTransientCarrierError(op,
			fmt.Errorf("carrier returned %d: %s", resp.StatusCode, truncate(raw)))
	case resp.StatusCode == http.StatusNotFound:
		return nil, errs.NewPermanentCarrierError(op,
			fmt.Errorf("%w: %s", errShipmentGone, truncate(raw)))
	default:
		return nil, errs.NewPermanentCarrierError(op,
			fmt.Errorf("carrier returned %d: %s", resp.StatusCode, truncate(raw)))
	}
}

// errShipmentGone marks a 404 so DeleteShipment can treat an already deleted
// shipment as success.
var errShipmentGone = errors.New("shipment not found at carrier")

func truncate(raw []byte) string {
	const maxBodyInError = 256
	if len(raw) > maxBodyInError {
		raw = raw[:maxBodyInError]
	}
	return string(raw)
}
