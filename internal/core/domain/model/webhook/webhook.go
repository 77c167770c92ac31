package webhook

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrWebhookIsNotConstructed is returned when a Webhook instance was not created
// through NewWebhook or RestoreWebhook.
var ErrWebhookIsNotConstructed = errors.New("Webhook must be created via NewWebhook or RestoreWebhook")

// Source identifies the external system that delivered a webhook.
type Source string

const (
	// SourceCarrierA is the primary carrier's webhook source.
	SourceCarrierA Source = "carrier-A"

	// SourceCarrierB is the secondary carrier's webhook source.
	SourceCarrierB Source = "carrier-B"

	// SourcePaymentProvider is the payment provider's webhook source.
	SourcePaymentProvider Source = "payment-provider"
)

// SourceFromString parses a webhook source from its wire representation.
func SourceFromString(s string) (Source, error) {
	src := Source(s)
	if err := src.Validate(); err != nil {
		return "", err
	}
	return src, nil
}

// Validate checks that the source is one of the recognized senders.
func (s Source) Validate() error {
	switch s {
	case SourceCarrierA, SourceCarrierB, SourcePaymentProvider:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("webhook source",
			fmt.Errorf("%q is not a recognized source", string(s)))
	}
}

// String returns the wire representation of the source.
func (s Source) String() string {
	return string(s)
}

// WebhookStatus represents the processing state of an inbound webhook.
type WebhookStatus int

const (
	// StatusUnknown represents an invalid or undefined webhook status.
	StatusUnknown WebhookStatus = iota

	// StatusPending means the webhook is durably recorded and awaits processing.
	StatusPending

	// StatusProcessed means the webhook's effects were applied.
	StatusProcessed

	// StatusFailed means processing failed; the error is recorded on the row.
	StatusFailed
)

// getWebhookStatusStrings returns a map of WebhookStatus values to their persisted names.
func getWebhookStatusStrings() map[WebhookStatus]string {
	return map[WebhookStatus]string{
		StatusUnknown:   "unknown",
		StatusPending:   "pending",
		StatusProcessed: "processed",
		StatusFailed:    "failed",
	}
}

// StatusFromString parses a webhook status from its persisted name.
func StatusFromString(s string) (WebhookStatus, error) {
	for status, name := range getWebhookStatusStrings() {
		if name == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("webhook status",
		fmt.Errorf("%q is not a valid webhook status", s))
}

// Validate checks that the webhook status is one of the defined states.
func (s WebhookStatus) Validate() error {
	switch s {
	case StatusPending, StatusProcessed, StatusFailed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("webhook status",
			fmt.Errorf("%d is not a valid webhook status", int(s)))
	}
}

// String returns the persisted name of the webhook status.
func (s WebhookStatus) String() string {
	if str, ok := getWebhookStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Webhook is the durable record of one inbound third-party event.
//
// The row is always created in pending status before any processing begins.
// That ordering is load-bearing: a crash after persistence but before
// processing is recoverable by replaying the pending row.
type Webhook struct {
	id           kernel.UUID
	source       Source
	event        string
	payload      []byte
	status       WebhookStatus
	processedAt  *time.Time
	errorMessage string

	isConstructed bool
}

// NewWebhook creates a pending webhook record for a just-received event.
// The event name is the sender's free-form string; classification into the
// internal vocabulary happens later, during processing.
func NewWebhook(id kernel.UUID, source Source, event string, payload []byte) (*Webhook, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := source.Validate(); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, errs.NewValueIsRequiredError("payload")
	}

	return &Webhook{
		id:            id,
		source:        source,
		event:         event,
		payload:       payload,
		status:        StatusPending,
		isConstructed: true,
	}, nil
}

// RestoreWebhook reconstructs a webhook from persistence.
func RestoreWebhook(
	id kernel.UUID,
	source Source,
	event string,
	payload []byte,
	status WebhookStatus,
	processedAt *time.Time,
	errorMessage string,
) (*Webhook, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return &Webhook{
		id:            id,
		source:        source,
		event:         event,
		payload:       payload,
		status:        status,
		processedAt:   processedAt,
		errorMessage:  errorMessage,
		isConstructed: true,
	}, nil
}

// Validate ensures the Webhook instance was properly constructed.
func (w *Webhook) Validate() error {
	if w == nil || !w.isConstructed {
		return ErrWebhookIsNotConstructed
	}
	return nil
}

// ID returns the webhook's unique identifier.
func (w *Webhook) ID() kernel.UUID {
	return w.id
}

// Source returns the external system that delivered the webhook.
func (w *Webhook) Source() Source {
	return w.source
}

// Event returns the sender's free-form event name.
func (w *Webhook) Event() string {
	return w.event
}

// Payload returns the opaque payload as received.
func (w *Webhook) Payload() []byte {
	return w.payload
}

// Status returns the processing status.
func (w *Webhook) Status() WebhookStatus {
	return w.status
}

// ProcessedAt returns the completion time, or nil while pending.
func (w *Webhook) ProcessedAt() *time.Time {
	return w.processedAt
}

// ErrorMessage returns the last processing error, empty unless failed.
func (w *Webhook) ErrorMessage() string {
	return w.errorMessage
}

// MarkProcessed records successful processing.
func (w *Webhook) MarkProcessed(at time.Time) error {
	if err := w.Validate(); err != nil {
		return err
	}

	w.status = StatusProcessed
	w.processedAt = &at
	w.errorMessage = ""
	return nil
}

// MarkFailed records a processing failure with its cause, so that no failure
// is silent and an operator can inspect and reprocess the webhook.
func (w *Webhook) MarkFailed(at time.Time, errorMessage string) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if errorMessage == "" {
		return errs.NewValueIsRequiredError("error message")
	}

	w.status = StatusFailed
	w.processedAt = &at
	w.errorMessage = errorMessage
	return nil
}

// ResetToPending rewinds the webhook for operator-initiated reprocessing.
// Re-dispatch is at-least-once; effect handlers dedupe their own writes.
func (w *Webhook) ResetToPending() error {
	if err := w.Validate(); err != nil {
		return err
	}

	w.status = StatusPending
	w.processedAt = nil
	w.errorMessage = ""
	return nil
}
