package shipping

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrLabelIsNotConstructed is returned when a Label instance was not created
// through one of the factory methods.
var ErrLabelIsNotConstructed = errors.New("Label must be created via NewGeneratedLabel, NewFailedLabel or RestoreLabel")

// LabelStatus represents the state of a shipping label artifact.
type LabelStatus int

const (
	// LabelUnknown represents an invalid or undefined label status.
	LabelUnknown LabelStatus = iota

	// LabelGenerated indicates the carrier produced the label and its artifact is stored.
	LabelGenerated

	// LabelVoided indicates the shipment was deleted and the label compensated.
	LabelVoided

	// LabelFailed indicates shipment generation failed; the label row records the error.
	LabelFailed
)

// getLabelStatusStrings returns a map of LabelStatus values to their persisted names.
func getLabelStatusStrings() map[LabelStatus]string {
	return map[LabelStatus]string{
		LabelUnknown:   "unknown",
		LabelGenerated: "generated",
		LabelVoided:    "voided",
		LabelFailed:    "failed",
	}
}

// LabelStatusFromString parses a label status from its persisted name.
func LabelStatusFromString(s string) (LabelStatus, error) {
	for status, name := range getLabelStatusStrings() {
		if name == s && status != LabelUnknown {
			return status, nil
		}
	}
	return LabelUnknown, errs.NewValueIsInvalidErrorWithCause("label status",
		fmt.Errorf("%q is not a valid label status", s))
}

// Validate checks that the label status is one of the defined states.
func (s LabelStatus) Validate() error {
	switch s {
	case LabelGenerated, LabelVoided, LabelFailed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("label status",
			fmt.Errorf("%d is not a valid label status", int(s)))
	}
}

// String returns the persisted name of the label status.
func (s LabelStatus) String() string {
	if str, ok := getLabelStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Label is a shipping label produced (or attempted) for one order.
// Many labels may exist per order over time, but at most one should be in
// LabelGenerated status at a time; that is a procedural invariant kept by the
// orchestrator, not a storage constraint.
//
// All labels of a consolidated parcel group reference the same external
// shipment id and tracking number.
type Label struct {
	id                 kernel.UUID
	orderID            kernel.UUID
	carrier            kernel.Carrier
	externalShipmentID string
	trackingNumber     string
	artifactPath       string
	status             LabelStatus
	rawResponse        []byte
	errorMessage       string

	isConstructed bool
}

// NewGeneratedLabel creates a label for a successfully created carrier shipment.
func NewGeneratedLabel(
	id kernel.UUID,
	orderID kernel.UUID,
	carrier kernel.Carrier,
	externalShipmentID string,
	trackingNumber string,
	artifactPath string,
	rawResponse []byte,
) (*Label, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := carrier.Validate(); err != nil {
		return nil, err
	}
	if externalShipmentID == "" {
		return nil, errs.NewValueIsRequiredError("external shipment id")
	}
	if trackingNumber == "" {
		return nil, errs.NewValueIsRequiredError("tracking number")
	}

	return &Label{
		id:                 id,
		orderID:            orderID,
		carrier:            carrier,
		externalShipmentID: externalShipmentID,
		trackingNumber:     trackingNumber,
		artifactPath:       artifactPath,
		status:             LabelGenerated,
		rawResponse:        rawResponse,
		isConstructed:      true,
	}, nil
}

// NewFailedLabel creates the durable failure record written when shipment
// generation fails after the precondition check. Exactly one such row is
// written per failed attempt so no failure is silent.
func NewFailedLabel(
	id kernel.UUID,
	orderID kernel.UUID,
	carrier kernel.Carrier,
	errorMessage string,
) (*Label, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := carrier.Validate(); err != nil {
		return nil, err
	}
	if errorMessage == "" {
		return nil, errs.NewValueIsRequiredError("error message")
	}

	return &Label{
		id:            id,
		orderID:       orderID,
		carrier:       carrier,
		status:        LabelFailed,
		errorMessage:  errorMessage,
		isConstructed: true,
	}, nil
}

// RestoreLabel reconstructs a label from persistence.
func RestoreLabel(
	id kernel.UUID,
	orderID kernel.UUID,
	carrier kernel.Carrier,
	externalShipmentID string,
	trackingNumber string,
	artifactPath string,
	status LabelStatus,
	rawResponse []byte,
	errorMessage string,
) (*Label, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return &Label{
		id:                 id,
		orderID:            orderID,
		carrier:            carrier,
		externalShipmentID: externalShipmentID,
		trackingNumber:     trackingNumber,
		artifactPath:       artifactPath,
		status:             status,
		rawResponse:        rawResponse,
		errorMessage:       errorMessage,
		isConstructed:      true,
	}, nil
}

// Validate ensures the Label instance was properly constructed.
func (l *Label) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrLabelIsNotConstructed
	}
	return nil
}

// ID returns the label's unique identifier.
func (l *Label) ID() kernel.UUID {
	return l.id
}

// OrderID returns the order this label belongs to.
func (l *Label) OrderID() kernel.UUID {
	return l.orderID
}

// Carrier returns the carrier that produced (or rejected) the label.
func (l *Label) Carrier() kernel.Carrier {
	return l.carrier
}

// ExternalShipmentID returns the carrier shipment id, empty for failed labels.
func (l *Label) ExternalShipmentID() string {
	return l.externalShipmentID
}

// TrackingNumber returns the carrier tracking number, empty for failed labels.
func (l *Label) TrackingNumber() string {
	return l.trackingNumber
}

// ArtifactPath returns the opaque stored-artifact path of the label file.
func (l *Label) ArtifactPath() string {
	return l.artifactPath
}

// Status returns the label status.
func (l *Label) Status() LabelStatus {
	return l.status
}

// RawResponse returns the opaque carrier response captured at creation.
func (l *Label) RawResponse() []byte {
	return l.rawResponse
}

// ErrorMessage returns the failure reason for failed labels.
func (l *Label) ErrorMessage() string {
	return l.errorMessage
}

// Void marks a generated label as voided. Part of the symmetric shipment
// deletion: every generated label of the parcel group is voided together.
func (l *Label) Void() error {
	if err := l.Validate(); err != nil {
		return err
	}
	if l.status != LabelGenerated {
		return errs.NewValueIsInvalidErrorWithCause("label status",
			fmt.Errorf("%s label cannot be voided", l.status))
	}

	l.status = LabelVoided
	return nil
}
