package order

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrShipmentAlreadyAssigned is returned when a shipment is assigned to an order
	// that already carries one. Guards against silent duplicate shipments.
	ErrShipmentAlreadyAssigned = errors.New("order already has a shipment assigned")

	// ErrNoShipmentAssigned is returned when shipment fields are cleared or read on an
	// order that has no shipment.
	ErrNoShipmentAssigned = errors.New("order has no shipment assigned")
)

// Order is the aggregate root of the fulfillment lifecycle. It owns the order's
// status and shipment assignment and enforces every invariant around them.
//
// Invariants:
//   - Status only changes along the edges of the lifecycle state machine (see Status)
//   - A parcel group id is only ever set together with an external shipment id
//   - A second shipment is never assigned while one is present
//   - Can only be created through NewOrder or RestoreOrder
//
// Status is mutated only by the lifecycle engine (TransitionTo); shipment fields
// are mutated only by the fulfillment orchestrator (AssignShipment/ClearShipment).
type Order struct {
	id       kernel.UUID
	number   string
	clientID kernel.UUID

	currency    string
	totalAmount int64

	carrier        kernel.Carrier
	shippingMethod string
	pickupPointID  *string

	paymentID          *string
	externalShipmentID *string
	parcelGroupID      *string
	labelPath          *string

	items    []Item
	address  Address
	metadata map[string]string

	status Status

	isConstructed bool
}

// NewOrder creates an order in NEW status. Intake is expected to attach the
// shipping address and at least the order lines it already knows about; the
// carrier may be empty until fulfillment is requested explicitly.
func NewOrder(
	id kernel.UUID,
	number string,
	clientID kernel.UUID,
	currency string,
	totalAmount int64,
	carrier kernel.Carrier,
	shippingMethod string,
	pickupPointID *string,
	address Address,
	items []Item,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if number == "" {
		return nil, errs.NewValueIsRequiredError("order number")
	}
	if err := clientID.Validate(); err != nil {
		return nil, err
	}
	if currency == "" {
		return nil, errs.NewValueIsRequiredError("currency")
	}
	if totalAmount < 0 {
		return nil, errs.NewValueIsInvalidError("total amount")
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}
	if carrier != "" {
		if err := carrier.Validate(); err != nil {
			return nil, err
		}
	}

	return &Order{
		id:             id,
		number:         number,
		clientID:       clientID,
		currency:       currency,
		totalAmount:    totalAmount,
		carrier:        carrier,
		shippingMethod: shippingMethod,
		pickupPointID:  pickupPointID,
		address:        address,
		items:          items,
		metadata:       map[string]string{},
		status:         New,
		isConstructed:  true,
	}, nil
}

// RestoreOrder reconstructs an order from persistence without re-running intake
// validation, but still enforcing the shipment/parcel-group invariant.
func RestoreOrder(
	id kernel.UUID,
	number string,
	clientID kernel.UUID,
	currency string,
	totalAmount int64,
	carrier kernel.Carrier,
	shippingMethod string,
	pickupPointID *string,
	paymentID *string,
	externalShipmentID *string,
	parcelGroupID *string,
	labelPath *string,
	address Address,
	items []Item,
	metadata map[string]string,
	status Status,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if parcelGroupID != nil && externalShipmentID == nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("parcel group id",
			errors.New("parcel group id set without external shipment id"))
	}
	if metadata == nil {
		metadata = map[string]string{}
	}

	return &Order{
		id:                 id,
		number:             number,
		clientID:           clientID,
		currency:           currency,
		totalAmount:        totalAmount,
		carrier:            carrier,
		shippingMethod:     shippingMethod,
		pickupPointID:      pickupPointID,
		paymentID:          paymentID,
		externalShipmentID: externalShipmentID,
		parcelGroupID:      parcelGroupID,
		labelPath:          labelPath,
		address:            address,
		items:              items,
		metadata:           metadata,
		status:             status,
		isConstructed:      true,
	}, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the human-readable order number.
func (o *Order) Number() string {
	return o.number
}

// ClientID returns the owning client's identifier.
func (o *Order) ClientID() kernel.UUID {
	return o.clientID
}

// Currency returns the ISO currency code of the order total.
func (o *Order) Currency() string {
	return o.currency
}

// TotalAmount returns the order total in minor currency units.
func (o *Order) TotalAmount() int64 {
	return o.totalAmount
}

// Carrier returns the assigned carrier, or the empty carrier when unassigned.
func (o *Order) Carrier() kernel.Carrier {
	return o.carrier
}

// ShippingMethod returns the carrier-facing shipping method name.
func (o *Order) ShippingMethod() string {
	return o.shippingMethod
}

// PickupPointID returns the pickup point identifier, or nil for home delivery.
func (o *Order) PickupPointID() *string {
	return o.pickupPointID
}

// PaymentID returns the external payment correlation id, or nil before payment.
func (o *Order) PaymentID() *string {
	return o.paymentID
}

// ExternalShipmentID returns the carrier shipment id, or nil before fulfillment.
func (o *Order) ExternalShipmentID() *string {
	return o.externalShipmentID
}

// ParcelGroupID returns the consolidation group id shared by all orders packed
// into the same physical shipment, or nil for singleton shipments.
func (o *Order) ParcelGroupID() *string {
	return o.parcelGroupID
}

// LabelPath returns the stored label artifact path, or nil before fulfillment.
func (o *Order) LabelPath() *string {
	return o.labelPath
}

// Address returns the shipping address.
func (o *Order) Address() Address {
	return o.address
}

// Items returns the order lines.
func (o *Order) Items() []Item {
	return o.items
}

// ItemQuantity returns the total unit count across all order lines.
// Package computation is a function of this number.
func (o *Order) ItemQuantity() int {
	total := 0
	for _, item := range o.items {
		total += item.Quantity()
	}
	return total
}

// Metadata returns a copy of the free-form metadata map.
func (o *Order) Metadata() map[string]string {
	out := make(map[string]string, len(o.metadata))
	for k, v := range o.metadata {
		out[k] = v
	}
	return out
}

// SetMetadataValue stores a single metadata entry.
func (o *Order) SetMetadataValue(key, value string) {
	if o.metadata == nil {
		o.metadata = map[string]string{}
	}
	o.metadata[key] = value
}

// Status returns the current lifecycle status of the order.
func (o *Order) Status() Status {
	return o.status
}

// HasShipment reports whether a carrier shipment is assigned.
func (o *Order) HasShipment() bool {
	return o.externalShipmentID != nil
}

// TransitionTo moves the order to the target status.
//
// The call is an idempotent no-op when the order is already in the target
// status: it succeeds, reports changed=false, and callers must not write a
// ledger entry or enqueue notifications for it. Payment and carrier webhooks
// can be delivered more than once; this keeps replays harmless.
//
// Returns:
//   - (true, nil) when the status changed
//   - (false, nil) on the idempotent same-status no-op
//   - (false, *errs.InvalidTransitionError) when target is unreachable from the
//     current status per the transition table
//   - (false, *errs.PreconditionFailedError) when a target-specific guard fails:
//     CONFIRMED requires at least one item and a shipping address, PAID requires
//     an external payment correlation id
func (o *Order) TransitionTo(target Status) (bool, error) {
	if err := o.Validate(); err != nil {
		return false, err
	}
	if err := target.Validate(); err != nil {
		return false, err
	}

	if o.status == target {
		return false, nil
	}

	newStatus, err := o.status.TransitionTo(target)
	if err != nil {
		return false, err
	}

	if err := o.checkTransitionPreconditions(target); err != nil {
		return false, err
	}

	o.status = newStatus
	return true, nil
}

// checkTransitionPreconditions enforces the target-specific business guards.
func (o *Order) checkTransitionPreconditions(target Status) error {
	switch target {
	case Confirmed:
		if len(o.items) == 0 {
			return errs.NewPreconditionFailedError("order must have at least one item to be confirmed")
		}
		if err := o.address.Validate(); err != nil {
			return errs.NewPreconditionFailedErrorWithCause(
				"order must have a shipping address to be confirmed", err)
		}
	case Paid:
		if o.paymentID == nil || *o.paymentID == "" {
			return errs.NewPreconditionFailedError("order must have a payment correlation id to be paid")
		}
	}
	return nil
}

// SetPaymentID records the external payment correlation id.
func (o *Order) SetPaymentID(paymentID string) error {
	if paymentID == "" {
		return errs.NewValueIsRequiredError("payment id")
	}
	o.paymentID = &paymentID
	return nil
}

// AssignCarrier sets the carrier for an explicitly requested fulfillment.
func (o *Order) AssignCarrier(carrier kernel.Carrier) error {
	if err := carrier.Validate(); err != nil {
		return err
	}
	o.carrier = carrier
	return nil
}

// AssignShipment records the carrier shipment produced by the orchestrator.
// parcelGroupID must be nil for singleton groups and set for consolidated ones;
// it can never be set without a shipment, which this signature makes impossible.
// Fails with ErrShipmentAlreadyAssigned if a shipment is already present.
func (o *Order) AssignShipment(shipmentID string, parcelGroupID *string, labelPath string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if shipmentID == "" {
		return errs.NewValueIsRequiredError("shipment id")
	}
	if o.externalShipmentID != nil {
		return ErrShipmentAlreadyAssigned
	}

	o.externalShipmentID = &shipmentID
	o.parcelGroupID = parcelGroupID
	o.labelPath = &labelPath
	return nil
}

// ClearShipment removes all shipment fields as part of the symmetric
// shipment-deletion compensating action.
// Fails with ErrNoShipmentAssigned when no shipment is present.
func (o *Order) ClearShipment() error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.externalShipmentID == nil {
		return ErrNoShipmentAssigned
	}

	o.externalShipmentID = nil
	o.parcelGroupID = nil
	o.labelPath = nil
	return nil
}
