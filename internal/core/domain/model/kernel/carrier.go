package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Carrier is a value object naming the shipping carrier responsible for a shipment.
// The zero value is invalid; carriers are constructed from their wire representation
// via CarrierFromString or taken from the predefined constants.
type Carrier string

const (
	// CarrierA is the primary parcel carrier.
	CarrierA Carrier = "carrier-A"

	// CarrierB is the secondary parcel carrier.
	CarrierB Carrier = "carrier-B"
)

// CarrierFromString parses a carrier from its wire representation.
// Returns an error for unknown carriers.
func CarrierFromString(s string) (Carrier, error) {
	c := Carrier(s)
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// Validate checks that the carrier is one of the supported carriers.
func (c Carrier) Validate() error {
	switch c {
	case CarrierA, CarrierB:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("carrier",
			fmt.Errorf("%q is not a supported carrier", string(c)))
	}
}

// String returns the wire representation of the carrier.
func (c Carrier) String() string {
	return string(c)
}
