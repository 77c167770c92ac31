package order

import "fulfillment/internal/pkg/errs"

// Address is a value object holding the shipping destination of an order.
// Intake attaches at least one address before the order enters the lifecycle;
// the fulfillment orchestrator reads it when building the carrier request.
type Address struct {
	line1      string
	city       string
	postalCode string
	country    string

	isConstructed bool
}

// NewAddress creates a validated shipping address.
// Line, city, postal code and ISO country code are all required.
func NewAddress(line1, city, postalCode, country string) (Address, error) {
	if line1 == "" {
		return Address{}, errs.NewValueIsRequiredError("address line")
	}
	if city == "" {
		return Address{}, errs.NewValueIsRequiredError("city")
	}
	if postalCode == "" {
		return Address{}, errs.NewValueIsRequiredError("postal code")
	}
	if country == "" {
		return Address{}, errs.NewValueIsRequiredError("country")
	}

	return Address{
		line1:         line1,
		city:          city,
		postalCode:    postalCode,
		country:       country,
		isConstructed: true,
	}, nil
}

// Validate ensures the address was created via NewAddress.
func (a Address) Validate() error {
	if !a.isConstructed {
		return errs.NewValueIsRequiredError("address must be created via NewAddress")
	}
	return nil
}

// Line1 returns the street line of the address.
func (a Address) Line1() string {
	return a.line1
}

// City returns the city of the address.
func (a Address) City() string {
	return a.city
}

// PostalCode returns the postal code of the address.
func (a Address) PostalCode() string {
	return a.postalCode
}

// Country returns the ISO country code of the address.
func (a Address) Country() string {
	return a.country
}
