package shipping

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Package is a value object describing one physical parcel of a shipment:
// weight in grams and dimensions in centimeters.
type Package struct {
	weightGrams int
	lengthCm    int
	widthCm     int
	heightCm    int

	isConstructed bool
}

// NewPackage creates a parcel with non-negative weight and positive dimensions.
// A zero weight is valid: an empty order still ships as one (empty) package.
func NewPackage(weightGrams, lengthCm, widthCm, heightCm int) (Package, error) {
	if weightGrams < 0 {
		return Package{}, errs.NewValueIsInvalidErrorWithCause("weight",
			fmt.Errorf("%d grams is negative", weightGrams))
	}
	for name, v := range map[string]int{"length": lengthCm, "width": widthCm, "height": heightCm} {
		if v <= 0 {
			return Package{}, errs.NewValueIsInvalidErrorWithCause(name,
				fmt.Errorf("%d cm is not greater than 0", v))
		}
	}

	return Package{
		weightGrams:   weightGrams,
		lengthCm:      lengthCm,
		widthCm:       widthCm,
		heightCm:      heightCm,
		isConstructed: true,
	}, nil
}

// Validate ensures the package was created via NewPackage.
func (p Package) Validate() error {
	if !p.isConstructed {
		return errs.NewValueIsRequiredError("package must be created via NewPackage")
	}
	return nil
}

// WeightGrams returns the parcel weight in grams.
func (p Package) WeightGrams() int {
	return p.weightGrams
}

// LengthCm returns the parcel length in centimeters.
func (p Package) LengthCm() int {
	return p.lengthCm
}

// WidthCm returns the parcel width in centimeters.
func (p Package) WidthCm() int {
	return p.widthCm
}

// HeightCm returns the parcel height in centimeters.
func (p Package) HeightCm() int {
	return p.heightCm
}
