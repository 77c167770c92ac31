package services

import (
	"fulfillment/internal/core/domain/model/shipping"
)

const (
	// itemsPerPackage is the fixed item-count capacity of one parcel.
	itemsPerPackage = 27

	// gramsPerItem is the linear weight contribution of one item.
	gramsPerItem = 450

	// Default parcel dimensions in centimeters.
	packageLengthCm = 40
	packageWidthCm  = 30
	packageHeightCm = 20
)

// PackagePlanner computes the ordered package list for a shipment from the
// total item quantity across a consolidation group.
//
// Rules:
//   - Weight scales linearly with item count
//   - A package holds at most a fixed number of items; once full, a new one opens
//   - At least one package is always produced, even for zero items
//
// Example:
//
//	planner := NewPackagePlanner()
//	packages, err := planner.Plan(30)
//	// packages: [27 items, 3 items] with linearly scaled weights
type PackagePlanner struct{}

// NewPackagePlanner creates a new PackagePlanner instance.
func NewPackagePlanner() PackagePlanner {
	return PackagePlanner{}
}

// Plan returns the ordered package list for the given total item quantity.
// Negative quantities are treated as zero. The package list is a pure function
// of the quantity; callers compute it once per consolidation group.
func (p PackagePlanner) Plan(itemQuantity int) ([]shipping.Package, error) {
	if itemQuantity < 0 {
		itemQuantity = 0
	}

	packageCount := (itemQuantity + itemsPerPackage - 1) / itemsPerPackage
	if packageCount == 0 {
		packageCount = 1
	}

	packages := make([]shipping.Package, 0, packageCount)
	remaining := itemQuantity
	for i := 0; i < packageCount; i++ {
		inThis := remaining
		if inThis > itemsPerPackage {
			inThis = itemsPerPackage
		}
		remaining -= inThis

		pkg, err := shipping.NewPackage(
			inThis*gramsPerItem,
			packageLengthCm,
			packageWidthCm,
			packageHeightCm,
		)
		if err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}

	return packages, nil
}
