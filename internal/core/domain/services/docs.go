// Package services contains stateless domain services that implement business
// logic spanning aggregates.
//
// PackagePlanner computes the physical parcels of a carrier shipment from the
// total item quantity of a consolidation group. It is a pure function of its
// input: the same quantity always yields the same package list, and the list
// is computed once per shipment, never per order.
package services
