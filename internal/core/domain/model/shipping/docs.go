// Package shipping contains the shipping label entity and the package value
// object used to describe physical parcels of a carrier shipment.
//
// A Label records one carrier shipment attempt for one order: generated labels
// carry the shipment id, tracking number and stored artifact path; failed
// labels durably record why generation failed. Labels of a consolidated parcel
// group all reference the same shipment and tracking number.
package shipping
