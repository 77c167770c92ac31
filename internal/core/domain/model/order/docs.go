// Package order contains the Order aggregate and its lifecycle state machine.
//
// The aggregate owns the two pieces of state the rest of the system must never
// corrupt: the lifecycle status, which only moves along the edges of the
// transition table in Status, and the shipment assignment, which links the
// order to a carrier shipment and (for consolidated shipments) a parcel group.
//
// Status changes go through Order.TransitionTo, which also enforces the
// target-specific preconditions and provides the idempotent same-status no-op
// that makes webhook redelivery safe. Shipment fields change only through
// Order.AssignShipment and Order.ClearShipment.
package order
