package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct fulfillment workflow.
//
// State transitions:
//
//	NEW       ──> CONFIRMED, CANCELLED, ON_HOLD
//	CONFIRMED ──> PAID, CANCELLED, ON_HOLD, FAILED
//	PAID      ──> FULFILLED, CANCELLED, ON_HOLD, FAILED
//	FULFILLED ──> COMPLETED, FAILED
//	ON_HOLD   ──> CONFIRMED, PAID, CANCELLED
//
// CANCELLED, COMPLETED and FAILED are terminal: no transition is ever
// accepted out of them.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// New is the initial status assigned at intake.
	New

	// Confirmed indicates the order contents were verified and it awaits payment.
	Confirmed

	// Paid indicates payment was confirmed; the order is eligible for fulfillment.
	Paid

	// Fulfilled indicates a carrier shipment exists and a label was generated.
	Fulfilled

	// Completed indicates the parcel was delivered. Terminal.
	Completed

	// Cancelled indicates the order was cancelled. Terminal.
	Cancelled

	// OnHold indicates an operator parked the order; it can resume or be cancelled.
	OnHold

	// Failed indicates payment or delivery failed. Terminal.
	Failed
)

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		New:       "NEW",
		Confirmed: "CONFIRMED",
		Paid:      "PAID",
		Fulfilled: "FULFILLED",
		Completed: "COMPLETED",
		Cancelled: "CANCELLED",
		OnHold:    "ON_HOLD",
		Failed:    "FAILED",
	}
}

// getAllowedTransitions returns the full transition table of the lifecycle
// state machine. A status absent from the map is terminal.
func getAllowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		New:       {Confirmed, Cancelled, OnHold},
		Confirmed: {Paid, Cancelled, OnHold, Failed},
		Paid:      {Fulfilled, Cancelled, OnHold, Failed},
		Fulfilled: {Completed, Failed},
		OnHold:    {Confirmed, Paid, Cancelled},
	}
}

// StatusFromString parses a status from its persisted/API representation.
// Returns an error for unrecognized values.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
// Unknown (0) and any out-of-range values are invalid.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", int(s)))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", int(s)))
	}
	return nil
}

// String returns the persisted name of the status.
// Implements fmt.Stringer and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no transition is accepted out of this status.
func (s Status) IsTerminal() bool {
	if err := s.Validate(); err != nil {
		return false
	}
	return len(getAllowedTransitions()[s]) == 0
}

// CanTransitionTo reports whether target is directly reachable from s
// per the transition table.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range getAllowedTransitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo validates the edge from s to target and returns the new status.
//
// Returns:
//   - (target, nil) when the transition table permits the edge
//   - (0, *errs.InvalidTransitionError) when target is unreachable from s
//
// Same-status calls are not handled here; the idempotent no-op lives on the
// aggregate so that no duplicate ledger entries are produced.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}

	if !s.CanTransitionTo(target) {
		return 0, errs.NewInvalidTransitionError(s.String(), target.String())
	}

	return target, nil
}
