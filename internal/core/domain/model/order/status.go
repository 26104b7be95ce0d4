package order

import (
	"orders/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a forward-only state machine: transitions follow the directed
// graph below and never move backwards. Cancellation is a terminal status, not
// a removal.
//
// State transitions:
//
//	Pending ────> Confirmed ────> Processing ────> Shipped ────> Delivered
//	   │              │               │
//	   └──────────────┴───────────────┴─────> Cancelled
//
// Delivered and Cancelled are terminal states with no outgoing edges.
// Self-transitions are never allowed.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and event payloads.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when an order is first created.
	// Orders in this status are waiting for fulfillment.
	Pending

	// Confirmed indicates the fulfillment pipeline completed: the order was
	// validated, inventory reserved, and payment initiated.
	Confirmed

	// Processing indicates the order is being prepared for shipment.
	Processing

	// Shipped indicates the order left the warehouse.
	Shipped

	// Delivered indicates the order reached the customer.
	// This is a terminal state with no further transitions allowed.
	Delivered

	// Cancelled indicates the order was cancelled, either by a client request
	// or by a failed fulfillment pipeline. Terminal.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Pending:    "Pending",
		Confirmed:  "Confirmed",
		Processing: "Processing",
		Shipped:    "Shipped",
		Delivered:  "Delivered",
		Cancelled:  "Cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:    "Pending",
		Confirmed:  "Confirmed",
		Processing: "Processing",
		Shipped:    "Shipped",
		Delivered:  "Delivered",
		Cancelled:  "Cancelled",
	}
}

// allowedTransitions is the directed transition graph of the order lifecycle.
// Terminal statuses map to an empty set.
func allowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:    {Confirmed, Cancelled},
		Confirmed:  {Processing, Cancelled},
		Processing: {Shipped, Cancelled},
		Shipped:    {Delivered},
		Delivered:  {},
		Cancelled:  {},
	}
}

// StatusFromString parses a Status from its string representation.
// Returns an error for unrecognized names, including "Unknown".
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidError("status " + s)
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: Pending, Confirmed, Processing, Shipped, Delivered,
// Cancelled. Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidError("status")
	}
	return nil
}

// String returns the human-readable name of the status.
// This method implements the fmt.Stringer interface and is safe
// to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// AllowedNext returns the set of statuses the order may move to from the
// current status. Terminal statuses and invalid values return an empty slice.
// The returned slice is a copy; callers may modify it freely.
func (s Status) AllowedNext() []Status {
	next, ok := allowedTransitions()[s]
	if !ok {
		return nil
	}
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	next, ok := allowedTransitions()[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether requested is in the allowed-next set of the
// current status. Self-transitions always return false.
func (s Status) CanTransitionTo(requested Status) bool {
	for _, next := range allowedTransitions()[s] {
		if next == requested {
			return true
		}
	}
	return false
}

// ValidateTransition checks that the move from the current status to requested
// is an edge of the transition graph. This function is total, deterministic,
// and side-effect free.
//
// Returns:
//   - nil if requested is in the allowed-next set of the current status
//   - *errs.InvalidStatusTransitionError otherwise
func (s Status) ValidateTransition(requested Status) error {
	if err := requested.Validate(); err != nil {
		return err
	}
	if !s.CanTransitionTo(requested) {
		return errs.NewInvalidStatusTransitionError(s.String(), requested.String())
	}
	return nil
}
