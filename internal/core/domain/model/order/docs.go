// Package order implements the Order aggregate of the orders domain.
//
// The package contains the aggregate root (Order), its owned order lines
// (Item), the immutable shipping destination (Address), and the forward-only
// status state machine (Status). All types enforce their invariants through
// factory constructors and validated mutation methods; direct struct
// instantiation is rejected at validation time.
//
// The status state machine is the single authority on lifecycle moves: every
// status change in the system, whether requested by a client or driven by the
// background fulfillment pipeline, goes through Status.ValidateTransition.
package order
