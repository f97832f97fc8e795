package domain

import "time"

type MovementReason string

const (
	// MovementReasonSale covers order fulfillment, reservation commits and
	// manual stock removals. Quantity is negative.
	MovementReasonSale MovementReason = "SALE"
	// MovementReasonRestock covers incoming stock. Quantity is positive.
	MovementReasonRestock MovementReason = "RESTOCK"
	// MovementReasonRecount fixes the ledger after a physical count and does
	// not represent real consumption or supply.
	MovementReasonRecount MovementReason = "RECOUNT"
)

// RecordsMovement reports whether an adjustment with this reason must append
// a MovementEvent. Recounts are excluded so they never skew the velocity
// estimate.
func (r MovementReason) RecordsMovement() bool {
	return r == MovementReasonSale || r == MovementReasonRestock
}

// MovementEvent is an immutable, append-only record of a stock-affecting
// change. Negative quantities are consumption, positive are restocks.
type MovementEvent struct {
	ID         string
	ProductID  int
	CompanyID  int
	LocationID int
	Quantity   int
	Reason     MovementReason
	OrderID    *string
	OccurredAt time.Time
}
