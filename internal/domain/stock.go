package domain

import "time"

type Availability string

const (
	// AvailabilityUnknown means we have never successfully observed the
	// variant. It is distinct from unavailable: a first observation is
	// persisted but never notified.
	AvailabilityUnknown    Availability = "unknown"
	AvailabilityInStock    Availability = "available"
	AvailabilityOutOfStock Availability = "unavailable"
)

func AvailabilityOf(inStock bool) Availability {
	if inStock {
		return AvailabilityInStock
	}
	return AvailabilityOutOfStock
}

// StockRecord is the last-known availability for one variant. One record per
// known variant after the first successful cycle.
type StockRecord struct {
	VariantID   string       `json:"variant_id"`
	Available   Availability `json:"available"`
	LastChecked time.Time    `json:"last_checked"`
	LastChanged time.Time    `json:"last_changed"`
}

// Transition is a change in a variant's availability between two consecutive
// cycles. New is never unknown and never equals Old.
type Transition struct {
	VariantID  string       `json:"variant_id"`
	Old        Availability `json:"old_state"`
	New        Availability `json:"new_state"`
	OccurredAt time.Time    `json:"occurred_at"`
}

func (t Transition) BackInStock() bool {
	return t.New == AvailabilityInStock
}
