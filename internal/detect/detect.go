// Package detect turns a cycle's fetch results into transition events.
package detect

import (
	"github.com/needmomatcha/stockwatch/internal/domain"
)

type DecisionKind string

const (
	// DecisionFirstObservation: no prior record. The observed state is
	// persisted but no event is emitted, so a cold start or a newly added
	// variant never triggers a notification burst.
	DecisionFirstObservation DecisionKind = "first_observation"
	DecisionUnchanged        DecisionKind = "unchanged"
	DecisionChanged          DecisionKind = "changed"
)

type Decision struct {
	Kind   DecisionKind `json:"kind"`
	Reason string       `json:"reason"`
}

// Decide compares the stored availability against a fresh observation.
func Decide(prev domain.Availability, observed bool) Decision {
	if prev == domain.AvailabilityUnknown {
		return Decision{
			Kind:   DecisionFirstObservation,
			Reason: "no_prior_record",
		}
	}

	if prev == domain.AvailabilityOf(observed) {
		return Decision{
			Kind:   DecisionUnchanged,
			Reason: "no_change_detected",
		}
	}

	return Decision{
		Kind:   DecisionChanged,
		Reason: "availability_changed",
	}
}
