package detect

import (
	"github.com/needmomatcha/stockwatch/internal/domain"
	"github.com/needmomatcha/stockwatch/internal/fetch"
)

// PriorLookup reads the stored availability for a variant. Absent records
// report AvailabilityUnknown.
type PriorLookup func(variantID string) (domain.Availability, error)

type VariantOutcome struct {
	VariantID string   `json:"variant_id"`
	Decision  Decision `json:"decision"`
	FetchErr  string   `json:"fetch_error,omitempty"`
}

type Summary struct {
	Checked       int `json:"checked"`
	FetchFailures int `json:"fetch_failures"`
	First         int `json:"first_observations"`
	Unchanged     int `json:"unchanged"`
	Changed       int `json:"changed"`
}

type Output struct {
	Summary Summary `json:"summary"`

	// Transitions carries one event per changed variant, ready for dispatch.
	Transitions []domain.Transition `json:"transitions"`

	// Observed lists every successfully fetched result (including first
	// observations and unchanged ones) for persistence.
	Observed []fetch.Result `json:"-"`

	Outcomes []VariantOutcome `json:"outcomes"`
}

// Process walks one cycle's fetch results. Failed fetches are skipped
// entirely: no state mutation, no event. Stale state is preferred over
// incorrect state. Successful fetches are decided against the prior record.
func Process(results []fetch.Result, lookup PriorLookup) (Output, error) {
	out := Output{
		Transitions: make([]domain.Transition, 0, 4),
		Observed:    make([]fetch.Result, 0, len(results)),
		Outcomes:    make([]VariantOutcome, 0, len(results)),
	}

	for _, res := range results {
		if res.Failed() {
			out.Summary.FetchFailures++
			out.Outcomes = append(out.Outcomes, VariantOutcome{
				VariantID: res.VariantID,
				FetchErr:  res.Err.Error(),
			})
			continue
		}

		out.Summary.Checked++

		prev := domain.AvailabilityUnknown
		if lookup != nil {
			p, err := lookup(res.VariantID)
			if err != nil {
				return Output{}, err
			}
			prev = p
		}

		decision := Decide(prev, res.Available)
		out.Outcomes = append(out.Outcomes, VariantOutcome{
			VariantID: res.VariantID,
			Decision:  decision,
		})
		out.Observed = append(out.Observed, res)

		switch decision.Kind {
		case DecisionFirstObservation:
			out.Summary.First++
		case DecisionUnchanged:
			out.Summary.Unchanged++
		case DecisionChanged:
			out.Summary.Changed++
			out.Transitions = append(out.Transitions, domain.Transition{
				VariantID:  res.VariantID,
				Old:        prev,
				New:        domain.AvailabilityOf(res.Available),
				OccurredAt: res.CheckedAt,
			})
		}
	}

	return out, nil
}
