package detect

import (
	"errors"
	"testing"
	"time"

	"github.com/needmomatcha/stockwatch/internal/domain"
	"github.com/needmomatcha/stockwatch/internal/fetch"
)

func okResult(variantID string, available bool) fetch.Result {
	return fetch.Result{
		VariantID: variantID,
		Available: available,
		CheckedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestProcess_FirstObservationSuppressed(t *testing.T) {
	out, err := Process([]fetch.Result{okResult("ikuyo_100g", true)}, func(string) (domain.Availability, error) {
		return domain.AvailabilityUnknown, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Summary.First != 1 || out.Summary.Changed != 0 {
		t.Fatalf("unexpected summary: %#v", out.Summary)
	}
	if len(out.Transitions) != 0 {
		t.Fatalf("expected no transitions, got %d", len(out.Transitions))
	}
	if len(out.Observed) != 1 {
		t.Fatalf("expected first observation to be persisted, got %d observed", len(out.Observed))
	}
}

func TestProcess_UnchangedEmitsNothing(t *testing.T) {
	out, err := Process([]fetch.Result{okResult("ikuyo_100g", false)}, func(string) (domain.Availability, error) {
		return domain.AvailabilityOutOfStock, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Summary.Unchanged != 1 {
		t.Fatalf("unexpected summary: %#v", out.Summary)
	}
	if len(out.Transitions) != 0 {
		t.Fatalf("expected no transitions, got %d", len(out.Transitions))
	}
}

func TestProcess_ChangeEmitsTransition(t *testing.T) {
	out, err := Process([]fetch.Result{okResult("ikuyo_100g", true)}, func(string) (domain.Availability, error) {
		return domain.AvailabilityOutOfStock, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Summary.Changed != 1 {
		t.Fatalf("unexpected summary: %#v", out.Summary)
	}
	if len(out.Transitions) != 1 {
		t.Fatalf("expected one transition, got %d", len(out.Transitions))
	}

	tr := out.Transitions[0]
	if tr.VariantID != "ikuyo_100g" {
		t.Fatalf("unexpected variant: %s", tr.VariantID)
	}
	if tr.Old != domain.AvailabilityOutOfStock || tr.New != domain.AvailabilityInStock {
		t.Fatalf("unexpected transition: %#v", tr)
	}
	if !tr.BackInStock() {
		t.Fatalf("expected back-in-stock transition")
	}
}

func TestProcess_FailedFetchSkipsVariant(t *testing.T) {
	results := []fetch.Result{
		{VariantID: "ummon_40g", Err: errors.New("server error (503)")},
		okResult("ikuyo_100g", true),
	}

	out, err := Process(results, func(string) (domain.Availability, error) {
		return domain.AvailabilityOutOfStock, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Summary.FetchFailures != 1 || out.Summary.Checked != 1 {
		t.Fatalf("unexpected summary: %#v", out.Summary)
	}

	// The failed variant must not appear among the persistable observations.
	for _, res := range out.Observed {
		if res.VariantID == "ummon_40g" {
			t.Fatalf("failed fetch leaked into observed results")
		}
	}
	if len(out.Transitions) != 1 || out.Transitions[0].VariantID != "ikuyo_100g" {
		t.Fatalf("expected the healthy variant to still transition, got %#v", out.Transitions)
	}
}

func TestProcess_PropagatesLookupError(t *testing.T) {
	wantErr := errors.New("lookup failed")

	_, err := Process([]fetch.Result{okResult("ikuyo_100g", true)}, func(string) (domain.Availability, error) {
		return domain.AvailabilityUnknown, wantErr
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected %q, got %q", wantErr, err)
	}
}

func TestProcess_NilLookupTreatsAllAsFirst(t *testing.T) {
	out, err := Process([]fetch.Result{okResult("ikuyo_100g", true), okResult("kan_30g", false)}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Summary.First != 2 {
		t.Fatalf("unexpected summary: %#v", out.Summary)
	}
	if len(out.Transitions) != 0 {
		t.Fatalf("expected no transitions, got %d", len(out.Transitions))
	}
}
