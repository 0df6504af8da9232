package detect

import (
	"testing"

	"github.com/needmomatcha/stockwatch/internal/domain"
)

func TestDecide_FirstObservation(t *testing.T) {
	d := Decide(domain.AvailabilityUnknown, true)

	if d.Kind != DecisionFirstObservation {
		t.Fatalf("expected first_observation, got %s", d.Kind)
	}
	if d.Reason != "no_prior_record" {
		t.Fatalf("expected no_prior_record, got %s", d.Reason)
	}
}

func TestDecide_FirstObservationOutOfStock(t *testing.T) {
	d := Decide(domain.AvailabilityUnknown, false)

	if d.Kind != DecisionFirstObservation {
		t.Fatalf("expected first_observation, got %s", d.Kind)
	}
}

func TestDecide_Unchanged(t *testing.T) {
	d := Decide(domain.AvailabilityInStock, true)

	if d.Kind != DecisionUnchanged {
		t.Fatalf("expected unchanged, got %s", d.Kind)
	}
	if d.Reason != "no_change_detected" {
		t.Fatalf("expected no_change_detected, got %s", d.Reason)
	}
}

func TestDecide_Changed(t *testing.T) {
	d := Decide(domain.AvailabilityOutOfStock, true)

	if d.Kind != DecisionChanged {
		t.Fatalf("expected changed, got %s", d.Kind)
	}
	if d.Reason != "availability_changed" {
		t.Fatalf("expected availability_changed, got %s", d.Reason)
	}
}

func TestDecide_ChangedToOutOfStock(t *testing.T) {
	d := Decide(domain.AvailabilityInStock, false)

	if d.Kind != DecisionChanged {
		t.Fatalf("expected changed, got %s", d.Kind)
	}
}
