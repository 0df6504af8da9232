package state

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_ListCyclesNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		err := s.InsertCycle(ctx, CycleRecord{
			CycleID:   "cycle_" + string(rune('a'+i)),
			Status:    "completed",
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	cycles, err := s.ListCycles(ctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cycles) != 3 {
		t.Fatalf("expected 3 cycles, got %d", len(cycles))
	}
	if cycles[0].CycleID != "cycle_c" || cycles[2].CycleID != "cycle_a" {
		t.Fatalf("expected newest first, got %#v", cycles)
	}
}

func TestMemoryStore_ListCyclesLimit(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		err := s.InsertCycle(ctx, CycleRecord{
			CycleID:   "c",
			Status:    "completed",
			StartedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	cycles, err := s.ListCycles(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cycles) != 2 {
		t.Fatalf("expected 2 cycles, got %d", len(cycles))
	}
}
