package state

import (
	"context"
	"sort"
)

func (s *MemoryStore) InsertCycle(ctx context.Context, rec CycleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cycles = append(s.cycles, rec)
	return nil
}

func (s *MemoryStore) ListCycles(ctx context.Context, limit int) ([]CycleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]CycleRecord, len(s.cycles))
	copy(out, s.cycles)

	// Newest first
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})

	if limit <= 0 || limit > len(out) {
		return out, nil
	}
	return out[:limit], nil
}
