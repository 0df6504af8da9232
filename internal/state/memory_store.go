package state

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"
	"time"

	"github.com/needmomatcha/stockwatch/internal/domain"
)

type MemoryStore struct {
	mu sync.RWMutex

	stock map[string]domain.StockRecord

	users   map[string]domain.Subscription
	notices map[string]domain.NoticeState

	devMode    domain.DevMode
	devModeSet bool

	cycles []CycleRecord

	idem map[string]map[string]IdempotencyRecord // user+endpoint -> keyhash -> record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		stock:   make(map[string]domain.StockRecord),
		users:   make(map[string]domain.Subscription),
		notices: make(map[string]domain.NoticeState),
		idem:    make(map[string]map[string]IdempotencyRecord),
	}
}

func (s *MemoryStore) GetStockRecord(ctx context.Context, variantID string) (domain.StockRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.stock[variantID]
	if !ok {
		return domain.StockRecord{}, false, nil
	}
	return rec, true, nil
}

func (s *MemoryStore) UpsertStockRecord(ctx context.Context, variantID string, available bool, observedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := domain.AvailabilityOf(available)

	prev, ok := s.stock[variantID]
	if !ok {
		s.stock[variantID] = domain.StockRecord{
			VariantID:   variantID,
			Available:   next,
			LastChecked: observedAt.UTC(),
			LastChanged: observedAt.UTC(),
		}
		return nil
	}

	prev.LastChecked = observedAt.UTC()
	if prev.Available != next {
		prev.Available = next
		prev.LastChanged = observedAt.UTC()
	}
	s.stock[variantID] = prev
	return nil
}

func (s *MemoryStore) ListStockRecords(ctx context.Context) ([]domain.StockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.StockRecord, 0, len(s.stock))
	for _, rec := range s.stock {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].VariantID < out[j].VariantID
	})
	return out, nil
}

func (s *MemoryStore) GetIdempotency(ctx context.Context, userID, endpoint string, idemKeyHash string) (IdempotencyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scope, ok := s.idem[idemScope(userID, endpoint)]
	if !ok {
		return IdempotencyRecord{}, false, nil
	}
	rec, ok := scope[idemKeyHash]
	if !ok {
		return IdempotencyRecord{}, false, nil
	}

	if time.Now().UTC().After(rec.ExpiresAt) {
		return IdempotencyRecord{}, false, nil
	}

	return rec, true, nil
}

func (s *MemoryStore) PutIdempotency(ctx context.Context, userID, endpoint string, idemKeyHash string, rec IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := idemScope(userID, endpoint)
	scope, ok := s.idem[key]
	if !ok {
		scope = make(map[string]IdempotencyRecord)
		s.idem[key] = scope
	}
	scope[idemKeyHash] = rec
	return nil
}

// idemScope builds the per-caller cache namespace. The separator cannot
// appear in a URL path, so distinct (user, endpoint) pairs never collide.
func idemScope(userID, endpoint string) string {
	return userID + "\x00" + endpoint
}

// Helper for hashing idempotency keys deterministically
func HashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
