package state

import (
	"context"
	"sort"
	"time"

	"github.com/needmomatcha/stockwatch/internal/domain"
)

func (s *MemoryStore) RegisterUser(ctx context.Context, userID, name string, defaultVariantIDs []string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; ok {
		return false, nil
	}

	ids := make([]string, len(defaultVariantIDs))
	copy(ids, defaultVariantIDs)

	s.users[userID] = domain.Subscription{
		UserID:     userID,
		Name:       name,
		VariantIDs: ids,
		CreatedAt:  now.UTC(),
		LastActive: now.UTC(),
	}
	return true, nil
}

func (s *MemoryStore) GetSubscription(ctx context.Context, userID string) (domain.Subscription, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.users[userID]
	if !ok {
		return domain.Subscription{}, false, nil
	}

	cp := sub
	cp.VariantIDs = make([]string, len(sub.VariantIDs))
	copy(cp.VariantIDs, sub.VariantIDs)
	return cp, true, nil
}

func (s *MemoryStore) SetSubscription(ctx context.Context, userID string, variantIDs []string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.users[userID]
	if !ok {
		return ErrUserNotRegistered
	}

	ids := make([]string, len(variantIDs))
	copy(ids, variantIDs)

	sub.VariantIDs = ids
	sub.LastActive = now.UTC()
	s.users[userID] = sub
	return nil
}

func (s *MemoryStore) Subscribers(ctx context.Context, variantID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.users))
	for id, sub := range s.users {
		if sub.Monitors(variantID) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) AllRegistered(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.users))
	for id := range s.users {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) GetDevMode(ctx context.Context) (domain.DevMode, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.devModeSet {
		return domain.DevMode{}, false, nil
	}
	return s.devMode, true, nil
}

func (s *MemoryStore) SetDevMode(ctx context.Context, mode domain.DevMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.devMode = mode
	s.devModeSet = true
	return nil
}

func (s *MemoryStore) GetNoticeState(ctx context.Context, userID string) (domain.NoticeState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.notices[userID]
	if !ok {
		return domain.NoticeStateActive, nil
	}
	return st, nil
}

func (s *MemoryStore) SetNoticeState(ctx context.Context, userID string, st domain.NoticeState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notices[userID] = st
	return nil
}
