package history

import (
	"context"
	"sync"
	"time"

	"github.com/tywade1980/smart-incallservice/core"
)

// InMemoryStore is a volatile core.CallerHistoryStore keeping aggregates in
// a process-local map. Returned histories are copies so callers cannot
// mutate internal state. Safe for concurrent use.
type InMemoryStore struct {
	mu      sync.RWMutex
	callers map[string]*core.CallerHistory
}

// NewInMemoryStore constructs an empty in-memory history store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{callers: make(map[string]*core.CallerHistory)}
}

// Get implements core.CallerHistoryStore. An unknown caller yields (nil, nil).
func (s *InMemoryStore) Get(_ context.Context, phoneNumber string) (*core.CallerHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hist, ok := s.callers[phoneNumber]
	if !ok {
		return nil, nil
	}
	out := *hist
	out.CommonIssues = append([]string(nil), hist.CommonIssues...)
	return &out, nil
}

// RecordCall implements core.CallerHistoryStore, folding the optional
// satisfaction score into the moving average.
func (s *InMemoryStore) RecordCall(_ context.Context, phoneNumber string, at time.Time, satisfaction *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	hist, ok := s.callers[phoneNumber]
	if !ok {
		hist = &core.CallerHistory{PhoneNumber: phoneNumber}
		s.callers[phoneNumber] = hist
	}
	if satisfaction != nil {
		hist.AverageSatisfaction = (hist.AverageSatisfaction*float64(hist.CallCount) + *satisfaction) / float64(hist.CallCount+1)
	}
	hist.CallCount++
	hist.LastCall = at
	return nil
}

// SetVIP implements core.CallerHistoryStore.
func (s *InMemoryStore) SetVIP(_ context.Context, phoneNumber string, vip bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	hist, ok := s.callers[phoneNumber]
	if !ok {
		hist = &core.CallerHistory{PhoneNumber: phoneNumber}
		s.callers[phoneNumber] = hist
	}
	hist.VIP = vip
	return nil
}

// Seed installs a full history record, overwriting any existing entry.
// Intended for tests and fixtures.
func (s *InMemoryStore) Seed(hist core.CallerHistory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := hist
	s.callers[hist.PhoneNumber] = &copied
}
