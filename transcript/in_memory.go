// Package transcript contains concrete implementations of the
// core.TranscriptStore.
//
// The canonical TranscriptStore interface lives in the core package to avoid
// dependency cycles and keep domain contracts central. Implementation
// packages like this one provide storage backends that can be swapped without
// touching calling code.
package transcript

import (
	"context"
	"sync"

	"github.com/tywade1980/smart-incallservice/core"
)

// InMemoryStore is an in-process TranscriptStore useful for tests, examples
// and single-process deployments. Entries are copied on retrieval to avoid
// accidental external mutation of internal state.
//
// This implementation is intentionally minimal; it does not enforce retention
// limits or eviction. For production, prefer a durable implementation that
// survives process restarts.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]core.TranscriptEntry // callID -> entries in append order
}

// NewInMemoryStore returns an empty in-memory transcript store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string][]core.TranscriptEntry)}
}

// Append implements core.TranscriptStore.
func (s *InMemoryStore) Append(_ context.Context, callID string, entry core.TranscriptEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[callID] = append(s.entries[callID], entry)
	return nil
}

// Get implements core.TranscriptStore. The returned slice is a snapshot and
// safe for caller mutation.
func (s *InMemoryStore) Get(_ context.Context, callID string) ([]core.TranscriptEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, ok := s.entries[callID]
	if !ok {
		return []core.TranscriptEntry{}, nil
	}
	cp := make([]core.TranscriptEntry, len(entries))
	copy(cp, entries)
	return cp, nil
}

// Delete implements core.TranscriptStore.
func (s *InMemoryStore) Delete(_ context.Context, callID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, callID)
	return nil
}
