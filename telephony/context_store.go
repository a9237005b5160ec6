package telephony

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tywade1980/smart-incallservice/core"
)

// ErrUnknownCall is returned for operations against a call ID the store does
// not track.
var ErrUnknownCall = errors.New("unknown call")

// ContextStore holds the authoritative CallContext for every active call.
// Reads hand out clones so callers can never mutate stored state; all
// mutation flows through Apply and the lifecycle methods.
type ContextStore struct {
	mu       sync.RWMutex
	contexts map[string]*core.CallContext
}

// NewContextStore creates an empty store.
func NewContextStore() *ContextStore {
	return &ContextStore{contexts: map[string]*core.CallContext{}}
}

// Start registers a new call and returns a snapshot of its context. Starting
// an already tracked call is an error.
func (s *ContextStore) Start(callID, phoneNumber string, incoming bool) (*core.CallContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contexts[callID]; exists {
		return nil, fmt.Errorf("call %s already tracked", callID)
	}
	callCtx := core.NewCallContext(callID, phoneNumber, incoming)
	s.contexts[callID] = callCtx
	return callCtx.Clone(), nil
}

// Get returns a snapshot of the call's context, or nil when unknown.
func (s *ContextStore) Get(callID string) *core.CallContext {
	s.mu.RLock()
	defer s.mu.RUnlock()

	callCtx, ok := s.contexts[callID]
	if !ok {
		return nil
	}
	return callCtx.Clone()
}

// Apply merges a delta into the stored context and returns the updated
// snapshot. Applying to an unknown or ended call is an error.
func (s *ContextStore) Apply(callID string, delta *core.ContextDelta) (*core.CallContext, error) {
	if delta == nil {
		if callCtx := s.Get(callID); callCtx != nil {
			return callCtx, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownCall, callID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	callCtx, ok := s.contexts[callID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCall, callID)
	}
	if err := delta.Apply(callCtx); err != nil {
		return nil, err
	}
	return callCtx.Clone(), nil
}

// SetState transitions the call's lifecycle state.
func (s *ContextStore) SetState(callID string, state core.CallState) error {
	_, err := s.Apply(callID, &core.ContextDelta{State: core.StatePtr(state)})
	return err
}

// End marks the call terminal and returns the final snapshot. Ending is
// idempotent: repeated calls return the already frozen context.
func (s *ContextStore) End(callID string) (*core.CallContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	callCtx, ok := s.contexts[callID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCall, callID)
	}
	if !callCtx.Ended() {
		now := time.Now().UTC()
		callCtx.EndedAt = &now
		callCtx.State = core.CallStateDisconnected
	}
	return callCtx.Clone(), nil
}

// Remove drops a call from the store, typically after its history has been
// persisted. Removing an unknown call is a no-op.
func (s *ContextStore) Remove(callID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contexts, callID)
}

// Active returns the IDs of all calls that have not ended.
func (s *ContextStore) Active() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.contexts))
	for id, callCtx := range s.contexts {
		if !callCtx.Ended() {
			ids = append(ids, id)
		}
	}
	return ids
}
