package core

import (
	"errors"
	"time"
)

// CallState mirrors the telephony layer's call lifecycle.
type CallState string

const (
	CallStateNew          CallState = "new"
	CallStateRinging      CallState = "ringing"
	CallStateDialing      CallState = "dialing"
	CallStateActive       CallState = "active"
	CallStateHolding      CallState = "holding"
	CallStateDisconnected CallState = "disconnected"
)

// ErrContextEnded is returned when a delta is applied to a call context whose
// end time has already been set.
var ErrContextEnded = errors.New("call context already ended")

// CallContext is the per-call state threaded through every agent invocation.
// The service layer owns the context for the call's lifetime; agents receive
// snapshots and report mutations back as a ContextDelta on their response.
// Once EndedAt is set the context is frozen.
type CallContext struct {
	CallID            string         `json:"call_id"`
	PhoneNumber       string         `json:"phone_number,omitempty"`
	CallerName        string         `json:"caller_name,omitempty"`
	StartedAt         time.Time      `json:"started_at"`
	EndedAt           *time.Time     `json:"ended_at,omitempty"`
	Incoming          bool           `json:"incoming"`
	State             CallState      `json:"state"`
	Intent            string         `json:"intent,omitempty"`
	Sentiment         string         `json:"sentiment,omitempty"`
	Language          string         `json:"language,omitempty"`
	VIP               bool           `json:"vip,omitempty"`
	LastUserInput     string         `json:"last_user_input,omitempty"`
	AIResponseCount   int            `json:"ai_response_count"`
	TransferRequested bool           `json:"transfer_requested"`
	SatisfactionScore *float64       `json:"satisfaction_score,omitempty"`
	Notes             string         `json:"notes,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
}

// NewCallContext creates a context for a freshly observed call.
func NewCallContext(callID, phoneNumber string, incoming bool) *CallContext {
	return &CallContext{
		CallID:      callID,
		PhoneNumber: phoneNumber,
		StartedAt:   time.Now().UTC(),
		Incoming:    incoming,
		State:       CallStateNew,
		Metadata:    map[string]any{},
	}
}

// Clone returns a deep copy safe for handing to an agent.
func (c *CallContext) Clone() *CallContext {
	clone := *c
	if c.EndedAt != nil {
		t := *c.EndedAt
		clone.EndedAt = &t
	}
	if c.SatisfactionScore != nil {
		s := *c.SatisfactionScore
		clone.SatisfactionScore = &s
	}
	clone.Metadata = make(map[string]any, len(c.Metadata))
	for k, v := range c.Metadata {
		clone.Metadata[k] = v
	}
	return &clone
}

// Ended reports whether the call has been marked terminal.
func (c *CallContext) Ended() bool { return c.EndedAt != nil }

// ContextDelta is an explicit, sparse mutation of a CallContext. Agents never
// mutate the context they receive; they attach a delta to their response and
// the service layer applies it between turns. Nil pointer fields mean "leave
// unchanged".
type ContextDelta struct {
	State             *CallState
	Intent            *string
	Sentiment         *string
	Language          *string
	VIP               *bool
	LastUserInput     *string
	TransferRequested *bool
	Notes             *string
	Metadata          map[string]any

	// IncrementResponses bumps the AI response counter. The counter only
	// ever increases.
	IncrementResponses bool
}

// Apply merges the delta into the context in place. Applying to an ended
// context is rejected.
func (d *ContextDelta) Apply(c *CallContext) error {
	if c.Ended() {
		return ErrContextEnded
	}
	if d.State != nil {
		c.State = *d.State
	}
	if d.Intent != nil {
		c.Intent = *d.Intent
	}
	if d.Sentiment != nil {
		c.Sentiment = *d.Sentiment
	}
	if d.Language != nil {
		c.Language = *d.Language
	}
	if d.VIP != nil {
		c.VIP = *d.VIP
	}
	if d.LastUserInput != nil {
		c.LastUserInput = *d.LastUserInput
	}
	if d.TransferRequested != nil {
		c.TransferRequested = *d.TransferRequested
	}
	if d.Notes != nil {
		c.Notes = *d.Notes
	}
	if d.IncrementResponses {
		c.AIResponseCount++
	}
	if len(d.Metadata) > 0 {
		if c.Metadata == nil {
			c.Metadata = map[string]any{}
		}
		for k, v := range d.Metadata {
			c.Metadata[k] = v
		}
	}
	return nil
}

// Helper constructors keep delta-building at call sites terse.

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }

// StatePtr returns a pointer to st.
func StatePtr(st CallState) *CallState { return &st }

// Float64Ptr returns a pointer to f.
func Float64Ptr(f float64) *float64 { return &f }
