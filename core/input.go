package core

import "time"

// InputType categorizes a unit of work entering the pipeline.
type InputType string

const (
	InputTypeAudioSpeech InputType = "audio_speech"
	InputTypeTextMessage InputType = "text_message"
	InputTypeCallEvent   InputType = "call_event"
	InputTypeSystemEvent InputType = "system_event"
	InputTypeUserCommand InputType = "user_command"
)

// AgentInput is one unit of work handed to an agent: the typed payload, the
// call context snapshot it pertains to, and auxiliary signals. Inputs are
// immutable after construction; chaining and authoritative-context
// substitution produce new values via the With* helpers.
type AgentInput struct {
	ID        string         `json:"id"`
	Type      InputType      `json:"type"`
	Content   string         `json:"content"`
	Context   *CallContext   `json:"context,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewInput constructs an input with a fresh ID and timestamp.
func NewInput(t InputType, content string, ctx *CallContext) AgentInput {
	return AgentInput{
		ID:        NewID(),
		Type:      t,
		Content:   content,
		Context:   ctx,
		Metadata:  map[string]any{},
		Timestamp: time.Now().UTC(),
	}
}

// WithContext returns a copy of the input carrying the given context snapshot.
// The orchestrator uses this to substitute its authoritative context before
// dispatch, defending against stale copies held by callers.
func (in AgentInput) WithContext(ctx *CallContext) AgentInput {
	in.Context = ctx
	return in
}

// WithMetadata returns a copy of the input carrying the given metadata map.
func (in AgentInput) WithMetadata(md map[string]any) AgentInput {
	in.Metadata = md
	return in
}

// MetaString reads a string metadata value, returning "" when absent or of a
// different type.
func (in AgentInput) MetaString(key string) string {
	if v, ok := in.Metadata[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
