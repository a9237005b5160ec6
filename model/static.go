package model

import (
	"context"
	"errors"
	"sync"
)

// StaticEngine is a canned core.InferenceEngine for tests and offline runs.
// It returns scripted replies in order and then repeats the last one; an
// engine with no replies fails every call, which exercises the rule-based
// fallback path.
type StaticEngine struct {
	mu      sync.Mutex
	replies []string
	next    int

	// Prompts records every prompt received, for assertions.
	Prompts []string
}

// ErrNoReplies is returned when the engine has nothing scripted.
var ErrNoReplies = errors.New("static engine has no scripted replies")

// NewStaticEngine constructs an engine with the given scripted replies.
func NewStaticEngine(replies ...string) *StaticEngine {
	return &StaticEngine{replies: replies}
}

// GenerateResponse implements core.InferenceEngine.
func (e *StaticEngine) GenerateResponse(_ context.Context, prompt string, _ []string, _ int) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Prompts = append(e.Prompts, prompt)
	if len(e.replies) == 0 {
		return "", ErrNoReplies
	}
	reply := e.replies[min(e.next, len(e.replies)-1)]
	e.next++
	return reply, nil
}
