package core

import "context"

// InferenceEngine is the optional generative model collaborator. Absence or
// failure degrades the natural language agent to its rule-based path; it
// never crashes the pipeline.
type InferenceEngine interface {
	// GenerateResponse produces a reply for the prompt given prior
	// conversation turns (oldest first). maxTokens bounds the completion.
	GenerateResponse(ctx context.Context, prompt string, history []string, maxTokens int) (string, error)
}
