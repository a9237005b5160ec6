package core

import "context"

// KnowledgeResult is one ranked knowledge base hit.
type KnowledgeResult struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Category   string   `json:"category,omitempty"`
	Confidence float64  `json:"confidence"`
	Tags       []string `json:"tags,omitempty"`
}

// KnowledgeBase serves ranked lookups for the customer service agent. An
// empty result slice is a valid, non-error outcome. The optional intent hint
// lets implementations bias ranking toward a category.
type KnowledgeBase interface {
	Search(ctx context.Context, query, intent string) ([]KnowledgeResult, error)
}
