package knowledge

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/tywade1980/smart-incallservice/core"
)

// Entry is one knowledge base document.
type Entry struct {
	ID       string   `yaml:"id"`
	Title    string   `yaml:"title"`
	Content  string   `yaml:"content"`
	Category string   `yaml:"category,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
}

// categoryByIntent biases ranking: results whose category matches the intent
// hint receive a fixed boost.
var categoryByIntent = map[string]string{
	"hours_inquiry":       "hours",
	"location_inquiry":    "location",
	"information_request": "services",
	"billing_inquiry":     "billing",
}

const categoryBoost = 0.2

// InMemoryStore is a process-local core.KnowledgeBase. Search tokenizes the
// query and scores each entry by the fraction of query tokens found in its
// title, content or tags, plus a category boost when the intent hint matches.
// Results come back sorted by score descending; an empty slice is a normal
// outcome. Safe for concurrent use.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewInMemoryStore constructs a store with the given entries.
func NewInMemoryStore(entries ...Entry) *InMemoryStore {
	return &InMemoryStore{entries: entries}
}

// LoadYAML reads entries from a YAML file of Entry documents.
func LoadYAML(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge file: %w", err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse knowledge file: %w", err)
	}
	return entries, nil
}

// Add appends entries to the store.
func (s *InMemoryStore) Add(entries ...Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
}

// Search implements core.KnowledgeBase.
func (s *InMemoryStore) Search(_ context.Context, query, intent string) ([]core.KnowledgeResult, error) {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return []core.KnowledgeResult{}, nil
	}
	wantCategory := categoryByIntent[intent]

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []core.KnowledgeResult
	for _, entry := range s.entries {
		score := overlapScore(tokens, entry)
		if score == 0 {
			continue
		}
		if wantCategory != "" && entry.Category == wantCategory {
			score += categoryBoost
		}
		if score > 1.0 {
			score = 1.0
		}
		results = append(results, core.KnowledgeResult{
			ID:         entry.ID,
			Title:      entry.Title,
			Content:    entry.Content,
			Category:   entry.Category,
			Confidence: score,
			Tags:       append([]string(nil), entry.Tags...),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return results, nil
}

// overlapScore is the fraction of query tokens present in the entry's
// searchable text.
func overlapScore(tokens []string, entry Entry) float64 {
	haystack := strings.ToLower(entry.Title + " " + entry.Content + " " + strings.Join(entry.Tags, " "))
	matched := 0
	for _, tok := range tokens {
		if strings.Contains(haystack, tok) {
			matched++
		}
	}
	return float64(matched) / float64(len(tokens))
}

var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "what": true,
	"your": true, "you": true, "do": true, "i": true, "to": true, "of": true,
	"for": true, "my": true, "can": true, "how": true, "me": true,
}

func tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?\"'")
		if f == "" || stopwords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}
