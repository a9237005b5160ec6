package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureStore() *InMemoryStore {
	return NewInMemoryStore(
		Entry{ID: "hours", Title: "Business hours", Content: "We are open Monday to Friday, 9 AM to 5 PM.", Category: "hours", Tags: []string{"opening", "schedule"}},
		Entry{ID: "location", Title: "Office location", Content: "Our office is at 1 Main Street.", Category: "location"},
		Entry{ID: "pricing", Title: "Service pricing", Content: "A standard consultation costs 50 dollars.", Category: "services", Tags: []string{"cost", "price"}},
	)
}

func TestInMemoryStore_SearchRanksByOverlap(t *testing.T) {
	store := fixtureStore()

	results, err := store.Search(context.Background(), "when are you open on Friday", "")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "hours", results[0].ID)
}

func TestInMemoryStore_IntentBoostBreaksTies(t *testing.T) {
	store := NewInMemoryStore(
		Entry{ID: "a", Title: "office parking", Category: "services"},
		Entry{ID: "b", Title: "office parking", Category: "hours"},
	)

	// Both entries match equally; the hours category boost promotes b.
	results, err := store.Search(context.Background(), "office parking availability", "hours_inquiry")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "b", results[0].ID)
	assert.Greater(t, results[0].Confidence, results[1].Confidence)
}

func TestInMemoryStore_ConfidenceCappedAtOne(t *testing.T) {
	store := NewInMemoryStore(
		Entry{ID: "hours", Title: "hours", Content: "hours", Category: "hours"},
	)
	results, err := store.Search(context.Background(), "hours", "hours_inquiry")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1.0, results[0].Confidence)
}

func TestInMemoryStore_NoMatchesIsEmptyNotError(t *testing.T) {
	store := fixtureStore()

	results, err := store.Search(context.Background(), "quantum flux capacitor", "")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestInMemoryStore_StopwordOnlyQuery(t *testing.T) {
	store := fixtureStore()

	results, err := store.Search(context.Background(), "what are your", "")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestInMemoryStore_TagsAreSearchable(t *testing.T) {
	store := fixtureStore()

	results, err := store.Search(context.Background(), "price", "")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "pricing", results[0].ID)
}

func TestInMemoryStore_Add(t *testing.T) {
	store := NewInMemoryStore()
	store.Add(Entry{ID: "new", Title: "returns policy", Content: "Returns accepted within 30 days."})

	results, err := store.Search(context.Background(), "returns policy", "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new", results[0].ID)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	content := `
- id: hours
  title: Business hours
  content: Open 9 to 5.
  category: hours
  tags: [opening]
- id: location
  title: Location
  content: 1 Main Street.
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	entries, err := LoadYAML(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "hours", entries[0].ID)
	assert.Equal(t, []string{"opening"}, entries[0].Tags)

	_, err = LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
