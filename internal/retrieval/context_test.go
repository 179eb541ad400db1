package retrieval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
)

func fixedClock() time.Time {
	return time.Date(2024, time.June, 30, 12, 0, 0, 0, time.UTC)
}

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		meta core.DocumentMetadata
		want string
	}{
		{
			name: "full",
			meta: core.DocumentMetadata{Source: "RBI", Title: "UPI volumes", Timestamp: "2024-05-01"},
			want: "[Source: RBI] [UPI volumes] [2024-05-01]\nbody",
		},
		{
			name: "no title",
			meta: core.DocumentMetadata{Source: "RBI", Timestamp: "2024-05-01"},
			want: "[Source: RBI] [2024-05-01]\nbody",
		},
		{
			name: "no timestamp",
			meta: core.DocumentMetadata{Source: "RBI", Title: "UPI volumes"},
			want: "[Source: RBI] [UPI volumes]\nbody",
		},
		{
			name: "source only",
			meta: core.DocumentMetadata{Source: "RBI"},
			want: "[Source: RBI]\nbody",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(core.RetrievalResult{Text: "body", Metadata: tt.meta}))
		})
	}
}

func TestCutoff(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "2024-04-01", Cutoff(fixedClock(), 90))
	assert.Equal(t, "2024-06-30", Cutoff(fixedClock(), 0))
}

func newsEngine() *Engine {
	e := NewEngine(nil)
	dates := []string{"2024-06-20", "2023-01-01", "2024-04-01T08:00:00", "2024-03-31", "2024-05-10", "garbage"}
	for _, ts := range dates {
		e.AddDocuments([]core.Document{{
			Text:      "fintech funding news",
			Category:  core.CategoryNews,
			Timestamp: ts,
			Geography: "India",
			Source:    "wire",
			Title:     ts,
		}})
	}
	return e
}

func TestContextFetcher_RecencyWindow(t *testing.T) {
	t.Parallel()
	f := NewContextFetcher(newsEngine(), WithClock(fixedClock))

	got, err := f.Fetch(context.Background(), Query{
		Text:        "fintech funding",
		Category:    core.CategoryNews,
		Geography:   "India",
		RecencyDays: 90,
		K:           3,
	})
	require.NoError(t, err)

	var titles []string
	for _, r := range got {
		titles = append(titles, r.Metadata.Title)
	}
	// "garbage" sorts after any date, so the lenient string comparison keeps it.
	assert.Equal(t, []string{"2024-06-20", "2024-04-01T08:00:00", "2024-05-10"}, titles)
}

func TestContextFetcher_RecencyMayReturnFewerThanK(t *testing.T) {
	t.Parallel()
	e := NewEngine(nil)
	e.AddDocuments([]core.Document{
		{Text: "fintech news", Category: core.CategoryNews, Timestamp: "2020-01-01", Geography: "India", Source: "s"},
		{Text: "fintech news", Category: core.CategoryNews, Timestamp: "2024-06-01", Geography: "India", Source: "s"},
	})
	f := NewContextFetcher(e, WithClock(fixedClock))

	got, err := f.Fetch(context.Background(), Query{Text: "fintech", RecencyDays: 90, K: 5})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestContextFetcher_TruncatesToK(t *testing.T) {
	t.Parallel()
	f := NewContextFetcher(newsEngine(), WithClock(fixedClock))

	got, err := f.Fetch(context.Background(), Query{Text: "fintech", K: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "2024-06-20", got[0].Metadata.Title)
}

type recordingRetriever struct {
	k       int
	filters core.SearchFilters
	err     error
}

func (r *recordingRetriever) Search(_ context.Context, _ string, filters core.SearchFilters, k int) ([]core.RetrievalResult, error) {
	r.k = k
	r.filters = filters
	return nil, r.err
}

func (r *recordingRetriever) AddDocuments(docs []core.Document) int { return 0 }

func TestContextFetcher_RequestsDoubleK(t *testing.T) {
	t.Parallel()
	spy := &recordingRetriever{}
	f := NewContextFetcher(spy)

	_, err := f.Fetch(context.Background(), Query{Text: "q", Category: core.CategoryPolicy, Geography: "India", K: 5})
	require.NoError(t, err)
	assert.Equal(t, 10, spy.k)
	assert.Equal(t, core.SearchFilters{Category: core.CategoryPolicy, Geography: "India"}, spy.filters)
}

func TestContextFetcher_PropagatesErrors(t *testing.T) {
	t.Parallel()
	boom := errors.New("index unavailable")
	f := NewContextFetcher(&recordingRetriever{err: boom})

	_, err := f.Fetch(context.Background(), Query{Text: "q", Category: core.CategoryPolicy, K: 5})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "policy")
}

func TestContextFetcher_NilRetriever(t *testing.T) {
	t.Parallel()
	got, err := NewContextFetcher(nil).Fetch(context.Background(), Query{Text: "q", K: 5})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSnippets_Join(t *testing.T) {
	t.Parallel()
	s := Snippets{
		{Text: "one", Metadata: core.DocumentMetadata{Source: "a"}},
		{Text: "two", Metadata: core.DocumentMetadata{Source: "b"}},
	}
	assert.Equal(t, "[Source: a]\none\n\n[Source: b]\ntwo", s.Join("none"))
	assert.Equal(t, "none", Snippets{}.Join("none"))
}
