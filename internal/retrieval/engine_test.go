package retrieval

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
)

func doc(category core.Category, geography, text string) core.Document {
	return core.Document{
		Text:      text,
		Category:  category,
		Timestamp: "2024-01-15",
		Geography: geography,
		Source:    "test-source",
	}
}

func TestKeywords(t *testing.T) {
	t.Parallel()

	got := Keywords("UPI payments in India, UPI growth! ai is ok; fintech2024 x-ray")

	assert.Contains(t, got, "upi")
	assert.Contains(t, got, "payments")
	assert.Contains(t, got, "india")
	assert.Contains(t, got, "growth")
	assert.Contains(t, got, "ray")
	assert.NotContains(t, got, "ai")
	assert.NotContains(t, got, "in")
	assert.NotContains(t, got, "fintech", "tokens glued to digits are not words")
	assert.Len(t, got, 5)
}

func TestKeywords_WholeWordsOnly(t *testing.T) {
	t.Parallel()

	got := Keywords("café naïve Résumé x1abc abc123 snake_case abc")

	assert.Equal(t, map[string]struct{}{"abc": {}}, got)
}

func TestEngine_Search_IgnoresPartialWords(t *testing.T) {
	t.Parallel()
	e := NewEngine(nil)
	e.AddDocuments([]core.Document{doc(core.CategoryNews, "India", "x1abc abc123 café")})

	results, err := e.Search(context.Background(), "abc caf", core.SearchFilters{}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngine_AddDocuments_CountsOnlyValid(t *testing.T) {
	t.Parallel()
	e := NewEngine(nil)

	candidates := []core.Document{
		doc(core.CategoryPolicy, "India", "Startup India tax exemption"),
		{Text: "no category", Timestamp: "2024-01-01", Geography: "India", Source: "s"},
		{Text: "bad category", Category: "blog", Timestamp: "2024-01-01", Geography: "India", Source: "s"},
		{Text: "missing source", Category: core.CategoryNews, Timestamp: "2024-01-01", Geography: "India"},
		{Category: core.CategoryNews, Timestamp: "2024-01-01", Geography: "India", Source: "s"},
		doc(core.CategoryInvestor, "Global", "Seed fund for fintech"),
	}

	accepted := e.AddDocuments(candidates)

	assert.Equal(t, 2, accepted)
	assert.Equal(t, 2, e.Len())
}

func TestEngine_AddDocuments_MalformedNeverGrowsIndex(t *testing.T) {
	t.Parallel()
	e := NewEngine(nil)
	e.AddDocuments([]core.Document{doc(core.CategoryNews, "India", "existing news item")})

	for i := 0; i < 3; i++ {
		n := e.AddDocuments([]core.Document{{Text: "orphan", Category: core.CategoryNews}})
		assert.Zero(t, n)
	}
	assert.Equal(t, 1, e.Len())

	n := e.AddDocuments([]core.Document{
		doc(core.CategoryNews, "India", "one"),
		doc(core.CategoryNews, "India", "two"),
	})
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, e.Len())
}

func TestEngine_Search_ScoresOverlapRatio(t *testing.T) {
	t.Parallel()
	e := NewEngine(nil)
	e.AddDocuments([]core.Document{
		doc(core.CategoryReport, "India", "fintech lending market"),
		doc(core.CategoryReport, "India", "fintech payments market growth"),
	})

	results, err := e.Search(context.Background(), "fintech payments growth", core.SearchFilters{}, 5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "fintech payments market growth", results[0].Text)
	assert.InDelta(t, 1.0, results[0].Relevance, 1e-9)
	assert.InDelta(t, 1.0/3.0, results[1].Relevance, 1e-9)
}

func TestEngine_Search_ExcludesZeroOverlap(t *testing.T) {
	t.Parallel()
	e := NewEngine(nil)
	e.AddDocuments([]core.Document{
		doc(core.CategoryNews, "India", "healthtech telemedicine adoption"),
		doc(core.CategoryNews, "India", "fintech regulation update"),
		doc(core.CategoryNews, "India", "agritech drones"),
	})

	query := "fintech seed funding"
	results, err := e.Search(context.Background(), query, core.SearchFilters{}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)

	qk := Keywords(query)
	for _, r := range results {
		overlap := 0
		for kw := range Keywords(r.Text) {
			if _, ok := qk[kw]; ok {
				overlap++
			}
		}
		assert.Positive(t, overlap, "result %q shares no keyword with query", r.Text)
	}
}

func TestEngine_Search_EmptyQueryMatchesNothing(t *testing.T) {
	t.Parallel()
	e := NewEngine(nil)
	e.AddDocuments([]core.Document{doc(core.CategoryNews, "India", "fintech news")})

	results, err := e.Search(context.Background(), "a b 12", core.SearchFilters{}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngine_Search_Filters(t *testing.T) {
	t.Parallel()
	e := NewEngine(nil)
	e.AddDocuments([]core.Document{
		doc(core.CategoryPolicy, "India", "fintech sandbox policy"),
		doc(core.CategoryPolicy, "Singapore", "fintech sandbox policy"),
		doc(core.CategoryNews, "India", "fintech sandbox news"),
	})

	tests := []struct {
		name    string
		filters core.SearchFilters
		want    int
	}{
		{"none", core.SearchFilters{}, 3},
		{"category", core.SearchFilters{Category: core.CategoryPolicy}, 2},
		{"geography", core.SearchFilters{Geography: "India"}, 2},
		{"both", core.SearchFilters{Category: core.CategoryPolicy, Geography: "India"}, 1},
		{"case sensitive geography", core.SearchFilters{Geography: "india"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := e.Search(context.Background(), "fintech sandbox", tt.filters, 10)
			require.NoError(t, err)
			assert.Len(t, results, tt.want)
			for _, r := range results {
				if tt.filters.Category != "" {
					assert.Equal(t, tt.filters.Category, r.Metadata.Category)
				}
				if tt.filters.Geography != "" {
					assert.Equal(t, tt.filters.Geography, r.Metadata.Geography)
				}
			}
		})
	}
}

func TestEngine_Search_TiesKeepInsertionOrder(t *testing.T) {
	t.Parallel()
	e := NewEngine(nil)
	for i := 0; i < 5; i++ {
		d := doc(core.CategoryInvestor, "India", "seed investor fintech")
		d.Title = fmt.Sprintf("fund-%d", i)
		e.AddDocuments([]core.Document{d})
	}

	results, err := e.Search(context.Background(), "seed fintech", core.SearchFilters{}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("fund-%d", i), r.Metadata.Title)
	}
}

func TestEngine_Search_SelfSimilarity(t *testing.T) {
	t.Parallel()
	e := NewEngine(nil)
	corpus := []core.Document{
		doc(core.CategoryReport, "India", "Digital lending in India grew strongly with fintech adoption"),
		doc(core.CategoryReport, "India", "Healthtech startups expand telemedicine across tier two cities"),
		doc(core.CategoryReport, "India", "Fintech adoption among small merchants accelerates digital payments"),
		doc(core.CategoryReport, "India", "Edtech consolidation continues after pandemic boom"),
	}
	e.AddDocuments(corpus)

	for _, target := range corpus {
		results, err := e.Search(context.Background(), target.Text, core.SearchFilters{}, 2)
		require.NoError(t, err)
		require.NotEmpty(t, results)

		found := false
		for _, r := range results {
			if r.Text == target.Text {
				found = true
				assert.InDelta(t, 1.0, r.Relevance, 1e-9)
			}
		}
		assert.True(t, found, "document %q not in its own top-k", target.Text)
		assert.GreaterOrEqual(t, results[0].Relevance, results[len(results)-1].Relevance)
	}
}

func TestEngine_Search_NonPositiveK(t *testing.T) {
	t.Parallel()
	e := NewEngine(nil)
	e.AddDocuments([]core.Document{doc(core.CategoryNews, "India", "fintech news")})

	results, err := e.Search(context.Background(), "fintech", core.SearchFilters{}, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngine_Search_CanceledContext(t *testing.T) {
	t.Parallel()
	e := NewEngine(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Search(ctx, "fintech", core.SearchFilters{}, 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_DocumentsAndCounts(t *testing.T) {
	t.Parallel()
	e := NewEngine(nil)
	e.AddDocuments([]core.Document{
		doc(core.CategoryNews, "India", "first news"),
		doc(core.CategoryPolicy, "India", "a policy"),
		doc(core.CategoryNews, "India", "second news"),
	})

	news := e.Documents(core.CategoryNews)
	require.Len(t, news, 2)
	assert.Equal(t, "first news", news[0].Text)
	assert.Equal(t, "second news", news[1].Text)
	assert.Len(t, e.Documents(""), 3)
	assert.NotNil(t, e.Documents(core.CategoryReport))

	counts := e.CountByCategory()
	assert.Equal(t, 2, counts[core.CategoryNews])
	assert.Equal(t, 1, counts[core.CategoryPolicy])
}

func TestEngine_ConcurrentReadsAndWrites(t *testing.T) {
	t.Parallel()
	e := NewEngine(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			e.AddDocuments([]core.Document{doc(core.CategoryNews, "India", "fintech concurrency news")})
		}()
		go func() {
			defer wg.Done()
			_, err := e.Search(context.Background(), "fintech news", core.SearchFilters{}, 5)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, e.Len())
}
