package state

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/config"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/testutil"
)

func newTestStore(t *testing.T, opts ...SQLiteOption) *SQLiteAnalysisStore {
	t.Helper()
	s, err := NewSQLiteAnalysisStore(filepath.Join(t.TempDir(), "nested", "analyses.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleResult(id string) *core.AggregateResult {
	return &core.AggregateResult{
		RunID:          id,
		StartupProfile: testutil.SampleProfile(),
		Policy:         core.Failed[core.PolicyAnalysis](testutil.ErrTest),
		Investors:      []core.InvestorMatch{{Name: "Blume Ventures", MatchScore: 95, PastInvestments: []string{}}},
		Market: core.Succeeded(core.MarketAnalysis{
			MarketSizeEstimate: "USD 150B",
			GrowthSignals:      []string{"credit gap"},
			SaturationRisks:    []string{},
			EmergingTrends:     []string{"embedded lending"},
		}),
		News: core.Succeeded(core.NewsAnalysis{
			Opportunities: []string{"o"},
			Risks:         []string{"r"},
			RecentEvents:  []string{"e"},
		}),
		Strategy: core.Succeeded(core.Strategy{
			FundraisingReadiness: core.ReadinessMedium,
			KeyRecommendations:   []string{"k"},
			NextActions:          []string{"n"},
		}),
		Metadata: core.ExecutionMetadata{
			ExecutionLog: []core.ExecutionRecord{
				{Agent: core.AgentStartup, Status: core.StatusStarted, Timestamp: "2024-06-30T12:00:00Z"},
				{Agent: core.AgentStartup, Status: core.StatusCompleted, Timestamp: "2024-06-30T12:00:01Z", DurationMS: 1000},
			},
			TotalAgents:     6,
			CompletedAgents: 5,
		},
	}
}

func TestSQLiteAnalysisStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	want := sampleResult("run-1")

	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx, "run-1")
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("loaded result mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, got.Policy.OK())
}

func TestSQLiteAnalysisStore_LoadMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, core.IsCategory(err, core.ErrCatNotFound))
}

func TestSQLiteAnalysisStore_SaveRequiresRunID(t *testing.T) {
	s := newTestStore(t)

	err := s.Save(context.Background(), &core.AggregateResult{})
	assert.True(t, core.IsCategory(err, core.ErrCatValidation))
}

func TestSQLiteAnalysisStore_ListNewestFirst(t *testing.T) {
	now := testutil.FixedNow
	clock := func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
	s := newTestStore(t, WithClock(clock))
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Save(ctx, sampleResult(id)))
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].RunID)
	assert.Equal(t, "fintech", all[0].Domain)
	assert.Equal(t, "medium", all[0].Readiness)
	assert.Equal(t, 5, all[0].CompletedAgents)

	two, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestSQLiteAnalysisStore_ListEmpty(t *testing.T) {
	s := newTestStore(t)

	got, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSQLiteAnalysisStore_SaveReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := sampleResult("run-1")
	require.NoError(t, s.Save(ctx, r))
	r.Strategy = core.Succeeded(core.Strategy{FundraisingReadiness: core.ReadinessHigh, KeyRecommendations: []string{}, NextActions: []string{}})
	require.NoError(t, s.Save(ctx, r))

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "high", list[0].Readiness)
}

func TestSQLiteAnalysisStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyses.db")
	ctx := context.Background()

	s, err := NewSQLiteAnalysisStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, sampleResult("run-1")))
	require.NoError(t, s.Close())

	s, err = NewSQLiteAnalysisStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.RunID)
}

func TestSQLiteAnalysisStore_ConcurrentSaves(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Save(ctx, sampleResult(string(rune('a'+i)))))
		}()
	}
	wg.Wait()

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 10)
}

func TestNewAnalysisStore(t *testing.T) {
	s, err := NewAnalysisStore(config.StoreConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = NewAnalysisStore(config.StoreConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "history.sqlite")})
	require.NoError(t, err)
	defer CloseStore(s)
	assert.Equal(t, ".db", filepath.Ext(s.dbPath))
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("-- comment\nCREATE TABLE a (x INT);\n\n-- another\nCREATE INDEX i ON a(x);\n")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE INDEX i ON a(x)"}, got)
}
