package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/retrieval"
)

// MockGenerator implements TextGenerator for testing. Replies are served in
// order; once exhausted the last reply is repeated.
type MockGenerator struct {
	name         string
	replies      []string
	err          error
	completeFunc func(context.Context, string, []core.Message, float64) (string, error)
	calls        []GeneratorCall
	mu           sync.Mutex
}

// GeneratorCall records one Complete call.
type GeneratorCall struct {
	Model       string
	Messages    []core.Message
	Temperature float64
	Timestamp   time.Time
}

// NewMockGenerator creates a generator that answers with replies in order.
func NewMockGenerator(replies ...string) *MockGenerator {
	return &MockGenerator{name: "mock", replies: replies}
}

// Name returns the provider name.
func (m *MockGenerator) Name() string {
	return m.name
}

// Complete records the call and returns the next scripted reply.
func (m *MockGenerator) Complete(ctx context.Context, model string, messages []core.Message, temperature float64) (string, error) {
	m.mu.Lock()
	n := len(m.calls)
	m.calls = append(m.calls, GeneratorCall{
		Model:       model,
		Messages:    append([]core.Message(nil), messages...),
		Temperature: temperature,
		Timestamp:   time.Now(),
	})
	fn := m.completeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, model, messages, temperature)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "", nil
	}
	return m.replies[min(n, len(m.replies)-1)], nil
}

// WithError makes every call fail with err.
func (m *MockGenerator) WithError(err error) *MockGenerator {
	m.err = err
	return m
}

// WithCompleteFunc replaces the scripted replies with fn.
func (m *MockGenerator) WithCompleteFunc(fn func(context.Context, string, []core.Message, float64) (string, error)) *MockGenerator {
	m.completeFunc = fn
	return m
}

// Calls returns a copy of all recorded calls.
func (m *MockGenerator) Calls() []GeneratorCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]GeneratorCall(nil), m.calls...)
}

// CallCount returns how many times Complete was called.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// SpyRetriever wraps a retrieval engine and records every search.
type SpyRetriever struct {
	engine   *retrieval.Engine
	err      error
	searches []SearchCall
	mu       sync.Mutex
}

// SearchCall records one Search call.
type SearchCall struct {
	Query   string
	Filters core.SearchFilters
	K       int
}

// NewSpyRetriever creates a spy over an engine seeded with docs.
func NewSpyRetriever(docs ...core.Document) *SpyRetriever {
	engine := retrieval.NewEngine(nil)
	engine.AddDocuments(docs)
	return &SpyRetriever{engine: engine}
}

// WithError makes every search fail with err.
func (s *SpyRetriever) WithError(err error) *SpyRetriever {
	s.err = err
	return s
}

// Search records the call and delegates to the engine.
func (s *SpyRetriever) Search(ctx context.Context, query string, filters core.SearchFilters, k int) ([]core.RetrievalResult, error) {
	s.mu.Lock()
	s.searches = append(s.searches, SearchCall{Query: query, Filters: filters, K: k})
	err := s.err
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return s.engine.Search(ctx, query, filters, k)
}

// AddDocuments delegates to the engine.
func (s *SpyRetriever) AddDocuments(docs []core.Document) int {
	return s.engine.AddDocuments(docs)
}

// Searches returns a copy of all recorded searches.
func (s *SpyRetriever) Searches() []SearchCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SearchCall(nil), s.searches...)
}

// SearchCount returns how many searches were made.
func (s *SpyRetriever) SearchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.searches)
}

// Reset clears recorded searches.
func (s *SpyRetriever) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches = nil
}

// MockAnalysisStore implements AnalysisStore in memory.
type MockAnalysisStore struct {
	results  map[string]*core.AggregateResult
	order    []string
	saveFunc func(*core.AggregateResult) error
	mu       sync.Mutex
}

// NewMockAnalysisStore creates an empty store.
func NewMockAnalysisStore() *MockAnalysisStore {
	return &MockAnalysisStore{results: make(map[string]*core.AggregateResult)}
}

// Save stores result under its run ID.
func (m *MockAnalysisStore) Save(_ context.Context, result *core.AggregateResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveFunc != nil {
		return m.saveFunc(result)
	}
	if _, ok := m.results[result.RunID]; !ok {
		m.order = append(m.order, result.RunID)
	}
	m.results[result.RunID] = result
	return nil
}

// Load returns a stored result or a not-found error.
func (m *MockAnalysisStore) Load(_ context.Context, runID string) (*core.AggregateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.results[runID]
	if !ok {
		return nil, core.ErrNotFound("analysis", runID)
	}
	return r, nil
}

// List returns summaries, most recently saved first.
func (m *MockAnalysisStore) List(_ context.Context, limit int) ([]core.AnalysisSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	summaries := make([]core.AnalysisSummary, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		if limit > 0 && len(summaries) == limit {
			break
		}
		r := m.results[m.order[i]]
		summaries = append(summaries, core.AnalysisSummary{
			RunID:           r.RunID,
			Domain:          r.StartupProfile.Domain,
			Stage:           r.StartupProfile.Stage,
			Geography:       r.StartupProfile.Geography,
			Readiness:       string(r.Strategy.Value.FundraisingReadiness),
			CompletedAgents: r.Metadata.CompletedAgents,
		})
	}
	return summaries, nil
}

// WithSaveError makes Save fail with err.
func (m *MockAnalysisStore) WithSaveError(err error) *MockAnalysisStore {
	m.saveFunc = func(*core.AggregateResult) error { return err }
	return m
}

// Len returns the number of stored results.
func (m *MockAnalysisStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}
