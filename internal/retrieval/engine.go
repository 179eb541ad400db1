// Package retrieval implements the in-memory keyword index consulted by the
// analysis agents and the chat service.
package retrieval

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/logging"
)

// wordPattern matches runs of Unicode word characters. A keyword is a whole
// run, so letters glued to digits or accented letters never yield one.
var wordPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+`)

// Keywords returns the deduplicated set of lowercase alphabetic tokens of at
// least three letters in text.
func Keywords(text string) map[string]struct{} {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if isKeyword(w) {
			set[w] = struct{}{}
		}
	}
	return set
}

func isKeyword(w string) bool {
	if len(w) < 3 {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}

type indexedDocument struct {
	doc      core.Document
	keywords map[string]struct{}
}

// Engine is a keyword-overlap search index. The index only grows; indexed
// documents are never modified. Safe for concurrent use.
type Engine struct {
	mu     sync.RWMutex
	docs   []indexedDocument
	logger *logging.Logger
}

// NewEngine creates an empty index. A nil logger discards rejection notices.
func NewEngine(logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{logger: logger}
}

// AddDocuments validates each candidate independently and indexes the valid
// ones in order. It returns the number accepted.
func (e *Engine) AddDocuments(docs []core.Document) int {
	accepted := make([]indexedDocument, 0, len(docs))
	for _, doc := range docs {
		if missing := missingFields(doc); len(missing) > 0 {
			e.logger.Debug("rejecting document", "source", doc.Source, "missing", missing)
			continue
		}
		if !doc.Category.Valid() {
			e.logger.Debug("rejecting document", "source", doc.Source, "category", string(doc.Category))
			continue
		}
		accepted = append(accepted, indexedDocument{doc: doc, keywords: Keywords(doc.Text)})
	}

	if len(accepted) == 0 {
		return 0
	}

	e.mu.Lock()
	e.docs = append(e.docs, accepted...)
	e.mu.Unlock()

	return len(accepted)
}

func missingFields(doc core.Document) []string {
	var missing []string
	if doc.Text == "" {
		missing = append(missing, "text")
	}
	if doc.Category == "" {
		missing = append(missing, "category")
	}
	if doc.Timestamp == "" {
		missing = append(missing, "timestamp")
	}
	if doc.Geography == "" {
		missing = append(missing, "geography")
	}
	if doc.Source == "" {
		missing = append(missing, "source")
	}
	return missing
}

type scored struct {
	doc   *indexedDocument
	score float64
}

// Search returns up to k documents matching filters, scored by the fraction
// of query keywords they contain. Documents with no overlap are never
// returned. Equal scores keep insertion order.
func (e *Engine) Search(ctx context.Context, query string, filters core.SearchFilters, k int) ([]core.RetrievalResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return []core.RetrievalResult{}, nil
	}

	queryKeywords := Keywords(query)
	denominator := float64(max(len(queryKeywords), 1))

	e.mu.RLock()
	defer e.mu.RUnlock()

	var hits []scored
	for i := range e.docs {
		doc := &e.docs[i]
		if filters.Category != "" && doc.doc.Category != filters.Category {
			continue
		}
		if filters.Geography != "" && doc.doc.Geography != filters.Geography {
			continue
		}

		overlap := 0
		for kw := range queryKeywords {
			if _, ok := doc.keywords[kw]; ok {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		hits = append(hits, scored{doc: doc, score: float64(overlap) / denominator})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	if len(hits) > k {
		hits = hits[:k]
	}

	results := make([]core.RetrievalResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, toResult(h.doc.doc, h.score))
	}
	return results, nil
}

func toResult(doc core.Document, score float64) core.RetrievalResult {
	return core.RetrievalResult{
		Text: doc.Text,
		Metadata: core.DocumentMetadata{
			Category:  doc.Category,
			Timestamp: doc.Timestamp,
			Geography: doc.Geography,
			Source:    doc.Source,
			Title:     doc.Title,
		},
		Relevance: score,
	}
}

// Len returns the number of indexed documents.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.docs)
}

// Documents lists indexed documents of one category in insertion order. An
// empty category lists everything.
func (e *Engine) Documents(category core.Category) []core.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]core.Document, 0)
	for _, d := range e.docs {
		if category == "" || d.doc.Category == category {
			out = append(out, d.doc)
		}
	}
	return out
}

// CountByCategory reports how many documents each category holds.
func (e *Engine) CountByCategory() map[core.Category]int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	counts := make(map[core.Category]int, len(core.AllCategories()))
	for _, d := range e.docs {
		counts[d.doc.Category]++
	}
	return counts
}

var _ core.Retriever = (*Engine)(nil)
