package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
)

// dateLayout is the prefix of document timestamps compared against the
// recency cutoff.
const dateLayout = "2006-01-02"

// Query describes one context lookup.
type Query struct {
	Text        string
	Category    core.Category
	Geography   string
	RecencyDays int
	K           int
}

// Snippets is an ordered list of retrieved documents.
type Snippets []core.RetrievalResult

// Formatted renders each snippet with its source annotation.
func (s Snippets) Formatted() []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, Format(r))
	}
	return out
}

// Join renders all snippets separated by blank lines, or placeholder when
// there are none.
func (s Snippets) Join(placeholder string) string {
	if len(s) == 0 {
		return placeholder
	}
	return strings.Join(s.Formatted(), "\n\n")
}

// Format renders a result as "[Source: s] [title] [timestamp]\ntext". Empty
// title and timestamp are omitted.
func Format(r core.RetrievalResult) string {
	var b strings.Builder
	source := r.Metadata.Source
	if source == "" {
		source = "Unknown"
	}
	fmt.Fprintf(&b, "[Source: %s]", source)
	if r.Metadata.Title != "" {
		fmt.Fprintf(&b, " [%s]", r.Metadata.Title)
	}
	if r.Metadata.Timestamp != "" {
		fmt.Fprintf(&b, " [%s]", r.Metadata.Timestamp)
	}
	b.WriteString("\n")
	b.WriteString(r.Text)
	return b.String()
}

// Cutoff returns the YYYY-MM-DD date days before now.
func Cutoff(now time.Time, days int) string {
	return now.AddDate(0, 0, -days).Format(dateLayout)
}

// ContextFetcher wraps a Retriever with filter construction and recency
// windowing.
type ContextFetcher struct {
	retriever core.Retriever
	now       func() time.Time
}

// FetcherOption configures a ContextFetcher.
type FetcherOption func(*ContextFetcher)

// WithClock overrides the time source used for recency cutoffs.
func WithClock(now func() time.Time) FetcherOption {
	return func(f *ContextFetcher) {
		f.now = now
	}
}

// NewContextFetcher creates a fetcher over r. A nil retriever yields empty
// context for every query.
func NewContextFetcher(r core.Retriever, opts ...FetcherOption) *ContextFetcher {
	f := &ContextFetcher{retriever: r, now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns up to q.K snippets. With a recency window it requests 2k
// candidates, drops those dated before the cutoff and truncates to k. The
// comparison is on the first ten characters of the timestamp, so documents
// with malformed timestamps are filtered by plain string order.
func (f *ContextFetcher) Fetch(ctx context.Context, q Query) (Snippets, error) {
	if f == nil || f.retriever == nil || q.K <= 0 {
		return Snippets{}, nil
	}

	filters := core.SearchFilters{Category: q.Category, Geography: q.Geography}

	results, err := f.retriever.Search(ctx, q.Text, filters, q.K*2)
	if err != nil {
		return nil, fmt.Errorf("searching %s context: %w", categoryLabel(q.Category), err)
	}

	if q.RecencyDays > 0 {
		cutoff := Cutoff(f.now(), q.RecencyDays)
		kept := results[:0]
		for _, r := range results {
			if datePrefix(r.Metadata.Timestamp) >= cutoff {
				kept = append(kept, r)
			}
		}
		results = kept
	}

	if len(results) > q.K {
		results = results[:q.K]
	}
	return Snippets(results), nil
}

func datePrefix(ts string) string {
	if len(ts) > len(dateLayout) {
		return ts[:len(dateLayout)]
	}
	return ts
}

func categoryLabel(c core.Category) string {
	if c == "" {
		return "any"
	}
	return string(c)
}
