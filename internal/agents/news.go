package agents

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/retrieval"
)

const newsRecencyDays = 90

// NewsAgent summarizes recent news into opportunities, risks and events.
type NewsAgent struct {
	base
	fetcher *retrieval.ContextFetcher
}

var newsContract = contract[core.NewsAnalysis]{
	agent:       core.AgentNews,
	temperature: 0.4,
	required:    []string{"opportunities", "risks", "recent_events"},
	check: func(n *core.NewsAnalysis) error {
		return requireNonEmpty(map[string][]string{
			"opportunities": n.Opportunities,
			"risks":         n.Risks,
			"recent_events": n.RecentEvents,
		})
	},
}

// Analyze retrieves news from the last 90 days for the profile's geography
// and returns the news analysis. No list in the result is ever empty.
func (a *NewsAgent) Analyze(ctx context.Context, p core.StartupProfile) (core.NewsAnalysis, error) {
	snippets, err := a.fetcher.Fetch(ctx, retrieval.Query{
		Text:        fmt.Sprintf("%s %s news funding investment %s", p.Category(), p.Domain, p.Geography),
		Category:    core.CategoryNews,
		Geography:   p.Geography,
		RecencyDays: newsRecencyDays,
		K:           7,
	})
	if err != nil {
		return core.NewsAnalysis{}, err
	}

	prompt := fmt.Sprintf(`Summarize recent news relevant to this startup.

Startup profile:
%s
Recent news:
%s

Return exactly this JSON object with at least one entry per list:
{
  "opportunities": ["opportunity", "..."],
  "risks": ["risk", "..."],
  "recent_events": ["event summary", "..."]
}`, profileBlock(p), snippets.Join("No recent news context available."))

	return run(ctx, a.base, newsContract, conversation(prompt), func() core.NewsAnalysis {
		return newsFallback(p, snippets, a.now())
	}), nil
}

func newsFallback(p core.StartupProfile, snippets retrieval.Snippets, now time.Time) core.NewsAnalysis {
	t := newsFor(p.Domain)
	month := now.Format("January 2006")

	var events []string
	for _, s := range capSnippets(snippets, 2) {
		if s.Metadata.Title == "" {
			continue
		}
		event := s.Metadata.Title
		if s.Metadata.Timestamp != "" {
			event = fmt.Sprintf("%s (%s)", event, firstRunes(s.Metadata.Timestamp, 10))
		}
		events = append(events, event)
	}

	opportunities := slices.Clone(t.opportunities)
	if p.Geography == "India" {
		events = append(events, indiaEvent)
		opportunities = append([]string{indiaOpportunity}, opportunities...)
	}
	events = append(events, t.events(month)...)

	return core.NewsAnalysis{
		Opportunities: capList(opportunities, 4),
		Risks:         capList(slices.Clone(t.risks), 3),
		RecentEvents:  capList(events, 4),
	}
}
