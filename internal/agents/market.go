package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/retrieval"
)

// MarketAgent estimates market size, growth and saturation.
type MarketAgent struct {
	base
	fetcher *retrieval.ContextFetcher
}

var marketContract = contract[core.MarketAnalysis]{
	agent:       core.AgentMarket,
	temperature: 0.4,
	required:    []string{"market_size_estimate", "growth_signals", "saturation_risks", "emerging_trends"},
	check: func(m *core.MarketAnalysis) error {
		if strings.TrimSpace(m.MarketSizeEstimate) == "" {
			return errors.New("empty market_size_estimate")
		}
		m.GrowthSignals = orEmpty(m.GrowthSignals)
		m.SaturationRisks = orEmpty(m.SaturationRisks)
		m.EmergingTrends = orEmpty(m.EmergingTrends)
		return nil
	},
}

// Analyze retrieves market reports for the profile's geography and returns
// the market analysis. Retrieval failures are returned as errors.
func (a *MarketAgent) Analyze(ctx context.Context, p core.StartupProfile) (core.MarketAnalysis, error) {
	snippets, err := a.fetcher.Fetch(ctx, retrieval.Query{
		Text:      fmt.Sprintf("%s %s market size growth trends %s", p.Category(), p.Domain, p.Geography),
		Category:  core.CategoryReport,
		Geography: p.Geography,
		K:         5,
	})
	if err != nil {
		return core.MarketAnalysis{}, err
	}

	prompt := fmt.Sprintf(`Analyze the market for this startup.

Startup profile:
%s
Market context:
%s

Return exactly this JSON object:
{
  "market_size_estimate": "size with source or reasoning",
  "growth_signals": ["signal", "..."],
  "saturation_risks": ["risk", "..."],
  "emerging_trends": ["trend", "..."]
}`, profileBlock(p), snippets.Join("No specific market context available."))

	return run(ctx, a.base, marketContract, conversation(prompt), func() core.MarketAnalysis {
		return marketFallback(p, snippets)
	}), nil
}

func marketFallback(p core.StartupProfile, snippets retrieval.Snippets) core.MarketAnalysis {
	var signals, trends []string
	for i, s := range capSnippets(snippets, 5) {
		if len([]rune(s.Text)) <= 20 {
			continue
		}
		if i < 3 {
			signals = append(signals, "Signal from market data: "+truncate(s.Text, 100))
		} else {
			trends = append(trends, "Trend: "+truncate(s.Text, 100))
		}
	}

	if len(signals) == 0 {
		signals = []string{
			fmt.Sprintf("Growing adoption of %s solutions in %s", p.Domain, p.Geography),
			fmt.Sprintf("Increasing investment in %s sector", p.Domain),
		}
	}
	if len(trends) == 0 {
		trends = []string{
			fmt.Sprintf("Digital transformation in %s", p.Domain),
			fmt.Sprintf("Technology adoption trends in %s", p.Geography),
		}
	}

	return core.MarketAnalysis{
		MarketSizeEstimate: fmt.Sprintf("Market size for %s in %s - requires generative analysis", p.Domain, p.Geography),
		GrowthSignals:      capList(signals, 4),
		SaturationRisks: capList([]string{
			fmt.Sprintf("Competition in %s market", p.Domain),
			fmt.Sprintf("Market maturity considerations for %s stage", p.Stage),
		}, 3),
		EmergingTrends: capList(trends, 4),
	}
}
