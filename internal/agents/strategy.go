package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
)

// StrategyInput is everything the earlier stages produced. Sections of failed
// stages are zero values.
type StrategyInput struct {
	Profile   core.StartupProfile  `json:"startup_profile"`
	Policy    core.PolicyAnalysis  `json:"policy"`
	Investors []core.InvestorMatch `json:"investors"`
	Market    core.MarketAnalysis  `json:"market"`
	News      core.NewsAnalysis    `json:"news"`
}

// StrategyAgent synthesizes the earlier analyses into a fundraising
// strategy. It has no retriever and reasons only over its input.
type StrategyAgent struct {
	base
}

var strategyContract = contract[core.Strategy]{
	agent:       core.AgentStrategy,
	temperature: 0.4,
	required:    []string{"fundraising_readiness", "key_recommendations", "next_actions"},
	check: func(s *core.Strategy) error {
		s.FundraisingReadiness = core.Readiness(strings.ToLower(strings.TrimSpace(string(s.FundraisingReadiness))))
		if !s.FundraisingReadiness.Valid() {
			s.FundraisingReadiness = core.ReadinessMedium
		}
		s.KeyRecommendations = orEmpty(s.KeyRecommendations)
		s.NextActions = orEmpty(s.NextActions)
		return nil
	},
}

// Synthesize returns the strategy for in.
func (a *StrategyAgent) Synthesize(ctx context.Context, in StrategyInput) (core.Strategy, error) {
	analyses, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return core.Strategy{}, fmt.Errorf("encoding analyses: %w", err)
	}

	prompt := fmt.Sprintf(`Synthesize a fundraising strategy from these analyses.

%s

Return exactly this JSON object:
{
  "fundraising_readiness": "low" | "medium" | "high",
  "key_recommendations": ["recommendation", "..."],
  "next_actions": ["action", "..."]
}`, analyses)

	return run(ctx, a.base, strategyContract, conversation(prompt), func() core.Strategy {
		return strategyFallback(in)
	}), nil
}

// readinessScore adds points for stage maturity, investor fit, market
// momentum and news balance.
func readinessScore(in StrategyInput) int {
	score := 0

	switch strings.ToLower(strings.TrimSpace(in.Profile.Stage)) {
	case "series a", "series b", "growth":
		score += 2
	case "seed", "pre-seed":
		score++
	}

	if len(in.Investors) > 0 {
		total := 0.0
		for _, m := range in.Investors {
			total += m.MatchScore
		}
		avg := total / float64(len(in.Investors))
		switch {
		case avg > 80:
			score += 2
		case avg > 60:
			score++
		}
	}

	if len(in.Market.GrowthSignals) >= 3 {
		score++
	}
	if len(in.News.Opportunities) > len(in.News.Risks) {
		score++
	}
	return score
}

func readinessFor(score int) core.Readiness {
	switch {
	case score >= 5:
		return core.ReadinessHigh
	case score >= 3:
		return core.ReadinessMedium
	default:
		return core.ReadinessLow
	}
}

func strategyFallback(in StrategyInput) core.Strategy {
	p := in.Profile
	readiness := readinessFor(readinessScore(in))

	var recs []string
	if schemes := in.Policy.EligibleSchemes; len(schemes) > 0 {
		recs = append(recs, "Explore government schemes: "+strings.Join(capList(schemes, 2), ", "))
	}
	if risks := in.Policy.RegulatoryRisks; len(risks) > 0 {
		recs = append(recs, "Address regulatory requirement: "+risks[0])
	}
	if len(in.Investors) > 0 {
		top := in.Investors[0]
		recs = append(recs, fmt.Sprintf("Target outreach: %s (match score: %g)", top.Name, top.MatchScore))
	}
	if trends := in.Market.EmergingTrends; len(trends) > 0 {
		recs = append(recs, "Align with market trend: "+trends[0])
	}
	if signals := in.Market.GrowthSignals; len(signals) > 0 {
		recs = append(recs, "Leverage growth signal: "+signals[0])
	}
	if opps := in.News.Opportunities; len(opps) > 0 {
		recs = append(recs, "Capitalize on opportunity: "+opps[0])
	}
	if len(recs) == 0 {
		recs = []string{fmt.Sprintf("Validate demand for %s in %s before raising", p.Domain, p.Geography)}
	}

	return core.Strategy{
		FundraisingReadiness: readiness,
		KeyRecommendations:   capList(recs, 5),
		NextActions:          nextActions(readiness, p),
	}
}

func nextActions(r core.Readiness, p core.StartupProfile) []string {
	switch r {
	case core.ReadinessHigh:
		return []string{
			fmt.Sprintf("Prepare a pitch deck centred on the %s market opportunity", p.Domain),
			"Schedule meetings with the matched investors",
			"Refresh financial projections with current metrics",
			"Assemble a data room for due diligence",
			fmt.Sprintf("Engage the %s investor network", p.Geography),
		}
	case core.ReadinessMedium:
		return []string{
			fmt.Sprintf("Strengthen the metrics investors expect at %s stage", p.Stage),
			"Build relationships with target investors ahead of the raise",
			fmt.Sprintf("Close out %s regulatory compliance gaps", p.Domain),
			"Collect case studies and customer testimonials",
			"Refine the value proposition from market feedback",
		}
	default:
		return []string{
			"Validate product-market fit",
			fmt.Sprintf("Build initial traction in the %s market", p.Geography),
			"Apply for grants and government schemes",
			fmt.Sprintf("Network with %s angel investors", p.Domain),
			"Ship an MVP and gather customer feedback",
		}
	}
}
