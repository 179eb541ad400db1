package agents

import (
	"context"
	"fmt"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
)

// StartupAgent derives the startup profile from the submitted input. It is
// the only agent that retries a malformed reply.
type StartupAgent struct {
	base
}

var profileContract = contract[core.ProfileAnalysis]{
	agent:       core.AgentStartup,
	temperature: 0.3,
	required: []string{
		"problem", "value_proposition", "market_category",
		"target_customers", "assumed_competitors", "risk_factors",
	},
	retryMalformed: true,
	check: func(p *core.ProfileAnalysis) error {
		return requireNonEmpty(map[string][]string{
			"assumed_competitors": p.AssumedCompetitors,
			"risk_factors":        p.RiskFactors,
		})
	},
}

// Analyze validates the input and returns the derived profile. The only
// error it returns is an input validation error.
func (a *StartupAgent) Analyze(ctx context.Context, in core.StartupInput) (core.StartupProfile, error) {
	if err := in.Validate(); err != nil {
		return core.StartupProfile{}, err
	}

	analysis := run(ctx, a.base, profileContract, conversation(startupPrompt(in)), func() core.ProfileAnalysis {
		return startupFallback(in)
	})
	return core.NewStartupProfile(in, analysis), nil
}

func startupPrompt(in core.StartupInput) string {
	return fmt.Sprintf(`Analyze this startup.

Startup information:
%s
Return exactly this JSON object:
{
  "problem": "core problem being solved",
  "value_proposition": "unique value offered",
  "market_category": "market category",
  "target_customers": "description of target customers",
  "assumed_competitors": ["competitor", "..."],
  "risk_factors": ["risk", "..."]
}`, profileBlock(core.StartupProfile{StartupInput: in}))
}

func startupFallback(in core.StartupInput) core.ProfileAnalysis {
	problem := "Problem: " + in.Description
	if len([]rune(in.Description)) > 100 {
		problem = "Problem extracted from: " + truncate(in.Description, 100)
	}

	return core.ProfileAnalysis{
		Problem:          problem,
		ValueProposition: fmt.Sprintf("Value proposition for %s startup targeting %s customers in %s", in.Domain, in.CustomerType, in.Geography),
		MarketCategory:   titleCase(in.Domain) + " Technology",
		TargetCustomers:  fmt.Sprintf("%s customers in %s market", in.CustomerType, in.Geography),
		AssumedCompetitors: []string{
			fmt.Sprintf("Competitor in %s space", in.Domain),
		},
		RiskFactors: []string{
			fmt.Sprintf("Market entry risk in %s", in.Geography),
			fmt.Sprintf("Competition in %s sector", in.Domain),
			fmt.Sprintf("Typical %s stage challenges", in.Stage),
		},
	}
}
