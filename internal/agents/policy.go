package agents

import (
	"context"
	"fmt"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/retrieval"
)

// PolicyAgent identifies policies, schemes and regulatory risks.
type PolicyAgent struct {
	base
	fetcher *retrieval.ContextFetcher
}

var policyContract = contract[core.PolicyAnalysis]{
	agent:       core.AgentPolicy,
	temperature: 0.3,
	required:    []string{"relevant_policies", "eligible_schemes", "regulatory_risks"},
	check: func(p *core.PolicyAnalysis) error {
		p.RelevantPolicies = orEmpty(p.RelevantPolicies)
		p.EligibleSchemes = orEmpty(p.EligibleSchemes)
		p.RegulatoryRisks = orEmpty(p.RegulatoryRisks)
		return nil
	},
}

// Analyze retrieves policy documents for the profile's geography and
// returns the policy analysis. Retrieval failures are returned as errors.
func (a *PolicyAgent) Analyze(ctx context.Context, p core.StartupProfile) (core.PolicyAnalysis, error) {
	snippets, err := a.fetcher.Fetch(ctx, retrieval.Query{
		Text:      fmt.Sprintf("%s %s startup policies regulations schemes %s", p.Category(), p.Domain, p.Geography),
		Category:  core.CategoryPolicy,
		Geography: p.Geography,
		K:         5,
	})
	if err != nil {
		return core.PolicyAnalysis{}, err
	}

	prompt := fmt.Sprintf(`Identify government policies and schemes relevant to this startup.

Startup profile:
%s
Policy context:
%s

Return exactly this JSON object:
{
  "relevant_policies": ["policy", "..."],
  "eligible_schemes": ["scheme", "..."],
  "regulatory_risks": ["risk", "..."]
}`, profileBlock(p), snippets.Join("No specific policy context available."))

	return run(ctx, a.base, policyContract, conversation(prompt), func() core.PolicyAnalysis {
		return policyFallback(p, snippets)
	}), nil
}

func policyFallback(p core.StartupProfile, snippets retrieval.Snippets) core.PolicyAnalysis {
	var policies []string
	for _, s := range capSnippets(snippets, 3) {
		if len([]rune(s.Text)) > 20 {
			policies = append(policies, "Policy from database: "+truncate(s.Text, 150))
		}
	}
	if len(policies) == 0 {
		policies = []string{
			fmt.Sprintf("General startup policies for %s", p.Geography),
			fmt.Sprintf("Industry regulations for %s sector", p.Domain),
		}
	}

	return core.PolicyAnalysis{
		RelevantPolicies: capList(policies, 4),
		EligibleSchemes: []string{
			fmt.Sprintf("Startup support schemes in %s", p.Geography),
			fmt.Sprintf("Innovation grants for %s stage companies", p.Stage),
		},
		RegulatoryRisks: []string{
			fmt.Sprintf("Compliance requirements for %s in %s", p.Domain, p.Geography),
			fmt.Sprintf("Standard regulatory considerations for %s startups", p.Stage),
		},
	}
}

func capSnippets(s retrieval.Snippets, n int) retrieval.Snippets {
	if len(s) > n {
		return s[:n]
	}
	return s
}
