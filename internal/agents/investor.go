package agents

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/retrieval"
)

const (
	minFallbackScore = 50
	maxFallbackScore = 98
)

// InvestorAgent ranks investors against the startup profile.
type InvestorAgent struct {
	base
	fetcher *retrieval.ContextFetcher
}

var investorContract = contract[[]core.InvestorMatch]{
	agent:       core.AgentInvestor,
	temperature: 0.4,
	check: func(matches *[]core.InvestorMatch) error {
		if len(*matches) == 0 {
			return errors.New("no investors returned")
		}
		for i := range *matches {
			m := &(*matches)[i]
			if strings.TrimSpace(m.Name) == "" {
				return fmt.Errorf("investor %d has no name", i)
			}
			m.MatchScore = min(max(m.MatchScore, 0), 100)
			m.PastInvestments = orEmpty(m.PastInvestments)
		}
		sortByScore(*matches)
		return nil
	},
}

// Match retrieves investor documents and returns matches sorted by
// descending match score. Retrieval failures are returned as errors.
func (a *InvestorAgent) Match(ctx context.Context, p core.StartupProfile) ([]core.InvestorMatch, error) {
	snippets, err := a.fetcher.Fetch(ctx, retrieval.Query{
		Text:     fmt.Sprintf("%s %s %s stage investors VCs %s", p.Category(), p.Domain, p.Stage, p.Geography),
		Category: core.CategoryInvestor,
		K:        10,
	})
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Match investors to this startup. Use only investors from the context when available.

Startup profile:
%s
Investor context:
%s

Return a JSON array sorted by match_score, highest first:
[
  {"name": "investor", "match_score": 0-100, "reason": "why", "past_investments": ["company", "..."]}
]`, profileBlock(p), snippets.Join("No specific investor context available."))

	return run(ctx, a.base, investorContract, conversation(prompt), func() []core.InvestorMatch {
		return investorFallback(p, snippets)
	}), nil
}

func sortByScore(m []core.InvestorMatch) {
	sort.SliceStable(m, func(i, j int) bool {
		return m[i].MatchScore > m[j].MatchScore
	})
}

func investorFallback(p core.StartupProfile, snippets retrieval.Snippets) []core.InvestorMatch {
	var matches []core.InvestorMatch
	for i, s := range capSnippets(snippets, 5) {
		if len([]rune(s.Text)) <= 20 {
			continue
		}

		score := 90.0 - 5*float64(i)
		if containsFold(s.Text, p.Domain) {
			score += 3
		}
		if containsFold(s.Text, p.Stage) {
			score += 2
		}

		matches = append(matches, core.InvestorMatch{
			Name:            investorName(s, i),
			MatchScore:      score,
			Reason:          fmt.Sprintf("Matched on %s focus and %s stage preference. Context: %s", p.Domain, p.Stage, truncate(s.Text, 100)),
			PastInvestments: []string{fmt.Sprintf("Portfolio company in %s", p.Domain)},
		})
	}

	if len(matches) == 0 {
		return []core.InvestorMatch{{
			Name:            fmt.Sprintf("Investor matching %s in %s", p.Domain, p.Geography),
			MatchScore:      70,
			Reason:          fmt.Sprintf("Potential match for %s stage %s startup in %s.", p.Stage, p.Domain, p.Geography),
			PastInvestments: []string{fmt.Sprintf("Companies in %s space", p.Domain)},
		}}
	}

	sortByScore(matches)
	for i := range matches {
		s := min(max(matches[i].MatchScore, minFallbackScore), maxFallbackScore)
		if i > 0 && s >= matches[i-1].MatchScore {
			s = matches[i-1].MatchScore - 1
		}
		matches[i].MatchScore = max(s, minFallbackScore)
	}
	return matches
}

// investorName prefers an explicit "Name:" line, then the document title,
// then its source.
func investorName(s core.RetrievalResult, rank int) string {
	for _, line := range strings.Split(s.Text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), "name") {
			if v := strings.TrimSpace(value); v != "" {
				return firstRunes(v, 50)
			}
		}
	}
	if s.Metadata.Title != "" {
		return firstRunes(s.Metadata.Title, 50)
	}
	if s.Metadata.Source != "" {
		return firstRunes(s.Metadata.Source, 50)
	}
	return fmt.Sprintf("Investor from database #%d", rank+1)
}
