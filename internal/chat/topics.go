package chat

import (
	"fmt"
	"strings"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
)

// categoryBuckets are checked in order; the first bucket with a matching
// word decides the category.
var categoryBuckets = []struct {
	category core.Category
	words    []string
}{
	{core.CategoryPolicy, []string{"policy", "regulation", "compliance", "government", "scheme", "tax"}},
	{core.CategoryInvestor, []string{"investor", "funding", "vc", "venture", "raise", "investment"}},
	{core.CategoryNews, []string{"news", "recent", "latest", "update", "announcement"}},
	{core.CategoryReport, []string{"market", "size", "growth", "trend", "competition"}},
}

// DetectCategory maps a question to a document category by substring
// match, or "" when no bucket matches.
func DetectCategory(question string) core.Category {
	q := strings.ToLower(question)
	for _, b := range categoryBuckets {
		for _, w := range b.words {
			if strings.Contains(q, w) {
				return b.category
			}
		}
	}
	return ""
}

var relatedTopics = map[core.Category][]string{
	core.CategoryPolicy: {
		"Startup tax benefits",
		"Startup recognition process",
		"Sector-specific compliance",
		"Cross-border expansion rules",
	},
	core.CategoryInvestor: {
		"Pitch deck structure",
		"Term sheet negotiation",
		"Due diligence preparation",
		"Valuation methods",
	},
	core.CategoryNews: {
		"Recent funding rounds in your sector",
		"Policy updates",
		"Market trend analysis",
		"Competitor news",
	},
	core.CategoryReport: {
		"Market size projections",
		"Industry growth trends",
		"Competitive landscape",
		"Customer segmentation",
	},
}

var defaultTopics = []string{
	"Fundraising strategy",
	"Investor targeting",
	"Market analysis",
	"Regulatory compliance",
}

// RelatedTopics returns up to four follow-up topics for category.
func RelatedTopics(category core.Category) []string {
	topics, ok := relatedTopics[category]
	if !ok {
		topics = defaultTopics
	}
	if len(topics) > maxTopics {
		topics = topics[:maxTopics]
	}
	return append([]string(nil), topics...)
}

// cannedAnswer is the deterministic reply used without a generator.
func cannedAnswer(question, profile string) string {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "investor") || strings.Contains(q, "funding"):
		return `Some steps for finding investors:

1. **Research target investors**: shortlist funds and angels with portfolio companies in your domain and stage.
2. **Prepare materials**: have the pitch deck, financial model and data room ready before outreach.
3. **Use warm introductions**: founders, advisors and accelerators convert far better than cold email.
4. **Consider programs**: accelerators and public seed funds combine capital with mentorship.

Ask about your domain for more specific investor suggestions.`
	case strings.Contains(q, "policy") || strings.Contains(q, "regulation"):
		return `Policy and regulatory points to check:

1. **Incorporation**: a private limited company is the usual structure for raising equity.
2. **Startup recognition**: official recognition often unlocks tax benefits and lighter compliance.
3. **Sector licences**: regulated domains such as lending or health data need specific approvals.
4. **Data protection**: handling personal data brings consent and storage obligations.

Ask with your sector and geography for more specific guidance.`
	case strings.Contains(q, "market") || strings.Contains(q, "competition"):
		return `Market questions worth answering:

1. **Sizing**: estimate TAM, SAM and SOM from bottom-up customer counts.
2. **Competition**: map direct competitors, substitutes and likely entrants.
3. **Growth drivers**: name the trends that expand your market.
4. **Defensibility**: identify what makes your position hard to copy.

Ask about your domain for trend-level detail.`
	default:
		return fmt.Sprintf(`Thanks for asking about %q.
%s
General recommendations:

1. **Track core metrics** for your stage and domain.
2. **Prioritize** features that prove product-market fit.
3. **Network** with founder communities, mentors and partners.
4. **Stay informed** on industry news and regulation.

Ask about investors, policy, market or strategy for more specific help.`, question, profile)
	}
}
