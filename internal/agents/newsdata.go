package agents

import (
	"fmt"
	"strings"
)

// newsTemplate is the canned outlook for one domain. Events are rendered
// with the current month so repeated runs in the same month agree.
type newsTemplate struct {
	opportunities []string
	risks         []string
	events        func(month string) []string
}

var newsByDomain = map[string]newsTemplate{
	"fintech": {
		opportunities: []string{
			"Digital payments adoption keeps widening the addressable market",
			"Open banking and account aggregation enable new credit products",
			"Embedded finance demand from non-financial platforms",
		},
		risks: []string{
			"Tighter regulatory scrutiny of digital lending",
			"Data privacy expectations rising for financial services",
			"Incumbent banks shipping competing digital products",
		},
		events: func(month string) []string {
			return []string{
				fmt.Sprintf("Late-stage fintech funding round announced in %s", month),
				"Regulator publishes updated digital lending guidelines",
				"Central bank digital currency pilot expands",
			}
		},
	},
	"healthtech": {
		opportunities: []string{
			"Telemedicine usage has stabilized well above pre-2020 levels",
			"Public health record digitization programs",
			"Faster review tracks for AI-assisted diagnostics",
		},
		risks: []string{
			"Health data breaches drawing regulatory attention",
			"Slow insurer integration for digital care",
			"Stricter clinical validation requirements",
		},
		events: func(month string) []string {
			return []string{
				fmt.Sprintf("Healthtech listing filed in %s", month),
				"Updated telemedicine practice guidelines released",
				"Hospital network partners with digital health startup",
			}
		},
	},
	"saas": {
		opportunities: []string{
			"Enterprise AI adoption pulling SaaS spend upward",
			"SMB digitization accelerating",
			"Product-led growth lowering acquisition cost",
		},
		risks: []string{
			"Enterprise IT budgets under pressure",
			"Crowded core SaaS categories",
			"AI-native entrants undercutting incumbents",
		},
		events: func(month string) []string {
			return []string{
				fmt.Sprintf("SaaS company crosses unicorn valuation in %s", month),
				"Consolidation continues with a notable acquisition",
				"SaaS funding volumes recover",
			}
		},
	},
	"ai": {
		opportunities: []string{
			"Enterprises moving AI pilots into production",
			"Public AI funding programs and compute grants",
			"Demand for evaluation and safety tooling",
		},
		risks: []string{
			"Unsettled AI governance rules",
			"Compute costs squeezing margins",
			"Competition for specialized talent",
		},
		events: func(month string) []string {
			return []string{
				fmt.Sprintf("New AI governance framework proposed in %s", month),
				"Open-weight model release shifts the tooling market",
				"AI startup closes record seed round",
			}
		},
	},
	"edtech": {
		opportunities: []string{
			"Corporate learning budgets moving online",
			"Public skilling initiatives",
			"Employers accepting micro-credentials",
		},
		risks: []string{
			"Compressed edtech valuations",
			"Employer skepticism about completion rates",
			"Free AI tutors commoditizing content",
		},
		events: func(month string) []string {
			return []string{
				fmt.Sprintf("Edtech company reports first profitable quarter in %s", month),
				"Acquisition announced in online learning",
				"Education policy update favors digital delivery",
			}
		},
	},
	"ecommerce": {
		opportunities: []string{
			"Quick commerce expanding to new cities",
			"Direct-to-consumer brands gaining share",
			"Social commerce integrations",
		},
		risks: []string{
			"Thin unit economics in quick commerce",
			"Rising logistics costs",
			"Softer consumer sentiment",
		},
		events: func(month string) []string {
			return []string{
				fmt.Sprintf("Quick commerce player raises capital in %s", month),
				"D2C brand acquired by consumer conglomerate",
				"Updated foreign investment rules for marketplaces",
			}
		},
	},
}

var defaultNews = newsTemplate{
	opportunities: []string{
		"Digital transformation opening new market segments",
		"Investor interest returning to technology startups",
		"Public support programs for startups and innovation",
	},
	risks: []string{
		"Macroeconomic uncertainty weighing on funding",
		"Growing competition in digital markets",
	},
	events: func(month string) []string {
		return []string{
			fmt.Sprintf("Startup funding activity in %s", month),
			"New startup-friendly policy announced",
			"Industry conference highlights emerging trends",
		}
	},
}

// Extra items added when the startup operates in India.
const (
	indiaEvent       = "Startup India announces additional support measures"
	indiaOpportunity = "India's expanding digital economy creates room to scale"
)

// newsFor returns the template for a domain, ignoring case, spaces and
// hyphens so "Health Tech" and "e-commerce" resolve.
func newsFor(domain string) newsTemplate {
	key := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(domain))
	if t, ok := newsByDomain[key]; ok {
		return t
	}
	return defaultNews
}
