package testutil

import (
	"time"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
)

// FixedNow is the clock used by fixtures; news timestamps are relative to it.
var FixedNow = time.Date(2024, time.June, 30, 12, 0, 0, 0, time.UTC)

// Clock returns FixedNow.
func Clock() time.Time {
	return FixedNow
}

// SampleInput returns a fintech seed-stage B2B startup in India.
func SampleInput(opts ...func(*core.StartupInput)) core.StartupInput {
	in := core.StartupInput{
		Description:  "Working capital loans for small manufacturers in tier-2 cities, underwritten from GST and invoice data",
		Domain:       "fintech",
		Stage:        "seed",
		Geography:    "India",
		CustomerType: "B2B",
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}

// SampleProfile returns SampleInput merged with a plausible analysis.
func SampleProfile() core.StartupProfile {
	return core.NewStartupProfile(SampleInput(), core.ProfileAnalysis{
		Problem:            "Small manufacturers cannot access working capital",
		ValueProposition:   "Loans underwritten in minutes from GST data",
		MarketCategory:     "fintech lending",
		TargetCustomers:    "B2B manufacturers in tier-2 cities",
		AssumedCompetitors: []string{"Lendingkart", "FlexiLoans"},
		RiskFactors:        []string{"Credit risk", "Regulatory change"},
	})
}

// SampleCorpus returns documents covering every category, mostly for
// India, with news timestamps both inside and outside a 90 day window
// of FixedNow.
func SampleCorpus() []core.Document {
	return []core.Document{
		{
			Text:      "Startup India Seed Fund Scheme provides fintech and deeptech startups up to 50 lakh for proof of concept and market entry",
			Category:  core.CategoryPolicy,
			Timestamp: "2024-01-10",
			Geography: "India",
			Source:    "DPIIT",
			Title:     "Startup India Seed Fund Scheme",
		},
		{
			Text:      "RBI digital lending guidelines require fintech lending platforms to disburse loans directly to borrower accounts",
			Category:  core.CategoryPolicy,
			Timestamp: "2023-09-02",
			Geography: "India",
			Source:    "RBI",
			Title:     "Digital Lending Guidelines",
		},
		{
			Text:      "Name: Blume Ventures\nEarly stage fund backing seed fintech and SaaS founders across India",
			Category:  core.CategoryInvestor,
			Timestamp: "2024-02-01",
			Geography: "India",
			Source:    "Crunchbase",
			Title:     "Blume Ventures",
		},
		{
			Text:      "Accel India invests in seed and series a fintech lending and payments startups",
			Category:  core.CategoryInvestor,
			Timestamp: "2024-03-15",
			Geography: "India",
			Source:    "Tracxn",
			Title:     "Accel India",
		},
		{
			Text:      "Sequoia Capital growth fund focused on enterprise software in the United States",
			Category:  core.CategoryInvestor,
			Timestamp: "2024-01-20",
			Geography: "USA",
			Source:    "Crunchbase",
			Title:     "Sequoia Capital",
		},
		{
			Text:      "India fintech market size expected to reach 150 billion dollars by 2025 with lending as the fastest growing segment",
			Category:  core.CategoryReport,
			Timestamp: "2024-04-01",
			Geography: "India",
			Source:    "Inc42",
			Title:     "India Fintech Market Report",
		},
		{
			Text:      "MSME credit gap in India remains above 20 lakh crore creating demand for fintech lending",
			Category:  core.CategoryReport,
			Timestamp: "2024-02-18",
			Geography: "India",
			Source:    "IFC",
			Title:     "MSME Finance Gap",
		},
		{
			Text:      "Fintech lending startup raises 40 million in series b as India MSME credit demand grows",
			Category:  core.CategoryNews,
			Timestamp: "2024-06-12",
			Geography: "India",
			Source:    "Economic Times",
			Title:     "Fintech lender raises Series B",
		},
		{
			Text:      "RBI tightens norms for fintech lending partnerships with NBFCs in India",
			Category:  core.CategoryNews,
			Timestamp: "2024-05-03",
			Geography: "India",
			Source:    "Mint",
			Title:     "RBI tightens lending norms",
		},
		{
			Text:      "Fintech funding in India fell sharply during the funding winter",
			Category:  core.CategoryNews,
			Timestamp: "2023-01-15",
			Geography: "India",
			Source:    "YourStory",
			Title:     "Funding winter hits fintech",
		},
	}
}
