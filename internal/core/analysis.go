package core

import (
	"bytes"
	"encoding/json"
)

// PolicyAnalysis is the policy stage output.
type PolicyAnalysis struct {
	RelevantPolicies []string `json:"relevant_policies"`
	EligibleSchemes  []string `json:"eligible_schemes"`
	RegulatoryRisks  []string `json:"regulatory_risks"`
}

// InvestorMatch is one entry of the investor stage output.
type InvestorMatch struct {
	Name            string   `json:"name"`
	MatchScore      float64  `json:"match_score"`
	Reason          string   `json:"reason"`
	PastInvestments []string `json:"past_investments"`
}

// MarketAnalysis is the market stage output.
type MarketAnalysis struct {
	MarketSizeEstimate string   `json:"market_size_estimate"`
	GrowthSignals      []string `json:"growth_signals"`
	SaturationRisks    []string `json:"saturation_risks"`
	EmergingTrends     []string `json:"emerging_trends"`
}

// NewsAnalysis is the news stage output.
type NewsAnalysis struct {
	Opportunities []string `json:"opportunities"`
	Risks         []string `json:"risks"`
	RecentEvents  []string `json:"recent_events"`
}

// Readiness classifies how prepared a startup is to raise funding.
type Readiness string

const (
	ReadinessLow    Readiness = "low"
	ReadinessMedium Readiness = "medium"
	ReadinessHigh   Readiness = "high"
)

// Valid reports whether r is one of low, medium, high.
func (r Readiness) Valid() bool {
	return r == ReadinessLow || r == ReadinessMedium || r == ReadinessHigh
}

// Strategy is the synthesis stage output.
type Strategy struct {
	FundraisingReadiness Readiness `json:"fundraising_readiness"`
	KeyRecommendations   []string  `json:"key_recommendations"`
	NextActions          []string  `json:"next_actions"`
}

// Section holds one mapping-shaped stage slot of an aggregate result. A
// failed section serializes as {"error": "..."} and nothing else.
type Section[T any] struct {
	Value T
	Err   string
}

// Succeeded wraps a stage value.
func Succeeded[T any](v T) Section[T] {
	return Section[T]{Value: v}
}

// Failed marks a stage slot as failed.
func Failed[T any](err error) Section[T] {
	return Section[T]{Err: err.Error()}
}

// OK reports whether the stage produced a value.
func (s Section[T]) OK() bool {
	return s.Err == ""
}

// MarshalJSON implements json.Marshaler.
func (s Section[T]) MarshalJSON() ([]byte, error) {
	if s.Err != "" {
		return json.Marshal(map[string]string{"error": s.Err})
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Section[T]) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err == nil && len(fields) == 1 {
		if raw, ok := fields["error"]; ok {
			var msg string
			if err := json.Unmarshal(raw, &msg); err != nil {
				return err
			}
			*s = Section[T]{Err: msg}
			return nil
		}
	}
	var v T
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		return err
	}
	*s = Section[T]{Value: v}
	return nil
}

// AggregateResult is everything one orchestrator run produces.
type AggregateResult struct {
	RunID          string                  `json:"run_id"`
	StartupProfile StartupProfile          `json:"startup_profile"`
	Policy         Section[PolicyAnalysis] `json:"policy"`
	Investors      []InvestorMatch         `json:"investors"`
	Market         Section[MarketAnalysis] `json:"market"`
	News           Section[NewsAnalysis]   `json:"news"`
	Strategy       Section[Strategy]       `json:"strategy"`
	Metadata       ExecutionMetadata       `json:"_metadata"`
}

// AnalysisSummary is a compact listing entry for stored analyses.
type AnalysisSummary struct {
	RunID           string `json:"run_id"`
	Domain          string `json:"domain"`
	Stage           string `json:"stage"`
	Geography       string `json:"geography"`
	Readiness       string `json:"fundraising_readiness"`
	CompletedAgents int    `json:"completed_agents"`
	CreatedAt       string `json:"created_at"`
}
