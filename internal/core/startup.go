package core

import (
	"fmt"
	"strings"
)

// StartupInput is the raw description a founder submits. It is never
// modified after submission.
type StartupInput struct {
	Description  string `json:"description"`
	Domain       string `json:"domain"`
	Stage        string `json:"stage"`
	Geography    string `json:"geography"`
	CustomerType string `json:"customer_type"`
}

// Validate reports the first missing required field.
func (in StartupInput) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"description", in.Description},
		{"domain", in.Domain},
		{"stage", in.Stage},
		{"geography", in.Geography},
		{"customer_type", in.CustomerType},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return ErrValidation(CodeMissingField, fmt.Sprintf("missing required field: %s", f.name)).
				WithDetail("field", f.name)
		}
	}
	return nil
}

// ProfileAnalysis holds the fields derived by the profiling stage.
type ProfileAnalysis struct {
	Problem            string   `json:"problem"`
	ValueProposition   string   `json:"value_proposition"`
	MarketCategory     string   `json:"market_category"`
	TargetCustomers    string   `json:"target_customers"`
	AssumedCompetitors []string `json:"assumed_competitors"`
	RiskFactors        []string `json:"risk_factors"`
}

// StartupProfile is the submitted input merged with the profiling analysis.
// Both halves serialize into a single flat JSON object.
type StartupProfile struct {
	StartupInput
	ProfileAnalysis
}

// NewStartupProfile merges an analysis with the original input. Input
// fields live in their own struct, so nothing in the analysis can
// override them.
func NewStartupProfile(in StartupInput, analysis ProfileAnalysis) StartupProfile {
	return StartupProfile{StartupInput: in, ProfileAnalysis: analysis}
}

// Category returns the market category, falling back to the domain.
func (p StartupProfile) Category() string {
	if strings.TrimSpace(p.MarketCategory) != "" {
		return p.MarketCategory
	}
	return p.Domain
}
