package core

import "strings"

// Stage identifiers, in pipeline order.
const (
	AgentStartup  = "startup_agent"
	AgentPolicy   = "policy_agent"
	AgentInvestor = "investor_agent"
	AgentMarket   = "market_agent"
	AgentNews     = "news_agent"
	AgentStrategy = "strategy_agent"
)

// PipelineOrder is the fixed stage order of a run.
var PipelineOrder = []string{
	AgentStartup,
	AgentPolicy,
	AgentInvestor,
	AgentMarket,
	AgentNews,
	AgentStrategy,
}

// Execution statuses.
const (
	StatusStarted   = "started"
	StatusCompleted = "completed"
	statusFailed    = "failed"
)

// FailedStatus formats a failure status with its reason.
func FailedStatus(reason string) string {
	return statusFailed + ": " + reason
}

// ExecutionRecord is one entry of a run's execution trace.
type ExecutionRecord struct {
	Agent      string `json:"agent"`
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
	DurationMS int64  `json:"duration_ms"`
}

// Failed reports whether the record marks a failed attempt.
func (r ExecutionRecord) Failed() bool {
	return strings.HasPrefix(r.Status, statusFailed)
}

// ExecutionMetadata summarizes a run's trace.
type ExecutionMetadata struct {
	ExecutionLog    []ExecutionRecord `json:"execution_log"`
	TotalAgents     int               `json:"total_agents"`
	CompletedAgents int               `json:"completed_agents"`
}
