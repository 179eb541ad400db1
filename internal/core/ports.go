package core

import "context"

// =============================================================================
// TextGenerator Port
// =============================================================================

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TextGenerator is an external generative text service. A nil
// TextGenerator means no credential is configured.
type TextGenerator interface {
	// Name returns the provider identifier (e.g., "mistral", "gemini").
	Name() string

	// Complete returns the model's reply to the conversation.
	Complete(ctx context.Context, model string, messages []Message, temperature float64) (string, error)
}

// =============================================================================
// Retriever Port
// =============================================================================

// Retriever is the document index used by agents and chat.
type Retriever interface {
	// Search returns up to k results ordered by descending relevance.
	Search(ctx context.Context, query string, filters SearchFilters, k int) ([]RetrievalResult, error)

	// AddDocuments ingests valid candidates and returns how many were accepted.
	AddDocuments(docs []Document) int
}

// =============================================================================
// AnalysisStore Port
// =============================================================================

// AnalysisStore persists aggregate results for later lookup.
type AnalysisStore interface {
	Save(ctx context.Context, result *AggregateResult) error
	Load(ctx context.Context, runID string) (*AggregateResult, error)
	List(ctx context.Context, limit int) ([]AnalysisSummary, error)
}
