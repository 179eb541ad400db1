// Package chat answers free-text founder questions from the document index,
// outside the analysis pipeline.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/llm"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/logging"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/retrieval"
)

const (
	contextSize    = 5
	historyWindow  = 5
	maxSources     = 3
	maxTopics      = 4
	temperature    = 0.5
	defaultSource  = "VenturePilot Knowledge Base"
	noContextReply = "No specific context available."
)

// Question is one chat request.
type Question struct {
	Question string `json:"question"`
	// StartupProfile is optional; only its input fields are used.
	StartupProfile *core.StartupInput `json:"startup_profile,omitempty"`
	History        []core.Message     `json:"conversation_history,omitempty"`
}

// Answer is the reply to a Question.
type Answer struct {
	Answer        string   `json:"answer"`
	Sources       []string `json:"sources"`
	RelatedTopics []string `json:"related_topics"`
}

// Config carries the service dependencies.
type Config struct {
	Generator core.TextGenerator
	Model     string
	Retriever core.Retriever
	Logger    *logging.Logger
}

// Service answers questions.
type Service struct {
	gen     core.TextGenerator
	model   string
	fetcher *retrieval.ContextFetcher
	logger  *logging.Logger
}

// NewService creates a chat service.
func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		gen:     cfg.Generator,
		model:   cfg.Model,
		fetcher: retrieval.NewContextFetcher(cfg.Retriever),
		logger:  logger.With("component", "chat"),
	}
}

// Ask answers q. Only an empty question or a retrieval failure is an error.
func (s *Service) Ask(ctx context.Context, q Question) (*Answer, error) {
	if strings.TrimSpace(q.Question) == "" {
		return nil, core.ErrValidation(core.CodeMissingField, "missing required field: question").
			WithDetail("field", "question")
	}

	category := DetectCategory(q.Question)
	var geography string
	if q.StartupProfile != nil {
		geography = q.StartupProfile.Geography
	}

	snippets, err := s.fetcher.Fetch(ctx, retrieval.Query{
		Text:      q.Question,
		Category:  category,
		Geography: geography,
		K:         contextSize,
	})
	if err != nil {
		return nil, err
	}

	answer, ok := s.generate(ctx, q, snippets)
	if !ok {
		answer = cannedAnswer(q.Question, profileContext(q.StartupProfile))
	}

	return &Answer{
		Answer:        answer,
		Sources:       Sources(snippets.Formatted()),
		RelatedTopics: RelatedTopics(category),
	}, nil
}

func (s *Service) generate(ctx context.Context, q Question, snippets retrieval.Snippets) (string, bool) {
	if s.gen == nil {
		s.logger.Debug("no text generator configured, using canned answer")
		return "", false
	}

	system := fmt.Sprintf(`You are VenturePilot, an assistant for startup founders seeking investment and strategic guidance.
%s
Relevant context:
%s

Answer from the context where you can. Be specific and actionable. If the context is not enough, say so and name what would help.`,
		profileContext(q.StartupProfile), snippets.Join(noContextReply))

	messages := []core.Message{{Role: core.RoleSystem, Content: system}}
	messages = append(messages, recentHistory(q.History)...)
	messages = append(messages, core.Message{Role: core.RoleUser, Content: q.Question})

	res := llm.Call(ctx, s.gen, s.model, messages, temperature)
	if !res.OK() {
		s.logger.Warn("chat generation failed, using canned answer", "error", res.Err)
		return "", false
	}
	return res.Text, true
}

// recentHistory keeps the last messages with a conversational role.
func recentHistory(history []core.Message) []core.Message {
	var kept []core.Message
	for _, m := range history {
		if m.Role == core.RoleUser || m.Role == core.RoleAssistant {
			kept = append(kept, m)
		}
	}
	if len(kept) > historyWindow {
		kept = kept[len(kept)-historyWindow:]
	}
	return kept
}

func profileContext(p *core.StartupInput) string {
	if p == nil {
		return ""
	}
	field := func(v string) string {
		if strings.TrimSpace(v) == "" {
			return "N/A"
		}
		return v
	}
	return fmt.Sprintf(`
Startup context:
- Domain: %s
- Stage: %s
- Geography: %s
- Description: %s
`, field(p.Domain), field(p.Stage), field(p.Geography), field(p.Description))
}

// Sources extracts the "[Source: ...]" annotation of up to three formatted
// snippets, defaulting to the knowledge base itself.
func Sources(formatted []string) []string {
	var sources []string
	for _, f := range formatted {
		if len(sources) == maxSources {
			break
		}
		_, rest, ok := strings.Cut(f, "[Source:")
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(rest, "]")
		if name = strings.TrimSpace(name); name != "" {
			sources = append(sources, name)
		}
	}
	if len(sources) == 0 {
		return []string{defaultSource}
	}
	return sources
}
