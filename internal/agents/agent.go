// Package agents implements the six analysis stages. Every agent has a
// generative path, used when a text generator is configured, and a
// deterministic fallback that produces output of the same shape from the
// startup profile and retrieved context alone.
package agents

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/llm"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/logging"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/retrieval"
)

// Path labels reported in each agent's completion notice.
const (
	PathGenerative = "generative"
	PathFallback   = "fallback"
)

const (
	retryTemperature = 0.1
	correctiveReply  = "That was not valid JSON. Respond with only a valid JSON object, no markdown and no explanation."
	systemPrompt     = "You are VenturePilot, an analyst for early-stage startups. Reply with JSON only."
)

// Config carries the dependencies shared by all agents.
type Config struct {
	// Generator is nil when no credential is configured.
	Generator core.TextGenerator
	Model     string
	Retriever core.Retriever
	Logger    *logging.Logger
	// Clock defaults to time.Now; it drives recency windows and dated
	// fallback text.
	Clock func() time.Time
}

// Suite holds one instance of each agent built from the same Config.
type Suite struct {
	Startup  *StartupAgent
	Policy   *PolicyAgent
	Investor *InvestorAgent
	Market   *MarketAgent
	News     *NewsAgent
	Strategy *StrategyAgent
}

// NewSuite builds all six agents.
func NewSuite(cfg Config) *Suite {
	b := newBase(cfg)
	fetcher := retrieval.NewContextFetcher(cfg.Retriever, retrieval.WithClock(b.now))
	return &Suite{
		Startup:  &StartupAgent{base: b},
		Policy:   &PolicyAgent{base: b, fetcher: fetcher},
		Investor: &InvestorAgent{base: b, fetcher: fetcher},
		Market:   &MarketAgent{base: b, fetcher: fetcher},
		News:     &NewsAgent{base: b, fetcher: fetcher},
		Strategy: &StrategyAgent{base: b},
	}
}

// base is the part of an agent that talks to the generator. It holds no
// retriever; only agents given a fetcher can search.
type base struct {
	gen    core.TextGenerator
	model  string
	logger *logging.Logger
	now    func() time.Time
}

func newBase(cfg Config) base {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return base{
		gen:    cfg.Generator,
		model:  cfg.Model,
		logger: logger,
		now:    now,
	}
}

// contract describes how one agent reads a generative reply.
type contract[T any] struct {
	agent       string
	temperature float64
	// required keys of the top-level JSON object; empty for array outputs.
	required []string
	// retryMalformed enables one corrective retry when the reply is not JSON.
	retryMalformed bool
	// check validates and normalizes a decoded value.
	check func(*T) error
}

// run executes the generative path when possible and the fallback otherwise,
// logging which one produced the result.
func run[T any](ctx context.Context, b base, c contract[T], messages []core.Message, fallback func() T) T {
	log := b.logger.WithAgent(c.agent)

	if b.gen == nil {
		log.Info("no text generator configured", "path", PathFallback)
		return fallback()
	}

	out, err := generate(ctx, b, c, messages)
	if err != nil {
		log.Warn("generative analysis failed", "path", PathFallback, "error", err)
		return fallback()
	}

	log.Info("analysis generated", "path", PathGenerative, "provider", b.gen.Name())
	return out
}

func generate[T any](ctx context.Context, b base, c contract[T], messages []core.Message) (T, error) {
	var zero T

	res := llm.Call(ctx, b.gen, b.model, messages, c.temperature)
	if !res.OK() {
		return zero, res.Err
	}

	var out T
	err := llm.Decode(res.Text, &out, c.required...)
	if errors.Is(err, llm.ErrMalformed) && c.retryMalformed {
		b.logger.WithAgent(c.agent).Debug("reply was not JSON, retrying once")
		retry := append(slices.Clone(messages),
			core.Message{Role: core.RoleAssistant, Content: res.Text},
			core.Message{Role: core.RoleUser, Content: correctiveReply},
		)
		res = llm.Call(ctx, b.gen, b.model, retry, retryTemperature)
		if !res.OK() {
			return zero, res.Err
		}
		out = *new(T)
		err = llm.Decode(res.Text, &out, c.required...)
	}
	if err != nil {
		return zero, err
	}

	if c.check != nil {
		if err := c.check(&out); err != nil {
			return zero, fmt.Errorf("%w: %v", llm.ErrSchema, err)
		}
	}
	return out, nil
}

func conversation(user string) []core.Message {
	return []core.Message{
		{Role: core.RoleSystem, Content: systemPrompt},
		{Role: core.RoleUser, Content: user},
	}
}

func profileBlock(p core.StartupProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- Description: %s\n", p.Description)
	fmt.Fprintf(&b, "- Domain: %s\n", p.Domain)
	fmt.Fprintf(&b, "- Stage: %s\n", p.Stage)
	fmt.Fprintf(&b, "- Geography: %s\n", p.Geography)
	fmt.Fprintf(&b, "- Customer type: %s\n", p.CustomerType)
	if p.MarketCategory != "" {
		fmt.Fprintf(&b, "- Market category: %s\n", p.MarketCategory)
	}
	if p.Problem != "" {
		fmt.Fprintf(&b, "- Problem: %s\n", p.Problem)
	}
	if p.ValueProposition != "" {
		fmt.Fprintf(&b, "- Value proposition: %s\n", p.ValueProposition)
	}
	return b.String()
}

// requireNonEmpty fails when any named list is empty.
func requireNonEmpty(lists map[string][]string) error {
	var empty []string
	for name, l := range lists {
		if len(l) == 0 {
			empty = append(empty, name)
		}
	}
	if len(empty) > 0 {
		slices.Sort(empty)
		return fmt.Errorf("empty %s", strings.Join(empty, ", "))
	}
	return nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
