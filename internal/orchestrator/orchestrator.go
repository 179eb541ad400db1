// Package orchestrator runs the analysis stages in a fixed order over one
// startup profile. Only profiling can fail a run; any later stage that
// errors or panics is recorded and replaced by an error marker.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/agents"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/logging"
)

// Orchestrator runs the pipeline.
type Orchestrator struct {
	agents *agents.Suite
	store  core.AnalysisStore
	logger *logging.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStore persists every aggregate result.
func WithStore(s core.AnalysisStore) Option {
	return func(o *Orchestrator) {
		o.store = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock sets the clock used for trace timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator overrides how run ids are generated.
func WithIDGenerator(fn func() string) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// New creates an orchestrator over suite.
func New(suite *agents.Suite, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		agents: suite,
		logger: logging.NewNop(),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes all six stages. The returned error is non-nil only when
// profiling fails, which includes input validation.
func (o *Orchestrator) Run(ctx context.Context, in core.StartupInput) (*core.AggregateResult, error) {
	runID := o.newID()
	log := o.logger.WithRun(runID)
	trace := NewTrace(o.now)
	log.Info("analysis started", "domain", in.Domain, "stage", in.Stage, "geography", in.Geography)

	profile, err := runStage(log, trace, core.AgentStartup, func() (core.StartupProfile, error) {
		return o.agents.Startup.Analyze(ctx, in)
	})
	if err != nil {
		return nil, err
	}

	result := &core.AggregateResult{
		RunID:          runID,
		StartupProfile: profile,
	}

	policy, err := runStage(log, trace, core.AgentPolicy, func() (core.PolicyAnalysis, error) {
		return o.agents.Policy.Analyze(ctx, profile)
	})
	result.Policy = section(policy, err)

	investors, err := runStage(log, trace, core.AgentInvestor, func() ([]core.InvestorMatch, error) {
		return o.agents.Investor.Match(ctx, profile)
	})
	if err != nil || investors == nil {
		investors = []core.InvestorMatch{}
	}
	result.Investors = investors

	market, err := runStage(log, trace, core.AgentMarket, func() (core.MarketAnalysis, error) {
		return o.agents.Market.Analyze(ctx, profile)
	})
	result.Market = section(market, err)

	news, err := runStage(log, trace, core.AgentNews, func() (core.NewsAnalysis, error) {
		return o.agents.News.Analyze(ctx, profile)
	})
	result.News = section(news, err)

	strategy, err := runStage(log, trace, core.AgentStrategy, func() (core.Strategy, error) {
		return o.agents.Strategy.Synthesize(ctx, agents.StrategyInput{
			Profile:   profile,
			Policy:    result.Policy.Value,
			Investors: result.Investors,
			Market:    result.Market.Value,
			News:      result.News.Value,
		})
	})
	result.Strategy = section(strategy, err)

	result.Metadata = trace.Metadata(len(core.PipelineOrder))
	log.Info("analysis finished",
		"completed_agents", result.Metadata.CompletedAgents,
		"total_agents", result.Metadata.TotalAgents,
	)

	o.save(ctx, log, result)
	return result, nil
}

func (o *Orchestrator) save(ctx context.Context, log *logging.Logger, result *core.AggregateResult) {
	if o.store == nil {
		return
	}
	if err := o.store.Save(ctx, result); err != nil {
		log.Warn("failed to persist analysis", "error", err)
	}
}

// Profile runs only the profiling stage.
func (o *Orchestrator) Profile(ctx context.Context, in core.StartupInput) (core.StartupProfile, error) {
	return safeCall(func() (core.StartupProfile, error) {
		return o.agents.Startup.Analyze(ctx, in)
	})
}

// Policy profiles in and runs the policy stage.
func (o *Orchestrator) Policy(ctx context.Context, in core.StartupInput) (core.PolicyAnalysis, error) {
	return afterProfile(ctx, o, in, o.agents.Policy.Analyze)
}

// Investors profiles in and runs the investor stage.
func (o *Orchestrator) Investors(ctx context.Context, in core.StartupInput) ([]core.InvestorMatch, error) {
	return afterProfile(ctx, o, in, o.agents.Investor.Match)
}

// Market profiles in and runs the market stage.
func (o *Orchestrator) Market(ctx context.Context, in core.StartupInput) (core.MarketAnalysis, error) {
	return afterProfile(ctx, o, in, o.agents.Market.Analyze)
}

// News profiles in and runs the news stage.
func (o *Orchestrator) News(ctx context.Context, in core.StartupInput) (core.NewsAnalysis, error) {
	return afterProfile(ctx, o, in, o.agents.News.Analyze)
}

func afterProfile[T any](ctx context.Context, o *Orchestrator, in core.StartupInput, fn func(context.Context, core.StartupProfile) (T, error)) (T, error) {
	var zero T
	profile, err := o.Profile(ctx, in)
	if err != nil {
		return zero, err
	}
	return safeCall(func() (T, error) {
		return fn(ctx, profile)
	})
}

// runStage executes one stage and records it in the trace.
func runStage[T any](log *logging.Logger, trace *Trace, agent string, fn func() (T, error)) (T, error) {
	done := trace.Start(agent)
	start := time.Now()

	out, err := safeCall(fn)
	done(err)

	if err != nil {
		log.Warn("stage failed", "agent", agent, "error", err, "duration", time.Since(start))
		return out, err
	}
	log.Debug("stage completed", "agent", agent, "duration", time.Since(start))
	return out, nil
}

// safeCall converts a panic in fn into an execution error.
func safeCall[T any](fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			out = zero
			err = core.ErrExecution(core.CodeStagePanic, fmt.Sprintf("stage panicked: %v", r))
		}
	}()
	return fn()
}

func section[T any](v T, err error) core.Section[T] {
	if err != nil {
		return core.Failed[T](err)
	}
	return core.Succeeded(v)
}
