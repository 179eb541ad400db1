package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/adapters/state"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/agents"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/chat"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/config"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/llm"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/logging"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/orchestrator"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/retrieval"
)

// flagKeys maps command-line flags to the config keys they override. Only
// flags present on the running command are bound.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"data-dir":   "data.dir",
	"host":       "server.host",
	"port":       "server.port",
}

// loadConfig loads and validates configuration for cmd. A fresh viper
// instance is used per invocation so flag bindings never leak between runs.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}

	loader := config.NewLoaderWithViper(v)
	if cfgFile != "" {
		loader.WithConfigFile(cfgFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logging.Logger {
	return logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
}

// corpusReport summarizes one corpus load.
type corpusReport struct {
	Dir      string
	Total    map[string]int
	Accepted map[string]int
	Skipped  []string
}

// loadCorpus indexes the documents under dir. A missing directory yields an
// empty index.
func loadCorpus(ctx context.Context, dir string, logger *logging.Logger) (*retrieval.Engine, corpusReport, error) {
	engine := retrieval.NewEngine(logger)
	report := corpusReport{Dir: dir, Total: map[string]int{}, Accepted: map[string]int{}}

	res, err := retrieval.LoadDirectory(ctx, dir, logger)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("corpus directory not found, starting with an empty index", "dir", dir)
			return engine, report, nil
		}
		return nil, report, fmt.Errorf("loading corpus: %w", err)
	}

	engine.AddDocuments(res.Documents)
	for c, n := range res.ByCategory() {
		report.Total[string(c)] = n
	}
	for c, n := range engine.CountByCategory() {
		report.Accepted[string(c)] = n
	}
	report.Skipped = res.Skipped

	logger.Info("corpus loaded", "dir", dir, "documents", engine.Len(), "skipped_files", len(res.Skipped))
	return engine, report, nil
}

// app bundles the services shared by the commands.
type app struct {
	cfg    *config.Config
	logger *logging.Logger
	corpus *retrieval.Engine
	orch   *orchestrator.Orchestrator
	chat   *chat.Service
	store  *state.SQLiteAnalysisStore
}

// newApp wires corpus, generator, agents and store from cfg.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger := newLogger(cfg)

	corpus, _, err := loadCorpus(ctx, cfg.Data.Dir, logger)
	if err != nil {
		return nil, err
	}

	gen, err := llm.New(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("creating llm client: %w", err)
	}
	if gen == nil {
		logger.Info("no llm api key configured, using deterministic analysis")
	} else {
		logger.Info("llm configured", "provider", gen.Name(), "model", cfg.LLM.Model)
	}

	store, err := state.NewAnalysisStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("opening analysis store: %w", err)
	}

	suite := agents.NewSuite(agents.Config{
		Generator: gen,
		Model:     cfg.LLM.Model,
		Retriever: corpus,
		Logger:    logger,
	})
	opts := []orchestrator.Option{orchestrator.WithLogger(logger)}
	if store != nil {
		opts = append(opts, orchestrator.WithStore(store))
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		corpus: corpus,
		orch:   orchestrator.New(suite, opts...),
		chat: chat.NewService(chat.Config{
			Generator: gen,
			Model:     cfg.LLM.Model,
			Retriever: corpus,
			Logger:    logger,
		}),
		store: store,
	}, nil
}

// Close releases the store.
func (a *app) Close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close analysis store", "error", err)
	}
}
