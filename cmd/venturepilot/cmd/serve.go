package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/api"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the VenturePilot HTTP API.

The corpus is loaded once at startup. Without an LLM API key every
endpoint answers from deterministic analysis.

Examples:
  # Start with defaults (0.0.0.0:8000)
  venturepilot serve

  # Start on custom host and port
  venturepilot serve --host 127.0.0.1 --port 3000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveHost string
	servePort int
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0",
		"Host address to bind to")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000,
		"Port to listen on")
}

// newServer builds the HTTP server around a.
func newServer(a *app) *web.Server {
	deps := api.Deps{
		Analyzer: a.orch,
		Chat:     a.chat,
		Corpus:   a.corpus,
	}
	if a.store != nil {
		deps.Store = a.store
	}
	return web.New(web.ConfigFrom(a.cfg.Server), a.logger,
		web.WithRoutes(api.NewHandler(deps, a.logger)))
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	server := newServer(a)
	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	a.logger.Info("server started", slog.String("addr", server.Addr()))

	<-ctx.Done()

	a.logger.Info("shutting down server...")
	if err := server.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
