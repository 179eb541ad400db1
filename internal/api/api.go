// Package api provides the HTTP handlers for onboarding, dashboard
// analysis, chat and analysis history.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/chat"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/logging"
)

const maxBodyBytes = 1 << 20

// Analyzer runs the pipeline or one of its stages.
type Analyzer interface {
	Run(ctx context.Context, in core.StartupInput) (*core.AggregateResult, error)
	Profile(ctx context.Context, in core.StartupInput) (core.StartupProfile, error)
	Policy(ctx context.Context, in core.StartupInput) (core.PolicyAnalysis, error)
	Investors(ctx context.Context, in core.StartupInput) ([]core.InvestorMatch, error)
	Market(ctx context.Context, in core.StartupInput) (core.MarketAnalysis, error)
	News(ctx context.Context, in core.StartupInput) (core.NewsAnalysis, error)
}

// ChatService answers chat questions.
type ChatService interface {
	Ask(ctx context.Context, q chat.Question) (*chat.Answer, error)
}

// DocumentLister lists indexed documents of a category.
type DocumentLister interface {
	Documents(category core.Category) []core.Document
}

// Deps are the services the handlers call. Store may be nil.
type Deps struct {
	Analyzer Analyzer
	Chat     ChatService
	Corpus   DocumentLister
	Store    core.AnalysisStore
}

// Handler serves the API routes.
type Handler struct {
	deps   Deps
	logger *logging.Logger
}

// NewHandler creates a handler.
func NewHandler(deps Deps, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{deps: deps, logger: logger}
}

// RegisterRoutes mounts the API under r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/onboard", h.handleOnboard)
		r.Post("/onboard/validate", h.handleValidate)

		r.Route("/dashboard", func(r chi.Router) {
			r.Post("/", h.handleDashboard)
			r.Post("/investors", h.handleInvestors)
			r.Post("/policy", h.handlePolicy)
			r.Post("/market", h.handleMarket)
			r.Post("/news", h.handleNews)
		})

		r.Post("/chat", h.handleChat)
		r.Get("/news", h.handleNewsFeed)

		r.Route("/analyses", func(r chi.Router) {
			r.Get("/", h.handleListAnalyses)
			r.Get("/{runID}", h.handleGetAnalysis)
		})
	})
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// respondError sends a JSON error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a JSON body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		msg := "invalid request body"
		if errors.Is(err, io.EOF) {
			msg = "request body is empty"
		}
		respondError(w, http.StatusBadRequest, fmt.Sprintf("%s: %v", msg, err))
		return false
	}
	return true
}

// decodeInput reads and validates a startup input. Profile fields beyond
// the input are ignored.
func decodeInput(w http.ResponseWriter, r *http.Request) (core.StartupInput, bool) {
	var in core.StartupInput
	if !decodeJSON(w, r, &in) {
		return in, false
	}
	if err := in.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, errorMessage(err))
		return in, false
	}
	return in, true
}
