package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/chat"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
)

const defaultHistoryLimit = 20

// ValidateResponse is returned by POST /api/onboard/validate.
type ValidateResponse struct {
	Valid   bool              `json:"valid"`
	Message string            `json:"message"`
	Input   core.StartupInput `json:"input"`
}

func (h *Handler) handleOnboard(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	profile, err := h.deps.Analyzer.Profile(r.Context(), in)
	if err != nil {
		h.respondDomainError(w, r, err, "analysis failed")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, ValidateResponse{Valid: true, Message: "Input is valid", Input: in})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	result, err := h.deps.Analyzer.Run(r.Context(), in)
	if err != nil {
		h.respondDomainError(w, r, err, "dashboard analysis failed")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleInvestors(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	investors, err := h.deps.Analyzer.Investors(r.Context(), in)
	if err != nil {
		h.respondDomainError(w, r, err, "investor matching failed")
		return
	}
	if investors == nil {
		investors = []core.InvestorMatch{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"investors": investors})
}

func (h *Handler) handlePolicy(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	policy, err := h.deps.Analyzer.Policy(r.Context(), in)
	if err != nil {
		h.respondDomainError(w, r, err, "policy analysis failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"policy": policy})
}

func (h *Handler) handleMarket(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	market, err := h.deps.Analyzer.Market(r.Context(), in)
	if err != nil {
		h.respondDomainError(w, r, err, "market analysis failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"market": market})
}

func (h *Handler) handleNews(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	news, err := h.deps.Analyzer.News(r.Context(), in)
	if err != nil {
		h.respondDomainError(w, r, err, "news analysis failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"news": news})
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var q chat.Question
	if !decodeJSON(w, r, &q) {
		return
	}

	answer, err := h.deps.Chat.Ask(r.Context(), q)
	if err != nil {
		h.respondDomainError(w, r, err, "chat failed")
		return
	}
	respondJSON(w, http.StatusOK, answer)
}

// handleNewsFeed lists indexed news documents for a ticker.
func (h *Handler) handleNewsFeed(w http.ResponseWriter, _ *http.Request) {
	docs := []core.Document{}
	if h.deps.Corpus != nil {
		docs = append(docs, h.deps.Corpus.Documents(core.CategoryNews)...)
	}
	respondJSON(w, http.StatusOK, docs)
}

func (h *Handler) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if h.deps.Store == nil {
		respondError(w, http.StatusServiceUnavailable, "analysis history is disabled")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	summaries, err := h.deps.Store.List(r.Context(), limit)
	if err != nil {
		h.respondDomainError(w, r, err, "listing analyses failed")
		return
	}
	respondJSON(w, http.StatusOK, summaries)
}

func (h *Handler) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if h.deps.Store == nil {
		respondError(w, http.StatusServiceUnavailable, "analysis history is disabled")
		return
	}

	result, err := h.deps.Store.Load(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		h.respondDomainError(w, r, err, "loading analysis failed")
		return
	}
	respondJSON(w, http.StatusOK, result)
}
