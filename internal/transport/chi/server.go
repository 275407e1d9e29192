// Package chi exposes the suggestion engine over HTTP.
package chi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/typeahead/internal/logger"
	healthuc "github.com/kailas-cloud/typeahead/internal/usecase/health"
	suggestuc "github.com/kailas-cloud/typeahead/internal/usecase/suggest"
)

// Server wires the suggestion service into chi handlers.
type Server struct {
	suggest *suggestuc.Service
	history suggestuc.HistoryStore
	health  *healthuc.Service
	logger  *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	suggest *suggestuc.Service,
	history suggestuc.HistoryStore,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{suggest: suggest, history: history, health: health, logger: logger}
}

// Mount registers the routes on r.
func (s *Server) Mount(r chi.Router) {
	r.Get("/v1/suggest", s.getSuggestions)
	r.Post("/v1/searches", s.recordSearch)
	r.Get("/healthz", s.getHealth)
	r.Get("/metrics", s.getMetrics)
}

// suggestResponse is the suggestion endpoint payload. Error is set only on
// internal computation failure; degraded results come back as plain 200s.
type suggestResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
	Error       string   `json:"error,omitempty"`
}

// getSuggestions handles GET /v1/suggest?q=...
func (s *Server) getSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	suggestions, err := s.suggest.Suggest(r.Context(), query)
	resp := suggestResponse{Query: query, Suggestions: suggestions}
	if err != nil {
		logpkg.FromContext(r.Context()).Error("suggestion computation error",
			zap.String("query", query), zap.Error(err))
		resp.Error = err.Error()
	}
	if resp.Suggestions == nil {
		resp.Suggestions = []string{}
	}

	writeJSON(w, http.StatusOK, resp)
}

// recordSearchRequest is the executed-search notification payload.
type recordSearchRequest struct {
	Query string `json:"query"`
}

// recordSearch handles POST /v1/searches: the storefront reports an
// executed search so the history log can rank it later.
func (s *Server) recordSearch(w http.ResponseWriter, r *http.Request) {
	var req recordSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "bad_request",
			"message": "body must be {\"query\": \"...\"}",
		})
		return
	}

	if err := s.history.Record(r.Context(), req.Query); err != nil {
		// Recording is best-effort; the log entry is the only consequence.
		logpkg.FromContext(r.Context()).Warn("failed to record search",
			zap.String("query", req.Query), zap.Error(err))
	}
	w.WriteHeader(http.StatusAccepted)
}

// getHealth handles GET /healthz.
func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	// Degraded still serves suggestions via the static fallback, so the
	// endpoint stays 200 and reports the component detail instead.
	writeJSON(w, http.StatusOK, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// getMetrics handles GET /metrics.
func (s *Server) getMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
