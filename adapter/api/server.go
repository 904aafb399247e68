// Package api provides the HTTP API for the MoodSphere journal.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	journaldomain "github.com/felixgeelhaar/moodsphere/internal/journal/domain"
	"github.com/felixgeelhaar/moodsphere/internal/shared/domain"
	"github.com/felixgeelhaar/moodsphere/pkg/observability"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "journal_api"

// Server is the HTTP API server for the journal.
type Server struct {
	mux      *http.ServeMux
	server   *http.Server
	logger   *slog.Logger
	journal  *JournalHandler
	analysis *AnalysisHandler
	health   *observability.HealthRegistry
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         ":8004",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new journal API server. health may be nil.
func NewServer(
	cfg ServerConfig,
	journal *JournalHandler,
	analysis *AnalysisHandler,
	health *observability.HealthRegistry,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if health == nil {
		health = observability.NewHealthRegistry()
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		journal:  journal,
		analysis: analysis,
		health:   health,
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /readyz", s.health.Handler())

	// Journal
	s.mux.HandleFunc("GET /journal/prompts", s.journal.GetPrompt)
	s.mux.HandleFunc("POST /journal/analyze", s.journal.AnalyzeText)
	s.mux.HandleFunc("POST /journal/entry", s.journal.SaveEntry)
	s.mux.HandleFunc("GET /journal/entries", s.journal.ListEntries)
	s.mux.HandleFunc("GET /journal/insights", s.journal.GetInsights)
	s.mux.HandleFunc("GET /journal/streak", s.journal.GetStreak)
	s.mux.HandleFunc("DELETE /journal/entry/{id}", s.journal.DeleteEntry)

	// Emotion analysis
	s.mux.HandleFunc("POST /analyze", s.analysis.ClassifyText)
	s.mux.HandleFunc("POST /analyze_face", s.analysis.AnalyzeFace)
	s.mux.HandleFunc("POST /analyze_speech", s.analysis.AnalyzeSpeech)
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return chain(s.mux,
		requestID,
		recoverer(s.logger),
		requestLogger(s.logger),
		cors,
	)
}

// handleHealth handles liveness requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": ServiceName,
	})
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting journal API server",
		"addr", s.server.Addr,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down journal API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}

// statusFor maps an application error to its HTTP status.
func statusFor(err error) int {
	switch {
	case domain.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, journaldomain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError writes err with the status it maps to. Internal and
// upstream errors are logged and their detail is not sent to the client.
func writeAppError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusInternalServerError:
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, status, "internal server error")
	case http.StatusServiceUnavailable:
		logger.WarnContext(r.Context(), "upstream unavailable",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, status, domain.ErrUpstreamUnavailable.Error())
	default:
		writeError(w, status, err.Error())
	}
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return domain.NewValidationError("body", "request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	return nil
}
