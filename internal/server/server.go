// Package server provides the HTTP REST API for the field note analyzer.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/daniel/fieldnote-analyzer/internal/analysis"
	"github.com/daniel/fieldnote-analyzer/internal/logging"
	"github.com/daniel/fieldnote-analyzer/internal/matching"
	"github.com/daniel/fieldnote-analyzer/internal/server/ratelimit"
	"github.com/daniel/fieldnote-analyzer/internal/store"
	"github.com/daniel/fieldnote-analyzer/internal/types"
)

// Analyzer runs one analysis request end to end. *analysis.Pipeline
// satisfies this.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*types.PipelineResult, error)
}

// Storage is the persistence surface the handlers need. *store.Store
// satisfies this.
type Storage interface {
	ListTags(ctx context.Context) ([]types.TagCatalogEntry, error)
	GetMatchingSettings(ctx context.Context) (*store.MatchingSettings, error)
	UpdateMatchingSettings(ctx context.Context, settings store.MatchingSettings) (*store.MatchingSettings, error)
	GetSynopsisTemplate(ctx context.Context, userID string) (string, error)
	SaveSynopsisTemplate(ctx context.Context, userID, template string) error
	DeleteSynopsisTemplate(ctx context.Context, userID string) error
	SaveReport(ctx context.Context, userID string, result *types.PipelineResult) (uuid.UUID, error)
	GetReport(ctx context.Context, id uuid.UUID) (*store.Report, error)
	ListReports(ctx context.Context, userID string, limit int) ([]store.Report, error)
}

// Config holds server configuration
type Config struct {
	Addr string
}

// Deps are the already-wired components the server exposes over HTTP.
type Deps struct {
	Analyzer  Analyzer
	Storage   Storage
	Catalog   *matching.Catalog
	Refresher *matching.Refresher
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	analyzer    Analyzer
	storage     Storage
	catalog     *matching.Catalog
	refresher   *matching.Refresher
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate
	log         *logrus.Entry
}

// New creates a new server instance
func New(cfg Config, deps Deps) *Server {
	s := &Server{
		analyzer:    deps.Analyzer,
		storage:     deps.Storage,
		catalog:     deps.Catalog,
		refresher:   deps.Refresher,
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		validate:    validator.New(),
		log:         logging.New("server"),
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second, // Covers the full pipeline deadline
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler builds the routed, middleware-wrapped handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Tag catalog endpoints
	mux.HandleFunc("GET /tags", s.handleListTags)
	mux.HandleFunc("POST /tags/sync", s.handleSyncTags)

	// Matching settings endpoints
	mux.HandleFunc("GET /settings/matching", s.handleGetMatchingSettings)
	mux.HandleFunc("PUT /settings/matching", s.handleUpdateMatchingSettings)

	// Synopsis template endpoints
	mux.HandleFunc("GET /users/{id}/synopsis-template", s.handleGetSynopsisTemplate)
	mux.HandleFunc("PUT /users/{id}/synopsis-template", s.handleSaveSynopsisTemplate)
	mux.HandleFunc("DELETE /users/{id}/synopsis-template", s.handleDeleteSynopsisTemplate)

	// Report endpoints
	mux.HandleFunc("GET /reports/{id}", s.handleGetReport)
	mux.HandleFunc("GET /users/{id}/reports", s.handleListReports)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.log.WithField("addr", s.httpServer.Addr).Info("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Fatal("server error")
		}
	}()

	<-stop
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.refresher != nil {
		s.refresher.Stop()
	}

	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"remote":   r.RemoteAddr,
			"duration": time.Since(start).String(),
		}).Info("request completed")
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := map[string]any{"status": "ok"}
	if s.catalog != nil {
		snapshot := s.catalog.Snapshot()
		status["catalog_tags"] = len(snapshot.Entries())
		if !snapshot.RefreshedAt().IsZero() {
			status["catalog_refreshed_at"] = snapshot.RefreshedAt().Format(time.RFC3339)
		}
	}
	s.jsonResponse(w, http.StatusOK, status)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.WithError(err).Error("failed to encode JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// Uses the IP address from RemoteAddr; X-Forwarded-For is deliberately not
// trusted here.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit
// information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
