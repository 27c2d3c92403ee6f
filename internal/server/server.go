// Package server provides the HTTP REST API for resume analysis, improvement and storage.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/fetch"
	"github.com/jonathan/resume-matcher/internal/improve"
	"github.com/jonathan/resume-matcher/internal/logging"
	"github.com/jonathan/resume-matcher/internal/server/ratelimit"
	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/rs/zerolog"
)

// Store is the persistence the API needs. *db.DB satisfies it.
type Store interface {
	SaveResume(ctx context.Context, ownerID, name string, data *types.Resume) (*db.ResumeRecord, error)
	UpdateResume(ctx context.Context, id uuid.UUID, name string, data *types.Resume) (*db.ResumeRecord, error)
	GetResume(ctx context.Context, id uuid.UUID) (*db.ResumeRecord, error)
	ListResumes(ctx context.Context, ownerID string) ([]db.ResumeRecord, error)
	GetMostRecentResume(ctx context.Context, ownerID string) (*db.ResumeRecord, error)
	DeleteResume(ctx context.Context, id uuid.UUID) error
	SetResumePublic(ctx context.Context, id uuid.UUID, public bool) error
	ListPublicResumes(ctx context.Context, limit int) ([]db.ResumeRecord, error)

	ListPrompts(ctx context.Context) ([]db.PromptRecord, error)
	UpsertPrompt(ctx context.Context, def db.PromptRecord, content string) (*db.PromptRecord, error)
	ResetPrompt(ctx context.Context, def db.PromptRecord) (*db.PromptRecord, error)

	Ping(ctx context.Context) error
}

// Analyzer scores a resume against a job description
type Analyzer interface {
	Analyze(ctx context.Context, r *types.Resume, jobDescription string) *types.MatchResult
}

// Improver rewrites the sections of a resume that matter for a job
type Improver interface {
	ImproveWithReport(ctx context.Context, r *types.Resume, jobDescription string, match *types.MatchResult) (*types.Resume, *improve.Report)
}

// JobSource turns a job posting URL into description text. *fetch.JobFetcher satisfies it.
type JobSource interface {
	JobDescription(ctx context.Context, url string) (*fetch.JobPage, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	analyzer    Analyzer
	improver    Improver
	jobs        JobSource
	rateLimiter *ratelimit.Limiter
	origins     map[string]bool
	log         zerolog.Logger
}

// Config holds server configuration
type Config struct {
	Addr string
	// Store may be nil, in which case resume and prompt routes answer 503
	Store    Store
	Analyzer Analyzer
	Improver Improver
	// Jobs may be nil, in which case requests must carry job_description
	Jobs           JobSource
	RateLimit      *ratelimit.Config
	AllowedOrigins []string
	Logger         *zerolog.Logger
}

// New creates a new server instance
func New(cfg Config) *Server {
	s := &Server{
		store:    cfg.Store,
		analyzer: cfg.Analyzer,
		improver: cfg.Improver,
		jobs:     cfg.Jobs,
		origins:  make(map[string]bool),
		log:      logging.Logger,
	}
	if cfg.Logger != nil {
		s.log = *cfg.Logger
	}
	for _, o := range cfg.AllowedOrigins {
		s.origins[o] = true
	}
	if len(s.origins) == 0 {
		s.origins["*"] = true
	}

	rl := cfg.RateLimit
	if rl == nil {
		rl = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(rl)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// LLM endpoints
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /improve", s.handleImprove)

	// Resume storage
	mux.HandleFunc("POST /users/{owner}/resumes", s.handleSaveResume)
	mux.HandleFunc("GET /users/{owner}/resumes", s.handleListResumes)
	mux.HandleFunc("GET /users/{owner}/resumes/latest", s.handleLatestResume)
	mux.HandleFunc("GET /resumes/public", s.handleListPublicResumes)
	mux.HandleFunc("GET /resumes/{id}", s.handleGetResume)
	mux.HandleFunc("PUT /resumes/{id}", s.handleUpdateResume)
	mux.HandleFunc("DELETE /resumes/{id}", s.handleDeleteResume)
	mux.HandleFunc("PUT /resumes/{id}/public", s.handleSetResumePublic)

	// Prompt administration
	mux.HandleFunc("GET /prompts", s.handleListPrompts)
	mux.HandleFunc("PUT /prompts/{id}", s.handleUpdatePrompt)
	mux.HandleFunc("POST /prompts/{id}/reset", s.handleResetPrompt)

	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.withLogging(s.withCORS(s.withRateLimit(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // improvement fans out several LLM calls
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	defer s.rateLimiter.Stop()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info().Msg("server stopped")
	return nil
}

// Close releases background resources without serving
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "database": "disabled"}
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			resp["database"] = "unavailable"
		} else {
			resp["database"] = "ok"
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("error encoding JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status code. Internal failures are logged and not echoed.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable && status != http.StatusBadGateway {
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
