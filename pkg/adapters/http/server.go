package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/stepwise"
	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/internal/presentation/graph"
	"github.com/aretw0/stepwise/pkg/committer"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/runner"
	"github.com/aretw0/stepwise/pkg/structure"
	"github.com/go-chi/chi/v5"
)

// Engine defines the subset of the Stepwise engine served over HTTP.
type Engine interface {
	Families() []stepwise.FamilyInfo
	Begin(ctx context.Context, sessionID string, req domain.Request) (domain.Trace, error)
	Resolve(ctx context.Context, sessionID string) (committer.Result, error)
	Abort(ctx context.Context, sessionID string) error
	Pending(sessionID string) (domain.Trace, bool)
	Snapshot(ctx context.Context, sessionID, family string) (structure.Snapshot, error)
	Reset(ctx context.Context, sessionID, family string) error
	Delete(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]string, error)
}

var _ Engine = (*stepwise.Engine)(nil)

// Server holds the handlers' dependencies.
type Server struct {
	Engine  Engine
	Streams *StreamManager
	Logger  *slog.Logger
	Extra   func(chi.Router)
}

// Option configures the Server.
type Option func(*Server)

// WithStreams shares a StreamManager whose Hooks were installed on the engine.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithLogger configures a logger for the handlers.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithRoutes mounts extra routes (e.g. /metrics) on the same router.
func WithRoutes(fn func(chi.Router)) Option {
	return func(s *Server) {
		s.Extra = fn
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine: engine,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.Logger)
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/families", s.GetFamilies)
	r.Get("/events", s.SubscribeEvents)
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Delete("/", s.DeleteSession)
			r.Post("/operations", s.BeginOperation)
			r.Get("/pending", s.GetPending)
			r.Post("/resolve", s.Resolve)
			r.Post("/abort", s.Abort)
			r.Get("/structures/{family}", s.GetStructure)
			r.Delete("/structures/{family}", s.ResetStructure)
		})
	})
	if s.Extra != nil {
		s.Extra(r)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps engine errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidOperand),
		errors.Is(err, domain.ErrUnsupportedOperation),
		errors.Is(err, runner.ErrInputTooLarge),
		errors.Is(err, runner.ErrInvalidUTF8):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownFamily),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrNoPendingOperation):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOperationInProgress):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error(op+" failed", "error", err)
	} else {
		s.Logger.Debug(op+" rejected", "error", err, "status", status)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "stepwise-http",
		"version": strings.TrimSpace(stepwise.Version),
	})
}

// GetFamilies handles GET /families.
func (s *Server) GetFamilies(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Families())
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.List(r.Context())
	if err != nil {
		s.writeError(w, "list sessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// DeleteSession handles DELETE /sessions/{sessionID}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, "delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BeginOperation handles POST /sessions/{sessionID}/operations.
// The body is a loose JSON object; numeric operands are accepted as numbers or strings.
func (s *Server) BeginOperation(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		s.Logger.Warn("BeginOperation: invalid request body", "error", err)
		return
	}
	req, err := domain.DecodeRequest(raw)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}
	if req.Operand, err = runner.SanitizeInput(req.Operand); err != nil {
		s.writeError(w, "begin operation", err)
		return
	}

	tr, err := s.Engine.Begin(r.Context(), sessionID, req)
	if err != nil {
		s.writeError(w, "begin operation", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, tr)
}

// GetPending handles GET /sessions/{sessionID}/pending.
func (s *Server) GetPending(w http.ResponseWriter, r *http.Request) {
	tr, ok := s.Engine.Pending(chi.URLParam(r, "sessionID"))
	if !ok {
		s.writeError(w, "get pending", domain.ErrNoPendingOperation)
		return
	}
	s.writeJSON(w, http.StatusOK, tr)
}

// Resolve handles POST /sessions/{sessionID}/resolve.
func (s *Server) Resolve(w http.ResponseWriter, r *http.Request) {
	res, err := s.Engine.Resolve(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, "resolve", err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// Abort handles POST /sessions/{sessionID}/abort.
func (s *Server) Abort(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.Abort(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, "abort", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStructure handles GET /sessions/{sessionID}/structures/{family}.
// With ?format=mermaid it returns the diagram as text instead of the JSON envelope.
func (s *Server) GetStructure(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Engine.Snapshot(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "family"))
	if err != nil {
		s.writeError(w, "get structure", err)
		return
	}

	if r.URL.Query().Get("format") == "mermaid" {
		diagram, err := graph.GenerateMermaid(snap, nil)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(diagram))
		return
	}

	env, err := structure.EncodeSnapshot(snap)
	if err != nil {
		s.writeError(w, "get structure", err)
		return
	}
	s.writeJSON(w, http.StatusOK, env)
}

// ResetStructure handles DELETE /sessions/{sessionID}/structures/{family}.
func (s *Server) ResetStructure(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.Reset(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "family")); err != nil {
		s.writeError(w, "reset structure", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
