// Package http exposes the turn pipeline over a small JSON API. The server
// owns the clarification context flow: it loads a user's stored context into
// each request and saves or clears it based on the outcome, so stateless
// clients still get working follow-up turns.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mealgraph/mealgraph/pkg/domain"
	"github.com/mealgraph/mealgraph/pkg/pipeline"
	"github.com/mealgraph/mealgraph/pkg/ports"
)

// Turner processes one turn; implemented by pipeline.Pipeline.
type Turner interface {
	Turn(ctx context.Context, req pipeline.TurnRequest) (pipeline.TurnResponse, error)
}

// Server handles the JSON API.
type Server struct {
	turner   Turner
	contexts ports.ContextStore
	logger   *slog.Logger
}

// Option configures the server.
type Option func(*Server)

// WithContextStore enables cross-turn clarification context.
func WithContextStore(store ports.ContextStore) Option {
	return func(s *Server) { s.contexts = store }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewHandler builds the router. metricsHandler may be nil to omit /metrics.
func NewHandler(turner Turner, metricsHandler http.Handler, opts ...Option) http.Handler {
	s := &Server{
		turner: turner,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Post("/turn", s.turn)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) turn(w http.ResponseWriter, r *http.Request) {
	var req pipeline.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.UserID <= 0 || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id and message are required"})
		return
	}

	// A context supplied by the client wins over the stored one.
	if req.Context.Empty() && s.contexts != nil {
		pc, err := s.contexts.Load(r.Context(), req.UserID)
		switch {
		case err == nil:
			req.Context = pc
		case errors.Is(err, domain.ErrContextNotFound):
		default:
			s.logger.Warn("context load failed", "user_id", req.UserID, "err", err)
		}
	}

	resp, err := s.turner.Turn(r.Context(), req)
	if err != nil {
		s.logger.Error("turn failed", "user_id", req.UserID, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	s.persistContext(r.Context(), req.UserID, resp)
	writeJSON(w, http.StatusOK, resp)
}

// persistContext stores candidates and selection while a question is open
// and clears them once the turn completed.
func (s *Server) persistContext(ctx context.Context, userID int64, resp pipeline.TurnResponse) {
	if s.contexts == nil {
		return
	}
	if resp.NeedsClarification {
		err := s.contexts.Save(ctx, userID, domain.PriorContext{
			Candidates: resp.Candidates,
			Selected:   resp.Selected,
		})
		if err != nil {
			s.logger.Warn("context save failed", "user_id", userID, "err", err)
		}
		return
	}
	if err := s.contexts.Delete(ctx, userID); err != nil {
		s.logger.Warn("context delete failed", "user_id", userID, "err", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
