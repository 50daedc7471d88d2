// Package server exposes the feed store over HTTP for presenters that do
// not run in-process.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/frugal-feed/internal/domain"
	"github.com/orgball2608/frugal-feed/internal/feed"
	"github.com/orgball2608/frugal-feed/internal/ratelimit"
	"github.com/orgball2608/frugal-feed/pkg/errors"
	"github.com/orgball2608/frugal-feed/pkg/logger"
)

type Opts struct {
	Store          feed.Store
	Logger         logger.Logger
	Limiter        ratelimit.Limiter
	Friends        []string
	RefreshTimeout time.Duration
	Clock          clockwork.Clock
}

type Server struct {
	store          feed.Store
	logger         logger.Logger
	limiter        ratelimit.Limiter
	friends        []string
	refreshTimeout time.Duration
	clock          clockwork.Clock
	router         chi.Router
}

func New(opts Opts) *Server {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = 30 * time.Second
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.NewInMemoryLimiter(0, 0, 0)
	}
	s := &Server{
		store:          opts.Store,
		logger:         opts.Logger.WithComponent("HTTPServer"),
		limiter:        opts.Limiter,
		friends:        opts.Friends,
		refreshTimeout: opts.RefreshTimeout,
		clock:          opts.Clock,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.NotFound(s.handleNotFound)

	r.Get("/healthz", s.handleHealth)
	r.Get("/friends", s.handleFriends)

	r.Route("/feed", func(r chi.Router) {
		r.Get("/", s.handleView)
		r.Post("/refresh", s.handleRefresh)
		r.Put("/filter/{filter}", s.handleSetFilter)
		r.Delete("/error", s.handleClearError)
		r.Post("/items/{id}/like", s.handleToggleLike)
		r.Post("/items/{id}/tags/{friend}", s.handleToggleTag)
	})

	s.router = r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, errors.Wrap(errors.ErrNotFound, "no route for "+r.URL.Path))
}

func (s *Server) handleFriends(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"friends": s.friends})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.render(s.store.View()))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	client := clientKey(r)
	if !s.limiter.Allow(client) {
		s.logger.Warn("Refresh throttled", "client", client)
		s.writeError(w, errors.Wrap(errors.ErrRateLimited, "refresh throttled"))
		return
	}

	// The fetch is shared by every caller, so a client hanging up must not
	// cancel it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.refreshTimeout)
	defer cancel()

	if err := s.store.Refresh(ctx); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.render(s.store.View()))
}

func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	f, ok := domain.ParseFilter(chi.URLParam(r, "filter"))
	if !ok {
		s.writeError(w, errors.WrapWithCode(errors.ErrInvalidInput, errors.CodeInvalidInput, "unknown filter"))
		return
	}
	s.store.SetFilter(f)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearError(w http.ResponseWriter, r *http.Request) {
	s.store.ClearError()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := s.itemID(w, r)
	if !ok {
		return
	}
	s.store.ToggleLike(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleTag(w http.ResponseWriter, r *http.Request) {
	id, ok := s.itemID(w, r)
	if !ok {
		return
	}
	// chi matches on RawPath when the request carried one, and only then
	// is the parameter still escaped.
	friend := chi.URLParam(r, "friend")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(friend)
		if err != nil {
			s.writeError(w, errors.WrapWithCode(err, errors.CodeInvalidInput, "bad friend name"))
			return
		}
		friend = unescaped
	}
	s.store.ToggleFriendTag(id, friend)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) itemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, errors.WrapWithCode(err, errors.CodeInvalidInput, "bad item id"))
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Warn("Request failed", "status", status, "error", err)
	}
	s.writeJSON(w, status, errorResponse{
		Error:   err.Error(),
		Message: errors.GetMessage(err),
		Code:    errors.GetCode(err),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsRateLimited(err):
		return http.StatusTooManyRequests
	case errors.IsFetchFailed(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// clientKey is the socket peer address. Forwarding headers are ignored
// because the client controls them.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
