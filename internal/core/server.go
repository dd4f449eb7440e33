// Package core provides the HTTP chassis for the meteogram service: a chi
// router with the cross-cutting middleware chain (recovery, timeouts, request
// correlation, structured logging) and the standard response envelopes,
// applied before requests reach the meteogram handler.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"meteogram/internal/config"
	"meteogram/internal/meteogram"
)

// PlanBuilder runs the meteogram pipeline once and returns the chart plan.
type PlanBuilder interface {
	Build(ctx context.Context) (*meteogram.Plan, error)
}

// Server bundles the HTTP surface's dependencies for injection in tests.
type Server struct {
	Config *config.Config
	Plans  PlanBuilder
	Logger *slog.Logger

	router *chi.Mux
}

// NewServer builds the server and fails fast on missing dependencies. The
// caller mounts routes after construction.
func NewServer(cfg *config.Config, plans PlanBuilder, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if plans == nil {
		return nil, fmt.Errorf("plan builder must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	return &Server{
		Config: cfg,
		Plans:  plans,
		Logger: logger,
		router: chi.NewRouter(),
	}, nil
}

// Handler returns the router for http.ListenAndServe and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// MountRoutes registers the middleware chain and all endpoints. Middleware
// order matters: the recoverer is outermost so it catches everything, the
// timeout binds before any work starts, and the request ID exists before the
// logger reads it.
func (s *Server) MountRoutes() {
	s.router.Use(s.Recoverer)
	s.router.Use(ContextTimeoutMiddleware(s.Config.Server.RequestTimeout))
	s.router.Use(RequestIDMiddleware)
	s.router.Use(RequestLogger(s.Logger))

	s.router.Get("/health", s.HandleHealth)
	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/meteogram", s.HandleMeteogram)
	})
}

// HandleHealth reports process liveness. It deliberately probes nothing:
// both upstreams are metered third-party APIs, and burning quota on every
// load-balancer poll would starve real renders.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	JSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

// HandleMeteogram runs the full pipeline and returns the assembled plan in
// the standard envelope. Calendar events dropped from the overlay surface as
// meta warnings rather than failing the request.
func (s *Server) HandleMeteogram(w http.ResponseWriter, r *http.Request) {
	plan, err := s.Plans.Build(r.Context())
	if err != nil {
		Error(w, r, err)
		return
	}

	resp := APIResponse{Data: plan}
	if len(plan.DroppedEvents) > 0 {
		resp.Meta = &ResponseMeta{
			Warnings: []string{fmt.Sprintf("%d calendar event(s) dropped from overlay", len(plan.DroppedEvents))},
		}
	}
	JSON(w, r, http.StatusOK, resp)
}
