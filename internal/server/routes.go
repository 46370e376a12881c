package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TuanAnhhh123/M26-HKT/internal/middleware"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(chimw.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Handler)
	}
	if s.cfg.Tracing.Enabled {
		r.Use(s.tracing.Handler)
	}

	r.Get("/healthz", s.handleHealth)
	if s.registry != nil {
		r.Method(http.MethodGet, s.cfg.Metrics.Path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/routes", s.handleRoutes)
		r.Get("/resolve", s.handleResolve)
		r.Get("/navigate/{name}", s.handleNavigateNamed)
	})
	r.Get("/ws/navigate", s.handleNavigateWS)

	r.Handle(s.static.Prefix()+"*", s.static)

	r.Get("/*", s.handleHistory)
	r.Head("/*", s.handleHistory)

	return r
}
