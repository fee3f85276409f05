package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dexsentry/internal/api/http/handlers"
	"dexsentry/internal/api/http/mw"
	"dexsentry/internal/metrics"
)

func BuildRouter(
	h *handlers.Handler,
	logMW *mw.LoggingMiddleware,
	corsMW *mw.CORSMiddleware,
	rateLimitMW *mw.RateLimitMiddleware,
	jwtMW *mw.JWTMiddleware,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	if logMW != nil {
		r.Use(logMW.Handler)
	}
	if corsMW != nil {
		r.Use(corsMW.Handler())
	}

	// tech endpoints, no auth
	r.Get("/healthz", h.Healthz)
	r.Get("/readiness", h.Readiness)
	r.Mount("/metrics", metrics.Handler())

	// business endpoints behind rate limit and optional jwt
	protected := chi.NewRouter()
	if rateLimitMW != nil {
		protected.Use(rateLimitMW.Handler)
	}
	if jwtMW != nil {
		protected.Use(jwtMW.Handler)
	}

	protected.Route("/api", func(apiR chi.Router) {
		apiR.Post("/analyze", h.Analyze)
		apiR.Route("/tokens", func(tt chi.Router) {
			tt.Get("/{chain}/{address}/report", h.StoredReport)
		})
	})

	r.Mount("/", protected)
	return r
}
