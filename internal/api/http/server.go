package http

import (
	"context"
	"net/http"
	"time"

	"gitlab.com/nevasik7/alerting/logger"

	"dexsentry/internal/api/http/handlers"
	"dexsentry/internal/api/http/mw"
	"dexsentry/internal/config"
	"dexsentry/internal/security"
	"dexsentry/internal/service"
	rds "dexsentry/internal/stores/redis"
)

type Server struct {
	log logger.Logger
	srv *http.Server
}

type ServerDeps struct {
	Logger   logger.Logger
	Cfg      *config.Config
	Redis    *rds.Client // nil disables the rate limiter
	Verifier *security.RS256Verifier
	Sentry   *service.SentryService
}

func NewServer(deps *ServerDeps) *Server {
	h := handlers.New(deps.Logger, deps.Sentry)

	logMW := mw.NewLogging(deps.Logger)

	var corsMW *mw.CORSMiddleware
	if deps.Cfg.API.HTTP.CORS.Enabled {
		corsMW = mw.NewCORS(&deps.Cfg.API.HTTP.CORS)
	}

	var rateLimitMW *mw.RateLimitMiddleware
	if deps.Redis != nil {
		rlCfg := mw.RateLimitConfig{Verifier: deps.Verifier}
		rlCfg.ByJWT.RefillPerSec = deps.Cfg.RateLimit.ByJWT.RefillPerSec
		rlCfg.ByJWT.Burst = deps.Cfg.RateLimit.ByJWT.Burst
		rlCfg.ByIP.RefillPerSec = deps.Cfg.RateLimit.ByIP.RefillPerSec
		rlCfg.ByIP.Burst = deps.Cfg.RateLimit.ByIP.Burst
		rateLimitMW = mw.NewRateLimit(deps.Redis.Client, rlCfg)
	}

	var jwtMW *mw.JWTMiddleware
	if deps.Verifier != nil {
		jwtMW = mw.NewJWT(deps.Verifier)
	}

	router := BuildRouter(h, logMW, corsMW, rateLimitMW, jwtMW)

	httpCfg := deps.Cfg.API.HTTP
	addr := httpCfg.Addr
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  orDefault(httpCfg.ReadTimeout, 10*time.Second),
		WriteTimeout: orDefault(httpCfg.WriteTimeout, 30*time.Second),
		IdleTimeout:  orDefault(httpCfg.IdleTimeout, time.Minute),
	}

	return &Server{log: deps.Logger, srv: srv}
}

func (s *Server) Start() error {
	s.log.Infof("HTTP server listening on %s", s.srv.Addr)
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
