package handlers

import (
	"context"
	"net/http"
	"time"

	"gitlab.com/nevasik7/alerting/logger"

	"dexsentry/internal/service"
)

type Handler struct {
	Log    logger.Logger
	Sentry *service.SentryService
}

func New(log logger.Logger, sentry *service.SentryService) *Handler {
	if sentry == nil {
		panic("sentry service cannot be nil")
	}

	return &Handler{Log: log, Sentry: sentry}
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Readiness checks the external collaborators
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if err := h.Sentry.CheckDependency(ctx); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "dependencies_unhealthy", "dependencies check failed", map[string]any{
			"error": err.Error(),
		}, h.Log)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"dependencies": "healthy"}, h.Log)
}
