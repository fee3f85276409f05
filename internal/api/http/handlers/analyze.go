package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gitlab.com/nevasik7/alerting/logger"

	"dexsentry/internal/service"
	"dexsentry/pkg/httputil"
)

type analyzeRequest struct {
	ChainID      string `json:"chain_id"`
	TokenAddress string `json:"token_address"`
}

// Analyze runs one full pipeline invocation for the requested token and
// returns the freshly built report.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", "invalid request body", nil, h.Log)
		return
	}

	report, err := h.Sentry.AnalyzeToken(r.Context(), req.ChainID, req.TokenAddress)
	switch {
	case errors.Is(err, service.ErrMissingArgument):
		writeError(w, r, http.StatusBadRequest, "bad_request", service.ErrMissingArgument.Error(), nil, h.Log)
		return
	case errors.Is(err, service.ErrNoPairData):
		writeError(w, r, http.StatusNotFound, "no_pair_data", service.ErrNoPairData.Error(), map[string]any{
			"chain_id":      req.ChainID,
			"token_address": req.TokenAddress,
		}, h.Log)
		return
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, "internal_error", "analyze failed", nil, h.Log)
		return
	}

	writeJSON(w, http.StatusOK, report, h.Log)
}

// StoredReport serves the last persisted report for a token.
func (h *Handler) StoredReport(w http.ResponseWriter, r *http.Request) {
	chainID := chi.URLParam(r, "chain")
	tokenAddress := chi.URLParam(r, "address")

	report, err := h.Sentry.StoredReport(r.Context(), chainID, tokenAddress)
	switch {
	case errors.Is(err, service.ErrMissingArgument):
		writeError(w, r, http.StatusBadRequest, "bad_request", service.ErrMissingArgument.Error(), nil, h.Log)
		return
	case errors.Is(err, service.ErrNoStoredReport):
		writeError(w, r, http.StatusNotFound, "no_stored_report", service.ErrNoStoredReport.Error(), nil, h.Log)
		return
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, "internal_error", "load failed", nil, h.Log)
		return
	}

	writeJSON(w, http.StatusOK, report, h.Log)
}

func writeJSON(w http.ResponseWriter, status int, body any, log logger.Logger) {
	if err := httputil.JSON(w, status, body, nil); err != nil {
		log.Errorf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string, details any, log logger.Logger) {
	if err := httputil.Error(w, r, status, code, msg, details); err != nil {
		log.Errorf("Failed to write error response: %v", err)
	}
}
