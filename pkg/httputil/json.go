package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// Envelope is the uniform response wrapper: {"status":"ok","data":...}
// for payloads, {"status":"error","error":...} for APIError bodies.
type Envelope map[string]any

type APIError struct {
	Code    string `json:"code"` // example "bad_request", "not_found"
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// JSON writes body wrapped in an Envelope. A nil body with 204 writes
// headers only, no content type.
func JSON(w http.ResponseWriter, status int, body any, headers map[string]string) error {
	for k, v := range headers {
		w.Header().Set(k, v)
	}

	if body == nil && status == http.StatusNoContent {
		w.WriteHeader(status)
		return nil
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	return enc.Encode(wrap(body))
}

func wrap(body any) Envelope {
	switch body.(type) {
	case *APIError, APIError:
		return Envelope{"status": "error", "error": body}
	default:
		return Envelope{"status": "ok", "data": body}
	}
}

// Error writes an APIError carrying the request id as trace_id.
func Error(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) error {
	return JSON(w, status, APIError{
		Code:    code,
		Message: message,
		Details: details,
		TraceID: middleware.GetReqID(r.Context()),
	}, map[string]string{
		"Cache-Control": "no-store",
	})
}
