package mw

import (
	"net/http"
	"strings"

	"dexsentry/internal/config"
)

// CORSMiddleware sets the Access-Control headers on every response and
// short-circuits OPTIONS preflights with a 204. Header values are
// joined once at construction.
type CORSMiddleware struct {
	origins string
	methods string
	headers string
}

func NewCORS(cfg *config.CORSConfig) *CORSMiddleware {
	if cfg == nil {
		panic("CORS config cannot be nil")
	}
	return &CORSMiddleware{
		origins: joinOrDefault(cfg.Origins, "*"),
		methods: joinOrDefault(cfg.Methods, "GET, POST, OPTIONS"),
		headers: joinOrDefault(cfg.Headers, "Authorization, Content-Type"),
	}
}

func (c *CORSMiddleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", c.origins)
			w.Header().Set("Access-Control-Allow-Methods", c.methods)
			w.Header().Set("Access-Control-Allow-Headers", c.headers)
			w.Header().Set("Vary", "Origin")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func joinOrDefault(values []string, def string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return def
	}
	return strings.Join(kept, ",")
}
