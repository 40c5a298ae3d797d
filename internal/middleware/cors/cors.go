// Package cors handles cross-origin requests from the browser frontend.
package cors

import (
	"net/http"
	"strings"
)

// Config holds CORS configuration
type Config struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         string
}

// DefaultConfig allows any origin, matching a single-tenant deployment
// where the API sits behind the owner's own frontend.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         "600",
	}
}

// Middleware applies CORS headers to responses
type Middleware struct {
	config  Config
	methods string
	headers string
}

// NewMiddleware creates a new CORS middleware
func NewMiddleware(config Config) *Middleware {
	if len(config.AllowedOrigins) == 0 {
		config = DefaultConfig()
	}
	return &Middleware{
		config:  config,
		methods: strings.Join(config.AllowedMethods, ", "),
		headers: strings.Join(config.AllowedHeaders, ", "),
	}
}

// Handler returns the HTTP middleware function
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if allowed := m.resolveOrigin(origin); allowed != "" {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", allowed)
				h.Set("Vary", "Origin")

				if r.Method == http.MethodOptions {
					h.Set("Access-Control-Allow-Methods", m.methods)
					h.Set("Access-Control-Allow-Headers", m.headers)
					if m.config.MaxAge != "" {
						h.Set("Access-Control-Max-Age", m.config.MaxAge)
					}
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) resolveOrigin(origin string) string {
	for _, allowed := range m.config.AllowedOrigins {
		if allowed == "*" {
			return "*"
		}
		if strings.EqualFold(allowed, origin) {
			return allowed
		}
	}
	return ""
}
