package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func newHandler(config Config) http.Handler {
	return NewMiddleware(config).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestPreflight(t *testing.T) {
	handler := newHandler(DefaultConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/transactions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin, got %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatal("expected allowed methods header on preflight")
	}
}

func TestSimpleRequest(t *testing.T) {
	handler := newHandler(Config{
		AllowedOrigins: []string{"https://books.example.com"},
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{"Authorization"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	req.Header.Set("Origin", "https://books.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://books.example.com" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
}

func TestDisallowedOrigin(t *testing.T) {
	handler := newHandler(Config{
		AllowedOrigins: []string{"https://books.example.com"},
		AllowedMethods: []string{http.MethodGet},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow-origin header, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("request itself should still be served, got %d", rec.Code)
	}
}
