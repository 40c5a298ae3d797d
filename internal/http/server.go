// Package http exposes the bookkeeping API over REST.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"bukukas/internal/core"
	"bukukas/internal/middleware/cors"
	"bukukas/internal/middleware/ratelimit"
	"bukukas/internal/middleware/trace"
	"bukukas/internal/services"
)

type contextKey string

const userContextKey contextKey = "user"

// Options configures the HTTP server.
type Options struct {
	Port              string
	AuthRatePerMinute int
}

// Server routes API requests to the user and ledger services.
type Server struct {
	users   *services.UserService
	ledger  *services.LedgerService
	limiter *ratelimit.Limiter
	httpSrv *http.Server
}

// NewServer wires the router, middleware and services together.
func NewServer(users *services.UserService, ledger *services.LedgerService, opts Options) *Server {
	s := &Server{
		users:  users,
		ledger: ledger,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.AuthRatePerMinute,
			CleanupInterval:   5 * time.Minute,
		}),
	}

	s.httpSrv = &http.Server{
		Addr:         ":" + opts.Port,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler builds the full middleware and routing chain.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// Credential endpoints sit behind the rate limiter.
	authRoutes := api.PathPrefix("/auth").Subrouter()
	authRoutes.Use(s.limiter.Middleware(trace.ExtractClientIP, s.handleRateLimited))
	authRoutes.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	authRoutes.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	// Everything else requires a bearer token.
	protected := api.NewRoute().Subrouter()
	protected.Use(s.requireUser)
	protected.HandleFunc("/accounts", s.handleListAccounts).Methods(http.MethodGet)
	protected.HandleFunc("/accounts", s.handleCreateAccount).Methods(http.MethodPost)
	protected.HandleFunc("/transactions", s.handleListTransactions).Methods(http.MethodGet)
	protected.HandleFunc("/transactions", s.handleCreateTransaction).Methods(http.MethodPost)
	protected.HandleFunc("/transactions/{id}", s.handleDeleteTransaction).Methods(http.MethodDelete)
	protected.HandleFunc("/financial-summary", s.handleFinancialSummary).Methods(http.MethodGet)
	protected.HandleFunc("/reports/profit-loss/pdf", s.handleProfitLossPDF).Methods(http.MethodGet)
	protected.HandleFunc("/reports/profit-loss/excel", s.handleProfitLossExcel).Methods(http.MethodGet)
	protected.HandleFunc("/reports/balance-sheet/pdf", s.handleBalanceSheetPDF).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Detail: "Method not allowed"})
	})

	// Tracing and CORS wrap the router so preflight requests are answered
	// before route matching.
	handler := cors.NewMiddleware(cors.DefaultConfig()).Handler(r)
	return trace.NewMiddleware(trace.ExtractClientIP).Handler(handler)
}

// Start blocks serving requests until the listener fails or is closed.
func (s *Server) Start() error {
	slog.Info("HTTP server listening", "addr", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	slog.WarnContext(r.Context(), "Rate limit exceeded",
		"client_ip", trace.ExtractClientIP(r), "url", r.URL.Path)
	w.Header().Set("Retry-After", "60")
	writeJSON(w, http.StatusTooManyRequests, errorResponse{Detail: "Too many requests. Please try again later."})
}

// requireUser authenticates the bearer token and puts the resolved user
// on the request context.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "Not authenticated"})
			return
		}

		user, err := s.users.Resolve(r.Context(), strings.TrimSpace(token))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "Could not validate credentials"})
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFrom retrieves the authenticated user placed by requireUser.
func userFrom(ctx context.Context) (core.User, bool) {
	user, ok := ctx.Value(userContextKey).(core.User)
	return user, ok
}
