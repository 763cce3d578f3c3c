// Package http exposes the REST API: registration and login, transaction,
// asset and budget CRUD, category lookups and the dashboard endpoints.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"finvision/internal/auth"
	"finvision/internal/cache"
	"finvision/internal/dashboard"
	"finvision/internal/services"
	"finvision/internal/storage"
)

type Server struct {
	http.Server
	store        *storage.Repository
	transactions *services.TransactionService
	dashboards   *dashboard.Service
	tokens       *auth.Tokens
	rateLimiter  *rateLimiter

	// Composed dashboard payloads, keyed dashboard:<user>:<year>-<month>.
	// Every write under a user invalidates that user's prefix.
	dashCache    *cache.Cache[dashboard.Payload]
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

// NewServer configures all routes and returns a ready-to-run server.
func NewServer(addr string, store *storage.Repository, transactions *services.TransactionService, dashboards *dashboard.Service, tokens *auth.Tokens) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:        store,
		transactions: transactions,
		dashboards:   dashboards,
		tokens:       tokens,
		rateLimiter:  newRateLimiter(),
		dashCache:    cache.New[dashboard.Payload](200, 5*time.Minute),
		stopCleanup:  make(chan struct{}),
	}
	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/users/register", s.withMiddleware(s.handleRegister))
	mux.HandleFunc("POST /api/users/login", s.withMiddleware(s.handleLogin))
	mux.HandleFunc("GET /api/users/profile", s.withMiddleware(s.requireAuth(s.handleGetProfile)))
	mux.HandleFunc("PUT /api/users/profile", s.withMiddleware(s.requireAuth(s.handleUpdateProfile)))

	mux.HandleFunc("GET /api/transactions", s.withMiddleware(s.requireAuth(s.handleListTransactions)))
	mux.HandleFunc("POST /api/transactions", s.withMiddleware(s.requireAuth(s.handleCreateTransaction)))
	mux.HandleFunc("GET /api/transactions/{id}", s.withMiddleware(s.requireAuth(s.handleGetTransaction)))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withMiddleware(s.requireAuth(s.handleUpdateTransaction)))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withMiddleware(s.requireAuth(s.handleDeleteTransaction)))

	mux.HandleFunc("GET /api/assets", s.withMiddleware(s.requireAuth(s.handleListAssets)))
	mux.HandleFunc("POST /api/assets", s.withMiddleware(s.requireAuth(s.handleCreateAsset)))
	mux.HandleFunc("GET /api/assets/{id}", s.withMiddleware(s.requireAuth(s.handleGetAsset)))
	mux.HandleFunc("PUT /api/assets/{id}", s.withMiddleware(s.requireAuth(s.handleUpdateAsset)))
	mux.HandleFunc("DELETE /api/assets/{id}", s.withMiddleware(s.requireAuth(s.handleDeleteAsset)))

	mux.HandleFunc("GET /api/budgets", s.withMiddleware(s.requireAuth(s.handleListBudgets)))
	mux.HandleFunc("POST /api/budgets", s.withMiddleware(s.requireAuth(s.handleCreateBudget)))
	mux.HandleFunc("GET /api/budgets/{id}", s.withMiddleware(s.requireAuth(s.handleGetBudget)))
	mux.HandleFunc("PUT /api/budgets/{id}", s.withMiddleware(s.requireAuth(s.handleUpdateBudget)))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.withMiddleware(s.requireAuth(s.handleDeleteBudget)))

	mux.HandleFunc("GET /api/categories/expense", s.withMiddleware(s.handleExpenseCategories))
	mux.HandleFunc("GET /api/categories/income", s.withMiddleware(s.handleIncomeCategories))

	mux.HandleFunc("GET /api/dashboard/data", s.withMiddleware(s.requireAuth(s.handleDashboardData)))
	mux.HandleFunc("GET /api/dashboard/budget", s.withMiddleware(s.requireAuth(s.handleDashboardBudget)))

	return s
}

// withMiddleware adds security headers, rate limiting and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter captures the status code for request logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.dashCache.CleanExpired(); n > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", n)
			}
		case <-s.stopCleanup:
			return
		}
	}
}

// Shutdown stops the cleanup goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCleanup)
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}
