// Package http exposes the finance service as a JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fincoach/internal/log"
	"fincoach/internal/middleware/ratelimit"
	"fincoach/internal/middleware/security"
	"fincoach/internal/middleware/trace"
	"fincoach/internal/services"
)

// Config carries the server settings taken from the application config.
type Config struct {
	Addr            string
	APIToken        string
	AllowedOrigins  []string
	RateLimitPerMin int
	ReminderWindow  time.Duration

	// Registerer and Gatherer default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

type Server struct {
	http.Server
	svc            *services.FinanceService
	rateLimiter    *ratelimit.Limiter
	reminderWindow time.Duration
	shutdownOnce   sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(cfg Config, svc *services.FinanceService) *Server {
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		svc: svc,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMin,
		}),
		reminderWindow: cfg.ReminderWindow,
	}

	detector := security.NewDetector()
	tracer := trace.NewMiddleware(detector.ExtractClientIP, trace.NewMetrics(cfg.Registerer))
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	logger := log.New(log.Config{Component: log.ComponentHTTP, Handler: slog.Default().Handler()})

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", security.TokenHeader, trace.RequestIDHeader},
		ExposedHeaders:   []string{trace.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(tracer.Middleware)
	r.Use(headers.Middleware)
	r.Use(detector.Middleware)
	r.Use(s.rateLimiter.Middleware(detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
	}))
	r.Use(log.Middleware(logger))
	r.Use(log.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(security.TokenAuth(cfg.APIToken, func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusUnauthorized, "missing or invalid token")
		}))

		r.Post("/users", s.handleCreateUser)
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/", s.handleGetUser)
			r.Put("/credit_score", s.handleUpdateCreditScore)

			r.Post("/transactions", s.handleCreateTransaction)
			r.Get("/transactions", s.handleListTransactions)
			r.Get("/transactions/{txID}", s.handleGetTransaction)
			r.Put("/transactions/{txID}", s.handleUpdateTransaction)
			r.Delete("/transactions/{txID}", s.handleDeleteTransaction)

			r.Post("/accounts", s.handleCreateAccount)
			r.Get("/accounts", s.handleListAccounts)

			r.Post("/budgets", s.handleCreateBudget)
			r.Get("/budgets", s.handleListBudgets)

			r.Post("/bill_reminders", s.handleCreateBillReminder)
			r.Get("/bill_reminders", s.handleListBillReminders)
			r.Get("/bill_reminders/upcoming", s.handleUpcomingBills)

			r.Get("/report", s.handleReport)
			r.Get("/summary", s.handleSummary)
		})
	})

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter and gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports ready once the backing store answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.svc.Ping(ctx); err != nil {
		log.FromContext(r.Context()).WarnContext(ctx, "Readiness check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
