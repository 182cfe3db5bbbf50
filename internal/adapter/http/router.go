package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/restoledger/internal/adapter/http/handler"
	"github.com/iho/restoledger/internal/adapter/http/middleware"
	"github.com/iho/restoledger/internal/infrastructure/metrics"
	"github.com/iho/restoledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AnalyticsHandler *handler.AnalyticsHandler
	LedgerHandler    *handler.LedgerHandler
	KDSHandler       *handler.KDSHandler
	MenuHandler      *handler.MenuHandler
	ExpenseHandler   *handler.ExpenseHandler
	MovementHandler  *handler.MovementHandler
	SessionHandler   *handler.SessionHandler
	HealthHandler    *handler.HealthHandler

	Logger         zerolog.Logger
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler

	// LoginLimiter throttles login attempts per client IP.
	LoginLimiter *middleware.RateLimiter
	// SessionVerifier guards /api/v1 when set.
	SessionVerifier middleware.SessionVerifier

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Session endpoints sit outside the guard.
		r.Route("/session", func(r chi.Router) {
			login := http.HandlerFunc(cfg.SessionHandler.Login)
			if cfg.LoginLimiter != nil {
				r.With(cfg.LoginLimiter.Limit).Post("/login", login)
			} else {
				r.Post("/login", login)
			}
			r.Get("/me", cfg.SessionHandler.Me)
		})

		r.Group(func(r chi.Router) {
			if cfg.SessionVerifier != nil {
				r.Use(middleware.RequireSession(cfg.SessionVerifier))
			}
			// Idempotency middleware for mutating requests
			if cfg.IdempotencyStore != nil {
				r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
			}

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/sales", cfg.AnalyticsHandler.Sales)
				r.Get("/summary", cfg.AnalyticsHandler.Summary)
				r.Get("/top-dishes", cfg.AnalyticsHandler.TopDishes)
			})

			r.Route("/ledger", func(r chi.Router) {
				r.Get("/", cfg.LedgerHandler.List)
				r.Get("/export", cfg.LedgerHandler.Export)
				r.Get("/monthly", cfg.LedgerHandler.Monthly)
			})

			r.Route("/kds", func(r chi.Router) {
				r.Get("/board", cfg.KDSHandler.Board)
				r.Get("/history", cfg.KDSHandler.History)
				r.Patch("/orders/{id}", cfg.KDSHandler.UpdateStatus)
			})

			r.Route("/menu", func(r chi.Router) {
				r.Get("/", cfg.MenuHandler.List)
				r.Post("/", cfg.MenuHandler.Create)
				r.Get("/{id}", cfg.MenuHandler.Get)
				r.Put("/{id}", cfg.MenuHandler.Update)
				r.Delete("/{id}", cfg.MenuHandler.Delete)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", cfg.ExpenseHandler.List)
				r.Post("/", cfg.ExpenseHandler.Create)
				r.Get("/categories", cfg.ExpenseHandler.Categories)
				r.Get("/export", cfg.ExpenseHandler.Export)
				r.Put("/{id}", cfg.ExpenseHandler.Update)
				r.Delete("/{id}", cfg.ExpenseHandler.Delete)
			})

			r.Route("/movements", func(r chi.Router) {
				r.Get("/", cfg.MovementHandler.List)
				r.Post("/", cfg.MovementHandler.Create)
			})
		})
	})

	return r
}
