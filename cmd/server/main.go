package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/iho/restoledger/internal/adapter/backend"
	httpAdapter "github.com/iho/restoledger/internal/adapter/http"
	"github.com/iho/restoledger/internal/adapter/http/handler"
	"github.com/iho/restoledger/internal/adapter/http/middleware"
	redisRepo "github.com/iho/restoledger/internal/adapter/repository/redis"
	"github.com/iho/restoledger/internal/aggregate"
	"github.com/iho/restoledger/internal/infrastructure/auth"
	"github.com/iho/restoledger/internal/infrastructure/config"
	appLog "github.com/iho/restoledger/internal/infrastructure/logger"
	"github.com/iho/restoledger/internal/infrastructure/metrics"
	"github.com/iho/restoledger/internal/infrastructure/redis"
	"github.com/iho/restoledger/internal/usecase"
)

const limiterCleanupInterval = 10 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := appLog.New(appLog.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error().Err(err).Msg("server failed")
		stop()
		os.Exit(1)
	}

	appLogger.Info().Msg("server stopped")
}

// app is the wired HTTP application.
type app struct {
	router  http.Handler
	limiter *middleware.RateLimiter
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

// newApp wires repositories, use cases and handlers from cfg. Metrics are
// registered with reg.
func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg *prometheus.Registry) (*app, error) {
	a := &app{}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	calendar := aggregate.NewCalendar(loc)

	m := metrics.New(reg)

	// Restaurant backend
	client, err := backend.NewClient(backend.Config{
		BaseURL:    cfg.BackendURL,
		Timeout:    cfg.BackendTimeout,
		ForceHTTPS: cfg.BackendForceHTTPS,
		MaxRetries: cfg.BackendMaxRetries,
	}, appLog.Component(logger, "backend"), m)
	if err != nil {
		return nil, fmt.Errorf("invalid backend configuration: %w", err)
	}
	logger.Info().Str("backend", client.BaseURL()).Msg("using restaurant backend")

	var menuRepo usecase.MenuRepository = backend.NewMenuRepository(client)
	orderRepo := backend.NewOrderRepository(client)
	expenseRepo := backend.NewExpenseRepository(client)
	movementRepo := backend.NewMovementRepository(client)

	checks := []handler.Check{{Name: "backend", Ping: client.Ping}}

	// Redis is optional
	var idempotencyStore usecase.IdempotencyStore
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, redisClient.Close)
		logger.Info().Msg("connected to redis")

		cache := redisRepo.NewCache(redisClient)
		menuRepo = redisRepo.NewCachingMenuRepository(menuRepo, cache, cfg.CacheTTL, m, appLog.Component(logger, "cache"))
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		checks = append(checks, handler.Check{Name: "redis", Ping: redisPing(redisClient)})
	} else {
		logger.Warn().Msg("REDIS_URL not set: menu cache and idempotency keys disabled")
	}

	// Initialize use cases
	analyticsUC := usecase.NewAnalyticsUseCase(menuRepo, orderRepo, calendar, m)
	ledgerUC := usecase.NewLedgerUseCase(menuRepo, orderRepo, expenseRepo, movementRepo, calendar, m)
	kdsUC := usecase.NewKDSUseCase(menuRepo, orderRepo, calendar)
	menuUC := usecase.NewMenuUseCase(menuRepo)
	expenseUC := usecase.NewExpenseUseCase(expenseRepo)
	movementUC := usecase.NewMovementUseCase(movementRepo)
	sessionUC := usecase.NewSessionUseCase(
		auth.NewSessionManager(cfg.SessionSecret),
		auth.NewULIDGenerator(),
		usecase.SessionConfig{
			AllowedEmails: cfg.AdminEmails,
			PasswordHash:  cfg.AdminPasswordHash,
			TTL:           cfg.SessionTTL,
		},
		m,
	)

	a.limiter = middleware.NewRateLimiter(cfg.LoginRate, cfg.LoginBurst, m)

	routerCfg := httpAdapter.RouterConfig{
		AnalyticsHandler: handler.NewAnalyticsHandler(analyticsUC, calendar),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC),
		KDSHandler:       handler.NewKDSHandler(kdsUC),
		MenuHandler:      handler.NewMenuHandler(menuUC),
		ExpenseHandler:   handler.NewExpenseHandler(expenseUC),
		MovementHandler:  handler.NewMovementHandler(movementUC),
		SessionHandler:   handler.NewSessionHandler(sessionUC),
		HealthHandler:    handler.NewHealthHandler(checks...),
		Logger:           logger,
		Metrics:          m,
		MetricsHandler:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		LoginLimiter:     a.limiter,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
	}
	if cfg.AuthEnabled {
		routerCfg.SessionVerifier = sessionUC
	} else {
		logger.Warn().Msg("AUTH_ENABLED=false: API is not session guarded")
	}

	a.router = httpAdapter.NewRouter(routerCfg)
	return a, nil
}

func redisPing(client *goredis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := newApp(ctx, cfg, logger, reg)
	if err != nil {
		return err
	}
	defer a.Close()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(limiterCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := a.limiter.Cleanup(limiterCleanupInterval); n > 0 {
					logger.Debug().Int("removed", n).Msg("pruned idle rate limiters")
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
