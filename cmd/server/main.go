package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/castell/luxora/internal"
	"github.com/castell/luxora/internal/address"
	"github.com/castell/luxora/internal/billing"
	"github.com/castell/luxora/internal/coupon"
	"github.com/castell/luxora/internal/events"
	"github.com/castell/luxora/internal/handler/api"
	"github.com/castell/luxora/internal/middleware"
	"github.com/castell/luxora/internal/ordernum"
	"github.com/castell/luxora/internal/postgres"
	"github.com/castell/luxora/internal/pricing"
	"github.com/castell/luxora/internal/router"
	"github.com/castell/luxora/internal/routes"
	"github.com/castell/luxora/internal/service"
	"github.com/castell/luxora/internal/shipping"
	"github.com/castell/luxora/internal/tax"
	"github.com/castell/luxora/internal/telemetry"
	"github.com/castell/luxora/internal/worker"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Error tracking
	sentryCleanup, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Env,
		Release:     cfg.Sentry.Release,
		SampleRate:  cfg.Sentry.SampleRate,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer sentryCleanup()

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Stores
	cartStore := postgres.NewCartStore(pool)
	orderStore := postgres.NewOrderStore(pool)
	catalog := postgres.NewCatalog(pool)

	// Order-number sequencer: Redis when configured, Postgres otherwise
	var sequencer ordernum.Sequencer
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
		sequencer = ordernum.NewRedisSequencer(rdb)
		logger.Info("Using Redis order-number sequencer", "addr", cfg.Redis.Addr)
	} else {
		sequencer = postgres.NewSequencer(pool)
		logger.Info("Using Postgres order-number sequencer")
	}
	numbers := ordernum.NewGenerator(sequencer)

	// Event fan-out: NATS when configured, discarded otherwise
	var emitter events.Emitter = events.NewNoop()
	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL,
			nats.Name("luxora-server"),
			nats.MaxReconnects(-1),
		)
		if err != nil {
			return fmt.Errorf("nats connection failed: %w", err)
		}
		defer nc.Drain()
		emitter = events.NewNATSEmitter(nc, logger)
		logger.Info("Connected to NATS", "url", cfg.NATS.URL)
	} else {
		logger.Warn("NATS_URL not set, real-time events disabled")
	}

	// Payment provider: Stripe when configured, mock otherwise
	var provider billing.Provider = billing.NewMockProvider()
	if cfg.Stripe.SecretKey != "" {
		provider = billing.NewStripeProvider(cfg.Stripe.SecretKey)
		logger.Info("Stripe billing provider initialized")
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, using mock billing provider")
	}

	// Pricing
	taxCalc := tax.NewPercentageCalculator(cfg.Pricing.TaxRate)
	shipQuoter := shipping.NewFlatRateQuoter(
		cfg.Pricing.ShippingFlatCents,
		cfg.Pricing.FreeShippingOverCents,
		cfg.Pricing.ShippingMethod,
	)
	calc := pricing.NewCalculator(taxCalc, shipQuoter)

	// Metrics
	businessMetrics := telemetry.NewMetrics("luxora")
	httpMetrics := middleware.NewMetrics("luxora")

	// Services
	cartService := service.NewCartService(cartStore, catalog, coupon.DefaultTable(), calc, emitter, businessMetrics, logger)
	orderService := service.NewOrderService(orderStore, provider, emitter, businessMetrics, logger)
	checkoutService := service.NewCheckoutService(cartStore, orderStore, catalog, calc, numbers, address.NewBasicValidator(), emitter, businessMetrics, logger)

	// Background cart expiry sweeper
	sweeper := worker.NewSweeper(cartStore, businessMetrics, worker.SweeperConfig{}, logger)
	go func() {
		if err := sweeper.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("cart sweeper stopped", "error", err)
		}
	}()

	// Router
	r := router.New(
		middleware.RequestID,
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
		router.CORS(cfg.CORSOrigins),
		httpMetrics.Middleware,
		router.Recovery(logger),
	)

	routes.RegisterAPIRoutes(r, routes.APIDeps{
		CartHandler:     api.NewCartHandler(cartService),
		CheckoutHandler: api.NewCheckoutHandler(checkoutService),
		OrderHandler:    api.NewOrderHandler(orderService),
		HealthHandler:   api.NewHealthHandler(pool),
		MetricsHandler:  httpMetrics.Handler(),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("Server stopped")

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
