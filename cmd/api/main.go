package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	"github.com/cimillas/ticket-sales/internal/app"
	"github.com/cimillas/ticket-sales/internal/cache"
	"github.com/cimillas/ticket-sales/internal/clock"
	"github.com/cimillas/ticket-sales/internal/config"
	"github.com/cimillas/ticket-sales/internal/logging"
	"github.com/cimillas/ticket-sales/internal/metrics"
	"github.com/cimillas/ticket-sales/internal/storage/postgres"
	transporthttp "github.com/cimillas/ticket-sales/internal/transport/http"
	"github.com/cimillas/ticket-sales/internal/vault"
	"github.com/cimillas/ticket-sales/migrations"
)

const startupTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger := logging.Setup(os.Stderr, cfg.LogLevel, cfg.Environment == config.Production)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", logging.Err(err))
		os.Exit(2)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("api stopped with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	startupCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	pool, err := openPool(startupCtx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrations.Apply(startupCtx, pool, logger); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	keyring, err := vault.NewKeyringFromBase64(cfg.Vault.Key, cfg.Vault.PreviousKeys...)
	if err != nil {
		return fmt.Errorf("card vault: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.New(reg)
	collector.WatchPool(pool)

	readiness := []transporthttp.Dependency{
		{Name: "postgres", Check: pool.Ping},
	}

	clk := clock.NewSystem()
	eventOpts := []app.EventServiceOption{}
	if cfg.Redis.URL != "" {
		client, err := cache.NewRedisClient(startupCtx, cfg.Redis.URL, startupTimeout)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		listing := cache.NewListingCache(client, cfg.Redis.CacheTTL, logger, collector)
		eventOpts = append(eventOpts, app.WithListingCache(listing))
		readiness = append(readiness, transporthttp.Dependency{Name: "redis", Check: redisCheck(client)})
		logger.Info("events listing cache enabled", "ttl", cfg.Redis.CacheTTL)
	} else {
		logger.Warn("REDIS_URL not set, events listing cache disabled")
	}

	tickets := postgres.NewTicketRepository(pool, postgres.WithLockTimeout(cfg.Sale.LockTimeout))
	services := transporthttp.Services{
		Tickets: app.NewTicketService(tickets, clk),
		Sales: app.NewSaleService(tickets, clk,
			app.WithMaxAttempts(cfg.Sale.MaxAttempts),
			app.WithSaleRecorder(collector),
		),
		Events: app.NewEventService(postgres.NewEventRepository(pool), clk, eventOpts...),
		Cards:  app.NewCardService(postgres.NewCardRepository(pool), keyring, clk),
	}

	handler := transporthttp.NewRouter(services, transporthttp.RouterOptions{
		Logger:         logger,
		Metrics:        collector,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		Readiness:      readiness,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	logger.Info("api listening", "addr", server.Addr, "environment", cfg.Environment)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var serveErr error
	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("serve: %w", err)
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("server shutdown error", logging.Err(err))
	}
	logger.Info("server stopped")
	return serveErr
}

func openPool(ctx context.Context, db config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(db.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if db.MaxConns > 0 {
		poolCfg.MaxConns = db.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return pool, nil
}

func redisCheck(client *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
