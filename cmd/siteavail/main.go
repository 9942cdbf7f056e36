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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	sitesapp "siteavail/internal/app/handlers/sites"
	"siteavail/internal/app/middleware"
	"siteavail/internal/app/policies"
	"siteavail/internal/app/queries"
	"siteavail/internal/app/services/siteavailability"
	"siteavail/internal/domain/availability"
	"siteavail/internal/domain/bookings"
	"siteavail/internal/domain/sites"
	"siteavail/internal/infra/broker/kafka"
	rediscache "siteavail/internal/infra/cache/redis"
	"siteavail/internal/infra/config"
	mongostore "siteavail/internal/infra/db/mongo"
	ginserver "siteavail/internal/infra/http/gin"
	"siteavail/internal/infra/obs"
	"siteavail/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger("prod", "error").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env, cfg.LogLevel)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := obs.NewMetrics(registry)

	app, err := buildApplication(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("application bootstrap failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Checks: app.readiness,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		app.close(shutdownCtx, logger)
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers  ginserver.Handlers
	readiness map[string]obs.Check
	closers   []func(context.Context) error
}

type repositories struct {
	sites    sites.Repository
	bookings bookings.Repository
	blocks   availability.BlockRepository
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger, metrics *obs.Metrics) (*application, error) {
	app := &application{readiness: map[string]obs.Check{}}

	repos, err := app.storage(ctx, cfg, logger)
	if err != nil {
		app.close(ctx, logger)
		return nil, err
	}

	if cfg.CacheEnabled() {
		rc, err := rediscache.NewClient(cfg.RedisURL)
		if err != nil {
			app.close(ctx, logger)
			return nil, err
		}
		app.readiness["redis"] = rc.Ping
		app.closers = append(app.closers, func(context.Context) error { return rc.Close() })
		repos.sites = &rediscache.SiteRepository{
			Inner:  repos.sites,
			Store:  rc,
			TTL:    cfg.SiteCacheTTL,
			Logger: logger,
			Stats:  metrics,
		}
		logger.Info("site cache enabled", "ttl", cfg.SiteCacheTTL)
	}

	diagnostics := policies.MultiDiagnostics{obs.DiagnosticsRecorder{Logger: logger, Metrics: metrics}}
	if cfg.DiagnosticsToKafka() {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			app.close(ctx, logger)
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		app.closers = append(app.closers, func(context.Context) error { return producer.Close() })
		diagnostics = append(diagnostics, kafka.DiagnosticsPublisher{Producer: producer, Topic: cfg.KafkaDiagnosticsTopic})
		logger.Info("diagnostics publishing enabled", "topic", cfg.KafkaDiagnosticsTopic)
	}

	svc := &siteavailability.Service{
		Sites:         repos.sites,
		Bookings:      repos.bookings,
		Blocks:        repos.blocks,
		Diagnostics:   diagnostics,
		Logger:        logger,
		MaxWindowDays: cfg.MaxWindowDays,
	}

	queryBus := queries.NewInMemoryBus()
	sitesapp.Register(queryBus, svc)
	queryBusWithMiddleware := middleware.ChainQueries(
		queryBus,
		middleware.QueryMetrics(metrics),
		middleware.QueryLogging(logger),
		middleware.QueryTimeout(cfg.QueryTimeout),
		middleware.QueryValidation(middleware.NewStructValidator()),
	)
	logger.Debug("query handlers registered", "keys", queryBus.Keys())

	app.handlers = ginserver.Handlers{
		Sites:   ginserver.SiteHandler{Queries: queryBusWithMiddleware},
		Metrics: metrics,
	}
	return app, nil
}

func (a *application) storage(ctx context.Context, cfg config.Config, logger *slog.Logger) (repositories, error) {
	switch cfg.StorageMode {
	case config.StorageMongo:
		client, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return repositories{}, fmt.Errorf("mongo connect: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		a.readiness["mongo"] = client.Ping
		if err := client.EnsureIndexes(ctx); err != nil {
			logger.Warn("mongo index creation failed", "error", err)
		}
		return repositories{
			sites:    mongostore.NewSiteRepository(client.DB),
			bookings: mongostore.NewBookingRepository(client.DB),
			blocks:   mongostore.NewBlockRepository(client.DB),
		}, nil
	default:
		store := memory.NewStore()
		if err := store.LoadFixtures(ctx, cfg.SiteFixtures, cfg.DefaultCurrency, logger); err != nil {
			logger.Warn("site fixtures load failed", "error", err, "path", cfg.SiteFixtures)
		}
		return repositories{sites: store.Sites, bookings: store.Bookings, blocks: store.Blocks}, nil
	}
}

func (a *application) close(ctx context.Context, logger *slog.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.Warn("shutdown step failed", "error", err)
		}
	}
	a.closers = nil
}
