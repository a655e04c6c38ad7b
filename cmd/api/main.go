package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/lensfinderz-backend/api/controllers"
	"github.com/angelmondragon/lensfinderz-backend/api/routes"
	"github.com/angelmondragon/lensfinderz-backend/internal/catalog"
	"github.com/angelmondragon/lensfinderz-backend/internal/offers"
	"github.com/angelmondragon/lensfinderz-backend/pkg/config"
	"github.com/angelmondragon/lensfinderz-backend/pkg/db"
	"github.com/angelmondragon/lensfinderz-backend/pkg/instance"
	"github.com/angelmondragon/lensfinderz-backend/pkg/logger"
	"github.com/angelmondragon/lensfinderz-backend/pkg/metrics"
	"github.com/angelmondragon/lensfinderz-backend/pkg/migrate"
	"github.com/angelmondragon/lensfinderz-backend/pkg/pubsub"
	"github.com/angelmondragon/lensfinderz-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Instance:    instance.GetID(),
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	pricingMetrics := metrics.NewPricingMetrics(registry)

	providerOpts := catalog.ProviderOptions{
		CacheTTL: cfg.Offers.CatalogCacheTTL,
		Metrics:  pricingMetrics,
		Logger:   logg,
	}
	if cfg.FeatureFlags.CatalogCache {
		providerOpts.Store = redisClient
	}
	provider, err := catalog.NewProvider(catalog.NewRepository(dbClient.DB()), providerOpts)
	if err != nil {
		logg.Error(ctx, "failed to create catalog provider", err)
		os.Exit(1)
	}

	var (
		auditPublisher offers.AuditPublisher
		pubsubPinger   controllers.Pinger
	)
	if cfg.FeatureFlags.AuditEvents {
		pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		auditPublisher, err = offers.NewPubSubAuditPublisher(pubsubClient.OfferAuditPublisher())
		if err != nil {
			logg.Error(ctx, "failed to create audit publisher", err)
			os.Exit(1)
		}
		pubsubPinger = pubsubClient
	}

	offersService, err := offers.NewService(provider, auditPublisher, pricingMetrics, logg, cfg.Offers.CatalogFetchTimeout)
	if err != nil {
		logg.Error(ctx, "failed to create offers service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, pubsubPinger, registry, offersService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
