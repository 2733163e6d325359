package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osgiliath-dev/tradepost/api/routes"
	"github.com/osgiliath-dev/tradepost/internal/inventory"
	"github.com/osgiliath-dev/tradepost/internal/offers"
	"github.com/osgiliath-dev/tradepost/internal/users"
	"github.com/osgiliath-dev/tradepost/pkg/config"
	"github.com/osgiliath-dev/tradepost/pkg/db"
	"github.com/osgiliath-dev/tradepost/pkg/logger"
	"github.com/osgiliath-dev/tradepost/pkg/metrics"
	"github.com/osgiliath-dev/tradepost/pkg/migrate"
	pkgredis "github.com/osgiliath-dev/tradepost/pkg/redis"
)

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
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	// Redis is optional: without it the API serves requests with replay
	// protection disabled.
	var idempotencyStore pkgredis.IdempotencyStore
	if cfg.Redis.Enabled() {
		redisClient, redisErr := pkgredis.New(context.Background(), cfg.Redis, logg)
		if redisErr != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", redisErr)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		idempotencyStore = redisClient
	} else {
		logg.Warn(context.Background(), "redis not configured, idempotency replay disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	inventoryRepo := inventory.NewRepository(dbClient.DB())
	offersRepo := offers.NewRepository(dbClient.DB())

	usersService, err := users.NewService(usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	offersService, err := offers.NewService(offers.ServiceParams{
		Client:        dbClient,
		UserRepo:      usersRepo,
		InventoryRepo: inventoryRepo,
		OfferRepo:     offersRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create offers service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:           cfg,
			Logger:           logg,
			DB:               dbClient,
			IdempotencyStore: idempotencyStore,
			HTTPMetrics:      httpMetrics,
			MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			UsersService:     usersService,
			InventoryService: inventoryService,
			OffersService:    offersService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
