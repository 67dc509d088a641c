package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/surtidoapp/procurement-backend/api/controllers"
	"github.com/surtidoapp/procurement-backend/api/routes"
	"github.com/surtidoapp/procurement-backend/internal/notifications"
	"github.com/surtidoapp/procurement-backend/internal/procurement"
	"github.com/surtidoapp/procurement-backend/internal/suppliers"
	"github.com/surtidoapp/procurement-backend/pkg/config"
	"github.com/surtidoapp/procurement-backend/pkg/db"
	"github.com/surtidoapp/procurement-backend/pkg/logger"
	"github.com/surtidoapp/procurement-backend/pkg/metrics"
	"github.com/surtidoapp/procurement-backend/pkg/migrate"
	"github.com/surtidoapp/procurement-backend/pkg/pubsub"
	"github.com/surtidoapp/procurement-backend/pkg/redis"
	"github.com/surtidoapp/procurement-backend/pkg/relay"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	locker, err := redis.NewRequestLocker(redisClient, cfg.Scoring.LockTTL, cfg.Scoring.LockRetries)
	if err != nil {
		logg.Error(context.Background(), "failed to create request locker", err)
		os.Exit(1)
	}

	var relayClient *relay.Client
	if strings.TrimSpace(cfg.Relay.BaseURL) != "" {
		relayClient, err = relay.NewClient(cfg.Relay, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create relay client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "relay not configured, supplier solicitations disabled")
	}

	var eventsClient *pubsub.Client
	if cfg.PubSub.Enabled() {
		eventsClient, err = pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create pubsub client", err)
			os.Exit(1)
		}
		defer func() {
			if err := eventsClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
	}

	notificationsService, err := notifications.NewService(
		notifications.NewRepository(dbClient.DB()),
		logg,
		eventsClient,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	procurementService, err := procurement.NewService(
		procurement.NewRepository(dbClient.DB()),
		dbClient,
		locker,
		notificationsService,
		logg,
		procurement.DefaultWeights(cfg.Scoring),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create procurement service", err)
		os.Exit(1)
	}

	suppliersRepo := suppliers.NewRepository(dbClient.DB())
	var suppliersService suppliers.Service
	if relayClient != nil {
		suppliersService, err = suppliers.NewService(suppliersRepo, relayClient, logg)
	} else {
		suppliersService, err = suppliers.NewService(suppliersRepo, nil, logg)
	}
	if err != nil {
		logg.Error(context.Background(), "failed to create suppliers service", err)
		os.Exit(1)
	}

	webhookMetrics := metrics.NewWebhookMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	readinessPings := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}
	if eventsClient != nil {
		readinessPings["pubsub"] = eventsClient
	}

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			Redis:       redisClient,
			Metrics:     webhookMetrics,
			Procurement: procurementService,
			Suppliers:   suppliersService,
			ReadinessPings: readinessPings,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
