package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homeserv/internal/api"
	"homeserv/internal/config"
	"homeserv/internal/database"
	"homeserv/internal/domain"
	"homeserv/internal/events"
	"homeserv/internal/export"
	"homeserv/internal/jobs"
	"homeserv/internal/logging"
	"homeserv/internal/metrics"
	"homeserv/internal/notify"
	"homeserv/internal/service"
	"homeserv/internal/storage"
	"homeserv/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	documents := initDocumentStore(cfg, logger)

	redisClient := initRedis(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	hub := notify.NewHub(logging.Component(logger, "ws-hub"))
	publisher := buildPublisher(cfg, redisClient, hub, logger)

	bookings := service.NewBookingService(db, publisher, logging.Component(logger, "booking-service"))
	rentals := service.NewRentalService(db, documents, publisher, logging.Component(logger, "rental-service"))

	var exporter *export.Exporter
	if cfg.Exports.Path != "" {
		exporter = export.NewExporter(db, cfg.Exports.Path, logging.Component(logger, "export"))
	}

	httpServer := api.NewHTTPServer(*cfg, bookings, rentals, exporter, hub, logging.Component(logger, "http"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cleanup := worker.NewCleanupWorker(db, documents, worker.RetryPolicy{},
		time.Duration(cfg.Jobs.CleanupIntervalSeconds)*time.Second, logging.Component(logger, "cleanup-worker"))
	go cleanup.Run(ctx)

	scheduler := jobs.NewScheduler(rentals, db, *cfg, logging.Component(logger, "scheduler"))
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("start scheduler")
		return err
	}
	defer scheduler.Stop()

	startMetrics(ctx, cfg, logger)

	return serve(ctx, httpServer, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	return cfg, logger, closer, nil
}

func initDocumentStore(cfg *config.Config, logger *zerolog.Logger) domain.DocumentStore {
	if cfg.Storage.CloudinaryURL == "" {
		logger.Warn().Msg("cloudinary not configured, storing identity documents in memory")
		return storage.NewMemoryStore()
	}

	store, err := storage.NewCloudinaryStore(cfg.Storage.CloudinaryURL, cfg.Storage.Folder)
	if err != nil {
		logger.Warn().Err(err).Msg("cloudinary init failed, storing identity documents in memory")
		return storage.NewMemoryStore()
	}

	logger.Info().Str("folder", cfg.Storage.Folder).Msg("cloudinary connected")
	return store
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// buildPublisher composes the notification fanout: redis with the in-process
// bus as failover when redis is up, the bus alone otherwise, plus the
// websocket hub in either case.
func buildPublisher(cfg *config.Config, redisClient *redis.Client, hub *notify.Hub, logger *zerolog.Logger) domain.EventPublisher {
	bus := events.NewBus()

	var primary domain.EventPublisher = bus
	if redisClient != nil {
		primary = notify.NewFailoverPublisher(
			notify.NewRedisPublisher(redisClient, cfg.Redis.Channel),
			bus,
			logging.Component(logger, "notify"),
		)
	}

	return notify.NewFanout(primary, hub)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

func serve(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("server stopped")
	return nil
}
