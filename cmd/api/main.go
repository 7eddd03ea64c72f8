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

	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/vidingest/internal/api"
	"github.com/hszk-dev/vidingest/internal/api/handler"
	"github.com/hszk-dev/vidingest/internal/api/middleware"
	"github.com/hszk-dev/vidingest/internal/config"
	"github.com/hszk-dev/vidingest/internal/domain/repository"
	"github.com/hszk-dev/vidingest/internal/infrastructure/cache"
	"github.com/hszk-dev/vidingest/internal/infrastructure/postgres"
	"github.com/hszk-dev/vidingest/internal/infrastructure/queue"
	"github.com/hszk-dev/vidingest/internal/infrastructure/storage"
	"github.com/hszk-dev/vidingest/internal/usecase"
)

const readinessTimeout = 2 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(cfg.Database.URL); err != nil {
			return fmt.Errorf("failed to migrate catalog: %w", err)
		}
		logger.Info("catalog migrations applied")
	}

	pgCfg := postgres.DefaultClientConfig(cfg.Database.URL)
	pgCfg.MaxConns = cfg.Database.MaxConns
	pgClient, err := postgres.NewClient(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	logger.Info("connected to PostgreSQL")

	storageClient, err := storage.NewClient(ctx, storage.ClientConfig{
		Endpoint:  cfg.MinIO.Endpoint,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		Bucket:    cfg.MinIO.Bucket,
		Region:    cfg.MinIO.Region,
		UseSSL:    cfg.MinIO.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to MinIO: %w", err)
	}
	logger.Info("connected to MinIO", slog.String("bucket", storageClient.Bucket()))

	videoRepo := postgres.NewVideoRepository(pgClient.Pool())
	userRepo := postgres.NewUserRepository(pgClient.Pool())

	var orphans repository.OrphanQueue
	if cfg.OrphanQueue.Enabled {
		queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		defer queueClient.Close()
		orphans = queueClient
		logger.Info("connected to RabbitMQ")
	}

	catalogSvc := usecase.NewCatalogService(userRepo, videoRepo)
	if cfg.Cache.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Info("connected to Redis")

		catalogSvc = usecase.NewCachedCatalogService(
			catalogSvc,
			cache.NewRedisVideoCache(redisClient),
			usecase.CachedCatalogServiceConfig{CacheTTL: cfg.Cache.TTL},
		)
	}

	ingestSvc := usecase.NewIngestService(videoRepo, storageClient, orphans, usecase.DefaultIngestServiceConfig())

	r := api.NewRouter(logger, api.Handlers{
		Users:   handler.NewUserHandler(catalogSvc),
		Videos:  handler.NewVideoHandler(catalogSvc),
		Uploads: handler.NewUploadHandler(ingestSvc),
		Ready: handler.NewReadinessHandler(readinessTimeout,
			handler.ReadinessCheck{Name: "catalog", Pinger: pgClient},
			handler.ReadinessCheck{Name: "blob_store", Pinger: storageClient},
		),
	}, api.RouterConfig{
		MaxBodyBytes:       cfg.Server.MaxBodyBytes,
		StreamMaxBodyBytes: cfg.Server.StreamMaxBodyBytes,
		CORS:               middleware.DefaultCORSConfig(),
	})

	// No WriteTimeout: streamed uploads may run for as long as the client sends.
	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
