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

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hszk-dev/vidingest/internal/config"
	"github.com/hszk-dev/vidingest/internal/infrastructure/postgres"
	"github.com/hszk-dev/vidingest/internal/infrastructure/queue"
	"github.com/hszk-dev/vidingest/internal/infrastructure/storage"
	"github.com/hszk-dev/vidingest/internal/usecase"
)

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

	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.URL))
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
	logger.Info("connected to MinIO")

	queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	reconcileSvc := usecase.NewReconcileService(
		postgres.NewVideoRepository(pgClient.Pool()),
		storageClient,
		usecase.ReconcileServiceConfig{MaxRetries: cfg.Reconciler.MaxRetries},
	)

	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.Reconciler.MetricsPort),
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	c := &consumer{queue: queueClient, svc: reconcileSvc, logger: logger}

	stop := make(chan struct{})
	go func() {
		sig := <-quit
		logger.Info("shutting down reconciler", slog.String("signal", sig.String()))
		close(stop)
	}()

	runErr := c.run(stop, cfg.Reconciler.ShutdownTimeout)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	_ = metricsSrv.Shutdown(shutdownCtx)

	if runErr != nil {
		return runErr
	}

	logger.Info("reconciler stopped")
	return nil
}
