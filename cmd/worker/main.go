package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/moodsphere/internal/app"
	"github.com/felixgeelhaar/moodsphere/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/moodsphere/pkg/config"
	"github.com/felixgeelhaar/moodsphere/pkg/observability"
)

func main() {
	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		observability.LoggerFromEnv("moodsphere-worker").Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.LoggerFromEnv("moodsphere-worker")
	logger.Info("starting moodsphere worker")

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	registry := eventbus.NewConsumerRegistry(logger)

	var consumer *eventbus.RabbitMQConsumer
	if cfg.HasRabbitMQ() {
		consumer, err = eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
			URL:     cfg.RabbitMQURL,
			Metrics: container.Metrics,
			Logger:  logger,
		}, registry)
		if err != nil {
			logger.Error("failed to connect to RabbitMQ", "error", err)
			container.Close()
			os.Exit(1)
		}
		consumer.RegisterConsumer(container.InsightsWarmer)
	} else {
		// Events are already handled in process by the API and CLI.
		registry.Register(container.InsightsWarmer)
		logger.Warn("RABBITMQ_URL not set; worker has nothing to consume and will idle")
	}

	if cfg.WorkerHealthAddr != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status":      "ok",
				"consuming":   consumer != nil,
				"consumers":   registry.ConsumerCount(),
				"event_types": registry.EventTypes(),
			})
		})
		mux.HandleFunc("/readyz", container.Health.Handler())

		healthSrv := &http.Server{
			Addr:              cfg.WorkerHealthAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Info("health server starting", "addr", cfg.WorkerHealthAddr)
			if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("health server error", "error", err)
			}
		}()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := healthSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("health server shutdown error", "error", err)
			}
		}()
	}

	if consumer != nil {
		go func() {
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("consumer stopped", "error", err)
				cancel()
			}
		}()
	}

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("shutting down worker")

	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Warn("error closing consumer", "error", err)
		}
	}
	logger.Info("worker stopped")
}
