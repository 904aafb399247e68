package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/moodsphere/internal/analysis/infrastructure/remote"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/services"
	"github.com/felixgeelhaar/moodsphere/internal/journal/infrastructure/cache"
	"github.com/felixgeelhaar/moodsphere/internal/journal/infrastructure/persistence"
	"github.com/felixgeelhaar/moodsphere/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/moodsphere/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/moodsphere/pkg/config"
	"github.com/redis/go-redis/v9"
)

func storeConfig(cfg *config.Config) persistence.StoreConfig {
	return persistence.StoreConfig{
		Driver:          database.Driver(cfg.DatabaseDriver),
		URL:             cfg.DatabaseURL,
		SQLitePath:      cfg.SQLitePath,
		MongoURI:        cfg.MongoURI,
		MongoDatabase:   cfg.MongoDatabase,
		MongoCollection: cfg.MongoCollection,
		AutoMigrate:     cfg.AutoMigrate,
	}
}

func newMemoryCache(cfg *config.Config) services.InsightsCache {
	return cache.NewMemoryInsightsCache(cfg.InsightsCacheTTL)
}

// newInsightsCache connects to Redis when configured. Outside development an
// unreachable Redis is an error; in development the in-memory cache is used.
func newInsightsCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.InsightsCache, *redis.Client, error) {
	if !cfg.InsightsCacheEnabled {
		logger.Info("insights cache disabled")
		return cache.NoopInsightsCache{}, nil, nil
	}
	if !cfg.HasRedis() {
		return newMemoryCache(cfg), nil, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		if !cfg.IsDevelopment() {
			return nil, nil, err
		}
		logger.Warn("Redis not available, insights cache will use in-memory fallback", "error", err)
		return newMemoryCache(cfg), nil, nil
	}

	logger.Info("connected to Redis")
	return cache.NewRedisInsightsCache(client, cfg.InsightsCacheTTL), client, nil
}

// newEventPublisher connects to RabbitMQ when configured and otherwise
// returns an in-process bus.
func newEventPublisher(cfg *config.Config, logger *slog.Logger) (eventbus.Publisher, error) {
	if !cfg.HasRabbitMQ() {
		return eventbus.NewInProcessEventBus(logger), nil
	}

	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		logger.Warn("RabbitMQ not available, using in-process event bus", "error", err)
		return eventbus.NewInProcessEventBus(logger), nil
	}
	return publisher, nil
}

func modelClientConfig(cfg *config.Config, name, endpoint string) remote.ClientConfig {
	clientCfg := remote.DefaultClientConfig(name, endpoint)
	if cfg.UpstreamTimeout > 0 {
		clientCfg.Timeout = cfg.UpstreamTimeout
	}
	if cfg.BreakerFailures > 0 {
		clientCfg.FailureThreshold = uint32(cfg.BreakerFailures)
	}
	if cfg.BreakerCooldown > 0 {
		clientCfg.Cooldown = cfg.BreakerCooldown
	}
	return clientCfg
}
