package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	analysisCommands "github.com/felixgeelhaar/moodsphere/internal/analysis/application/commands"
	analysisServices "github.com/felixgeelhaar/moodsphere/internal/analysis/application/services"
	analysisDomain "github.com/felixgeelhaar/moodsphere/internal/analysis/domain"
	"github.com/felixgeelhaar/moodsphere/internal/analysis/infrastructure/remote"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/commands"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/queries"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/services"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/subscribers"
	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
	"github.com/felixgeelhaar/moodsphere/internal/journal/infrastructure/persistence"
	"github.com/felixgeelhaar/moodsphere/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/moodsphere/pkg/config"
	"github.com/felixgeelhaar/moodsphere/pkg/observability"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics
	Health  *observability.HealthRegistry
	Clock   services.Clock

	// Entry store
	Store     *persistence.EntryStore
	EntryRepo domain.EntryRepository

	// Redis
	RedisClient   *redis.Client
	InsightsCache services.InsightsCache

	// Publishers
	EventPublisher    eventbus.Publisher
	InProcessEventBus *eventbus.InProcessEventBus

	// Analysis
	Picker       *analysisDomain.Picker
	TextAnalyzer *analysisServices.TextAnalyzer
	FaceModel    analysisCommands.ModelCaller
	SpeechModel  analysisCommands.ModelCaller

	// Journal services
	Streaks *services.StreakCalculator
	Trends  *services.TrendAggregator

	// Journal command handlers
	SaveEntryHandler   *commands.SaveEntryHandler
	DeleteEntryHandler *commands.DeleteEntryHandler

	// Journal query handlers
	ListEntriesHandler *queries.ListEntriesHandler
	GetInsightsHandler *queries.GetInsightsHandler
	GetStreakHandler   *queries.GetStreakHandler

	// Media command handlers
	AnalyzeFaceHandler   *analysisCommands.AnalyzeFaceHandler
	AnalyzeSpeechHandler *analysisCommands.AnalyzeSpeechHandler

	// Subscribers
	InsightsWarmer *subscribers.InsightsWarmer
}

// NewContainer connects to the configured infrastructure and wires every
// handler. Redis and RabbitMQ are optional; in development a failed
// connection falls back to in-process replacements.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
		Clock:   time.Now,
	}

	store, err := persistence.OpenEntryStore(ctx, storeConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open entry store: %w", err)
	}
	c.Store = store
	c.EntryRepo = store.Repository
	c.Health.Register("database", observability.DatabaseHealthChecker(store.Ping))

	cache, redisClient, err := newInsightsCache(ctx, cfg, logger)
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}
	c.InsightsCache = cache
	c.RedisClient = redisClient
	if redisClient != nil {
		c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}))
	}

	publisher, err := newEventPublisher(cfg, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.EventPublisher = publisher
	if rmq, ok := publisher.(*eventbus.RabbitMQPublisher); ok {
		c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(rmq.Ping))
	}

	c.wire()
	return c, nil
}

// NewInMemoryContainer wires handlers over in-memory infrastructure. It
// needs no external services and backs tests and local experiments.
func NewInMemoryContainer(cfg *config.Config, logger *slog.Logger, clock services.Clock) *Container {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = &config.Config{UserID: domain.DefaultUserID, AnalysisTimeout: commands.DefaultAnalysisTimeout}
	}
	if clock == nil {
		clock = time.Now
	}
	store := &persistence.EntryStore{
		Repository: persistence.NewMemoryEntryRepository(),
		Driver:     "memory",
	}
	c := &Container{
		Config:         cfg,
		Logger:         logger,
		Metrics:        observability.NewInMemoryMetrics(),
		Health:         observability.NewHealthRegistry(),
		Clock:          clock,
		Store:          store,
		EntryRepo:      store.Repository,
		InsightsCache:  newMemoryCache(cfg),
		EventPublisher: eventbus.NewInProcessEventBus(logger),
	}
	c.Health.Register("database", observability.DatabaseHealthChecker(store.Ping))
	c.wire()
	return c
}

// wire builds the services and handlers from the infrastructure already on c.
func (c *Container) wire() {
	cfg := c.Config

	if cfg.SuggestionSeed != 0 {
		c.Picker = analysisDomain.NewSeededPicker(cfg.SuggestionSeed)
	} else {
		c.Picker = analysisDomain.NewPicker(nil)
	}
	c.TextAnalyzer = analysisServices.NewTextAnalyzer(nil, c.Picker)

	if c.FaceModel == nil {
		c.FaceModel = remote.NewModelClient(modelClientConfig(cfg, "face-model", cfg.FaceModelURL), c.Metrics, c.Logger)
	}
	if c.SpeechModel == nil {
		c.SpeechModel = remote.NewModelClient(modelClientConfig(cfg, "speech-model", cfg.SpeechModelURL), c.Metrics, c.Logger)
	}

	c.Streaks = services.NewStreakCalculator(c.EntryRepo, c.Clock)
	c.Trends = services.NewTrendAggregator(c.EntryRepo, c.Clock)

	c.SaveEntryHandler = commands.NewSaveEntryHandler(
		c.EntryRepo,
		c.TextAnalyzer,
		c.Streaks,
		c.InsightsCache,
		c.EventPublisher,
		c.Logger,
		commands.WithAnalysisTimeout(cfg.AnalysisTimeout),
		commands.WithClock(c.Clock),
		commands.WithMetrics(c.Metrics),
	)
	c.DeleteEntryHandler = commands.NewDeleteEntryHandler(c.EntryRepo, c.InsightsCache, c.EventPublisher, c.Metrics, c.Logger)

	c.ListEntriesHandler = queries.NewListEntriesHandler(c.EntryRepo, c.Streaks, c.Clock)
	c.GetInsightsHandler = queries.NewGetInsightsHandler(c.Trends, c.InsightsCache, c.Metrics, c.Logger)
	c.GetStreakHandler = queries.NewGetStreakHandler(c.Streaks)

	c.AnalyzeFaceHandler = analysisCommands.NewAnalyzeFaceHandler(c.FaceModel, c.Picker)
	c.AnalyzeSpeechHandler = analysisCommands.NewAnalyzeSpeechHandler(c.SpeechModel)

	c.InsightsWarmer = subscribers.NewInsightsWarmer(c.Trends, c.InsightsCache, c.Metrics, c.Logger)

	// Without a broker, events are delivered to the warmer in process.
	if bus, ok := c.EventPublisher.(*eventbus.InProcessEventBus); ok {
		c.InProcessEventBus = bus
		bus.RegisterConsumer(c.InsightsWarmer)
	}
}

// UserID returns the configured default user.
func (c *Container) UserID() string {
	if c.Config != nil && c.Config.UserID != "" {
		return c.Config.UserID
	}
	return domain.DefaultUserID
}

// Close cleans up all resources.
func (c *Container) Close() {
	ctx := context.Background()

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.Store != nil {
		if err := c.Store.Close(ctx); err != nil {
			c.Logger.Warn("error closing entry store", "driver", c.Store.Driver, "error", err)
		} else {
			c.Logger.Info("entry store closed", "driver", c.Store.Driver)
		}
	}
}
