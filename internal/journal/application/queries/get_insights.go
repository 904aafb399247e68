package queries

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/moodsphere/internal/journal/application/services"
	"github.com/felixgeelhaar/moodsphere/pkg/observability"
)

// GetInsightsQuery selects the trend range for a user.
type GetInsightsQuery struct {
	UserID string
	Range  string
}

// GetInsightsHandler serves mood and keyword trends, consulting the
// insights cache first.
type GetInsightsHandler struct {
	trends  *services.TrendAggregator
	cache   services.InsightsCache
	metrics observability.Metrics
	logger  *slog.Logger
}

// NewGetInsightsHandler creates a new insights handler. cache may be nil.
func NewGetInsightsHandler(
	trends *services.TrendAggregator,
	cache services.InsightsCache,
	metrics observability.Metrics,
	logger *slog.Logger,
) *GetInsightsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &GetInsightsHandler{trends: trends, cache: cache, metrics: metrics, logger: logger}
}

// Handle executes the get insights query. Cache failures fall through to
// computing the trends.
func (h *GetInsightsHandler) Handle(ctx context.Context, q GetInsightsQuery) (*services.Trends, error) {
	userID := userOrDefault(q.UserID)
	r := services.ParseDateRange(q.Range)

	if h.cache != nil {
		cached, err := h.cache.Get(ctx, userID, r.Key)
		switch {
		case err != nil:
			h.logger.Warn("insights cache read failed", "user_id", userID, "range", r.Key, "error", err)
		case cached != nil:
			h.metrics.Counter(observability.MetricInsightsCacheHits, 1)
			return cached, nil
		}
		h.metrics.Counter(observability.MetricInsightsCacheMisses, 1)
	}

	timer := observability.StartTimer("insights.compute").WithLogger(h.logger).WithMetrics(h.metrics)
	trends, err := h.trends.Trends(ctx, userID, r)
	timer.Stop(err)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, userID, r.Key, trends); err != nil {
			h.logger.Warn("insights cache write failed", "user_id", userID, "range", r.Key, "error", err)
		}
	}
	return trends, nil
}
