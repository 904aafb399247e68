package subscribers

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/moodsphere/internal/journal/application/services"
	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
	"github.com/felixgeelhaar/moodsphere/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/moodsphere/pkg/observability"
)

// InsightsWarmer keeps the insights cache fresh as entries change. A new
// entry recomputes the user's default-range trends; a deletion drops every
// cached range for the user.
type InsightsWarmer struct {
	trends  *services.TrendAggregator
	cache   services.InsightsCache
	metrics observability.Metrics
	logger  *slog.Logger
}

// NewInsightsWarmer creates a new insights warmer.
func NewInsightsWarmer(
	trends *services.TrendAggregator,
	cache services.InsightsCache,
	metrics observability.Metrics,
	logger *slog.Logger,
) *InsightsWarmer {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &InsightsWarmer{trends: trends, cache: cache, metrics: metrics, logger: logger}
}

// EventTypes returns the event types this subscriber handles.
func (w *InsightsWarmer) EventTypes() []string {
	return []string{
		domain.RoutingKeyEntryCreated,
		domain.RoutingKeyEntryDeleted,
	}
}

// Handle processes an event.
func (w *InsightsWarmer) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	w.metrics.Counter(observability.MetricEventsConsumed, 1, observability.T("routing_key", event.RoutingKey))

	switch event.RoutingKey {
	case domain.RoutingKeyEntryCreated:
		return w.handleCreated(ctx, event)
	case domain.RoutingKeyEntryDeleted:
		return w.handleDeleted(ctx, event)
	default:
		w.logger.Warn("unknown event type", "routing_key", event.RoutingKey)
		return nil
	}
}

// EntryCreatedPayload is the payload of journal.entry.created events.
type EntryCreatedPayload struct {
	EntryID string `json:"entry_id"`
	UserID  string `json:"user_id"`
	Mood    string `json:"mood"`
}

func (w *InsightsWarmer) handleCreated(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var payload EntryCreatedPayload
	if err := event.DecodePayload(&payload); err != nil {
		w.logger.Debug("failed to decode entry payload, using metadata", "event_id", event.EventID, "error", err)
	}
	userID := payload.UserID
	if userID == "" {
		userID = event.Metadata.UserID
	}
	if userID == "" {
		w.logger.Warn("entry created event without user, skipping", "event_id", event.EventID)
		return nil
	}

	r := services.ParseDateRange(services.DefaultRange)
	timer := observability.StartTimer("insights.warm").WithLogger(w.logger).WithMetrics(w.metrics)
	trends, err := w.trends.Trends(ctx, userID, r)
	timer.Stop(err)
	if err != nil {
		// Redelivered by the broker.
		return err
	}
	if err := w.cache.Set(ctx, userID, r.Key, trends); err != nil {
		w.logger.Warn("failed to warm insights cache", "user_id", userID, "error", err)
		return nil
	}

	w.logger.Debug("insights cache warmed", "user_id", userID, "range", r.Key, "points", len(trends.Dates))
	return nil
}

func (w *InsightsWarmer) handleDeleted(ctx context.Context, event *eventbus.ConsumedEvent) error {
	userID := event.Metadata.UserID
	if userID == "" {
		w.logger.Debug("entry deleted event without user, nothing to invalidate", "event_id", event.EventID)
		return nil
	}
	if err := w.cache.Invalidate(ctx, userID); err != nil {
		w.logger.Warn("failed to invalidate insights cache", "user_id", userID, "error", err)
	}
	return nil
}
