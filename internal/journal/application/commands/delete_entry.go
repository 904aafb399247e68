package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/moodsphere/internal/journal/application/services"
	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
	"github.com/felixgeelhaar/moodsphere/internal/shared/application"
	shareddomain "github.com/felixgeelhaar/moodsphere/internal/shared/domain"
	"github.com/felixgeelhaar/moodsphere/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/moodsphere/pkg/observability"
)

// DeleteEntryCommand identifies the entry to delete.
type DeleteEntryCommand struct {
	EntryID string
	// UserID is the requesting user. Cache invalidation and the deleted
	// event follow the entry's stored owner; UserID is used only when the
	// store does not report one.
	UserID string
}

// DeleteEntryHandler deletes journal entries.
type DeleteEntryHandler struct {
	repo      domain.EntryRepository
	cache     services.InsightsCache
	publisher eventbus.Publisher
	metrics   observability.Metrics
	logger    *slog.Logger
}

// NewDeleteEntryHandler creates a new delete entry handler.
func NewDeleteEntryHandler(
	repo domain.EntryRepository,
	cache services.InsightsCache,
	publisher eventbus.Publisher,
	metrics observability.Metrics,
	logger *slog.Logger,
) *DeleteEntryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if publisher == nil {
		publisher = eventbus.NewNoopPublisher(logger)
	}
	return &DeleteEntryHandler{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Handle executes the delete entry command. It returns ErrEntryNotFound
// when no entry was removed.
func (h *DeleteEntryHandler) Handle(ctx context.Context, cmd DeleteEntryCommand) error {
	id := strings.TrimSpace(cmd.EntryID)
	if id == "" {
		return shareddomain.NewValidationError("entry_id", "entry id is required")
	}

	owner, deleted, err := h.repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if !deleted {
		return domain.ErrEntryNotFound
	}
	h.metrics.Counter(observability.MetricEntriesDeleted, 1)

	if owner == "" {
		owner = cmd.UserID
	}
	if owner != "" && h.cache != nil {
		if err := h.cache.Invalidate(ctx, owner); err != nil {
			h.logger.Warn("failed to invalidate insights cache", "user_id", owner, "error", err)
		}
	}

	event := domain.NewEntryDeletedEvent(id, owner)
	application.ApplyEventMetadata([]shareddomain.DomainEvent{event}, application.NewEventMetadata(ctx, owner))
	if err := eventbus.PublishEvents(ctx, h.publisher, event); err != nil {
		h.logger.Warn("failed to publish entry deleted event", "entry_id", id, "error", err)
	} else {
		h.metrics.Counter(observability.MetricEventsPublished, 1)
	}

	h.logger.Info("journal entry deleted", "entry_id", id, "user_id", owner)
	return nil
}
