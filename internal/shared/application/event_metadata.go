package application

import (
	"context"

	"github.com/felixgeelhaar/moodsphere/internal/shared/domain"
	"github.com/felixgeelhaar/moodsphere/pkg/observability"
	"github.com/google/uuid"
)

type metadataSetter interface {
	SetMetadata(metadata domain.EventMetadata)
}

// NewEventMetadata creates command-scoped metadata for domain events. The
// correlation id comes from ctx when the caller set one.
func NewEventMetadata(ctx context.Context, userID string) domain.EventMetadata {
	correlationID := observability.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = observability.RequestIDFromContext(ctx)
	}
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	return domain.EventMetadata{
		UserID:        userID,
		CorrelationID: correlationID,
	}
}

// ApplyEventMetadata sets metadata on all events that support it. A user id
// already on an event is kept.
func ApplyEventMetadata(events []domain.DomainEvent, metadata domain.EventMetadata) {
	for _, event := range events {
		setter, ok := event.(metadataSetter)
		if !ok {
			continue
		}
		m := metadata
		if existing := event.Metadata().UserID; existing != "" {
			m.UserID = existing
		}
		setter.SetMetadata(m)
	}
}
