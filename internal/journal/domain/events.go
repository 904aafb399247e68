package domain

import (
	"github.com/felixgeelhaar/moodsphere/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateTypeJournalEntry = "JournalEntry"

// Routing keys for journal events.
const (
	RoutingKeyEntryCreated = "journal.entry.created"
	RoutingKeyEntryDeleted = "journal.entry.deleted"
)

// EntryCreatedEvent is raised when a journal entry is saved.
type EntryCreatedEvent struct {
	domain.BaseEvent
	EntryID   uuid.UUID `json:"entry_id"`
	UserID    string    `json:"user_id"`
	Mood      string    `json:"mood"`
	Analyzed  bool      `json:"analyzed"`
	Timestamp string    `json:"timestamp"`
}

// NewEntryCreatedEvent creates the event for a new entry.
func NewEntryCreatedEvent(e *JournalEntry) *EntryCreatedEvent {
	event := &EntryCreatedEvent{
		BaseEvent: domain.NewBaseEvent(e.ID(), aggregateTypeJournalEntry, RoutingKeyEntryCreated),
		EntryID:   e.ID(),
		UserID:    e.UserID,
		Mood:      e.Mood,
		Analyzed:  e.Analysis.IsAnalyzed(),
		Timestamp: e.Timestamp,
	}
	event.SetMetadata(domain.EventMetadata{UserID: e.UserID})
	return event
}

// EntryDeletedEvent is raised when a journal entry is deleted.
type EntryDeletedEvent struct {
	domain.BaseEvent
	EntryID string `json:"entry_id"`
}

// NewEntryDeletedEvent creates the event for a deleted entry. userID may be
// empty when the owner is unknown.
func NewEntryDeletedEvent(entryID, userID string) *EntryDeletedEvent {
	aggregateID, _ := uuid.Parse(entryID)
	event := &EntryDeletedEvent{
		BaseEvent: domain.NewBaseEvent(aggregateID, aggregateTypeJournalEntry, RoutingKeyEntryDeleted),
		EntryID:   entryID,
	}
	event.SetMetadata(domain.EventMetadata{UserID: userID})
	return event
}
