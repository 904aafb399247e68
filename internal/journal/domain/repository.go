package domain

import (
	"context"
	"time"
)

// EntryFilter narrows FindByUser results.
type EntryFilter struct {
	// Since keeps entries whose timestamp is at or after it.
	Since *time.Time
	// Search keeps entries whose text contains it, case-insensitively.
	Search string
	// Limit caps the result count; zero means no cap.
	Limit int
	// Ascending orders oldest first; the default is newest first.
	Ascending bool
}

// EntryRepository persists journal entries.
type EntryRepository interface {
	// Insert stores a new entry and returns its id.
	Insert(ctx context.Context, entry *JournalEntry) (string, error)

	// FindByUser returns a user's entries ordered by timestamp.
	FindByUser(ctx context.Context, userID string, filter EntryFilter) ([]*JournalEntry, error)

	// CountByUser returns the number of entries a user has.
	CountByUser(ctx context.Context, userID string) (int, error)

	// DeleteByID removes an entry and returns the id of the user who owned
	// it. deleted is false when no entry has that id.
	DeleteByID(ctx context.Context, id string) (userID string, deleted bool, err error)
}
