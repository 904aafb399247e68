package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/moodsphere/internal/journal/application/services"
	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
)

// ListEntriesQuery selects a user's entries within a range.
type ListEntriesQuery struct {
	UserID string
	Range  string
}

// ListEntriesResult is a page of entries with the user's stats.
type ListEntriesResult struct {
	Entries      []services.EntryView `json:"entries"`
	EntriesCount int                  `json:"entries_count"`
	StreakCount  int                  `json:"streak_count"`
}

// ListEntriesHandler lists journal entries newest first.
type ListEntriesHandler struct {
	repo    domain.EntryRepository
	streaks *services.StreakCalculator
	clock   services.Clock
}

// NewListEntriesHandler creates a new list entries handler.
func NewListEntriesHandler(repo domain.EntryRepository, streaks *services.StreakCalculator, clock services.Clock) *ListEntriesHandler {
	if clock == nil {
		clock = time.Now
	}
	return &ListEntriesHandler{repo: repo, streaks: streaks, clock: clock}
}

// Handle executes the list entries query.
func (h *ListEntriesHandler) Handle(ctx context.Context, q ListEntriesQuery) (*ListEntriesResult, error) {
	userID := userOrDefault(q.UserID)
	r := services.ParseDateRange(q.Range)

	entries := []*domain.JournalEntry{}
	if !r.IsEmptySearch() {
		found, err := h.repo.FindByUser(ctx, userID, r.ListFilter(h.clock()))
		if err != nil {
			return nil, fmt.Errorf("failed to get entries: %w", err)
		}
		entries = found
	}

	count, err := h.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}
	streak, err := h.streaks.Streak(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListEntriesResult{
		Entries:      services.NewEntryViews(entries),
		EntriesCount: count,
		StreakCount:  streak,
	}, nil
}
