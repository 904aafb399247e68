package services

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
)

// StreakWindow is how many recent entries a streak is computed from.
const StreakWindow = 30

const dayKeyLayout = "2006-01-02"

// StreakCalculator counts consecutive journaling days.
type StreakCalculator struct {
	repo  domain.EntryRepository
	clock Clock
}

// NewStreakCalculator creates a calculator. A nil clock uses time.Now.
func NewStreakCalculator(repo domain.EntryRepository, clock Clock) *StreakCalculator {
	return &StreakCalculator{repo: repo, clock: orNow(clock)}
}

// Streak returns the user's current streak.
func (c *StreakCalculator) Streak(ctx context.Context, userID string) (int, error) {
	entries, err := c.repo.FindByUser(ctx, userID, domain.EntryFilter{Limit: StreakWindow})
	if err != nil {
		return 0, fmt.Errorf("failed to load entries for streak: %w", err)
	}
	return CountStreak(entries, c.clock()), nil
}

// CountStreak counts consecutive calendar days with an entry, walking back
// from today in now's location. It is zero when neither today nor yesterday
// has an entry. A run that ends yesterday also counts zero, because the walk
// always starts at today. Entries with unparsable timestamps are ignored.
func CountStreak(entries []*domain.JournalEntry, now time.Time) int {
	loc := now.Location()

	days := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		t, err := e.Time(loc)
		if err != nil {
			continue
		}
		days[t.In(loc).Format(dayKeyLayout)] = struct{}{}
	}

	today := domain.CalendarDay(now, loc)
	has := func(d time.Time) bool {
		_, ok := days[d.Format(dayKeyLayout)]
		return ok
	}

	if !has(today) && !has(today.AddDate(0, 0, -1)) {
		return 0
	}

	streak := 0
	for d := today; has(d); d = d.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}
