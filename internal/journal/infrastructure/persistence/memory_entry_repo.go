package persistence

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
)

// MemoryEntryRepository keeps entries in process memory. It backs tests and
// the "memory" database driver.
type MemoryEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.JournalEntry
}

// NewMemoryEntryRepository creates an empty in-memory repository.
func NewMemoryEntryRepository() *MemoryEntryRepository {
	return &MemoryEntryRepository{}
}

func (r *MemoryEntryRepository) Insert(_ context.Context, entry *domain.JournalEntry) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return entry.Key(), nil
}

func (r *MemoryEntryRepository) FindByUser(_ context.Context, userID string, filter domain.EntryFilter) ([]*domain.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var since string
	if filter.Since != nil {
		since = domain.FormatTimestamp(*filter.Since)
	}
	search := strings.ToLower(filter.Search)

	var result []*domain.JournalEntry
	for _, e := range r.entries {
		if e.UserID != userID {
			continue
		}
		if since != "" && e.Timestamp < since {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Text), search) {
			continue
		}
		result = append(result, e)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if filter.Ascending {
			return result[i].Timestamp < result[j].Timestamp
		}
		return result[i].Timestamp > result[j].Timestamp
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *MemoryEntryRepository) CountByUser(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, e := range r.entries {
		if e.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryEntryRepository) DeleteByID(_ context.Context, id string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.Key() == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return e.UserID, true, nil
		}
	}
	return "", false, nil
}
