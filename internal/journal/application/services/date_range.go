package services

import (
	"strings"
	"time"

	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
)

// Range keys accepted by the entries and insights queries.
const (
	Range7Days   = "7d"
	Range30Days  = "30d"
	Range90Days  = "90d"
	RangeAll     = "all"
	SearchPrefix = "search:"

	// DefaultRange applies when no range is given.
	DefaultRange = Range30Days
)

// Result caps for entry listings.
const (
	ListLimit   = 100
	SearchLimit = 50
)

var rangeDays = map[string]int{
	Range7Days:  7,
	Range30Days: 30,
	Range90Days: 90,
}

// DateRange selects which entries a listing or trend covers.
type DateRange struct {
	// Key is the canonical range string.
	Key string
	// Days is the look-back window; zero means unbounded.
	Days int
	// Search is the free-text term of a search range.
	Search string
	search bool
}

// ParseDateRange parses a range string. An empty string is the default
// 30 day range and unrecognized values cover all entries.
func ParseDateRange(s string) DateRange {
	s = strings.TrimSpace(s)
	if s == "" {
		s = DefaultRange
	}
	if term, ok := strings.CutPrefix(s, SearchPrefix); ok {
		term = strings.TrimSpace(term)
		return DateRange{Key: SearchPrefix + term, Search: term, search: true}
	}
	if days, ok := rangeDays[s]; ok {
		return DateRange{Key: s, Days: days}
	}
	return DateRange{Key: RangeAll}
}

// IsSearch reports whether the range is a free-text search.
func (r DateRange) IsSearch() bool {
	return r.search
}

// IsEmptySearch reports a search range with no term; it matches nothing.
func (r DateRange) IsEmptySearch() bool {
	return r.search && r.Search == ""
}

// Since returns the lower bound relative to now, or nil when unbounded.
// Search ranges are never date-bounded.
func (r DateRange) Since(now time.Time) *time.Time {
	if r.search || r.Days == 0 {
		return nil
	}
	since := now.Add(-time.Duration(r.Days) * 24 * time.Hour)
	return &since
}

// ListFilter is the newest-first filter used to list entries.
func (r DateRange) ListFilter(now time.Time) domain.EntryFilter {
	if r.search {
		return domain.EntryFilter{Search: r.Search, Limit: SearchLimit}
	}
	return domain.EntryFilter{Since: r.Since(now), Limit: ListLimit}
}

// TrendFilter is the oldest-first, uncapped filter used for trends.
func (r DateRange) TrendFilter(now time.Time) domain.EntryFilter {
	return domain.EntryFilter{Since: r.Since(now), Search: r.Search, Ascending: true}
}
