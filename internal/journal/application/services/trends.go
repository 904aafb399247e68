package services

import (
	"context"
	"fmt"
	"time"

	analysisdomain "github.com/felixgeelhaar/moodsphere/internal/analysis/domain"
	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
)

// TopTrendKeywords caps the keyword frequency list.
const TopTrendKeywords = 20

const trendDateLayout = "01/02"

// KeywordCount is a keyword with its frequency across entries.
type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Trends is the mood time series and keyword frequencies for a range.
type Trends struct {
	Dates    []string       `json:"dates"`
	Scores   []float64      `json:"scores"`
	Keywords []KeywordCount `json:"keywords"`
}

// EmptyTrends returns trends with no data points.
func EmptyTrends() *Trends {
	return &Trends{Dates: []string{}, Scores: []float64{}, Keywords: []KeywordCount{}}
}

// TrendAggregator builds mood and keyword trends from stored entries.
type TrendAggregator struct {
	repo  domain.EntryRepository
	clock Clock
}

// NewTrendAggregator creates an aggregator. A nil clock uses time.Now.
func NewTrendAggregator(repo domain.EntryRepository, clock Clock) *TrendAggregator {
	return &TrendAggregator{repo: repo, clock: orNow(clock)}
}

// Trends returns the user's trends over the range.
func (a *TrendAggregator) Trends(ctx context.Context, userID string, r DateRange) (*Trends, error) {
	if r.IsEmptySearch() {
		return EmptyTrends(), nil
	}

	now := a.clock()
	entries, err := a.repo.FindByUser(ctx, userID, r.TrendFilter(now))
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for trends: %w", err)
	}
	return BuildTrends(entries, now.Location()), nil
}

// BuildTrends turns oldest-first entries into trends. Dates are labelled in
// loc. Keywords rank by count with ties in first-seen order. Entries with
// unparsable timestamps are skipped entirely.
func BuildTrends(entries []*domain.JournalEntry, loc *time.Location) *Trends {
	trends := EmptyTrends()

	var order []string
	counts := make(map[string]int)

	for _, e := range entries {
		t, err := e.Time(loc)
		if err != nil {
			continue
		}
		trends.Dates = append(trends.Dates, t.In(loc).Format(trendDateLayout))
		trends.Scores = append(trends.Scores, e.TrendScore())

		for _, kw := range e.Analysis.Keywords {
			if _, seen := counts[kw]; !seen {
				order = append(order, kw)
			}
			counts[kw]++
		}
	}

	for _, word := range analysisdomain.TopByCount(order, counts, TopTrendKeywords) {
		trends.Keywords = append(trends.Keywords, KeywordCount{Word: word, Count: counts[word]})
	}
	return trends
}
