package services

import "context"

// InsightsCache stores computed trends per user and range key.
type InsightsCache interface {
	// Get returns cached trends, or nil on a miss.
	Get(ctx context.Context, userID, rangeKey string) (*Trends, error)

	// Set stores trends for a user and range.
	Set(ctx context.Context, userID, rangeKey string, trends *Trends) error

	// Invalidate drops every cached range for a user.
	Invalidate(ctx context.Context, userID string) error
}
