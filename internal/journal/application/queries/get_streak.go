package queries

import (
	"context"

	"github.com/felixgeelhaar/moodsphere/internal/journal/application/services"
	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
)

// GetStreakQuery identifies the user.
type GetStreakQuery struct {
	UserID string
}

// GetStreakResult is the user's current streak.
type GetStreakResult struct {
	StreakCount int `json:"streak_count"`
}

// GetStreakHandler reports the current journaling streak.
type GetStreakHandler struct {
	streaks *services.StreakCalculator
}

// NewGetStreakHandler creates a new streak handler.
func NewGetStreakHandler(streaks *services.StreakCalculator) *GetStreakHandler {
	return &GetStreakHandler{streaks: streaks}
}

// Handle executes the get streak query.
func (h *GetStreakHandler) Handle(ctx context.Context, q GetStreakQuery) (*GetStreakResult, error) {
	streak, err := h.streaks.Streak(ctx, userOrDefault(q.UserID))
	if err != nil {
		return nil, err
	}
	return &GetStreakResult{StreakCount: streak}, nil
}

func userOrDefault(userID string) string {
	if userID == "" {
		return domain.DefaultUserID
	}
	return userID
}
