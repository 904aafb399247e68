package services

import (
	"time"

	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
)

// EntryView is the JSON shape of a journal entry.
type EntryView struct {
	ID                  string             `json:"_id"`
	UserID              string             `json:"user_id"`
	Text                string             `json:"text"`
	Mood                string             `json:"mood"`
	MoodEmoji           string             `json:"mood_emoji"`
	Prompt              string             `json:"prompt"`
	Datetime            string             `json:"datetime"`
	AnalysisStatus      string             `json:"analysis_status"`
	AnalysisReason      string             `json:"analysis_reason,omitempty"`
	Summary             string             `json:"ai_summary"`
	DominantMood        string             `json:"dominant_mood"`
	MoodScores          map[string]float64 `json:"mood_scores"`
	Keywords            []string           `json:"keywords"`
	Suggestion          string             `json:"suggestion"`
	SentimentScore      float64            `json:"sentiment_score"`
	EmotionDistribution map[string]float64 `json:"emotion_distribution"`
	CreatedAt           time.Time          `json:"created_at"`
}

// NewEntryView maps an entry to its view.
func NewEntryView(e *domain.JournalEntry) EntryView {
	a := e.Analysis
	keywords := a.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	moodScores := a.MoodScores
	if moodScores == nil {
		moodScores = map[string]float64{}
	}
	distribution := a.EmotionDistribution
	if distribution == nil {
		distribution = map[string]float64{}
	}
	return EntryView{
		ID:                  e.Key(),
		UserID:              e.UserID,
		Text:                e.Text,
		Mood:                e.Mood,
		MoodEmoji:           e.MoodEmoji(),
		Prompt:              e.Prompt,
		Datetime:            e.Timestamp,
		AnalysisStatus:      string(a.Status),
		AnalysisReason:      a.Reason,
		Summary:             a.Summary,
		DominantMood:        a.DominantMood,
		MoodScores:          moodScores,
		Keywords:            keywords,
		Suggestion:          a.Suggestion,
		SentimentScore:      a.SentimentScore,
		EmotionDistribution: distribution,
		CreatedAt:           e.CreatedAt(),
	}
}

// NewEntryViews maps entries to views.
func NewEntryViews(entries []*domain.JournalEntry) []EntryView {
	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, NewEntryView(e))
	}
	return views
}
