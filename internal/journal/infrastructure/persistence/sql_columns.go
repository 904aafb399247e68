package persistence

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
	"github.com/google/uuid"
)

const entryColumns = `id, user_id, text, mood, prompt, datetime, analysis_status, analysis_reason,
	ai_summary, dominant_mood, mood_scores, keywords, suggestion, sentiment_score,
	emotion_distribution, created_at`

// likePattern builds a case-insensitive containment pattern with LIKE
// wildcards in term escaped by a backslash.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(term)) + "%"
}

// entryRecord is the flat row shape shared by the SQL stores.
type entryRecord struct {
	ID                  string
	UserID              string
	Text                string
	Mood                string
	Prompt              string
	Datetime            string
	AnalysisStatus      string
	AnalysisReason      string
	Summary             string
	DominantMood        string
	MoodScores          map[string]float64
	Keywords            []string
	Suggestion          string
	SentimentScore      float64
	EmotionDistribution map[string]float64
	CreatedAt           time.Time
}

func recordFromEntry(e *domain.JournalEntry) entryRecord {
	a := e.Analysis
	status := a.Status
	if status == "" {
		status = domain.AnalysisAnalyzed
	}
	return entryRecord{
		ID:                  e.ID().String(),
		UserID:              e.UserID,
		Text:                e.Text,
		Mood:                e.Mood,
		Prompt:              e.Prompt,
		Datetime:            e.Timestamp,
		AnalysisStatus:      string(status),
		AnalysisReason:      a.Reason,
		Summary:             a.Summary,
		DominantMood:        a.DominantMood,
		MoodScores:          nonNilScores(a.MoodScores),
		Keywords:            nonNilKeywords(a.Keywords),
		Suggestion:          a.Suggestion,
		SentimentScore:      a.SentimentScore,
		EmotionDistribution: nonNilScores(a.EmotionDistribution),
		CreatedAt:           e.CreatedAt(),
	}
}

func (r entryRecord) toEntry() (*domain.JournalEntry, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid entry id %q: %w", r.ID, err)
	}

	analysis := domain.Analysis{
		Status:              domain.AnalysisStatus(r.AnalysisStatus),
		Reason:              r.AnalysisReason,
		Summary:             r.Summary,
		DominantMood:        r.DominantMood,
		MoodScores:          r.MoodScores,
		Keywords:            r.Keywords,
		Suggestion:          r.Suggestion,
		SentimentScore:      r.SentimentScore,
		EmotionDistribution: r.EmotionDistribution,
	}
	if analysis.Status == "" {
		analysis.Status = domain.AnalysisAnalyzed
	}

	return domain.RehydrateJournalEntry(
		id,
		r.UserID, r.Text, r.Mood, r.Prompt, r.Datetime,
		analysis,
		r.CreatedAt,
	), nil
}

func nonNilScores(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}

func nonNilKeywords(k []string) []string {
	if k == nil {
		return []string{}
	}
	return k
}

func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalJSON(raw string, v any) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), v)
}
