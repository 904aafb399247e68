package services

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/moodsphere/internal/analysis/domain"
	shareddomain "github.com/felixgeelhaar/moodsphere/internal/shared/domain"
)

// TextAnalysis is the composed analysis of one journal text.
type TextAnalysis struct {
	Summary             string             `json:"ai_summary"`
	DominantMood        string             `json:"dominant_mood"`
	MoodScores          map[string]float64 `json:"mood_scores"`
	Keywords            []string           `json:"keywords"`
	Suggestion          string             `json:"suggestion"`
	SentimentScore      float64            `json:"sentiment_score"`
	EmotionDistribution map[string]float64 `json:"emotion_distribution"`
}

// Classification is the plain emotion classification of a text.
type Classification struct {
	Text                string             `json:"text"`
	Emotion             string             `json:"emotion"`
	EmotionDistribution map[string]float64 `json:"emotion_distribution"`
}

// TextAnalyzer composes emotion classification, sentiment scoring, mood
// mapping, keyword extraction and suggestion selection.
type TextAnalyzer struct {
	scorer       domain.SentimentScorer
	picker       *domain.Picker
	keywordCount int
	summaryWords int
}

// NewTextAnalyzer creates an analyzer. A nil scorer uses VADER;
// a nil picker draws suggestions from an unseeded source.
func NewTextAnalyzer(scorer domain.SentimentScorer, picker *domain.Picker) *TextAnalyzer {
	if scorer == nil {
		scorer = domain.NewVaderScorer()
	}
	if picker == nil {
		picker = domain.NewPicker(nil)
	}
	return &TextAnalyzer{
		scorer:       scorer,
		picker:       picker,
		keywordCount: domain.DefaultKeywordCount,
		summaryWords: domain.DefaultSummaryWords,
	}
}

// Analyze runs the full text analysis. Empty text is a validation error.
func (a *TextAnalyzer) Analyze(ctx context.Context, text string) (*TextAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, shareddomain.NewValidationError("text", "text cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	emotion := domain.Classify(text)
	sentiment := a.scorer.Score(text)
	mood := domain.MapMood(emotion.Dominant, sentiment)

	keywords := domain.ExtractKeywords(text, a.keywordCount)
	if keywords == nil {
		keywords = []string{}
	}

	return &TextAnalysis{
		Summary:             domain.Summarize(text, a.summaryWords),
		DominantMood:        string(mood.Mood),
		MoodScores:          mood.Scores,
		Keywords:            keywords,
		Suggestion:          a.picker.Suggest(emotion.Dominant, mood.Mood, sentiment),
		SentimentScore:      sentiment,
		EmotionDistribution: emotion.Distribution,
	}, nil
}

// ClassifyText returns the dominant emotion and distribution for text.
func (a *TextAnalyzer) ClassifyText(text string) (*Classification, error) {
	if strings.TrimSpace(text) == "" {
		return nil, shareddomain.NewValidationError("text", "text cannot be empty")
	}
	result := domain.Classify(text)
	return &Classification{
		Text:                text,
		Emotion:             string(result.Dominant),
		EmotionDistribution: result.Distribution,
	}, nil
}

// Prompt returns a random journaling prompt.
func (a *TextAnalyzer) Prompt() string {
	return a.picker.Prompt()
}
