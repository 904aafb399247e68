package services

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/moodsphere/internal/analysis/domain"
	shareddomain "github.com/felixgeelhaar/moodsphere/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedScorer float64

func (s fixedScorer) Score(string) float64 { return float64(s) }

func TestTextAnalyzer_Analyze(t *testing.T) {
	analyzer := NewTextAnalyzer(nil, domain.NewSeededPicker(7))

	result, err := analyzer.Analyze(context.Background(), "I am so happy and excited today. It was wonderful.")
	require.NoError(t, err)

	assert.Equal(t, "I am so happy and excited today.", result.Summary)
	assert.Equal(t, "happy", result.DominantMood)
	assert.Equal(t, 100.0, result.EmotionDistribution["joy"])
	assert.Greater(t, result.SentimentScore, 0.0)
	assert.Contains(t, result.Keywords, "happy")
	assert.Contains(t, result.Keywords, "excited")

	for key, score := range result.MoodScores {
		assert.GreaterOrEqual(t, score, 0.0, key)
		assert.LessOrEqual(t, score, 1.0, key)
	}
	assert.Contains(t, result.MoodScores, "happy")

	pool := domain.SuggestionPool(domain.EmotionJoy, domain.MoodHappy, result.SentimentScore)
	assert.Contains(t, pool, result.Suggestion)
}

func TestTextAnalyzer_AnalyzeUsesInjectedScorer(t *testing.T) {
	analyzer := NewTextAnalyzer(fixedScorer(-0.8), domain.NewSeededPicker(1))

	result, err := analyzer.Analyze(context.Background(), "nothing matches here")
	require.NoError(t, err)

	assert.Equal(t, -0.8, result.SentimentScore)
	// No emotion keyword: joy wins the tie and maps to happy.
	assert.Equal(t, "happy", result.DominantMood)
	assert.Contains(t, domain.SuggestionPool(domain.EmotionJoy, domain.MoodHappy, -0.8), result.Suggestion)
	assert.NotNil(t, result.Keywords)
}

func TestTextAnalyzer_AnalyzeValidation(t *testing.T) {
	analyzer := NewTextAnalyzer(nil, nil)

	_, err := analyzer.Analyze(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, shareddomain.IsValidationError(err))
}

func TestTextAnalyzer_AnalyzeCancelled(t *testing.T) {
	analyzer := NewTextAnalyzer(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := analyzer.Analyze(ctx, "hello")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTextAnalyzer_ClassifyText(t *testing.T) {
	analyzer := NewTextAnalyzer(nil, nil)

	result, err := analyzer.ClassifyText("I was scared and worried but then amazed")
	require.NoError(t, err)
	assert.Equal(t, "fear", result.Emotion)
	assert.InDelta(t, 66.67, result.EmotionDistribution["fear"], 0.001)
	assert.InDelta(t, 33.33, result.EmotionDistribution["surprise"], 0.001)

	_, err = analyzer.ClassifyText("")
	assert.True(t, shareddomain.IsValidationError(err))
}

func TestTextAnalyzer_Prompt(t *testing.T) {
	analyzer := NewTextAnalyzer(nil, domain.NewSeededPicker(3))
	assert.Contains(t, domain.Prompts, analyzer.Prompt())
}
