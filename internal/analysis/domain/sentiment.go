package domain

import (
	"math"
	"strings"

	"github.com/jonreiter/govader"
)

// SentimentScorer produces a compound polarity score in [-1, 1].
type SentimentScorer interface {
	Score(text string) float64
}

// VaderScorer scores text with the VADER lexicon and rule set.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer creates a VADER scorer. The lexicon is loaded once.
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the compound polarity of text. Empty input scores 0.
func (s *VaderScorer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	compound := s.analyzer.PolarityScores(text).Compound
	if math.IsNaN(compound) {
		return 0
	}
	compound = math.Max(-1, math.Min(1, compound))
	return math.Round(compound*10000) / 10000
}
