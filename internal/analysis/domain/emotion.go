package domain

import (
	"math"
	"strings"
)

// Emotion is a text emotion category.
type Emotion string

const (
	EmotionJoy      Emotion = "joy"
	EmotionSadness  Emotion = "sadness"
	EmotionAnger    Emotion = "anger"
	EmotionFear     Emotion = "fear"
	EmotionSurprise Emotion = "surprise"
	EmotionLove     Emotion = "love"
)

// Emotions returns the emotion taxonomy in canonical order.
// Ties in a distribution resolve to the earliest emotion in this order.
func Emotions() []Emotion {
	return []Emotion{
		EmotionJoy, EmotionSadness, EmotionAnger,
		EmotionFear, EmotionSurprise, EmotionLove,
	}
}

var emotionKeywords = map[Emotion][]string{
	EmotionJoy:      {"happy", "joy", "excited", "great", "wonderful", "delighted"},
	EmotionSadness:  {"sad", "down", "unhappy", "depressed", "gloomy"},
	EmotionAnger:    {"angry", "mad", "furious", "irritated", "annoyed"},
	EmotionFear:     {"afraid", "scared", "fearful", "nervous", "worried"},
	EmotionSurprise: {"surprised", "shocked", "amazed", "astonished"},
	EmotionLove:     {"love", "caring", "affection", "compassion", "kindness"},
}

// EmotionKeywords returns the keyword list for an emotion.
func EmotionKeywords(e Emotion) []string {
	return append([]string(nil), emotionKeywords[e]...)
}

// EmotionResult is the output of Classify.
type EmotionResult struct {
	Dominant     Emotion
	Distribution map[string]float64
}

// Classify scores text against the emotion keyword lists.
//
// Keywords match by substring containment on the lower-cased text, so each
// keyword contributes at most once no matter how often it occurs. Percentages
// are rounded to two decimals. With no match every emotion scores zero and the
// first emotion in canonical order is dominant.
func Classify(text string) EmotionResult {
	lower := strings.ToLower(text)

	counts := make(map[Emotion]int, len(emotionKeywords))
	total := 0
	for _, e := range Emotions() {
		for _, kw := range emotionKeywords[e] {
			if strings.Contains(lower, kw) {
				counts[e]++
				total++
			}
		}
	}
	if total == 0 {
		total = 1
	}

	result := EmotionResult{Distribution: make(map[string]float64, len(counts))}
	best := -1.0
	for _, e := range Emotions() {
		pct := round2(float64(counts[e]) / float64(total) * 100)
		result.Distribution[string(e)] = pct
		if pct > best {
			best = pct
			result.Dominant = e
		}
	}
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
