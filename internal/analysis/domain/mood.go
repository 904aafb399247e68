package domain

import "math"

// Mood is the user-facing mood label.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodCalm    Mood = "calm"
	MoodNeutral Mood = "neutral"
	MoodSad     Mood = "sad"
	MoodAngry   Mood = "angry"
)

// Moods returns the mood taxonomy.
func Moods() []Mood {
	return []Mood{MoodHappy, MoodCalm, MoodNeutral, MoodSad, MoodAngry}
}

// IsValidMood reports whether m belongs to the mood taxonomy.
func IsValidMood(m string) bool {
	for _, valid := range Moods() {
		if Mood(m) == valid {
			return true
		}
	}
	return false
}

var moodEmojis = map[Mood]string{
	MoodHappy:   "😊",
	MoodCalm:    "😌",
	MoodNeutral: "😐",
	MoodSad:     "😢",
	MoodAngry:   "😠",
}

// Emoji returns the display emoji for a mood, falling back to neutral.
func (m Mood) Emoji() string {
	if e, ok := moodEmojis[m]; ok {
		return e
	}
	return moodEmojis[MoodNeutral]
}

var emotionMoods = map[Emotion]Mood{
	EmotionJoy:      MoodHappy,
	EmotionSadness:  MoodSad,
	EmotionAnger:    MoodAngry,
	EmotionFear:     MoodSad,
	EmotionSurprise: MoodNeutral,
	EmotionLove:     MoodHappy,
}

var emotionWeights = map[Emotion]float64{
	EmotionJoy:      0.8,
	EmotionLove:     0.9,
	EmotionSurprise: 0.6,
	EmotionSadness:  0.2,
	EmotionAnger:    0.1,
	EmotionFear:     0.3,
}

const (
	unknownEmotionWeight = 0.5
	emotionShare         = 0.6
	sentimentShare       = 0.4
)

// Mood score keys alongside the winning mood.
const (
	ScorePositive = "positive"
	ScoreNegative = "negative"
	ScoreNeutral  = "neutral"
)

// MoodResult is the output of MapMood.
type MoodResult struct {
	Mood   Mood
	Score  float64
	Scores map[string]float64
}

// MoodForEmotion maps an emotion to its mood. Unmapped emotions are neutral.
func MoodForEmotion(e Emotion) Mood {
	if m, ok := emotionMoods[e]; ok {
		return m
	}
	return MoodNeutral
}

// MoodScore blends the emotion's base weight (60%) with the sentiment
// normalized to [0, 1] (40%), clamped to [0, 1] and rounded to two decimals.
func MoodScore(e Emotion, sentiment float64) float64 {
	base, ok := emotionWeights[e]
	if !ok {
		base = unknownEmotionWeight
	}
	normalized := (sentiment + 1) / 2
	score := base*emotionShare + normalized*sentimentShare
	return round2(math.Max(0, math.Min(1, score)))
}

// MapMood derives the mood label, score and polarity decomposition.
//
// When the mood is neutral, the polarity neutral share overwrites the mood
// score under the shared key.
func MapMood(e Emotion, sentiment float64) MoodResult {
	mood := MoodForEmotion(e)
	score := MoodScore(e, sentiment)

	scores := map[string]float64{
		string(mood):  score,
		ScorePositive: math.Max(0, sentiment),
		ScoreNegative: math.Max(0, -sentiment),
		ScoreNeutral:  1 - math.Abs(sentiment),
	}

	return MoodResult{Mood: mood, Score: score, Scores: scores}
}
