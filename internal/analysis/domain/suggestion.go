package domain

import (
	"math/rand/v2"
	"sync"
)

var (
	sadSuggestions = []string{
		"Consider writing three things you're grateful for today.",
		"Try a short walk or breathing exercise to lift your spirits.",
		"Remember that difficult days help us appreciate the good ones.",
		"Consider reaching out to a friend or loved one.",
	}
	angrySuggestions = []string{
		"Take five deep breaths before responding to any challenges.",
		"Write down what's bothering you, then reflect on solutions.",
		"Consider some physical activity to release tension.",
		"Practice the 4-7-8 breathing technique.",
	}
	joyfulSuggestions = []string{
		"Great energy today! Consider sharing your positivity with others.",
		"Capture this good feeling - what specifically made you happy?",
		"Use this positive momentum to tackle a challenging task.",
		"Express gratitude for the good things in your life.",
	}
	fearfulSuggestions = []string{
		"Focus on what you can control in your current situation.",
		"Try journaling about your strengths and past successes.",
		"Consider breaking down big worries into smaller, manageable steps.",
		"Practice grounding techniques - name 5 things you can see.",
	}
	reflectiveSuggestions = []string{
		"Keep journaling regularly to track your emotional patterns.",
		"Reflect on one thing you learned about yourself today.",
		"Consider setting a small, achievable goal for tomorrow.",
		"Practice mindful awareness of your thoughts and feelings.",
	}
)

// Prompts is the pool of journaling prompts.
var Prompts = []string{
	"What was the best part of your day?",
	"What challenged you today and how did you respond?",
	"What are three things you're grateful for today?",
	"What's one word that describes your day?",
	"What gave you energy today?",
	"What made you smile today?",
	"What would you like to improve tomorrow?",
	"Who are you most thankful for today?",
	"What was today's biggest lesson?",
	"What helped you relax today?",
	"How did you take care of yourself today?",
	"What surprised you today?",
	"What are you looking forward to tomorrow?",
	"What made you feel proud today?",
	"How did you connect with others today?",
}

// SuggestionPool returns the candidate suggestions for an analysis.
// Rules are checked in priority order and the first match wins.
func SuggestionPool(e Emotion, m Mood, sentiment float64) []string {
	switch {
	case e == EmotionSadness || m == MoodSad || sentiment < -0.3:
		return sadSuggestions
	case e == EmotionAnger || m == MoodAngry:
		return angrySuggestions
	case e == EmotionJoy || m == MoodHappy || sentiment > 0.3:
		return joyfulSuggestions
	case e == EmotionFear || sentiment < -0.1:
		return fearfulSuggestions
	default:
		return reflectiveSuggestions
	}
}

// Picker chooses uniformly from string pools using a seedable source.
// It is safe for concurrent use.
type Picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker creates a picker over rng. A nil rng uses a randomly seeded source.
func NewPicker(rng *rand.Rand) *Picker {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Picker{rng: rng}
}

// NewSeededPicker creates a picker with a deterministic source.
func NewSeededPicker(seed uint64) *Picker {
	return NewPicker(rand.New(rand.NewPCG(seed, seed)))
}

// Pick returns one element of pool, or "" for an empty pool.
func (p *Picker) Pick(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return pool[p.rng.IntN(len(pool))]
}

// Suggest picks a suggestion for the analysis.
func (p *Picker) Suggest(e Emotion, m Mood, sentiment float64) string {
	return p.Pick(SuggestionPool(e, m, sentiment))
}

// Prompt picks a journaling prompt.
func (p *Picker) Prompt() string {
	return p.Pick(Prompts)
}
