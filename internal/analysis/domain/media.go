package domain

import "strings"

// FaceResponses are the text pools offered for a facial expression.
type FaceResponses struct {
	Recommendations []string
	Challenges      []string
	Tips            []string
}

var faceResponses = map[string]FaceResponses{
	"happy": {
		Recommendations: []string{
			"Share your happiness with someone today!",
			"Your positivity is contagious - spread it around!",
			"Celebrate this joyful moment with a small treat.",
		},
		Challenges: []string{
			"Compliment three people today.",
			"Do something kind for a stranger.",
			"Write down three things you're grateful for.",
		},
		Tips: []string{
			"Happiness is amplified when shared.",
			"Practice mindfulness to appreciate happy moments.",
			"Create a happiness jar to collect joyful memories.",
		},
	},
	"sad": {
		Recommendations: []string{
			"Reach out to a friend or loved one for support.",
			"Engage in a comforting activity you enjoy.",
			"Remember that emotions are temporary - this too shall pass.",
		},
		Challenges: []string{
			"Write down three things you appreciate about yourself.",
			"Listen to uplifting music for 10 minutes.",
			"Do one small act of self-care today.",
		},
		Tips: []string{
			"It's okay to not be okay sometimes.",
			"Tears can be healing - don't suppress them.",
			"Consider talking to a professional if sadness persists.",
		},
	},
	"angry": {
		Recommendations: []string{
			"Take five deep breaths before reacting.",
			"Step away from the situation for a few minutes.",
			"Write down what's bothering you, then tear it up.",
		},
		Challenges: []string{
			"Practice counting to 10 before responding.",
			"Identify the underlying need behind your anger.",
			"Try a physical activity to release tension.",
		},
		Tips: []string{
			"Anger is often a secondary emotion - look deeper.",
			"Use 'I feel' statements when expressing yourself.",
			"Progressive muscle relaxation can help calm anger.",
		},
	},
	"neutral": {
		Recommendations: []string{
			"Check in with your body for subtle emotions.",
			"Try a brief mindfulness exercise.",
			"Engage in an activity that typically brings you joy.",
		},
		Challenges: []string{
			"Identify three subtle emotions you're feeling.",
			"Express gratitude for something small today.",
			"Do something creative to explore your feelings.",
		},
		Tips: []string{
			"Neutral is a valid emotional state.",
			"Being neutral can be a sign of emotional balance.",
			"Use neutral moments for reflection and planning.",
		},
	},
}

// FaceResponsesFor returns the pools for a face emotion label.
// Labels without dedicated pools use the neutral pools.
func FaceResponsesFor(label string) FaceResponses {
	if r, ok := faceResponses[strings.ToLower(label)]; ok {
		return r
	}
	return faceResponses["neutral"]
}

var speechLabels = map[string]string{
	"angry":     "anger",
	"anger":     "anger",
	"disgust":   "disgust",
	"fear":      "fear",
	"fearful":   "fear",
	"happy":     "happiness",
	"happiness": "happiness",
	"neutral":   "neutral",
	"sad":       "sadness",
	"sadness":   "sadness",
	"surprise":  "surprise",
	"surprised": "surprise",
	"calm":      "calm",
	"unknown":   "neutral",
}

// StandardizeSpeechEmotion maps a raw speech model label onto the speech
// emotion vocabulary. Unrecognized labels are neutral.
func StandardizeSpeechEmotion(label string) string {
	if e, ok := speechLabels[strings.ToLower(strings.TrimSpace(label))]; ok {
		return e
	}
	return "neutral"
}

var speechRecommendations = map[string]string{
	"anger":     "Try deep breathing exercises to calm down.",
	"disgust":   "Reflect on what's bothering you.",
	"fear":      "Practice grounding techniques to feel safe.",
	"happiness": "Share your positive energy with others!",
	"neutral":   "Stay open to new experiences.",
	"sadness":   "Reach out to a friend or loved one.",
	"surprise":  "Embrace the unexpected and adapt positively.",
}

var speechChallenges = map[string]string{
	"anger":     "Write down three things you're grateful for today.",
	"disgust":   "Find one positive aspect in a difficult situation.",
	"fear":      "Face one small fear today safely.",
	"happiness": "Compliment three people around you.",
	"neutral":   "Try a new activity you haven't done before.",
	"sadness":   "Do one kind thing for yourself today.",
	"surprise":  "Step out of your comfort zone with something new.",
}

var speechTips = map[string]string{
	"anger":     "Count to 10 before responding to difficult situations.",
	"disgust":   "Explore the root of what's causing discomfort.",
	"fear":      "Break challenges into small, manageable steps.",
	"happiness": "Savor and write down positive moments.",
	"neutral":   "Practice mindfulness to stay present.",
	"sadness":   "Gentle exercise or a walk outdoors can lift your mood.",
	"surprise":  "Be open to new opportunities that come your way.",
}

// SpeechRecommendation returns the recommendation for a standardized emotion.
func SpeechRecommendation(emotion string) string {
	return lookupOr(speechRecommendations, emotion, "Take time to reflect.")
}

// SpeechDailyChallenge returns the daily challenge for a standardized emotion.
func SpeechDailyChallenge(emotion string) string {
	return lookupOr(speechChallenges, emotion, "Reflect on your emotions.")
}

// SpeechDailyTip returns the daily tip for a standardized emotion.
func SpeechDailyTip(emotion string) string {
	return lookupOr(speechTips, emotion, "Check in with yourself regularly.")
}

func lookupOr(m map[string]string, key, fallback string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return fallback
}
