package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFaceResponsesFor(t *testing.T) {
	happy := FaceResponsesFor("Happy")
	assert.Contains(t, happy.Tips, "Happiness is amplified when shared.")

	fallback := FaceResponsesFor("fear")
	assert.Equal(t, faceResponses["neutral"], fallback)
}

func TestStandardizeSpeechEmotion(t *testing.T) {
	tests := map[string]string{
		"angry":     "anger",
		"Fearful":   "fear",
		"happy":     "happiness",
		"sad":       "sadness",
		"surprised": "surprise",
		"calm":      "calm",
		"disgust":   "disgust",
		"unknown":   "neutral",
		"bored":     "neutral",
		"":          "neutral",
	}

	for label, expected := range tests {
		assert.Equal(t, expected, StandardizeSpeechEmotion(label), label)
	}
}

func TestSpeechTexts(t *testing.T) {
	assert.Equal(t, "Share your positive energy with others!", SpeechRecommendation("happiness"))
	assert.Equal(t, "Face one small fear today safely.", SpeechDailyChallenge("fear"))
	assert.Equal(t, "Practice mindfulness to stay present.", SpeechDailyTip("neutral"))

	assert.Equal(t, "Take time to reflect.", SpeechRecommendation("calm"))
	assert.Equal(t, "Reflect on your emotions.", SpeechDailyChallenge("calm"))
	assert.Equal(t, "Check in with yourself regularly.", SpeechDailyTip("calm"))
}
