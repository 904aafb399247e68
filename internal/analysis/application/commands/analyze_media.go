package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/felixgeelhaar/moodsphere/internal/analysis/domain"
	shareddomain "github.com/felixgeelhaar/moodsphere/internal/shared/domain"
)

// ModelCaller posts a JSON request to an emotion model service.
type ModelCaller interface {
	Post(ctx context.Context, body, out any) error
}

// AnalyzeFaceCommand carries a base64 image, optionally as a data URL.
type AnalyzeFaceCommand struct {
	Image string
}

// AnalyzeFaceResult is the face emotion with coaching text.
type AnalyzeFaceResult struct {
	Emotion        string `json:"emotion"`
	Recommendation string `json:"recommendation"`
	Challenge      string `json:"challenge"`
	Tip            string `json:"tip"`
}

// AnalyzeFaceHandler classifies a face image through the face model.
type AnalyzeFaceHandler struct {
	model  ModelCaller
	picker *domain.Picker
}

// NewAnalyzeFaceHandler creates a face handler.
func NewAnalyzeFaceHandler(model ModelCaller, picker *domain.Picker) *AnalyzeFaceHandler {
	if picker == nil {
		picker = domain.NewPicker(nil)
	}
	return &AnalyzeFaceHandler{model: model, picker: picker}
}

// Handle executes the analyze face command.
func (h *AnalyzeFaceHandler) Handle(ctx context.Context, cmd AnalyzeFaceCommand) (*AnalyzeFaceResult, error) {
	if strings.TrimSpace(cmd.Image) == "" {
		return nil, shareddomain.NewValidationError("image", "field 'image' is required")
	}

	var resp struct {
		DominantEmotion string `json:"dominant_emotion"`
	}
	if err := h.model.Post(ctx, map[string]string{"image": cmd.Image}, &resp); err != nil {
		return nil, fmt.Errorf("failed to analyze face: %w", err)
	}

	emotion := strings.ToLower(strings.TrimSpace(resp.DominantEmotion))
	responses := domain.FaceResponsesFor(emotion)

	return &AnalyzeFaceResult{
		Emotion:        emotion,
		Recommendation: h.picker.Pick(responses.Recommendations),
		Challenge:      h.picker.Pick(responses.Challenges),
		Tip:            h.picker.Pick(responses.Tips),
	}, nil
}

// AnalyzeSpeechCommand carries base64 audio and an optional transcript.
type AnalyzeSpeechCommand struct {
	Audio      string
	Transcript string
}

// RankedLabel is one model label with its probability. It encodes as a
// two-element JSON array.
type RankedLabel struct {
	Label       string
	Probability float64
}

// MarshalJSON encodes the label as [label, probability].
func (r RankedLabel) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{r.Label, r.Probability})
}

// AnalyzeSpeechResult is the speech emotion with coaching text.
type AnalyzeSpeechResult struct {
	Status         string             `json:"status"`
	Emotion        string             `json:"emotion"`
	RawLabel       string             `json:"raw_label"`
	Probabilities  map[string]float64 `json:"probabilities"`
	Top3           []RankedLabel      `json:"top3"`
	Recommendation string             `json:"recommendation"`
	DailyChallenge string             `json:"daily_challenge"`
	DailyTip       string             `json:"daily_tip"`
}

// AnalyzeSpeechHandler classifies speech audio through the speech model.
type AnalyzeSpeechHandler struct {
	model ModelCaller
}

// NewAnalyzeSpeechHandler creates a speech handler.
func NewAnalyzeSpeechHandler(model ModelCaller) *AnalyzeSpeechHandler {
	return &AnalyzeSpeechHandler{model: model}
}

// Handle executes the analyze speech command.
func (h *AnalyzeSpeechHandler) Handle(ctx context.Context, cmd AnalyzeSpeechCommand) (*AnalyzeSpeechResult, error) {
	if strings.TrimSpace(cmd.Audio) == "" {
		return nil, shareddomain.NewValidationError("audio", "field 'audio' is required")
	}

	body := map[string]string{"audio": cmd.Audio}
	if cmd.Transcript != "" {
		body["transcript"] = cmd.Transcript
	}

	var resp struct {
		Label         string             `json:"label"`
		Probabilities map[string]float64 `json:"probabilities"`
	}
	if err := h.model.Post(ctx, body, &resp); err != nil {
		return nil, fmt.Errorf("failed to analyze speech: %w", err)
	}

	rawLabel := resp.Label
	if rawLabel == "" {
		rawLabel = "unknown"
	}
	emotion := domain.StandardizeSpeechEmotion(rawLabel)
	probabilities := resp.Probabilities
	if probabilities == nil {
		probabilities = map[string]float64{}
	}

	return &AnalyzeSpeechResult{
		Status:         "success",
		Emotion:        emotion,
		RawLabel:       rawLabel,
		Probabilities:  probabilities,
		Top3:           topLabels(probabilities, 3),
		Recommendation: domain.SpeechRecommendation(emotion),
		DailyChallenge: domain.SpeechDailyChallenge(emotion),
		DailyTip:       domain.SpeechDailyTip(emotion),
	}, nil
}

// topLabels ranks labels by probability, breaking ties by label.
func topLabels(probabilities map[string]float64, n int) []RankedLabel {
	ranked := make([]RankedLabel, 0, len(probabilities))
	for label, p := range probabilities {
		ranked = append(ranked, RankedLabel{Label: label, Probability: p})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Probability != ranked[j].Probability {
			return ranked[i].Probability > ranked[j].Probability
		}
		return ranked[i].Label < ranked[j].Label
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
