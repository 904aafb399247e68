package api

import (
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/moodsphere/internal/analysis/application/commands"
)

// AnalysisHandler handles the emotion classification endpoints.
type AnalysisHandler struct {
	analyzer      TextAnalyzer
	analyzeFace   *commands.AnalyzeFaceHandler
	analyzeSpeech *commands.AnalyzeSpeechHandler
	logger        *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(
	analyzer TextAnalyzer,
	analyzeFace *commands.AnalyzeFaceHandler,
	analyzeSpeech *commands.AnalyzeSpeechHandler,
	logger *slog.Logger,
) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisHandler{
		analyzer:      analyzer,
		analyzeFace:   analyzeFace,
		analyzeSpeech: analyzeSpeech,
		logger:        logger,
	}
}

// ClassifyText handles POST /analyze
func (h *AnalysisHandler) ClassifyText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	result, err := h.analyzer.ClassifyText(req.Text)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type faceRequest struct {
	Image string `json:"image"`
}

// AnalyzeFace handles POST /analyze_face
func (h *AnalysisHandler) AnalyzeFace(w http.ResponseWriter, r *http.Request) {
	var req faceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	result, err := h.analyzeFace.Handle(r.Context(), commands.AnalyzeFaceCommand{Image: req.Image})
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type speechRequest struct {
	Audio      string `json:"audio"`
	Transcript string `json:"transcript"`
}

// AnalyzeSpeech handles POST /analyze_speech
func (h *AnalysisHandler) AnalyzeSpeech(w http.ResponseWriter, r *http.Request) {
	var req speechRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	result, err := h.analyzeSpeech.Handle(r.Context(), commands.AnalyzeSpeechCommand{
		Audio:      req.Audio,
		Transcript: req.Transcript,
	})
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
