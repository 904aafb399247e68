package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/moodsphere/adapter/cli"
	analysisCommands "github.com/felixgeelhaar/moodsphere/internal/analysis/application/commands"
	analysisServices "github.com/felixgeelhaar/moodsphere/internal/analysis/application/services"
)

type textInput struct {
	Text string `json:"text" jsonschema:"required"`
}

type faceInput struct {
	Image string `json:"image" jsonschema:"required"`
}

type speechInput struct {
	Audio      string `json:"audio" jsonschema:"required"`
	Transcript string `json:"transcript,omitempty"`
}

// analysisTools implements the analysis.* tools over the CLI app.
type analysisTools struct {
	app *cli.App
}

func registerAnalysisTools(srv *mcp.Server, deps ToolDependencies) error {
	tools := analysisTools{app: deps.App}

	srv.Tool("journal.analyze").
		Description("Analyze free text: summary, dominant mood, keywords, sentiment and a suggestion").
		Handler(tools.text)

	srv.Tool("analysis.classify").
		Description("Classify the emotion of a short text").
		Handler(tools.classify)

	srv.Tool("analysis.face").
		Description("Detect the emotion in a base64 encoded face image").
		Handler(tools.face)

	srv.Tool("analysis.speech").
		Description("Detect the emotion in base64 encoded speech audio").
		Handler(tools.speech)

	return nil
}

func (t analysisTools) text(ctx context.Context, input textInput) (*analysisServices.TextAnalysis, error) {
	if t.app == nil || t.app.TextAnalyzer == nil {
		return nil, errors.New("text analysis is not configured")
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, errors.New("text is required")
	}
	return t.app.TextAnalyzer.Analyze(ctx, input.Text)
}

func (t analysisTools) classify(_ context.Context, input textInput) (*analysisServices.Classification, error) {
	if t.app == nil || t.app.TextAnalyzer == nil {
		return nil, errors.New("text analysis is not configured")
	}
	return t.app.TextAnalyzer.ClassifyText(input.Text)
}

func (t analysisTools) face(ctx context.Context, input faceInput) (*analysisCommands.AnalyzeFaceResult, error) {
	if t.app == nil || t.app.AnalyzeFaceHandler == nil {
		return nil, errors.New("face analysis is not configured")
	}
	return t.app.AnalyzeFaceHandler.Handle(ctx, analysisCommands.AnalyzeFaceCommand{Image: input.Image})
}

func (t analysisTools) speech(ctx context.Context, input speechInput) (*analysisCommands.AnalyzeSpeechResult, error) {
	if t.app == nil || t.app.AnalyzeSpeechHandler == nil {
		return nil, errors.New("speech analysis is not configured")
	}
	return t.app.AnalyzeSpeechHandler.Handle(ctx, analysisCommands.AnalyzeSpeechCommand{
		Audio:      input.Audio,
		Transcript: input.Transcript,
	})
}
