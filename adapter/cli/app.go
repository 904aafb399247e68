package cli

import (
	analysisCommands "github.com/felixgeelhaar/moodsphere/internal/analysis/application/commands"
	analysisServices "github.com/felixgeelhaar/moodsphere/internal/analysis/application/services"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/commands"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/queries"
	"github.com/felixgeelhaar/moodsphere/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	// Journal Command Handlers
	SaveEntryHandler   *commands.SaveEntryHandler
	DeleteEntryHandler *commands.DeleteEntryHandler

	// Journal Query Handlers
	ListEntriesHandler *queries.ListEntriesHandler
	GetInsightsHandler *queries.GetInsightsHandler
	GetStreakHandler   *queries.GetStreakHandler

	// Analysis
	TextAnalyzer         *analysisServices.TextAnalyzer
	AnalyzeFaceHandler   *analysisCommands.AnalyzeFaceHandler
	AnalyzeSpeechHandler *analysisCommands.AnalyzeSpeechHandler

	// Readiness checks
	Health *observability.HealthRegistry

	// HTTPAddr is the listen address for `serve`.
	HTTPAddr string

	// Current user (configured per environment)
	CurrentUserID string
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	saveEntryHandler *commands.SaveEntryHandler,
	deleteEntryHandler *commands.DeleteEntryHandler,
	listEntriesHandler *queries.ListEntriesHandler,
	getInsightsHandler *queries.GetInsightsHandler,
	getStreakHandler *queries.GetStreakHandler,
	textAnalyzer *analysisServices.TextAnalyzer,
	analyzeFaceHandler *analysisCommands.AnalyzeFaceHandler,
	analyzeSpeechHandler *analysisCommands.AnalyzeSpeechHandler,
) *App {
	return &App{
		SaveEntryHandler:     saveEntryHandler,
		DeleteEntryHandler:   deleteEntryHandler,
		ListEntriesHandler:   listEntriesHandler,
		GetInsightsHandler:   getInsightsHandler,
		GetStreakHandler:     getStreakHandler,
		TextAnalyzer:         textAnalyzer,
		AnalyzeFaceHandler:   analyzeFaceHandler,
		AnalyzeSpeechHandler: analyzeSpeechHandler,
		Health:               observability.NewHealthRegistry(),
	}
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id string) {
	a.CurrentUserID = id
}

// SetHealth replaces the readiness registry.
func (a *App) SetHealth(h *observability.HealthRegistry) {
	if h != nil {
		a.Health = h
	}
}

// SetHTTPAddr sets the listen address used by `serve`.
func (a *App) SetHTTPAddr(addr string) {
	a.HTTPAddr = addr
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
