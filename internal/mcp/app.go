package mcp

import (
	"github.com/felixgeelhaar/moodsphere/adapter/cli"
	"github.com/felixgeelhaar/moodsphere/internal/app"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
func NewCLIApp(container *app.Container, currentUser string) *cli.App {
	cliApp := cli.NewApp(
		container.SaveEntryHandler,
		container.DeleteEntryHandler,
		container.ListEntriesHandler,
		container.GetInsightsHandler,
		container.GetStreakHandler,
		container.TextAnalyzer,
		container.AnalyzeFaceHandler,
		container.AnalyzeSpeechHandler,
	)

	if currentUser == "" {
		currentUser = container.UserID()
	}
	cliApp.SetCurrentUserID(currentUser)
	cliApp.SetHealth(container.Health)
	if container.Config != nil {
		cliApp.SetHTTPAddr(container.Config.HTTPAddr)
	}

	return cliApp
}
