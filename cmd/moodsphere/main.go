package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/moodsphere/adapter/cli"
	"github.com/felixgeelhaar/moodsphere/adapter/cli/journal"
	"github.com/felixgeelhaar/moodsphere/adapter/cli/mcp"
	"github.com/felixgeelhaar/moodsphere/internal/app"
	"github.com/felixgeelhaar/moodsphere/pkg/config"
	"github.com/felixgeelhaar/moodsphere/pkg/observability"
)

func main() {
	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development", UserID: "default_user"}
	}

	logger := observability.LoggerFromEnv("moodsphere")
	cli.SetLogger(logger)

	// Try to initialize the full container
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			// Entries saved in this mode are lost on exit.
			logger.Warn("failed to initialize container, using in-memory entry store", "error", err)
			container = app.NewInMemoryContainer(cfg, logger, nil)
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	}
	defer container.Close()

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
	cliApp.SetCurrentUserID(container.UserID())
	cliApp.SetHealth(container.Health)
	cliApp.SetHTTPAddr(cfg.HTTPAddr)

	// Set the CLI app
	cli.SetApp(cliApp)

	// Register commands
	cli.AddCommand(journal.Cmd)
	cli.AddCommand(mcp.Cmd)

	// Execute CLI
	if err := cli.ExecuteContext(ctx); err != nil {
		container.Close()
		os.Exit(1)
	}
}
