package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/moodsphere/internal/app"
	mcpinternal "github.com/felixgeelhaar/moodsphere/internal/mcp"
	"github.com/felixgeelhaar/moodsphere/pkg/config"
	"github.com/felixgeelhaar/moodsphere/pkg/observability"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		observability.LoggerFromEnv("moodsphere-mcp").Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.LoggerFromEnv("moodsphere-mcp")

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	cliApp := mcpinternal.NewCLIApp(container, cfg.UserID)

	if err := mcpinternal.Serve(ctx, cfg, cliApp, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server error", "error", err)
		container.Close()
		os.Exit(1)
	}
}
