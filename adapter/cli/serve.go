package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/felixgeelhaar/moodsphere/adapter/api"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the journal HTTP API",
	Long: `Run the journal HTTP API until interrupted.

Examples:
  moodsphere serve
  moodsphere serve --addr :9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.SaveEntryHandler == nil {
			return fmt.Errorf("app not initialized")
		}

		cfg := api.DefaultServerConfig()
		switch {
		case serveAddr != "":
			cfg.Addr = serveAddr
		case app.HTTPAddr != "":
			cfg.Addr = app.HTTPAddr
		}

		server := NewAPIServer(app, cfg)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-cmd.Context().Done():
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	},
}

// NewAPIServer builds the HTTP API over the app's handlers.
func NewAPIServer(app *App, cfg api.ServerConfig) *api.Server {
	journal := api.NewJournalHandler(api.JournalHandlerConfig{
		SaveEntry:     app.SaveEntryHandler,
		DeleteEntry:   app.DeleteEntryHandler,
		ListEntries:   app.ListEntriesHandler,
		GetInsights:   app.GetInsightsHandler,
		GetStreak:     app.GetStreakHandler,
		Analyzer:      app.TextAnalyzer,
		DefaultUserID: app.CurrentUserID,
		Logger:        Logger(),
	})
	analysis := api.NewAnalysisHandler(app.TextAnalyzer, app.AnalyzeFaceHandler, app.AnalyzeSpeechHandler, Logger())
	return api.NewServer(cfg, journal, analysis, app.Health, Logger())
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to HTTP_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
