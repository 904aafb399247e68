package journal

import (
	"fmt"

	"github.com/felixgeelhaar/moodsphere/adapter/cli"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/queries"
	"github.com/spf13/cobra"
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show your current journaling streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetStreakHandler == nil {
			return errNotInitialized
		}

		result, err := app.GetStreakHandler.Handle(cmd.Context(), queries.GetStreakQuery{UserID: cli.CurrentUserID()})
		if err != nil {
			return fmt.Errorf("failed to compute streak: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Current streak: %d day(s)\n", result.StreakCount)
		return nil
	},
}

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print a journaling prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.TextAnalyzer == nil {
			return errNotInitialized
		}
		fmt.Fprintln(cmd.OutOrStdout(), app.TextAnalyzer.Prompt())
		return nil
	},
}
