package journal

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/moodsphere/adapter/cli"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/queries"
	"github.com/spf13/cobra"
)

var (
	insightsRange string
	insightsJSON  bool
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show mood trends and frequent keywords",
	Long: `Show the mood score of each entry over a range and the keywords that
come up most often.

Examples:
  moodsphere journal insights
  moodsphere journal insights --range 90d
  moodsphere journal insights --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetInsightsHandler == nil {
			return errNotInitialized
		}

		trends, err := app.GetInsightsHandler.Handle(cmd.Context(), queries.GetInsightsQuery{
			UserID: cli.CurrentUserID(),
			Range:  insightsRange,
		})
		if err != nil {
			return fmt.Errorf("failed to load insights: %w", err)
		}

		out := cmd.OutOrStdout()
		if insightsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(trends)
		}

		if len(trends.Dates) == 0 {
			fmt.Fprintln(out, "No entries in this range.")
			return nil
		}

		fmt.Fprintln(out, "Mood trend:")
		for i, date := range trends.Dates {
			score := trends.Scores[i]
			fmt.Fprintf(out, "  %s  %-20s %.2f\n", date, strings.Repeat("#", int(score*20+0.5)), score)
		}

		if len(trends.Keywords) > 0 {
			fmt.Fprintln(out, "\nTop keywords:")
			for _, kw := range trends.Keywords {
				fmt.Fprintf(out, "  %-16s %d\n", kw.Word, kw.Count)
			}
		}
		return nil
	},
}

func init() {
	insightsCmd.Flags().StringVarP(&insightsRange, "range", "r", "", "date range (7d, 30d, 90d, all, search:<term>)")
	insightsCmd.Flags().BoolVar(&insightsJSON, "json", false, "print insights as JSON")
}
