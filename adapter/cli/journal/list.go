package journal

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/moodsphere/adapter/cli"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/queries"
	"github.com/spf13/cobra"
)

var (
	listRange string
	listJSON  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal entries",
	Long: `List journal entries, newest first.

Ranges:
  7d, 30d, 90d    Entries from the last N days (default: 30d)
  all             Every entry
  search:<term>   Entries whose text contains <term>

Examples:
  moodsphere journal list
  moodsphere journal list --range 7d
  moodsphere journal list --range "search:river"`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListEntriesHandler == nil {
			return errNotInitialized
		}

		result, err := app.ListEntriesHandler.Handle(cmd.Context(), queries.ListEntriesQuery{
			UserID: cli.CurrentUserID(),
			Range:  listRange,
		})
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		out := cmd.OutOrStdout()
		if listJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		if len(result.Entries) == 0 {
			fmt.Fprintln(out, "No entries found.")
			return nil
		}

		for _, e := range result.Entries {
			fmt.Fprintf(out, "%s  %s %-7s  %s\n", e.Datetime, e.MoodEmoji, e.Mood, truncate(e.Text, 60))
			if cli.Verbose() {
				fmt.Fprintf(out, "    id: %s\n", e.ID)
			}
		}
		fmt.Fprintf(out, "\n%d shown, %d entries total, streak %d day(s)\n",
			len(result.Entries), result.EntriesCount, result.StreakCount)
		return nil
	},
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	listCmd.Flags().StringVarP(&listRange, "range", "r", "", "date range (7d, 30d, 90d, all, search:<term>)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print entries as JSON")
}
