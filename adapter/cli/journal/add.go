package journal

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/moodsphere/adapter/cli"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/commands"
	"github.com/spf13/cobra"
)

var (
	entryMood     string
	entryPrompt   string
	entryDatetime string
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a journal entry",
	Long: `Add a journal entry. The text is analyzed for mood, keywords and a
suggestion before it is saved.

Moods:
  happy, calm, neutral, sad, angry (default: analyzed from the text)

Examples:
  moodsphere journal add "Long walk by the river, felt calm"
  moodsphere journal add --mood happy "Dinner with old friends"
  moodsphere journal add --datetime 2024-03-09T21:30:00 "Catching up on yesterday"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.SaveEntryHandler == nil {
			return errNotInitialized
		}

		result, err := app.SaveEntryHandler.Handle(cmd.Context(), commands.SaveEntryCommand{
			UserID:   cli.CurrentUserID(),
			Text:     strings.Join(args, " "),
			Mood:     entryMood,
			Prompt:   entryPrompt,
			Datetime: entryDatetime,
		})
		if err != nil {
			return fmt.Errorf("failed to save entry: %w", err)
		}

		entry := result.SavedEntry
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Saved entry %s\n", entry.ID)
		fmt.Fprintf(out, "  Mood:       %s %s\n", entry.MoodEmoji, entry.Mood)
		if entry.AnalysisStatus == "analyzed" {
			fmt.Fprintf(out, "  Summary:    %s\n", entry.Summary)
			fmt.Fprintf(out, "  Suggestion: %s\n", entry.Suggestion)
		} else {
			fmt.Fprintf(out, "  Analysis unavailable (%s)\n", entry.AnalysisReason)
		}
		fmt.Fprintf(out, "Streak: %d day(s), %d entries total\n", result.StreakCount, result.EntriesCount)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&entryMood, "mood", "m", "", "mood label (happy, calm, neutral, sad, angry)")
	addCmd.Flags().StringVarP(&entryPrompt, "prompt", "p", "", "prompt the entry answers")
	addCmd.Flags().StringVar(&entryDatetime, "datetime", "", "ISO-8601 time of the entry (default: now)")
}
