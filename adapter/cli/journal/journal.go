package journal

import (
	"errors"

	"github.com/spf13/cobra"
)

// Cmd is the journal command group
var Cmd = &cobra.Command{
	Use:   "journal",
	Short: "Write and review journal entries",
	Long:  `Add entries, list them, and review your streak and mood trends.`,
}

var errNotInitialized = errors.New("journal commands require an entry store; check DATABASE_URL")

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(insightsCmd)
	Cmd.AddCommand(streakCmd)
	Cmd.AddCommand(promptCmd)
}
