package journal

import (
	"fmt"

	"github.com/felixgeelhaar/moodsphere/adapter/cli"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/commands"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [entry-id]",
	Short: "Delete a journal entry",
	Long: `Delete a journal entry by id. Entry ids are shown by "journal list -v".

Examples:
  moodsphere journal delete 3f6c2a9e-5d0b-4c7e-9a51-0e2f1b7d8c44`,
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.DeleteEntryHandler == nil {
			return errNotInitialized
		}

		err := app.DeleteEntryHandler.Handle(cmd.Context(), commands.DeleteEntryCommand{
			EntryID: args[0],
			UserID:  cli.CurrentUserID(),
		})
		if err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Entry deleted successfully.")
		return nil
	},
}
