package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Analyze text without saving it",
	Long: `Run the journal text analysis and print the result.

Examples:
  moodsphere analyze "I finally finished the project and feel great"
  moodsphere analyze --json "Rainy day, feeling a bit down"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.TextAnalyzer == nil {
			return fmt.Errorf("app not initialized")
		}

		result, err := app.TextAnalyzer.Analyze(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if analyzeJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		fmt.Fprintf(out, "Mood:       %s\n", result.DominantMood)
		fmt.Fprintf(out, "Sentiment:  %.2f\n", result.SentimentScore)
		fmt.Fprintf(out, "Summary:    %s\n", result.Summary)
		if len(result.Keywords) > 0 {
			fmt.Fprintf(out, "Keywords:   %s\n", strings.Join(result.Keywords, ", "))
		}
		fmt.Fprintf(out, "Suggestion: %s\n", result.Suggestion)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full analysis as JSON")
	rootCmd.AddCommand(analyzeCmd)
}
