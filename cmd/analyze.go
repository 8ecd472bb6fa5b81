package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-lens/internal/presenter"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <username>",
	Short: "Summarizes a user's public repositories",
	Long: `Fetches the public repositories of a GitHub user and prints star statistics,
activity, top repositories, top languages and a spotlight pick.
With --save the report is also written to the reports directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		analysis, err := app.analyzer.Analyze(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			// Marshal the results into a pretty-printed JSON string.
			jsonData, err := json.MarshalIndent(analysis, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal analysis to JSON: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
		} else {
			presenter.PrintAnalysis(out, analysis)
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			saved, err := app.analyzer.Save(cmd.Context(), analysis)
			if saved != nil {
				presenter.PrintSaved(cmd.ErrOrStderr(), saved)
			}
			if err != nil {
				if saved != nil {
					return fmt.Errorf("failed to save exports: %w", err)
				}
				return fmt.Errorf("failed to save report: %w", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().BoolP("save", "s", false, "Save the text report and JSON/CSV exports")
	analyzeCmd.Flags().Bool("json", false, "Print the analysis as JSON instead of tables")
}
