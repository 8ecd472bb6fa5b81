package cmd

import (
	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-lens/internal/presenter"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Shows recorded analysis runs",
	Long: `Shows the most recent saved runs from the local history database.
With --run, shows the repositories recorded for that run instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		out := cmd.OutOrStdout()
		if runID, _ := cmd.Flags().GetString("run"); runID != "" {
			repos, err := app.analyzer.RunRepos(cmd.Context(), runID)
			if err != nil {
				return err
			}
			presenter.PrintRunRepos(out, repos)
			return nil
		}

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := app.analyzer.History(cmd.Context(), limit)
		if err != nil {
			return err
		}
		presenter.PrintRuns(out, runs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 10, "Number of runs to show")
	historyCmd.Flags().String("run", "", "Show the repositories of this run ID")
}
