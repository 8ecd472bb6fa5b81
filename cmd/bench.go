package cmd

import (
	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-lens/internal/presenter"
)

var benchCmd = &cobra.Command{
	Use:   "bench <username>",
	Short: "Times a loop mean against a bulk mean of star counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		cmp, err := app.analyzer.CompareMeans(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		presenter.PrintMeanComparison(cmd.OutOrStdout(), cmp)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)
}
