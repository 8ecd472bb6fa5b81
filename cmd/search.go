package cmd

import (
	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-lens/internal/presenter"
)

var searchCmd = &cobra.Command{
	Use:   "search <username> <keyword>",
	Short: "Lists repositories whose name contains a keyword",
	Long:  `Lists the public repositories of a GitHub user whose name contains the keyword, ignoring case.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		matches, err := app.analyzer.Search(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		presenter.PrintMatches(cmd.OutOrStdout(), args[1], matches)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
