package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-lens/internal/config"
	"github.com/naka-gawa/repo-lens/internal/presenter"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Summarizes every user listed in a usernames file",
	Long: `Reads one GitHub username per line (blank lines and # comments are skipped)
and prints a summary row per user. A failure for one user does not stop the others.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			path = app.cfg.UsernamesFile
		}
		usernames, err := config.LoadUsernames(path)
		if err != nil {
			return err
		}
		if len(usernames) == 0 {
			return fmt.Errorf("no usernames in %s", path)
		}

		presenter.PrintBatch(cmd.OutOrStdout(), app.analyzer.AnalyzeBatch(cmd.Context(), usernames))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringP("file", "f", "", "Usernames file (defaults to usernames_file from config)")
}
