// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-lens/internal/menu"
)

var rootCmd = &cobra.Command{
	Use:   "repo-lens",
	Short: "A CLI tool to summarize a GitHub user's public repositories.",
	Long: `repo-lens fetches a GitHub user's public repositories and prints
star statistics, top repositories and languages, keyword matches and a random
spotlight pick. Reports are saved as timestamped text, JSON and CSV files.

Run without a subcommand to start the interactive menu.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		m := menu.New(app.analyzer, cmd.InOrStdin(), cmd.OutOrStdout(), app.cfg.UsernamesFile, app.logger)
		// Ctrl-C at the menu is a normal way to leave.
		if err := m.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
}
