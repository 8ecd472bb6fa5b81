package cmd

import (
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-lens/internal/presenter"
	"github.com/naka-gawa/repo-lens/internal/usecase"
)

var spotlightCmd = &cobra.Command{
	Use:   "spotlight <username>",
	Short: "Picks a random repository and scores it",
	Long: `Picks one public repository of a GitHub user at random and prints it with
its score, 2*ln(stars+1) + sqrt(forks+1). Use --seed for a repeatable pick.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []usecase.Option
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetUint64("seed")
			opts = append(opts, usecase.WithRand(rand.New(rand.NewPCG(seed, seed))))
		}

		app, err := newApp(cmd, opts...)
		if err != nil {
			return err
		}
		defer app.Close()

		spot, err := app.analyzer.Spotlight(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		presenter.PrintSpotlight(cmd.OutOrStdout(), spot)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(spotlightCmd)
	spotlightCmd.Flags().Uint64("seed", 0, "Seed for a repeatable pick")
}
