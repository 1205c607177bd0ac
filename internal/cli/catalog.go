package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thruflo/woodpecker/internal/oracle"
	"github.com/thruflo/woodpecker/internal/trainer"
)

var catalogVerify bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate and list the puzzle catalog",
	Long: `Loads the configured catalog, validates every record and lists the
puzzles in training order.

With --verify every solution is also replayed move by move, so puzzles
whose moves are illegal are reported before a session reaches them.`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogVerify, "verify", false,
		"replay every solution through the rules engine")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	catalog, err := env.loadCatalog()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	puzzles := catalog.All()

	idWidth := len("PUZZLE")
	for _, p := range puzzles {
		if len(p.ID) > idWidth {
			idWidth = len(p.ID)
		}
	}

	fmt.Fprintf(out, "%4s  %-*s  %6s  %10s  %5s  %s\n", "#", idWidth, "PUZZLE", "RATING", "POPULARITY", "MOVES", "THEMES")
	fmt.Fprintf(out, "%s  %s  %s  %s  %s  %s\n", strings.Repeat("-", 4), strings.Repeat("-", idWidth),
		strings.Repeat("-", 6), strings.Repeat("-", 10), strings.Repeat("-", 5), "------")

	userMoves := 0
	for i, p := range puzzles {
		userMoves += p.UserMoves()
		fmt.Fprintf(out, "%4d  %-*s  %6d  %10d  %5d  %s\n", i+1, idWidth, p.ID, p.Rating, p.Popularity,
			p.UserMoves(), strings.Join(p.Themes, ","))
	}
	fmt.Fprintf(out, "\n%d puzzles, %d moves to find per cycle.\n", len(puzzles), userMoves)

	if !catalogVerify {
		return nil
	}

	o := oracle.NewChess()
	broken := 0
	for _, p := range puzzles {
		if err := trainer.Verify(o, p); err != nil {
			broken++
			fmt.Fprintf(out, "  %s\n", err)
		}
	}
	if broken > 0 {
		return fmt.Errorf("%d of %d puzzles failed verification", broken, len(puzzles))
	}
	fmt.Fprintln(out, "All solutions verified.")
	return nil
}
