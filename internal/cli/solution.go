package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thruflo/woodpecker/internal/oracle"
)

var solutionCmd = &cobra.Command{
	Use:   "solution <puzzle-id>",
	Short: "Print a puzzle's solution",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolution,
}

func init() {
	rootCmd.AddCommand(solutionCmd)
}

func runSolution(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	catalog, err := env.loadCatalog()
	if err != nil {
		return err
	}

	p, index, ok := catalog.Lookup(args[0])
	if !ok {
		return fmt.Errorf("puzzle %q not found in catalog", args[0])
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Puzzle %s [%d/%d]\n", p.ID, index+1, catalog.Len())
	printField(out, "Position", p.FEN)
	if side, err := oracle.NewChess().SideToMove(p.FEN); err == nil {
		printField(out, "You play", side.Opponent().String())
	}
	printField(out, "Rating", fmt.Sprintf("%d", p.Rating))
	if len(p.Themes) > 0 {
		printField(out, "Themes", strings.Join(p.Themes, ", "))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, formatSolution(p, -1))
	return nil
}
