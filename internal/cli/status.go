package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thruflo/woodpecker/internal/puzzle"
	"github.com/thruflo/woodpecker/internal/state"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cycle progress",
	Long: `Shows the current cycle, the next puzzle and how every puzzle stands in
the current cycle: Current, Solved, Failed or Unsolved.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	catalog, err := env.loadCatalog()
	if err != nil {
		return err
	}
	progress, blobs, err := env.openProgress()
	if err != nil {
		return err
	}
	defer blobs.Close()

	printStatus(cmd.OutOrStdout(), progress.Load(ctx), catalog)
	return nil
}

func printStatus(w io.Writer, p state.Progress, catalog *puzzle.Catalog) {
	// A shrunken catalog restarts the cycle, as the trainer does.
	if p.CurrentIndex >= catalog.Len() {
		p.CurrentIndex = 0
	}

	puzzles := catalog.All()
	ids := make([]string, len(puzzles))
	for i, pz := range puzzles {
		ids[i] = pz.ID
	}
	sum := state.Summarize(p, ids)

	fmt.Fprintln(w, "Progress")
	fmt.Fprintln(w, "--------")
	printField(w, "Cycle", fmt.Sprintf("%d", p.CurrentCycle))
	printField(w, "Next puzzle", fmt.Sprintf("%d/%d (%s)", p.CurrentIndex+1, catalog.Len(), ids[p.CurrentIndex]))
	printField(w, "Completed", fmt.Sprintf("%d cycle(s)", p.CompletedCycles))
	printField(w, "This cycle", fmt.Sprintf("%d solved, %d failed, %d unsolved", sum.Solved, sum.Failed, sum.Unsolved))
	fmt.Fprintln(w)

	// Calculate column widths
	idWidth := len("PUZZLE")
	themeWidth := len("THEMES")
	for _, pz := range puzzles {
		if len(pz.ID) > idWidth {
			idWidth = len(pz.ID)
		}
		if themes := strings.Join(pz.Themes, ","); len(themes) > themeWidth {
			themeWidth = len(themes)
		}
	}

	fmt.Fprintf(w, "%4s  %-*s  %6s  %-*s  %s\n", "#", idWidth, "PUZZLE", "RATING", themeWidth, "THEMES", "STATUS")
	fmt.Fprintf(w, "%s  %s  %s  %s  %s\n", strings.Repeat("-", 4), strings.Repeat("-", idWidth),
		strings.Repeat("-", 6), strings.Repeat("-", themeWidth), "------")

	for i, pz := range puzzles {
		standing := state.StandingFor(p, i, pz.ID)
		fmt.Fprintf(w, "%4d  %-*s  %6d  %-*s  %s\n", i+1, idWidth, pz.ID, pz.Rating,
			themeWidth, strings.Join(pz.Themes, ","), standing)
	}
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-14s %s\n", label+":", value)
}
