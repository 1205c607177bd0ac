package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all training progress",
	Long: `Deletes the saved progress: every recorded attempt, the current cycle
and the position in the catalog. The next session starts cycle 0 at the
first puzzle.

Examples:
  woodpecker reset            # asks for confirmation
  woodpecker reset --force    # skip confirmation`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false,
		"Skip confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	progress, blobs, err := env.openProgress()
	if err != nil {
		return err
	}
	defer blobs.Close()

	// Confirmation prompt (unless --force)
	if !resetForce {
		p := progress.Load(ctx)
		attempts := 0
		for _, list := range p.Attempts {
			attempts += len(list)
		}
		fmt.Fprintf(out, "This will permanently erase your progress:\n")
		fmt.Fprintf(out, "  - Cycle %d, puzzle %d, %d completed cycle(s)\n", p.CurrentCycle, p.CurrentIndex+1, p.CompletedCycles)
		fmt.Fprintf(out, "  - %d recorded attempt(s)\n", attempts)
		fmt.Fprintf(out, "\nType 'yes' to confirm: ")

		var response string
		fmt.Fscanln(cmd.InOrStdin(), &response)
		if response != "yes" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if err := progress.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	fmt.Fprintln(out, "Progress reset. The next session starts cycle 0 at puzzle 1.")
	return nil
}
