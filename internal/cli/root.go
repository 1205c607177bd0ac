// Package cli provides command-line interface commands for woodpecker.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

// projectDir is the directory holding .woodpecker/. Empty means the
// current working directory.
var projectDir string

var rootCmd = &cobra.Command{
	Use:   "woodpecker",
	Short: "Woodpecker-method chess tactics trainer",
	Long: `Woodpecker drills a fixed catalog of chess puzzles in repeated cycles.

Each puzzle opens with the opponent's setup move; you answer with the
solution moves and the opponent's replies are played for you. Every
solve or give-up is recorded against the current cycle, and finishing
the last puzzle starts the next cycle from the top.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("woodpecker version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "C", "",
		"project directory containing .woodpecker/ (default: current directory)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
