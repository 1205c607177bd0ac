package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thruflo/woodpecker/internal/config"
	"github.com/thruflo/woodpecker/internal/eventlog"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize .woodpecker/ directory",
	Long: `Creates the .woodpecker/ directory with a default config.yaml and a
.gitignore that keeps progress data and the event journal out of version
control. An existing config.yaml is left untouched.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	basePath := projectDir
	if basePath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		basePath = cwd
	}

	out := cmd.OutOrStdout()
	existed := dirExists(config.Dir(basePath))

	path, err := config.WriteDefault(basePath)
	if err != nil {
		return err
	}
	if err := writeGitignore(config.Dir(basePath)); err != nil {
		return err
	}

	if existed {
		fmt.Fprintf(out, "Using existing %s\n", path)
	} else {
		fmt.Fprintf(out, "Initialized %s\n", config.Dir(basePath))
	}

	cfg, err := config.LoadConfig(basePath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.CatalogPath(basePath)); err != nil {
		fmt.Fprintf(out, "No catalog at %s yet: add a JSON array of puzzles there before playing.\n", cfg.CatalogPath(basePath))
	}
	return nil
}

// dirExists checks if a directory exists
func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func writeGitignore(dir string) error {
	content := "data/\n" + eventlog.FileName + "\n"
	path := filepath.Join(dir, ".gitignore")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write .gitignore: %w", err)
	}
	return nil
}
