package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thruflo/woodpecker/internal/config"
	"github.com/thruflo/woodpecker/internal/eventlog"
	"github.com/thruflo/woodpecker/internal/trainer"
)

var (
	historyAll     bool
	historySession string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the event journal of past sessions",
	Long: `Prints the events recorded in .woodpecker/events.jsonl. By default only
the most recent session is shown.

Examples:
  woodpecker history                  # latest session
  woodpecker history --all            # every session, oldest first
  woodpecker history --session <id>   # one session`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyAll, "all", false, "show every session")
	historyCmd.Flags().StringVar(&historySession, "session", "", "show the session with this id")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	records, err := eventlog.ReadFile(filepath.Join(config.Dir(env.basePath), eventlog.FileName))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sessions := eventlog.Sessions(records)
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions recorded yet.")
		return nil
	}

	switch {
	case historySession != "":
		selected := eventlog.ForSession(records, historySession)
		if len(selected) == 0 {
			return fmt.Errorf("session %q not found in journal", historySession)
		}
		printSession(out, historySession, selected)
	case historyAll:
		for i, id := range sessions {
			if i > 0 {
				fmt.Fprintln(out)
			}
			printSession(out, id, eventlog.ForSession(records, id))
		}
	default:
		latest := sessions[len(sessions)-1]
		printSession(out, latest, eventlog.ForSession(records, latest))
	}
	return nil
}

func printSession(w io.Writer, id string, records []eventlog.Record) {
	fmt.Fprintf(w, "Session %s (%d events)\n", id, len(records))
	for _, rec := range records {
		fmt.Fprintf(w, "  %s  %-16s  %-8s  %-6s  %s\n", rec.Time.Local().Format("2006-01-02 15:04:05"),
			rec.Event, rec.Puzzle, rec.Move, recordDetail(rec))
	}
}

func recordDetail(rec eventlog.Record) string {
	switch rec.Event {
	case trainer.EventPuzzleStarted.String():
		return fmt.Sprintf("#%d, you play %s", rec.Index+1, rec.Side)
	case trainer.EventPuzzleSolved.String(), trainer.EventPuzzleFailed.String():
		return fmt.Sprintf("%ds", rec.ElapsedSeconds)
	case trainer.EventProgressChanged.String(), trainer.EventCycleCompleted.String():
		return fmt.Sprintf("cycle %d", rec.Cycle)
	case trainer.EventSessionError.String():
		return strings.TrimSpace(rec.Error)
	}
	return ""
}
