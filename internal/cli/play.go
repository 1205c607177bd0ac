package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/thruflo/woodpecker/internal/config"
	"github.com/thruflo/woodpecker/internal/eventlog"
	"github.com/thruflo/woodpecker/internal/logging"
	"github.com/thruflo/woodpecker/internal/metrics"
	"github.com/thruflo/woodpecker/internal/oracle"
	"github.com/thruflo/woodpecker/internal/puzzle"
	"github.com/thruflo/woodpecker/internal/state"
	"github.com/thruflo/woodpecker/internal/trainer"
)

var playMetricsAddr string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Train on the catalog, starting where you left off",
	Long: `Starts an interactive training session at the saved position in the
current cycle.

Type moves in coordinate notation (e2e4, e7e8q). Other commands:
  solution   show the solution of the current puzzle
  giveup     record a failure for this cycle and move on
  status     show cycle progress
  quit       leave; the current puzzle is not recorded`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playMetricsAddr, "metrics-addr", "",
		"serve Prometheus metrics on this address (overrides metrics_addr)")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := newConsole(cmd.OutOrStdout())

	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	catalog, err := env.loadCatalog()
	if err != nil {
		out.println(styles.Error.Render("cannot start: " + err.Error()))
		return err
	}

	progress, blobs, err := env.openProgress()
	if err != nil {
		return err
	}
	defer blobs.Close()

	journal, err := eventlog.Open(config.Dir(env.basePath), env.logger)
	if err != nil {
		return err
	}

	var recorder *metrics.Recorder
	addr := playMetricsAddr
	if addr == "" {
		addr = env.cfg.MetricsAddr
	}
	if addr != "" {
		reg := prometheus.NewRegistry()
		recorder = metrics.NewRecorder(reg)
		srv := serveMetrics(addr, reg, env.logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	waiter := newReplyWaiter()
	tr, err := trainer.New(context.WithoutCancel(ctx), trainer.Options{
		Catalog:    catalog,
		Store:      progress,
		Oracle:     oracle.NewChess(),
		ReplyDelay: env.cfg.ReplyDelay(),
		Sink:       trainer.Fanout(journal.Sink(), newTerminalSink(out, catalog), waiter.sink),
		Metrics:    recorder,
		Logger:     env.logger,
	})
	if err != nil {
		return err
	}

	env.logger.Debug("session opened", "session", journal.Session(), "journal", journal.Path(), "puzzles", catalog.Len())
	p := tr.Progress()
	out.println(styles.Title.Render(fmt.Sprintf("Cycle %d", p.CurrentCycle)) +
		styles.Muted.Render(fmt.Sprintf("  %d puzzles, %d cycle(s) completed. Type help for commands.",
			catalog.Len(), p.CompletedCycles)))

	if err := tr.Start(); err != nil {
		return err
	}
	prompt := ""
	if isTerminal(cmd.InOrStdin()) {
		prompt = "> "
	}
	return playLoop(ctx, cmd.InOrStdin(), out, prompt, tr, waiter)
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", "addr", addr, "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)
	return srv
}

// playLoop reads commands and moves from in until quit, end of input or
// ctx is done. A non-empty prompt is printed before each read. The trainer
// is closed on the way out.
func playLoop(ctx context.Context, in io.Reader, out *console, prompt string, tr *trainer.Trainer, waiter *replyWaiter) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	defer closeSession(out, tr)

	for {
		if prompt != "" {
			out.printf("%s", prompt)
		}
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			done, err := handleLine(ctx, strings.TrimSpace(line), out, tr, waiter)
			if err != nil || done {
				return err
			}
		}
	}
}

func handleLine(ctx context.Context, line string, out *console, tr *trainer.Trainer, waiter *replyWaiter) (bool, error) {
	switch strings.ToLower(line) {
	case "":
		return false, nil
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		out.println(styles.Muted.Render("moves: e2e4, e7e8q   commands: solution, giveup, status, quit"))
		return false, nil
	case "solution":
		showSolution(out, tr.Machine())
		return false, nil
	case "status":
		p := tr.Progress()
		out.println(formatProgressLine(p, tr.Catalog()))
		return false, nil
	case "giveup":
		if err := tr.GiveUp(); err != nil {
			if haltErr := tr.Err(); haltErr != nil {
				return true, haltErr
			}
			out.println(styles.Warning.Render(err.Error()))
		}
		return false, nil
	}

	mv, err := puzzle.ParseMove(line)
	if err != nil {
		out.println(styles.Warning.Render(fmt.Sprintf("%q is not a move; type help for commands", line)))
		return false, nil
	}
	return submitMove(ctx, mv, out, tr, waiter)
}

func submitMove(ctx context.Context, mv puzzle.Move, out *console, tr *trainer.Trainer, waiter *replyWaiter) (bool, error) {
	// A reply that lands on the last solution move also finalizes the
	// puzzle, so wait for the progress update instead.
	target := trainer.EventOpponentMoved
	if m := tr.Machine(); m != nil && m.Cursor().SolutionCursor+2 >= len(m.Puzzle().Solution) {
		target = trainer.EventProgressChanged
	}

	waiter.reset()
	outcome, err := tr.Submit(mv)
	if err != nil {
		if haltErr := tr.Err(); haltErr != nil {
			return true, haltErr
		}
		out.println(styles.Warning.Render(err.Error()))
		return false, nil
	}

	if outcome == trainer.OutcomeAccepted {
		if !waiter.wait(ctx, target) {
			return true, nil
		}
		if haltErr := tr.Err(); haltErr != nil {
			return true, haltErr
		}
	}
	return false, nil
}

func closeSession(out *console, tr *trainer.Trainer) {
	if err := tr.Close(); err != nil {
		out.println(styles.Warning.Render("progress could not be saved: " + err.Error()))
	}
	out.println(styles.Muted.Render("Session ended. " + formatProgressLine(tr.Progress(), tr.Catalog())))
}

func showSolution(out *console, m *trainer.Machine) {
	if m == nil {
		out.println(styles.Warning.Render("no active puzzle"))
		return
	}
	cursor := m.Cursor()
	out.println(formatSolution(m.Puzzle(), cursor.SolutionCursor))
}

// formatSolution lists a puzzle's solution with who plays each move. A
// next value inside the solution marks that ply.
func formatSolution(p puzzle.Puzzle, next int) string {
	var b strings.Builder
	for i, move := range p.Solution {
		who := "opponent"
		switch {
		case i == 0:
			who = "setup"
		case i%2 == 1:
			who = "you"
		}
		line := fmt.Sprintf("  %2d. %-6s %s", i+1, move, who)
		if i == next {
			line = styles.Move.Render(line + "  <- next")
		} else if i < next {
			line = styles.Muted.Render(line)
		}
		b.WriteString(line)
		if i < len(p.Solution)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func formatProgressLine(p state.Progress, catalog *puzzle.Catalog) string {
	ids := make([]string, 0, catalog.Len())
	for _, pz := range catalog.All() {
		ids = append(ids, pz.ID)
	}
	sum := state.Summarize(p, ids)
	return fmt.Sprintf("Cycle %d, puzzle %d/%d, %d cycle(s) completed. This cycle: %d solved, %d failed, %d unsolved.",
		p.CurrentCycle, p.CurrentIndex+1, catalog.Len(), p.CompletedCycles, sum.Solved, sum.Failed, sum.Unsolved)
}

// replyWaiter lets the input loop block until an automated reply has been
// handled.
type replyWaiter struct {
	events chan trainer.EventKind
}

func newReplyWaiter() *replyWaiter {
	return &replyWaiter{events: make(chan trainer.EventKind, 64)}
}

func (w *replyWaiter) sink(e trainer.Event) {
	select {
	case w.events <- e.Kind:
	default:
	}
}

func (w *replyWaiter) reset() {
	for {
		select {
		case <-w.events:
		default:
			return
		}
	}
}

// wait returns true once target or a session error is seen, false if ctx
// ends first.
func (w *replyWaiter) wait(ctx context.Context, target trainer.EventKind) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case kind := <-w.events:
			if kind == target || kind == trainer.EventSessionError {
				return true
			}
		}
	}
}

// newTerminalSink renders trainer events for a human at a terminal.
func newTerminalSink(out *console, catalog *puzzle.Catalog) trainer.Sink {
	return func(e trainer.Event) {
		switch e.Kind {
		case trainer.EventPuzzleStarted:
			p, _, _ := catalog.Lookup(e.PuzzleID)
			header := fmt.Sprintf("Puzzle %s [%d/%d]", p.ID, e.PuzzleIndex+1, catalog.Len())
			details := fmt.Sprintf("  rating %d", p.Rating)
			if len(p.Themes) > 0 {
				details += ", " + strings.Join(p.Themes, " ")
			}
			out.println()
			out.println(styles.Title.Render(header) + styles.Muted.Render(details))
			out.println(styles.Board.Render(renderBoard(e.Position, e.HumanSide)))
			out.printf("Opponent played %s. You play %s.\n", styles.Move.Render(p.SetupMove()), e.HumanSide)
		case trainer.EventInvalidMove:
			out.println(styles.Warning.Render(fmt.Sprintf("Illegal move %s.", e.Move)))
		case trainer.EventIncorrectMove:
			out.println(styles.Warning.Render(fmt.Sprintf("%s is not the move. Try again.", e.Move)))
		case trainer.EventMoveAccepted:
			out.println(styles.Success.Render(fmt.Sprintf("Correct: %s", e.Move)))
		case trainer.EventMoveIgnored:
			out.println(styles.Muted.Render("Wait for the opponent's reply."))
		case trainer.EventOpponentMoved:
			out.printf("Opponent played %s.\n", styles.Move.Render(e.Move))
		case trainer.EventPuzzleSolved:
			out.println(styles.Success.Render(fmt.Sprintf("Solved in %ds.", e.ElapsedSeconds)))
		case trainer.EventPuzzleFailed:
			out.println(styles.Warning.Render(fmt.Sprintf("Gave up after %ds.", e.ElapsedSeconds)))
		case trainer.EventCycleCompleted:
			if e.Progress != nil {
				out.println(styles.Title.Render(fmt.Sprintf("Cycle %d complete. Starting cycle %d.",
					e.Progress.CompletedCycles, e.Progress.CurrentCycle)))
			}
		case trainer.EventSessionError:
			if e.Err != nil {
				out.println(styles.Error.Render("error: " + e.Err.Error()))
			}
		}
	}
}
