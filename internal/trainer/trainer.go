// Package trainer runs a puzzle training session: it walks the catalog in
// order, plays each puzzle through a Machine, records attempts and keeps
// the persisted progress in step.
//
// A Trainer is safe for use from one input goroutine plus the timer
// goroutines that deliver automated replies.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/thruflo/woodpecker/internal/clock"
	"github.com/thruflo/woodpecker/internal/logging"
	"github.com/thruflo/woodpecker/internal/metrics"
	"github.com/thruflo/woodpecker/internal/oracle"
	"github.com/thruflo/woodpecker/internal/puzzle"
	"github.com/thruflo/woodpecker/internal/state"
)

// Options holds the collaborators of a Trainer.
type Options struct {
	Catalog    *puzzle.Catalog
	Store      *state.ProgressStore
	Oracle     oracle.Oracle
	Scheduler  Scheduler
	ReplyDelay time.Duration
	Sink       Sink
	Metrics    *metrics.Recorder
	Logger     *logging.Logger

	// Now overrides the clock used for attempt timing.
	Now func() time.Time
}

// Trainer owns the session progress and the active Machine.
type Trainer struct {
	mu sync.Mutex

	ctx        context.Context
	catalog    *puzzle.Catalog
	store      *state.ProgressStore
	oracle     oracle.Oracle
	scheduler  Scheduler
	replyDelay time.Duration
	sink       Sink
	metrics    *metrics.Recorder
	logger     *logging.Logger
	now        func() time.Time

	progress state.Progress
	machine  *Machine
	err      error
}

// New loads persisted progress and prepares a Trainer. It fails with
// puzzle.ErrEmptyCatalog when there is nothing to train on. ctx is also
// used for saves triggered by automated replies.
func New(ctx context.Context, opts Options) (*Trainer, error) {
	if opts.Catalog == nil || opts.Catalog.Len() == 0 {
		return nil, puzzle.ErrEmptyCatalog
	}
	if opts.Store == nil {
		return nil, errors.New("trainer: progress store is required")
	}
	if opts.Oracle == nil {
		return nil, errors.New("trainer: oracle is required")
	}
	if opts.Scheduler == nil {
		opts.Scheduler = TimerScheduler{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	t := &Trainer{
		ctx:        ctx,
		catalog:    opts.Catalog,
		store:      opts.Store,
		oracle:     opts.Oracle,
		scheduler:  opts.Scheduler,
		replyDelay: opts.ReplyDelay,
		sink:       opts.Sink,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		now:        opts.Now,
	}

	t.progress = t.store.Load(ctx)
	if t.progress.CurrentIndex >= t.catalog.Len() {
		t.logger.Warn("saved index is beyond the catalog, restarting cycle",
			"index", t.progress.CurrentIndex, "puzzles", t.catalog.Len())
		t.progress.CurrentIndex = 0
	}
	t.metrics.Cycle(t.progress.CurrentCycle)

	return t, nil
}

// Start loads the puzzle at the current index.
func (t *Trainer) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.err != nil {
		return t.err
	}
	if t.machine != nil {
		return nil
	}
	return t.startLocked()
}

// startLocked builds the Machine for the current index. Puzzles solved by
// their setup move alone are finalized on the spot; a full cycle of them
// returns ErrNothingToSolve.
func (t *Trainer) startLocked() error {
	for skipped := 0; skipped < t.catalog.Len(); skipped++ {
		index := t.progress.CurrentIndex
		p := t.catalog.At(index)

		m, err := NewMachine(p, index, MachineOptions{
			Oracle:     t.oracle,
			Scheduler:  t.scheduler,
			ReplyDelay: t.replyDelay,
			Clock:      clock.NewWithNow(t.now),
			Sink:       t.sink,
			Logger:     t.logger,
			OnSolved:   t.handleSolved,
			OnFailed:   t.handleFailed,
		})
		if err != nil {
			return t.haltLocked(err)
		}

		t.sink.emit(m.event(EventPuzzleStarted))
		if m.Phase() != PhaseSolved {
			t.machine = m
			t.logger.Info("puzzle started", "puzzle", p.ID, "index", index, "cycle", t.progress.CurrentCycle)
			return nil
		}

		t.logger.Debug("puzzle has no user moves", "puzzle", p.ID)
		t.finalizeLocked(p, true, 0)
	}

	t.machine = nil
	return t.haltLocked(ErrNothingToSolve)
}

func (t *Trainer) haltLocked(err error) error {
	t.machine = nil
	t.err = fmt.Errorf("%w: %w", ErrSessionHalted, err)
	t.logger.Error("session halted", "error", err)
	t.sink.emit(Event{Kind: EventSessionError, PuzzleIndex: t.progress.CurrentIndex, Err: t.err})
	return t.err
}

// Submit forwards a user move to the active puzzle.
func (t *Trainer) Submit(mv puzzle.Move) (Outcome, error) {
	t.mu.Lock()
	m, err := t.machine, t.err
	t.mu.Unlock()

	if err != nil {
		return OutcomeIllegal, err
	}
	if m == nil {
		return OutcomeIllegal, ErrNoActivePuzzle
	}

	outcome, err := m.Submit(mv)
	if err == nil {
		t.metrics.Move(outcome.String())
	}
	return outcome, err
}

// handleSolved finalizes a solved puzzle and loads the next one.
func (t *Trainer) handleSolved(m *Machine, elapsed int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.machine != m {
		return
	}
	t.machine = nil
	t.metrics.PuzzleSolved(elapsed)
	t.finalizeLocked(m.Puzzle(), true, elapsed)
	_ = t.startLocked()
}

func (t *Trainer) handleFailed(m *Machine, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.machine != m {
		return
	}
	_ = t.haltLocked(err)
}

// GiveUp records a failed attempt for the active puzzle in the current
// cycle and moves on to the next puzzle.
func (t *Trainer) GiveUp() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.err != nil {
		return t.err
	}
	m := t.machine
	if m == nil {
		return ErrNoActivePuzzle
	}
	if !m.Abandon() {
		return ErrNotAwaitingMove
	}

	t.machine = nil
	elapsed := m.Elapsed()
	ev := m.event(EventPuzzleFailed)
	ev.ElapsedSeconds = elapsed
	t.sink.emit(ev)
	t.metrics.PuzzleFailed()

	t.finalizeLocked(m.Puzzle(), false, elapsed)
	return t.startLocked()
}

// finalizeLocked records an attempt, advances progress and persists it.
func (t *Trainer) finalizeLocked(p puzzle.Puzzle, success bool, elapsed int) {
	prev := t.progress
	next := prev.Clone()
	next.Attempts.Record(p.ID, state.Attempt{
		Cycle:          prev.CurrentCycle,
		ElapsedSeconds: elapsed,
		Success:        success,
	})

	// The catalog is never empty here, so Advance cannot fail.
	next, _ = state.Advance(next, t.catalog.Len())
	t.progress = next
	t.persistLocked()

	snapshot := next.Clone()
	t.sink.emit(Event{Kind: EventProgressChanged, PuzzleID: p.ID, Progress: &snapshot})

	if next.CurrentCycle != prev.CurrentCycle {
		t.logger.Info("cycle completed", "cycle", prev.CurrentCycle)
		t.metrics.Cycle(next.CurrentCycle)
		t.sink.emit(Event{Kind: EventCycleCompleted, Progress: &snapshot})
	}
}

func (t *Trainer) persistLocked() {
	if err := t.store.Save(t.ctx, t.progress); err != nil {
		t.metrics.PersistError()
		t.logger.Warn("failed to save progress", "error", err)
	}
}

// Close abandons the active puzzle without recording it and makes a final
// attempt to persist progress. The returned error is informational.
func (t *Trainer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.machine != nil {
		t.machine.Abandon()
		t.machine = nil
	}
	return t.store.Save(t.ctx, t.progress)
}

// Progress returns a copy of the current progress.
func (t *Trainer) Progress() state.Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress.Clone()
}

// Machine returns the active Machine, or nil.
func (t *Trainer) Machine() *Machine {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.machine
}

// Catalog returns the puzzle catalog.
func (t *Trainer) Catalog() *puzzle.Catalog {
	return t.catalog
}

// Err returns the error that halted the session, if any.
func (t *Trainer) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}
