package trainer

import (
	"errors"
	"sync"
	"time"

	"github.com/thruflo/woodpecker/internal/clock"
	"github.com/thruflo/woodpecker/internal/logging"
	"github.com/thruflo/woodpecker/internal/oracle"
	"github.com/thruflo/woodpecker/internal/puzzle"
)

// Phase is the state of a single puzzle attempt.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseAwaitingUserMove
	PhaseAutoReplying
	PhaseSolved
	PhaseAbandoned
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseAwaitingUserMove:
		return "awaiting user move"
	case PhaseAutoReplying:
		return "auto replying"
	case PhaseSolved:
		return "solved"
	case PhaseAbandoned:
		return "abandoned"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further moves can be played.
func (p Phase) Terminal() bool {
	return p == PhaseSolved || p == PhaseAbandoned || p == PhaseFailed
}

// Outcome is the result of submitting a user move.
type Outcome int

const (
	// OutcomeIllegal means the oracle rejected the move.
	OutcomeIllegal Outcome = iota
	// OutcomeIncorrect means the move was legal but not the solution move.
	OutcomeIncorrect
	// OutcomeAccepted means the move matched and an automated reply is pending.
	OutcomeAccepted
	// OutcomeSolved means the move completed the solution.
	OutcomeSolved
	// OutcomeBusy means the move arrived while an automated reply was pending
	// and was ignored.
	OutcomeBusy
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIllegal:
		return "illegal"
	case OutcomeIncorrect:
		return "incorrect"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeSolved:
		return "solved"
	case OutcomeBusy:
		return "ignored"
	default:
		return "unknown"
	}
}

// Cursor is the live pointer into a puzzle's solution.
type Cursor struct {
	PuzzleIndex    int
	SolutionCursor int
	Position       string
}

// DefaultReplyDelay is how long the automated opponent waits before moving.
const DefaultReplyDelay = 500 * time.Millisecond

// MachineOptions configures a Machine.
type MachineOptions struct {
	Oracle     oracle.Oracle
	Scheduler  Scheduler
	ReplyDelay time.Duration
	Clock      *clock.Stopwatch
	Sink       Sink
	Logger     *logging.Logger

	// OnSolved is called once, outside the machine's lock, when the last
	// solution move has been played.
	OnSolved func(m *Machine, elapsedSeconds int)

	// OnFailed is called once, outside the machine's lock, when the oracle
	// rejects an automated reply or cannot decode the live position.
	OnFailed func(m *Machine, err error)
}

// Machine drives one puzzle attempt: it plays the setup move, checks user
// moves against the solution and plays the automated replies.
type Machine struct {
	mu sync.Mutex

	puzzle   puzzle.Puzzle
	solution []puzzle.Move
	human    puzzle.Side

	oracle     oracle.Oracle
	scheduler  Scheduler
	replyDelay time.Duration
	clock      *clock.Stopwatch
	sink       Sink
	logger     *logging.Logger
	onSolved   func(*Machine, int)
	onFailed   func(*Machine, error)

	phase       Phase
	cursor      Cursor
	cancelReply func() bool
	replySeq    uint64
}

// NewMachine initializes a Machine for p at catalog index. The setup move is
// applied immediately; if the oracle rejects it a *DataIntegrityError is
// returned. A puzzle whose solution is only the setup move starts Solved
// with no callback; the caller decides how to finalize it.
func NewMachine(p puzzle.Puzzle, index int, opts MachineOptions) (*Machine, error) {
	if opts.Oracle == nil {
		return nil, errors.New("machine: oracle is required")
	}
	if opts.Scheduler == nil {
		opts.Scheduler = TimerScheduler{}
	}
	if opts.ReplyDelay < 0 {
		opts.ReplyDelay = 0
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}

	m := &Machine{
		puzzle:     p,
		oracle:     opts.Oracle,
		scheduler:  opts.Scheduler,
		replyDelay: opts.ReplyDelay,
		clock:      opts.Clock,
		sink:       opts.Sink,
		logger:     opts.Logger.With("puzzle", p.ID),
		onSolved:   opts.OnSolved,
		onFailed:   opts.OnFailed,
		phase:      PhaseInitializing,
		cursor:     Cursor{PuzzleIndex: index},
	}

	solution, err := p.Moves()
	if err != nil {
		return nil, &DataIntegrityError{PuzzleID: p.ID, Err: err}
	}
	if len(solution) == 0 {
		return nil, &DataIntegrityError{PuzzleID: p.ID, Err: errors.New("empty solution")}
	}
	m.solution = solution

	toMove, err := m.oracle.SideToMove(p.FEN)
	if err != nil {
		return nil, &DataIntegrityError{PuzzleID: p.ID, Err: err}
	}
	m.human = toMove.Opponent()

	pos, err := m.oracle.Apply(p.FEN, solution[0])
	if err != nil {
		return nil, &DataIntegrityError{PuzzleID: p.ID, Ply: 0, Move: solution[0].String(), Err: err}
	}
	m.cursor.Position = pos
	m.cursor.SolutionCursor = 1

	m.clock.Start()
	if m.cursor.SolutionCursor == len(m.solution) {
		m.clock.Stop()
		m.phase = PhaseSolved
	} else {
		m.phase = PhaseAwaitingUserMove
	}

	m.logger.Debug("puzzle initialized", "human", m.human, "setup", solution[0])
	return m, nil
}

// Submit checks a user move against the solution.
//
// Illegal and incorrect moves leave the cursor and position unchanged. A
// correct move either completes the puzzle or schedules the automated reply.
// Moves arriving while the reply is pending return OutcomeBusy. Moves after
// a terminal phase return ErrNotAwaitingMove.
func (m *Machine) Submit(mv puzzle.Move) (Outcome, error) {
	m.mu.Lock()

	switch m.phase {
	case PhaseAwaitingUserMove:
	case PhaseAutoReplying:
		ev := m.eventLocked(EventMoveIgnored)
		ev.Move = mv.String()
		m.mu.Unlock()
		m.sink.emit(ev)
		return OutcomeBusy, nil
	default:
		m.mu.Unlock()
		return OutcomeIllegal, ErrNotAwaitingMove
	}

	next, err := m.oracle.Apply(m.cursor.Position, mv)
	if err != nil {
		if !errors.Is(err, oracle.ErrIllegalMove) {
			// The position came from the oracle itself, so it must decode.
			ierr := m.failLocked(&DataIntegrityError{PuzzleID: m.puzzle.ID, Ply: m.cursor.SolutionCursor, Err: err})
			m.mu.Unlock()
			m.reportFailure(ierr)
			return OutcomeIllegal, ierr
		}
		ev := m.eventLocked(EventInvalidMove)
		ev.Move = mv.String()
		m.mu.Unlock()
		m.logger.Debug("illegal move", "move", mv)
		m.sink.emit(ev)
		return OutcomeIllegal, nil
	}

	expected := m.solution[m.cursor.SolutionCursor]
	if !mv.Matches(expected) {
		ev := m.eventLocked(EventIncorrectMove)
		ev.Move = mv.String()
		ply := m.cursor.SolutionCursor
		m.mu.Unlock()
		m.logger.Debug("incorrect move", "move", mv, "ply", ply)
		m.sink.emit(ev)
		return OutcomeIncorrect, nil
	}

	m.cursor.Position = next
	m.cursor.SolutionCursor++
	accepted := m.eventLocked(EventMoveAccepted)
	accepted.Move = mv.String()

	if m.cursor.SolutionCursor == len(m.solution) {
		solved, elapsed := m.solveLocked()
		m.mu.Unlock()
		m.sink.emit(accepted)
		m.sink.emit(solved)
		if m.onSolved != nil {
			m.onSolved(m, elapsed)
		}
		return OutcomeSolved, nil
	}

	m.phase = PhaseAutoReplying
	m.replySeq++
	seq := m.replySeq
	m.cancelReply = m.scheduler.AfterFunc(m.replyDelay, func() { m.autoReply(seq) })
	m.mu.Unlock()

	m.sink.emit(accepted)
	return OutcomeAccepted, nil
}

// autoReply plays the opponent's solution move. It is a no-op when the
// reply was cancelled or superseded.
func (m *Machine) autoReply(seq uint64) {
	m.mu.Lock()
	if m.phase != PhaseAutoReplying || seq != m.replySeq {
		m.mu.Unlock()
		return
	}
	m.cancelReply = nil

	ply := m.cursor.SolutionCursor
	reply := m.solution[ply]
	next, err := m.oracle.Apply(m.cursor.Position, reply)
	if err != nil {
		ierr := m.failLocked(&DataIntegrityError{PuzzleID: m.puzzle.ID, Ply: ply, Move: reply.String(), Err: err})
		m.mu.Unlock()
		m.reportFailure(ierr)
		return
	}

	m.cursor.Position = next
	m.cursor.SolutionCursor++
	moved := m.eventLocked(EventOpponentMoved)
	moved.Move = reply.String()

	if m.cursor.SolutionCursor == len(m.solution) {
		solved, elapsed := m.solveLocked()
		m.mu.Unlock()
		m.sink.emit(moved)
		m.sink.emit(solved)
		if m.onSolved != nil {
			m.onSolved(m, elapsed)
		}
		return
	}

	m.phase = PhaseAwaitingUserMove
	m.mu.Unlock()
	m.sink.emit(moved)
}

func (m *Machine) solveLocked() (Event, int) {
	m.clock.Stop()
	m.phase = PhaseSolved
	elapsed := m.clock.Elapsed()
	ev := m.eventLocked(EventPuzzleSolved)
	ev.ElapsedSeconds = elapsed
	m.logger.Info("puzzle solved", "elapsed", elapsed)
	return ev, elapsed
}

func (m *Machine) failLocked(err *DataIntegrityError) *DataIntegrityError {
	m.clock.Stop()
	m.phase = PhaseFailed
	m.logger.Error("puzzle data rejected", "error", err)
	return err
}

// reportFailure hands err to the owner, which decides whether the session
// survives and emits EventSessionError.
func (m *Machine) reportFailure(err *DataIntegrityError) {
	if m.onFailed != nil {
		m.onFailed(m, err)
	}
}

func (m *Machine) event(kind EventKind) Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventLocked(kind)
}

func (m *Machine) eventLocked(kind EventKind) Event {
	return Event{
		Kind:        kind,
		PuzzleID:    m.puzzle.ID,
		PuzzleIndex: m.cursor.PuzzleIndex,
		Position:    m.cursor.Position,
		HumanSide:   m.human,
	}
}

// Abandon discards the attempt: a pending automated reply is cancelled and
// the clock stopped. Nothing is recorded. Returns false if the machine was
// already in a terminal phase.
func (m *Machine) Abandon() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase.Terminal() {
		return false
	}
	if m.cancelReply != nil {
		m.cancelReply()
		m.cancelReply = nil
	}
	// Invalidate any reply callback already past its timer.
	m.replySeq++
	m.clock.Stop()
	m.phase = PhaseAbandoned
	m.logger.Debug("puzzle abandoned", "ply", m.cursor.SolutionCursor)
	return true
}

// Puzzle returns the puzzle being played.
func (m *Machine) Puzzle() puzzle.Puzzle {
	return m.puzzle
}

// HumanSide returns the side the user plays.
func (m *Machine) HumanSide() puzzle.Side {
	return m.human
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Cursor returns a snapshot of the live cursor.
func (m *Machine) Cursor() Cursor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor
}

// Expected returns the solution move the user must play next. ok is false
// unless the machine is awaiting a user move.
func (m *Machine) Expected() (puzzle.Move, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseAwaitingUserMove {
		return puzzle.Move{}, false
	}
	return m.solution[m.cursor.SolutionCursor], true
}

// Elapsed returns whole seconds spent on this attempt.
func (m *Machine) Elapsed() int {
	return m.clock.Elapsed()
}
