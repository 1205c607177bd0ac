package trainer

import (
	"github.com/thruflo/woodpecker/internal/puzzle"
	"github.com/thruflo/woodpecker/internal/state"
)

// EventKind identifies what happened in a session.
type EventKind int

const (
	EventPuzzleStarted EventKind = iota
	EventInvalidMove
	EventIncorrectMove
	EventMoveAccepted
	EventMoveIgnored
	EventOpponentMoved
	EventPuzzleSolved
	EventPuzzleFailed
	EventProgressChanged
	EventCycleCompleted
	EventSessionError
)

var eventNames = map[EventKind]string{
	EventPuzzleStarted:   "puzzle_started",
	EventInvalidMove:     "invalid_move",
	EventIncorrectMove:   "incorrect_move",
	EventMoveAccepted:    "move_accepted",
	EventMoveIgnored:     "move_ignored",
	EventOpponentMoved:   "opponent_moved",
	EventPuzzleSolved:    "puzzle_solved",
	EventPuzzleFailed:    "puzzle_failed",
	EventProgressChanged: "progress_changed",
	EventCycleCompleted:  "cycle_completed",
	EventSessionError:    "session_error",
}

// String returns the snake_case event name used in logs.
func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is emitted to the presentation layer. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind           EventKind
	PuzzleID       string
	PuzzleIndex    int
	Move           string
	Position       string
	HumanSide      puzzle.Side
	ElapsedSeconds int
	Progress       *state.Progress
	Err            error
}

// Sink receives events. It is called synchronously and must not call back
// into the Trainer or Machine that emitted the event.
type Sink func(Event)

func (s Sink) emit(e Event) {
	if s != nil {
		s(e)
	}
}

// Fanout returns a Sink delivering each event to every non-nil sink in order.
func Fanout(sinks ...Sink) Sink {
	return func(e Event) {
		for _, s := range sinks {
			s.emit(e)
		}
	}
}
