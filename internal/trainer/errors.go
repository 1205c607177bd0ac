package trainer

import (
	"errors"
	"fmt"
)

var (
	// ErrDataIntegrity is matched by DataIntegrityError.
	ErrDataIntegrity = errors.New("puzzle data integrity error")

	// ErrNotAwaitingMove is returned when a move arrives after the puzzle
	// has been solved, abandoned or failed.
	ErrNotAwaitingMove = errors.New("puzzle is not awaiting a move")

	// ErrNoActivePuzzle is returned when the trainer has no puzzle loaded.
	ErrNoActivePuzzle = errors.New("no active puzzle")

	// ErrSessionHalted is returned after a data integrity error stopped the
	// session.
	ErrSessionHalted = errors.New("session halted")

	// ErrNothingToSolve is returned when every puzzle in the catalog is
	// solved by its setup move alone.
	ErrNothingToSolve = errors.New("catalog has no puzzle requiring a user move")
)

// DataIntegrityError reports that a puzzle's own solution could not be
// played: its setup move or an automated reply was rejected, or the
// puzzle could not be decoded. Continuing would desynchronise the cursor
// from the board, so the puzzle cannot proceed.
type DataIntegrityError struct {
	PuzzleID string
	Ply      int
	Move     string
	Err      error
}

func (e *DataIntegrityError) Error() string {
	if e.Move == "" {
		return fmt.Sprintf("puzzle %s: %v", e.PuzzleID, e.Err)
	}
	return fmt.Sprintf("puzzle %s: solution[%d] %s rejected: %v", e.PuzzleID, e.Ply, e.Move, e.Err)
}

func (e *DataIntegrityError) Unwrap() error { return e.Err }

func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}
