package trainer

import (
	"github.com/thruflo/woodpecker/internal/oracle"
	"github.com/thruflo/woodpecker/internal/puzzle"
)

// Verify replays the whole solution of p through o. It returns a
// *DataIntegrityError naming the first move the oracle rejects, so broken
// catalog entries can be found before anyone plays them.
func Verify(o oracle.Oracle, p puzzle.Puzzle) error {
	moves, err := p.Moves()
	if err != nil {
		return &DataIntegrityError{PuzzleID: p.ID, Err: err}
	}
	pos := p.FEN
	if _, err := o.SideToMove(pos); err != nil {
		return &DataIntegrityError{PuzzleID: p.ID, Err: err}
	}
	for i, mv := range moves {
		pos, err = o.Apply(pos, mv)
		if err != nil {
			return &DataIntegrityError{PuzzleID: p.ID, Ply: i, Move: mv.String(), Err: err}
		}
	}
	return nil
}
