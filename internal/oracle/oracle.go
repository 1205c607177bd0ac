// Package oracle adapts a chess rules engine to the two questions the
// trainer asks: is this move legal here, and whose turn is it.
//
// Positions are opaque FEN strings. Rejections are returned as errors that
// wrap ErrIllegalMove; the adapter never panics on bad input.
package oracle

import (
	"errors"
	"fmt"

	"github.com/thruflo/woodpecker/internal/puzzle"
)

var (
	// ErrIllegalMove is returned when a move is not legal in the position.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidPosition is returned when a position cannot be decoded.
	ErrInvalidPosition = errors.New("invalid position")
)

// Oracle applies moves to positions.
type Oracle interface {
	// Apply returns the position reached by playing m, or an error wrapping
	// ErrIllegalMove.
	Apply(position string, m puzzle.Move) (string, error)

	// SideToMove reports which side is on move in position.
	SideToMove(position string) (puzzle.Side, error)
}

// IllegalMoveError carries the rejected move and position.
type IllegalMoveError struct {
	Position string
	Move     puzzle.Move
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s in %q", e.Move, e.Position)
}

func (e *IllegalMoveError) Is(target error) bool {
	return target == ErrIllegalMove
}
