package oracle

import (
	"fmt"

	"github.com/notnil/chess"

	"github.com/thruflo/woodpecker/internal/puzzle"
)

// Chess is an Oracle backed by github.com/notnil/chess.
type Chess struct{}

// NewChess returns a chess rules oracle.
func NewChess() *Chess {
	return &Chess{}
}

var promotions = map[string]chess.PieceType{
	"":  chess.NoPieceType,
	"q": chess.Queen,
	"r": chess.Rook,
	"b": chess.Bishop,
	"n": chess.Knight,
}

func decode(position string) (*chess.Position, error) {
	opt, err := chess.FEN(position)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}
	return chess.NewGame(opt).Position(), nil
}

// Apply implements Oracle.
func (c *Chess) Apply(position string, m puzzle.Move) (string, error) {
	pos, err := decode(position)
	if err != nil {
		return "", err
	}

	promo, ok := promotions[m.Promotion]
	if !ok {
		return "", &IllegalMoveError{Position: position, Move: m}
	}

	for _, candidate := range pos.ValidMoves() {
		if candidate.S1().String() != m.From || candidate.S2().String() != m.To {
			continue
		}
		if candidate.Promo() != promo {
			continue
		}
		return pos.Update(candidate).String(), nil
	}

	return "", &IllegalMoveError{Position: position, Move: m}
}

// SideToMove implements Oracle.
func (c *Chess) SideToMove(position string) (puzzle.Side, error) {
	pos, err := decode(position)
	if err != nil {
		return puzzle.White, err
	}
	if pos.Turn() == chess.Black {
		return puzzle.Black, nil
	}
	return puzzle.White, nil
}
