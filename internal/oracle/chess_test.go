package oracle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thruflo/woodpecker/internal/puzzle"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func mustMove(t *testing.T, s string) puzzle.Move {
	t.Helper()
	m, err := puzzle.ParseMove(s)
	require.NoError(t, err)
	return m
}

func TestChess_Apply(t *testing.T) {
	t.Parallel()

	o := NewChess()

	pos, err := o.Apply(startFEN, mustMove(t, "e2e4"))
	require.NoError(t, err)
	assert.NotEqual(t, startFEN, pos)

	side, err := o.SideToMove(pos)
	require.NoError(t, err)
	assert.Equal(t, puzzle.Black, side)

	next, err := o.Apply(pos, mustMove(t, "e7e5"))
	require.NoError(t, err)

	side, err = o.SideToMove(next)
	require.NoError(t, err)
	assert.Equal(t, puzzle.White, side)
}

func TestChess_ApplyIllegal(t *testing.T) {
	t.Parallel()

	o := NewChess()

	tests := []struct {
		name string
		move string
	}{
		{"pawn triple push", "e2e5"},
		{"wrong side", "e7e5"},
		{"empty square", "e4e5"},
		{"blocked rook", "a1a3"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := o.Apply(startFEN, mustMove(t, tt.move))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrIllegalMove))

			var illegal *IllegalMoveError
			require.True(t, errors.As(err, &illegal))
			assert.Equal(t, tt.move, illegal.Move.String())
		})
	}
}

func TestChess_Promotion(t *testing.T) {
	t.Parallel()

	o := NewChess()
	fen := "8/P7/8/8/8/8/1k6/4K3 w - - 0 1"

	_, err := o.Apply(fen, mustMove(t, "a7a8q"))
	require.NoError(t, err)

	_, err = o.Apply(fen, mustMove(t, "a7a8n"))
	require.NoError(t, err)

	// A pawn reaching the last rank must name its promotion piece.
	_, err = o.Apply(fen, mustMove(t, "a7a8"))
	assert.True(t, errors.Is(err, ErrIllegalMove))
}

func TestChess_InvalidPosition(t *testing.T) {
	t.Parallel()

	o := NewChess()

	_, err := o.Apply("not a fen", mustMove(t, "e2e4"))
	assert.True(t, errors.Is(err, ErrInvalidPosition))

	_, err = o.SideToMove("not a fen")
	assert.True(t, errors.Is(err, ErrInvalidPosition))
}

func TestChess_SideToMove(t *testing.T) {
	t.Parallel()

	o := NewChess()

	side, err := o.SideToMove(startFEN)
	require.NoError(t, err)
	assert.Equal(t, puzzle.White, side)

	side, err = o.SideToMove("r1bqkbnr/pppp1ppp/2n5/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 3 3")
	require.NoError(t, err)
	assert.Equal(t, puzzle.Black, side)
}
