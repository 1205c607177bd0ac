package trainer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/woodpecker/internal/oracle"
	"github.com/thruflo/woodpecker/internal/testutil"
)

func TestVerify_SamplePuzzles(t *testing.T) {
	o := oracle.NewChess()
	for _, p := range testutil.SamplePuzzles() {
		assert.NoError(t, Verify(o, p), p.ID)
	}
}

func TestVerify_ReportsFirstRejectedMove(t *testing.T) {
	p := testutil.OpeningLongPuzzle()
	p.Solution = []string{"e2e4", "e7e5", "g1f3", "b8b6"}

	err := Verify(oracle.NewChess(), p)
	require.Error(t, err)

	var ierr *DataIntegrityError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, 3, ierr.Ply)
	assert.Equal(t, "b8b6", ierr.Move)
	assert.ErrorIs(t, err, oracle.ErrIllegalMove)
	assert.Contains(t, err.Error(), "solution[3] b8b6 rejected")
}

func TestVerify_BadPosition(t *testing.T) {
	p := testutil.OpeningPuzzle()
	p.FEN = "8/8/8"
	assert.ErrorIs(t, Verify(oracle.NewChess(), p), oracle.ErrInvalidPosition)
}
