package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thruflo/woodpecker/internal/puzzle"
	"github.com/thruflo/woodpecker/internal/state"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// OpeningPuzzle returns a puzzle where black answers 1.e4 with 1...e5 and the
// automated reply 2.Nf3 completes the solution.
func OpeningPuzzle() puzzle.Puzzle {
	return puzzle.Puzzle{
		ID:         "op001",
		FEN:        StartFEN,
		Solution:   []string{"e2e4", "e7e5", "g1f3"},
		Rating:     600,
		Popularity: 95,
		Themes:     []string{"opening"},
	}
}

// OpeningLongPuzzle returns a puzzle needing two user moves.
func OpeningLongPuzzle() puzzle.Puzzle {
	return puzzle.Puzzle{
		ID:         "op002",
		FEN:        StartFEN,
		Solution:   []string{"e2e4", "e7e5", "g1f3", "b8c6"},
		Rating:     650,
		Popularity: 90,
		Themes:     []string{"opening"},
	}
}

// MateInOnePuzzle returns the scholar's mate: after 3...Nf6 white mates
// with Qxf7.
func MateInOnePuzzle() puzzle.Puzzle {
	return puzzle.Puzzle{
		ID:         "mt001",
		FEN:        "r1bqkbnr/pppp1ppp/2n5/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 3 3",
		Solution:   []string{"g8f6", "h5f7"},
		Rating:     800,
		Popularity: 98,
		Themes:     []string{"mate", "mateIn1", "short"},
	}
}

// PromotionPuzzle returns a puzzle solved by promoting to a queen.
func PromotionPuzzle() puzzle.Puzzle {
	return puzzle.Puzzle{
		ID:         "pr001",
		FEN:        "8/P7/8/8/8/8/k7/4K3 b - - 0 1",
		Solution:   []string{"a2b2", "a7a8q"},
		Rating:     700,
		Popularity: 80,
		Themes:     []string{"promotion", "endgame"},
	}
}

// SetupOnlyPuzzle returns a puzzle whose solution is only the setup move.
func SetupOnlyPuzzle() puzzle.Puzzle {
	return puzzle.Puzzle{
		ID:       "su001",
		FEN:      StartFEN,
		Solution: []string{"e2e4"},
	}
}

// SamplePuzzles returns the fixture catalog in order. Returns a new slice
// each time to prevent test interference.
func SamplePuzzles() []puzzle.Puzzle {
	return []puzzle.Puzzle{
		OpeningPuzzle(),
		OpeningLongPuzzle(),
		MateInOnePuzzle(),
		PromotionPuzzle(),
	}
}

// SamplePuzzleIDs returns the ids of SamplePuzzles in order.
func SamplePuzzleIDs() []string {
	puzzles := SamplePuzzles()
	ids := make([]string, len(puzzles))
	for i, p := range puzzles {
		ids[i] = p.ID
	}
	return ids
}

// SampleCatalog builds a Catalog from SamplePuzzles.
func SampleCatalog(t *testing.T) *puzzle.Catalog {
	t.Helper()
	return CatalogOf(t, SamplePuzzles()...)
}

// CatalogOf builds a Catalog from puzzles, failing the test on error.
func CatalogOf(t *testing.T, puzzles ...puzzle.Puzzle) *puzzle.Catalog {
	t.Helper()
	c, err := puzzle.NewCatalog(puzzles)
	require.NoError(t, err)
	return c
}

// SampleProgressMidCycle returns progress in cycle 2 at index 2, with the
// first puzzle solved and the second failed in that cycle.
func SampleProgressMidCycle() state.Progress {
	return state.Progress{
		CurrentCycle:    2,
		CurrentIndex:    2,
		CompletedCycles: 1,
		Attempts: state.Ledger{
			"op001": {
				{Cycle: 1, ElapsedSeconds: 40, Success: false},
				{Cycle: 2, ElapsedSeconds: 12, Success: true},
			},
			"op002": {
				{Cycle: 2, ElapsedSeconds: 95, Success: false},
			},
		},
	}
}
