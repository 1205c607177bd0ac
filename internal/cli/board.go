package cli

import (
	"strings"

	"github.com/thruflo/woodpecker/internal/puzzle"
)

// renderBoard draws the piece placement of a FEN position as text, seen
// from side. Uppercase letters are white pieces, lowercase black, and
// dots empty squares.
func renderBoard(fen string, side puzzle.Side) string {
	placement := fen
	if i := strings.IndexByte(fen, ' '); i >= 0 {
		placement = fen[:i]
	}
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fen
	}

	// grid[0] is rank 8.
	var grid [8][8]byte
	for r, rank := range ranks {
		file := 0
		for i := 0; i < len(rank) && file < 8; i++ {
			ch := rank[i]
			if ch >= '1' && ch <= '8' {
				for n := 0; n < int(ch-'0') && file < 8; n++ {
					grid[r][file] = '.'
					file++
				}
				continue
			}
			grid[r][file] = ch
			file++
		}
		for ; file < 8; file++ {
			grid[r][file] = '.'
		}
	}

	var b strings.Builder
	for row := 0; row < 8; row++ {
		r := row
		if side == puzzle.Black {
			r = 7 - row
		}
		b.WriteByte(byte('8' - r))
		b.WriteByte(' ')
		for col := 0; col < 8; col++ {
			f := col
			if side == puzzle.Black {
				f = 7 - col
			}
			b.WriteByte(' ')
			b.WriteByte(grid[r][f])
		}
		b.WriteByte('\n')
	}
	b.WriteString("  ")
	files := "abcdefgh"
	for col := 0; col < 8; col++ {
		f := col
		if side == puzzle.Black {
			f = 7 - col
		}
		b.WriteByte(' ')
		b.WriteByte(files[f])
	}
	return b.String()
}
