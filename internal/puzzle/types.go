package puzzle

import (
	"errors"
	"fmt"
	"strings"
)

// Puzzle represents a single record from the puzzle catalog.
type Puzzle struct {
	ID         string   `json:"id" validate:"required"`
	FEN        string   `json:"fen" validate:"required"`
	Solution   []string `json:"solution" validate:"required,min=1,dive,uci"`
	Rating     int      `json:"rating" validate:"gte=0"`
	Popularity int      `json:"popularity"`
	Themes     []string `json:"themes,omitempty"`
}

// SetupMove returns the automated first half-move of the solution.
func (p Puzzle) SetupMove() string {
	if len(p.Solution) == 0 {
		return ""
	}
	return p.Solution[0]
}

// Moves parses the full solution into Move values.
func (p Puzzle) Moves() ([]Move, error) {
	moves := make([]Move, 0, len(p.Solution))
	for i, s := range p.Solution {
		m, err := ParseMove(s)
		if err != nil {
			return nil, fmt.Errorf("puzzle %s: solution[%d]: %w", p.ID, i, err)
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// UserMoves returns how many correct moves a user must submit to solve the
// puzzle, excluding the setup move.
func (p Puzzle) UserMoves() int {
	if len(p.Solution) < 2 {
		return 0
	}
	return len(p.Solution) / 2
}

// Side is one of the two players.
type Side int

const (
	White Side = iota
	Black
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) String() string {
	if s == Black {
		return "black"
	}
	return "white"
}

// ErrInvalidMove is returned when a move string is not valid UCI notation.
var ErrInvalidMove = errors.New("invalid move notation")

// Move is a single half-move in coordinate notation.
// Promotion is empty, or one of "q", "r", "b", "n".
type Move struct {
	From      string
	To        string
	Promotion string
}

// ParseMove parses a UCI move such as "e2e4" or "e7e8q".
func ParseMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	from, to := s[0:2], s[2:4]
	if !validSquare(from) || !validSquare(to) {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		if !strings.ContainsRune("qrbn", rune(s[4])) {
			return Move{}, fmt.Errorf("%w: bad promotion in %q", ErrInvalidMove, s)
		}
		m.Promotion = s[4:5]
	}
	return m, nil
}

func validSquare(sq string) bool {
	return len(sq) == 2 && sq[0] >= 'a' && sq[0] <= 'h' && sq[1] >= '1' && sq[1] <= '8'
}

// Matches reports whether two moves share origin, destination and promotion.
// The resulting position is not compared.
func (m Move) Matches(other Move) bool {
	return m.From == other.From && m.To == other.To && m.Promotion == other.Promotion
}

// String returns the move in UCI notation.
func (m Move) String() string {
	return m.From + m.To + m.Promotion
}
