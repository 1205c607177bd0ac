package state

import (
	"encoding/json"
	"errors"
)

// Attempt is one recorded outcome for a puzzle. Attempts are appended to a
// puzzle's history and never modified.
type Attempt struct {
	Cycle          int  `json:"cycle"`
	ElapsedSeconds int  `json:"time"`
	Success        bool `json:"success"`
}

// Status is a puzzle's result within a single cycle.
type Status int

const (
	StatusNoAttempt Status = iota
	StatusSolvedInCycle
	StatusFailedInCycle
)

func (s Status) String() string {
	switch s {
	case StatusSolvedInCycle:
		return "solved"
	case StatusFailedInCycle:
		return "failed"
	default:
		return "no attempt"
	}
}

// Ledger maps puzzle ids to their attempts in chronological order.
type Ledger map[string][]Attempt

// Record appends attempt to the puzzle's history, creating it if absent.
func (l Ledger) Record(puzzleID string, attempt Attempt) {
	l[puzzleID] = append(l[puzzleID], attempt)
}

// AttemptsFor returns the puzzle's attempts, oldest first.
// The returned slice is a copy.
func (l Ledger) AttemptsFor(puzzleID string) []Attempt {
	attempts := l[puzzleID]
	out := make([]Attempt, len(attempts))
	copy(out, attempts)
	return out
}

// StatusFor reports the puzzle's result in cycle. When several attempts
// share the cycle the first one recorded counts.
func (l Ledger) StatusFor(puzzleID string, cycle int) Status {
	for _, a := range l[puzzleID] {
		if a.Cycle != cycle {
			continue
		}
		if a.Success {
			return StatusSolvedInCycle
		}
		return StatusFailedInCycle
	}
	return StatusNoAttempt
}

// Clone returns a deep copy of the ledger.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for id, attempts := range l {
		cp := make([]Attempt, len(attempts))
		copy(cp, attempts)
		out[id] = cp
	}
	return out
}

// Progress is the persisted state of a training session.
type Progress struct {
	CurrentCycle    int    `json:"currentCycle"`
	CurrentIndex    int    `json:"currentIndex"`
	CompletedCycles int    `json:"completedCycles"`
	Attempts        Ledger `json:"attemptsByPuzzleId"`
}

// DefaultProgress returns the progress of a session that has never run.
func DefaultProgress() Progress {
	return Progress{Attempts: Ledger{}}
}

// Clone returns a deep copy of p.
func (p Progress) Clone() Progress {
	out := p
	out.Attempts = p.Attempts.Clone()
	return out
}

// UnmarshalJSON accepts both the current "attemptsByPuzzleId" key and the
// older "puzzleAttempts" key. A missing ledger decodes as empty.
func (p *Progress) UnmarshalJSON(data []byte) error {
	var aux struct {
		CurrentCycle    *int   `json:"currentCycle"`
		CurrentIndex    *int   `json:"currentIndex"`
		CompletedCycles *int   `json:"completedCycles"`
		Attempts        Ledger `json:"attemptsByPuzzleId"`
		LegacyAttempts  Ledger `json:"puzzleAttempts"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.CurrentCycle == nil || aux.CurrentIndex == nil || aux.CompletedCycles == nil {
		return errors.New("progress: missing required counters")
	}
	if *aux.CurrentCycle < 0 || *aux.CurrentIndex < 0 || *aux.CompletedCycles < 0 {
		return errors.New("progress: negative counter")
	}

	ledger := aux.Attempts
	if ledger == nil {
		ledger = aux.LegacyAttempts
	}
	if ledger == nil {
		ledger = Ledger{}
	}

	*p = Progress{
		CurrentCycle:    *aux.CurrentCycle,
		CurrentIndex:    *aux.CurrentIndex,
		CompletedCycles: *aux.CompletedCycles,
		Attempts:        ledger,
	}
	return nil
}

// ErrNoPuzzles is returned by Advance when the catalog is empty.
var ErrNoPuzzles = errors.New("cannot advance progress over an empty puzzle list")

// Advance returns the progress after finishing the current puzzle. The index
// moves forward by one; reaching totalPuzzles wraps it to zero, records the
// finished cycle in CompletedCycles and starts the next cycle.
// The input is not modified.
func Advance(p Progress, totalPuzzles int) (Progress, error) {
	if totalPuzzles <= 0 {
		return p, ErrNoPuzzles
	}

	next := p.Clone()
	next.CurrentIndex = p.CurrentIndex + 1
	if next.CurrentIndex >= totalPuzzles {
		next.CurrentIndex = 0
		next.CompletedCycles = p.CurrentCycle
		next.CurrentCycle = p.CurrentCycle + 1
	}
	return next, nil
}
