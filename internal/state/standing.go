package state

// Standing is how a puzzle is shown in listings for the current cycle.
type Standing string

const (
	StandingCurrent  Standing = "Current"
	StandingSolved   Standing = "Solved"
	StandingFailed   Standing = "Failed"
	StandingUnsolved Standing = "Unsolved"
)

// StandingFor derives the listing label for the puzzle at index.
// The active puzzle is always Current; the others follow StatusFor.
func StandingFor(p Progress, index int, puzzleID string) Standing {
	if index == p.CurrentIndex {
		return StandingCurrent
	}
	switch p.Attempts.StatusFor(puzzleID, p.CurrentCycle) {
	case StatusSolvedInCycle:
		return StandingSolved
	case StatusFailedInCycle:
		return StandingFailed
	default:
		return StandingUnsolved
	}
}

// CycleSummary counts results in the current cycle.
type CycleSummary struct {
	Solved   int
	Failed   int
	Unsolved int
	Total    int
}

// Summarize counts the current-cycle status of each puzzle in ids.
func Summarize(p Progress, ids []string) CycleSummary {
	sum := CycleSummary{Total: len(ids)}
	for _, id := range ids {
		switch p.Attempts.StatusFor(id, p.CurrentCycle) {
		case StatusSolvedInCycle:
			sum.Solved++
		case StatusFailedInCycle:
			sum.Failed++
		default:
			sum.Unsolved++
		}
	}
	return sum
}
