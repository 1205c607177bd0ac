package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/woodpecker/internal/state"
)

// AssertProgress asserts the three progress counters.
func AssertProgress(t *testing.T, p state.Progress, cycle, index, completed int) {
	t.Helper()
	assert.Equal(t, cycle, p.CurrentCycle, "currentCycle mismatch")
	assert.Equal(t, index, p.CurrentIndex, "currentIndex mismatch")
	assert.Equal(t, completed, p.CompletedCycles, "completedCycles mismatch")
}

// AssertAttemptCount asserts how many attempts are recorded for puzzleID.
func AssertAttemptCount(t *testing.T, p state.Progress, puzzleID string, expected int) {
	t.Helper()
	assert.Len(t, p.Attempts.AttemptsFor(puzzleID), expected, "attempt count mismatch for %s", puzzleID)
}

// AssertLastAttempt asserts the cycle and outcome of the most recent
// attempt for puzzleID and returns it.
func AssertLastAttempt(t *testing.T, p state.Progress, puzzleID string, cycle int, success bool) state.Attempt {
	t.Helper()
	attempts := p.Attempts.AttemptsFor(puzzleID)
	require.NotEmpty(t, attempts, "no attempts recorded for %s", puzzleID)
	last := attempts[len(attempts)-1]
	assert.Equal(t, cycle, last.Cycle, "attempt cycle mismatch for %s", puzzleID)
	assert.Equal(t, success, last.Success, "attempt success mismatch for %s", puzzleID)
	assert.GreaterOrEqual(t, last.ElapsedSeconds, 0, "negative elapsed time for %s", puzzleID)
	return last
}

// AssertNoAttempts asserts that nothing is recorded for puzzleID.
func AssertNoAttempts(t *testing.T, p state.Progress, puzzleID string) {
	t.Helper()
	assert.Empty(t, p.Attempts.AttemptsFor(puzzleID), "unexpected attempts for %s", puzzleID)
}

// AssertTotalAttempts asserts the number of attempts across all puzzles.
func AssertTotalAttempts(t *testing.T, p state.Progress, expected int) {
	t.Helper()
	total := 0
	for _, attempts := range p.Attempts {
		total += len(attempts)
	}
	assert.Equal(t, expected, total, "total attempt count mismatch")
}
