package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/woodpecker/internal/puzzle"
	"github.com/thruflo/woodpecker/internal/state"
)

func TestSamplePuzzles(t *testing.T) {
	puzzles := SamplePuzzles()
	require.Len(t, puzzles, 4)

	// Returns a fresh slice each call
	puzzles[0].ID = "changed"
	assert.Equal(t, "op001", SamplePuzzles()[0].ID)

	assert.Equal(t, []string{"op001", "op002", "mt001", "pr001"}, SamplePuzzleIDs())
}

func TestSampleCatalog(t *testing.T) {
	c := SampleCatalog(t)
	assert.Equal(t, 4, c.Len())

	p, index, ok := c.Lookup("mt001")
	require.True(t, ok)
	assert.Equal(t, 2, index)
	assert.Equal(t, 1, p.UserMoves())
}

func TestSetupOnlyPuzzle_IsValid(t *testing.T) {
	c := CatalogOf(t, SetupOnlyPuzzle())
	assert.Equal(t, 0, c.At(0).UserMoves())
}

func TestSetupTestDir(t *testing.T) {
	dir := SetupTestDir(t)

	assert.FileExists(t, filepath.Join(dir, ".woodpecker", "config.yaml"))

	data, err := os.ReadFile(filepath.Join(dir, "puzzles.json"))
	require.NoError(t, err)

	var puzzles []puzzle.Puzzle
	MustUnmarshalJSON(t, data, &puzzles)
	assert.Equal(t, SamplePuzzles(), puzzles)
}

func TestWriteTestFile(t *testing.T) {
	dir := t.TempDir()
	WriteTestFile(t, dir, "nested/dir/file.txt", []byte("content"))

	data, err := os.ReadFile(filepath.Join(dir, "nested", "dir", "file.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestNewMemoryProgressStore(t *testing.T) {
	store, blobs := NewMemoryProgressStore(t)
	ctx, cancel := ContextWithTestDeadline(t, time.Minute)
	defer cancel()

	require.NoError(t, store.Save(ctx, SampleProgressMidCycle()))
	raw, found, err := blobs.Get(ctx, state.ProgressKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Contains(t, raw, `"attemptsByPuzzleId"`)

	AssertProgress(t, store.Load(ctx), 2, 2, 1)
}

func TestManualScheduler_FireInOrder(t *testing.T) {
	s := NewManualScheduler()
	var order []int

	s.AfterFunc(time.Second, func() { order = append(order, 1) })
	s.AfterFunc(2*time.Second, func() { order = append(order, 2) })
	assert.Equal(t, 2, s.Pending())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, s.Delays())

	assert.True(t, s.Fire())
	assert.Equal(t, []int{1}, order)
	assert.Equal(t, 1, s.FireAll())
	assert.Equal(t, []int{1, 2}, order)
	assert.False(t, s.Fire())
}

func TestManualScheduler_Cancel(t *testing.T) {
	s := NewManualScheduler()
	ran := false

	cancel := s.AfterFunc(time.Second, func() { ran = true })
	assert.True(t, cancel())
	assert.False(t, cancel(), "second cancel reports nothing stopped")
	assert.Equal(t, 0, s.Pending())
	assert.False(t, s.Fire())
	assert.False(t, ran)

	assert.True(t, s.FireStale())
	assert.True(t, ran)
}

func TestManualScheduler_CancelAfterFire(t *testing.T) {
	s := NewManualScheduler()
	cancel := s.AfterFunc(0, func() {})
	require.True(t, s.Fire())
	assert.False(t, cancel())
}

func TestManualScheduler_FireAllRunsNestedTasks(t *testing.T) {
	s := NewManualScheduler()
	count := 0
	s.AfterFunc(0, func() {
		count++
		s.AfterFunc(0, func() { count++ })
	})
	assert.Equal(t, 2, s.FireAll())
	assert.Equal(t, 2, count)
}

func TestFakeClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)
	c.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), c.Now())
}

func TestAssertions(t *testing.T) {
	p := SampleProgressMidCycle()
	AssertProgress(t, p, 2, 2, 1)
	AssertAttemptCount(t, p, "op001", 2)
	last := AssertLastAttempt(t, p, "op001", 2, true)
	assert.Equal(t, 12, last.ElapsedSeconds)
	AssertNoAttempts(t, p, "mt001")
	AssertTotalAttempts(t, p, 3)
}
