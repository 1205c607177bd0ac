package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeNow struct {
	t time.Time
}

func (f *fakeNow) now() time.Time { return f.t }

func (f *fakeNow) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestStopwatch_Elapsed(t *testing.T) {
	t.Parallel()

	fn := &fakeNow{t: time.Date(2026, 1, 16, 10, 0, 0, 0, time.UTC)}
	sw := NewWithNow(fn.now)

	assert.Equal(t, 0, sw.Elapsed(), "never started")
	assert.False(t, sw.Running())

	sw.Start()
	assert.True(t, sw.Running())
	assert.Equal(t, 0, sw.Elapsed())

	fn.advance(1500 * time.Millisecond)
	assert.Equal(t, 1, sw.Elapsed(), "truncates to whole seconds")

	fn.advance(500 * time.Millisecond)
	assert.Equal(t, 2, sw.Elapsed())
}

func TestStopwatch_StopFreezes(t *testing.T) {
	t.Parallel()

	fn := &fakeNow{t: time.Date(2026, 1, 16, 10, 0, 0, 0, time.UTC)}
	sw := NewWithNow(fn.now)

	sw.Start()
	fn.advance(7 * time.Second)
	sw.Stop()
	assert.False(t, sw.Running())

	fn.advance(time.Minute)
	assert.Equal(t, 7, sw.Elapsed())

	// Stopping twice keeps the first reading.
	sw.Stop()
	assert.Equal(t, 7, sw.Elapsed())
}

func TestStopwatch_MonotonicWhileRunning(t *testing.T) {
	t.Parallel()

	fn := &fakeNow{t: time.Date(2026, 1, 16, 10, 0, 0, 0, time.UTC)}
	sw := NewWithNow(fn.now)

	sw.Start()
	fn.advance(5 * time.Second)
	assert.Equal(t, 5, sw.Elapsed())

	fn.advance(-3 * time.Second)
	assert.Equal(t, 5, sw.Elapsed(), "must not decrease")

	fn.advance(4 * time.Second)
	assert.Equal(t, 6, sw.Elapsed())
}

func TestStopwatch_RestartClears(t *testing.T) {
	t.Parallel()

	fn := &fakeNow{t: time.Date(2026, 1, 16, 10, 0, 0, 0, time.UTC)}
	sw := NewWithNow(fn.now)

	sw.Start()
	fn.advance(9 * time.Second)
	sw.Stop()

	sw.Start()
	assert.Equal(t, 0, sw.Elapsed())
}

func TestStopwatch_RealClock(t *testing.T) {
	t.Parallel()

	sw := New()
	sw.Start()
	first := sw.Elapsed()
	second := sw.Elapsed()
	assert.GreaterOrEqual(t, second, first)
}
