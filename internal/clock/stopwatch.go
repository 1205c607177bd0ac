// Package clock measures how long a puzzle attempt takes.
package clock

import (
	"sync"
	"time"
)

// Stopwatch measures whole elapsed seconds between Start and Stop.
// Readings taken while running never decrease. After Stop the reading is
// frozen until the next Start.
type Stopwatch struct {
	mu      sync.Mutex
	now     func() time.Time
	started time.Time
	stopped time.Time
	running bool
	last    int
}

// New returns a Stopwatch that reads the wall clock.
func New() *Stopwatch {
	return NewWithNow(time.Now)
}

// NewWithNow returns a Stopwatch that reads time from now.
// Used by tests for deterministic readings.
func NewWithNow(now func() time.Time) *Stopwatch {
	return &Stopwatch{now: now}
}

// Start records the reference instant and clears any previous reading.
func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = s.now()
	s.stopped = time.Time{}
	s.running = true
	s.last = 0
}

// Stop freezes the reading returned by Elapsed.
func (s *Stopwatch) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.stopped = s.now()
	s.running = false
	s.last = s.seconds(s.stopped)
}

// Running reports whether the stopwatch has been started and not stopped.
func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Elapsed returns whole seconds since Start, or the frozen value after Stop.
// Returns 0 if the stopwatch was never started.
func (s *Stopwatch) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return s.last
	}
	s.last = s.seconds(s.now())
	return s.last
}

func (s *Stopwatch) seconds(at time.Time) int {
	d := at.Sub(s.started)
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	// Wall clock steps backwards must not lower a reading already handed out.
	if secs < s.last {
		return s.last
	}
	return secs
}
