package testutil

import (
	"sync"
	"time"
)

// ManualScheduler captures deferred tasks so tests decide when they run.
// It satisfies the trainer's Scheduler interface.
type ManualScheduler struct {
	mu     sync.Mutex
	tasks  []*manualTask
	delays []time.Duration
}

type manualTask struct {
	f         func()
	cancelled bool
	fired     bool
}

// NewManualScheduler returns an empty ManualScheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc records f. It never runs f itself.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := &manualTask{f: f}
	s.tasks = append(s.tasks, task)
	s.delays = append(s.delays, d)

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if task.fired || task.cancelled {
			return false
		}
		task.cancelled = true
		return true
	}
}

// Pending returns how many tasks are neither fired nor cancelled.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, task := range s.tasks {
		if !task.fired && !task.cancelled {
			n++
		}
	}
	return n
}

// Delays returns the delays requested so far, in order.
func (s *ManualScheduler) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.delays))
	copy(out, s.delays)
	return out
}

// Fire runs the oldest pending task on the calling goroutine and reports
// whether there was one.
func (s *ManualScheduler) Fire() bool {
	s.mu.Lock()
	var next *manualTask
	for _, task := range s.tasks {
		if !task.fired && !task.cancelled {
			next = task
			break
		}
	}
	if next == nil {
		s.mu.Unlock()
		return false
	}
	next.fired = true
	s.mu.Unlock()

	next.f()
	return true
}

// FireAll runs pending tasks until none remain, including tasks scheduled
// by the tasks it runs. Returns how many ran.
func (s *ManualScheduler) FireAll() int {
	n := 0
	for s.Fire() {
		n++
	}
	return n
}

// FireStale runs the most recently cancelled task as if its timer had
// already expired before cancellation. Used to check that late callbacks
// are ignored.
func (s *ManualScheduler) FireStale() bool {
	s.mu.Lock()
	var stale *manualTask
	for i := len(s.tasks) - 1; i >= 0; i-- {
		if s.tasks[i].cancelled {
			stale = s.tasks[i]
			break
		}
	}
	s.mu.Unlock()

	if stale == nil {
		return false
	}
	stale.f()
	return true
}
