// Package metrics exposes training counters for Prometheus.
//
// A nil *Recorder is valid and records nothing, so callers can wire metrics
// optionally without nil checks.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the trainer's Prometheus collectors.
type Recorder struct {
	moves        *prometheus.CounterVec
	solved       prometheus.Counter
	failed       prometheus.Counter
	solveSeconds prometheus.Histogram
	cycle        prometheus.Gauge
	persistErrs  prometheus.Counter
}

// NewRecorder creates collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		moves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "woodpecker_moves_total",
			Help: "User moves submitted, by outcome",
		}, []string{"outcome"}),
		solved: factory.NewCounter(prometheus.CounterOpts{
			Name: "woodpecker_puzzles_solved_total",
			Help: "Puzzles solved",
		}),
		failed: factory.NewCounter(prometheus.CounterOpts{
			Name: "woodpecker_puzzles_failed_total",
			Help: "Puzzles given up",
		}),
		solveSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "woodpecker_solve_seconds",
			Help:    "Time to solve a puzzle",
			Buckets: []float64{5, 10, 20, 30, 60, 120, 300, 600},
		}),
		cycle: factory.NewGauge(prometheus.GaugeOpts{
			Name: "woodpecker_current_cycle",
			Help: "Cycle currently in progress",
		}),
		persistErrs: factory.NewCounter(prometheus.CounterOpts{
			Name: "woodpecker_persist_errors_total",
			Help: "Progress saves that failed",
		}),
	}
}

// Move counts a submitted move. outcome is the trainer's label for the
// result, such as "incorrect" or "solved".
func (r *Recorder) Move(outcome string) {
	if r == nil {
		return
	}
	r.moves.WithLabelValues(outcome).Inc()
}

// PuzzleSolved counts a solve and observes its duration.
func (r *Recorder) PuzzleSolved(elapsedSeconds int) {
	if r == nil {
		return
	}
	r.solved.Inc()
	r.solveSeconds.Observe(float64(elapsedSeconds))
}

// PuzzleFailed counts a puzzle the user gave up on.
func (r *Recorder) PuzzleFailed() {
	if r == nil {
		return
	}
	r.failed.Inc()
}

// Cycle sets the current cycle gauge.
func (r *Recorder) Cycle(n int) {
	if r == nil {
		return
	}
	r.cycle.Set(float64(n))
}

// PersistError counts a failed progress save.
func (r *Recorder) PersistError() {
	if r == nil {
		return
	}
	r.persistErrs.Inc()
}
