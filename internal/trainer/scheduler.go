package trainer

import "time"

// Scheduler runs deferred single-shot tasks.
//
// AfterFunc must run f on another goroutine (or later from the caller's
// own loop), never synchronously inside AfterFunc. The returned cancel
// function reports whether it stopped f from running.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func() bool)
}

// TimerScheduler schedules tasks with time.AfterFunc.
type TimerScheduler struct{}

// AfterFunc implements Scheduler.
func (TimerScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	t := time.AfterFunc(d, f)
	return t.Stop
}
