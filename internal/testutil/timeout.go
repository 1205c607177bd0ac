package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultReplyWait bounds how long tests wait for a real timer-driven
// automated reply.
const DefaultReplyWait = 2 * time.Second

// deadlineMargin is kept free before the test binary's deadline so a stuck
// session fails its assertions instead of the whole run timing out.
const deadlineMargin = 5 * time.Second

// ContextWithTestDeadline returns a context for driving a session with real
// timers. It ends deadlineMargin before the test deadline, or after
// fallback when the test has none.
func ContextWithTestDeadline(t *testing.T, fallback time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()

	if deadline, ok := t.Deadline(); ok {
		if end := deadline.Add(-deadlineMargin); time.Until(end) > 0 {
			return context.WithDeadline(context.Background(), end)
		}
	}
	return context.WithTimeout(context.Background(), fallback)
}

// WaitFor polls cond every 5ms until it returns true or wait elapses.
// Reports whether cond became true.
func WaitFor(wait time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
