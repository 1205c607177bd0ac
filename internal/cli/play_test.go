package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thruflo/woodpecker/internal/oracle"
	"github.com/thruflo/woodpecker/internal/testutil"
	"github.com/thruflo/woodpecker/internal/trainer"
)

type loopHarness struct {
	buf    *bytes.Buffer
	out    *console
	tr     *trainer.Trainer
	waiter *replyWaiter
}

func newLoopHarness(t *testing.T) *loopHarness {
	t.Helper()

	store, _ := testutil.NewMemoryProgressStore(t)
	catalog := testutil.SampleCatalog(t)
	buf := &bytes.Buffer{}
	out := newConsole(buf)
	waiter := newReplyWaiter()

	tr, err := trainer.New(context.Background(), trainer.Options{
		Catalog: catalog,
		Store:   store,
		Oracle:  oracle.NewChess(),
		Sink:    trainer.Fanout(newTerminalSink(out, catalog), waiter.sink),
		Logger:  testutil.DiscardLogger(),
	})
	require.NoError(t, err)
	require.NoError(t, tr.Start())

	return &loopHarness{buf: buf, out: out, tr: tr, waiter: waiter}
}

func TestPlayLoop_PromptAndEndOfInput(t *testing.T) {
	h := newLoopHarness(t)

	ctx, cancel := testutil.ContextWithTestDeadline(t, testutil.DefaultReplyWait)
	defer cancel()

	err := playLoop(ctx, strings.NewReader("e7e5\n"), h.out, "> ", h.tr, h.waiter)
	require.NoError(t, err)

	p := h.tr.Progress()
	assert.Equal(t, 1, p.CurrentIndex)
	testutil.AssertLastAttempt(t, p, "op001", 0, true)
	assert.Equal(t, 2, strings.Count(h.buf.String(), "> "))
	assert.Contains(t, h.buf.String(), "Session ended.")
}

func TestPlayLoop_TwoUserMoves(t *testing.T) {
	h := newLoopHarness(t)

	ctx, cancel := testutil.ContextWithTestDeadline(t, testutil.DefaultReplyWait)
	defer cancel()

	err := playLoop(ctx, strings.NewReader("giveup\ne7e5\nb8c6\nquit\n"), h.out, "", h.tr, h.waiter)
	require.NoError(t, err)

	p := h.tr.Progress()
	assert.Equal(t, 2, p.CurrentIndex)
	testutil.AssertLastAttempt(t, p, "op002", 0, true)
	assert.Contains(t, h.buf.String(), "Opponent played")
	assert.NotContains(t, h.buf.String(), "> ")
}

func TestPlayLoop_StopsWhenContextEnds(t *testing.T) {
	h := newLoopHarness(t)

	r, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := playLoop(ctx, r, h.out, "", h.tr, h.waiter)
	require.NoError(t, err)
	assert.Equal(t, 0, h.tr.Progress().CurrentIndex)
	assert.Nil(t, h.tr.Machine())
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(strings.NewReader("")))
}
