package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/thruflo/woodpecker/internal/puzzle"
	"github.com/thruflo/woodpecker/internal/testutil"
	"github.com/thruflo/woodpecker/internal/trainer"
)

func TestRenderBoard_WhiteView(t *testing.T) {
	lines := strings.Split(renderBoard(testutil.StartFEN, puzzle.White), "\n")
	assert.Len(t, lines, 9)
	assert.Equal(t, "8  r n b q k b n r", lines[0])
	assert.Equal(t, "4  . . . . . . . .", lines[4])
	assert.Equal(t, "1  R N B Q K B N R", lines[7])
	assert.Equal(t, "   a b c d e f g h", lines[8])
}

func TestRenderBoard_BlackView(t *testing.T) {
	lines := strings.Split(renderBoard(testutil.PromotionPuzzle().FEN, puzzle.Black), "\n")
	assert.Equal(t, "1  . . . K . . . .", lines[0])
	assert.Equal(t, "2  . . . . . . . k", lines[1])
	assert.Equal(t, "7  . . . . . . . P", lines[6])
	assert.Equal(t, "   h g f e d c b a", lines[8])
}

func TestRenderBoard_Malformed(t *testing.T) {
	assert.Equal(t, "not a fen", renderBoard("not a fen", puzzle.White))
}

func TestFormatSolution(t *testing.T) {
	text := formatSolution(testutil.OpeningLongPuzzle(), -1)
	lines := strings.Split(text, "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "e2e4   setup")
	assert.Contains(t, lines[1], "e7e5   you")
	assert.Contains(t, lines[2], "g1f3   opponent")
	assert.Contains(t, lines[3], "b8c6   you")
	assert.NotContains(t, text, "<- next")
}

func TestReplyWaiter(t *testing.T) {
	w := newReplyWaiter()
	w.sink(trainer.Event{Kind: trainer.EventPuzzleSolved})
	w.reset()

	go func() {
		w.sink(trainer.Event{Kind: trainer.EventMoveAccepted})
		w.sink(trainer.Event{Kind: trainer.EventOpponentMoved})
	}()
	assert.True(t, w.wait(context.Background(), trainer.EventOpponentMoved))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.False(t, w.wait(ctx, trainer.EventOpponentMoved))
}

func TestReplyWaiter_SessionErrorEndsWait(t *testing.T) {
	w := newReplyWaiter()
	w.sink(trainer.Event{Kind: trainer.EventSessionError})
	assert.True(t, w.wait(context.Background(), trainer.EventProgressChanged))
}
