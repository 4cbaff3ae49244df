package routing

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkhin/deskbot/internal/domain"
	"github.com/avolkhin/deskbot/internal/logging"
)

type recordingHandler struct {
	mu      sync.Mutex
	got     []domain.Update
	panicOn int64
	jitter  bool
	done    chan struct{}
}

func newRecordingHandler(capacity int) *recordingHandler {
	return &recordingHandler{done: make(chan struct{}, capacity)}
}

func (h *recordingHandler) record(u domain.Update) {
	if h.jitter {
		time.Sleep(time.Duration(rand.Intn(500)) * time.Microsecond)
	}
	h.mu.Lock()
	h.got = append(h.got, u)
	h.mu.Unlock()
	h.done <- struct{}{}
	if h.panicOn != 0 && u.ChatID == h.panicOn {
		panic("boom")
	}
}

func (h *recordingHandler) HandleUpdate(_ context.Context, u domain.Update)          { h.record(u) }
func (h *recordingHandler) HandleOperatorMessage(_ context.Context, u domain.Update) { h.record(u) }

func (h *recordingHandler) wait(t *testing.T, n int) []domain.Update {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-h.done:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for handler call %d of %d", i+1, n)
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.Update(nil), h.got...)
}

func TestDispatch_SplitsByChat(t *testing.T) {
	users := newRecordingHandler(4)
	operators := newRecordingHandler(4)
	d := New(users, operators, -100500, logging.Silent())

	ctx := context.Background()
	d.Handle(ctx, domain.Update{ChatID: 1, Text: "от пользователя"})
	d.Handle(ctx, domain.Update{ChatID: -100500, Text: "из чата операторов"})
	d.Handle(ctx, domain.Update{ChatID: 2, Text: "ещё от пользователя"})

	gotUsers := users.wait(t, 2)
	gotOps := operators.wait(t, 1)

	chats := []int64{gotUsers[0].ChatID, gotUsers[1].ChatID}
	assert.ElementsMatch(t, []int64{1, 2}, chats)
	assert.Equal(t, int64(-100500), gotOps[0].ChatID)
}

func TestDispatch_SameChatKeepsArrivalOrder(t *testing.T) {
	const n = 200
	users := newRecordingHandler(n)
	users.jitter = true
	operators := newRecordingHandler(1)
	d := New(users, operators, -100500, logging.Silent())

	ctx := context.Background()
	for i := 1; i <= n; i++ {
		d.Handle(ctx, domain.Update{ChatID: 7, MessageID: i})
	}

	got := users.wait(t, n)
	require.Len(t, got, n)
	for i, u := range got {
		assert.Equal(t, i+1, u.MessageID, "update %d handled out of order", i+1)
	}
}

func TestDispatch_DistinctChatsProceedIndependently(t *testing.T) {
	users := newRecordingHandler(4)
	operators := newRecordingHandler(1)

	// a handler stuck on one chat must not block another chat
	blocked := make(chan struct{})
	slow := &blockingHandler{release: blocked, inner: users}
	d := New(slow, operators, -100500, logging.Silent())

	ctx := context.Background()
	d.Handle(ctx, domain.Update{ChatID: 1, MessageID: 1}) // blocks
	d.Handle(ctx, domain.Update{ChatID: 2, MessageID: 2}) // must still run

	got := users.wait(t, 1)
	assert.Equal(t, int64(2), got[0].ChatID)
	close(blocked)
	users.wait(t, 1)
}

type blockingHandler struct {
	release chan struct{}
	inner   *recordingHandler
}

func (h *blockingHandler) HandleUpdate(ctx context.Context, u domain.Update) {
	if u.ChatID == 1 {
		<-h.release
	}
	h.inner.HandleUpdate(ctx, u)
}

func TestDispatch_PanicDoesNotKillQueue(t *testing.T) {
	users := newRecordingHandler(4)
	users.panicOn = 7
	operators := newRecordingHandler(4)
	d := New(users, operators, -100500, logging.Silent())

	ctx := context.Background()
	d.Handle(ctx, domain.Update{ChatID: 7, MessageID: 1})
	users.wait(t, 1)

	// the dispatcher keeps working after a handler panic
	d.Handle(ctx, domain.Update{ChatID: 8, MessageID: 2})
	got := users.wait(t, 1)
	assert.Equal(t, int64(8), got[len(got)-1].ChatID)
}
