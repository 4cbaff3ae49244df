// Package routing splits the inbound update stream between the user-facing
// intake flow and the operator chat handler.
package routing

import (
	"context"
	"sync"

	"github.com/avolkhin/deskbot/internal/domain"
	"github.com/avolkhin/deskbot/internal/logging"
)

// UserHandler consumes updates from end users.
type UserHandler interface {
	HandleUpdate(ctx context.Context, u domain.Update)
}

// OperatorHandler consumes updates seen in the operator chat.
type OperatorHandler interface {
	HandleOperatorMessage(ctx context.Context, u domain.Update)
}

// Dispatcher fans each update to the right handler. Updates are queued per
// chat and drained by one worker per chat, so events from the same user are
// handled strictly in arrival order while distinct chats proceed
// concurrently.
type Dispatcher struct {
	users        UserHandler
	operators    OperatorHandler
	operatorChat int64
	log          *logging.Logger

	mu      sync.Mutex
	pending map[int64][]domain.Update
}

// New creates a dispatcher. Updates whose chat id equals operatorChat go to
// the operator handler, everything else to the user handler.
func New(users UserHandler, operators OperatorHandler, operatorChat int64, log *logging.Logger) *Dispatcher {
	return &Dispatcher{
		users:        users,
		operators:    operators,
		operatorChat: operatorChat,
		log:          log.Sub("routing"),
		pending:      make(map[int64][]domain.Update),
	}
}

// Handle enqueues one update and returns immediately; a slow database call
// never stalls the poll loop. The first update for an idle chat starts that
// chat's drain worker.
func (d *Dispatcher) Handle(ctx context.Context, u domain.Update) {
	d.mu.Lock()
	queue, active := d.pending[u.ChatID]
	d.pending[u.ChatID] = append(queue, u)
	d.mu.Unlock()

	if !active {
		go d.drain(ctx, u.ChatID)
	}
}

// drain processes a chat's queue in FIFO order until it is empty, then
// retires. The map entry doubles as the worker-is-running marker.
func (d *Dispatcher) drain(ctx context.Context, chatID int64) {
	for {
		d.mu.Lock()
		queue := d.pending[chatID]
		if len(queue) == 0 {
			delete(d.pending, chatID)
			d.mu.Unlock()
			return
		}
		u := queue[0]
		d.pending[chatID] = queue[1:]
		d.mu.Unlock()

		d.dispatch(ctx, u)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, u domain.Update) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Int64("chatId", u.ChatID).Msg("handler panicked")
		}
	}()

	if u.ChatID == d.operatorChat {
		d.operators.HandleOperatorMessage(ctx, u)
		return
	}
	d.users.HandleUpdate(ctx, u)
}
