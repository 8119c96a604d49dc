package tui

import (
	"context"
	"log/slog"
	"sync"
)

// journal runs transcript operations in the order they were issued, even
// though each one executes inside its own tea.Cmd goroutine.
type journal struct {
	store  Transcript
	logger *slog.Logger

	mu     sync.Mutex
	turn   *sync.Cond
	issued uint64 // next ticket to hand out
	next   uint64 // ticket allowed to run
}

func newJournal(store Transcript, logger *slog.Logger) *journal {
	j := &journal{store: store, logger: logger}
	j.turn = sync.NewCond(&j.mu)
	return j
}

// ticket reserves a position. Call it on the event loop so positions follow
// the order of user actions.
func (j *journal) ticket() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	t := j.issued
	j.issued++
	return t
}

// run waits for the ticket's turn, then runs op against the store.
func (j *journal) run(ticket uint64, op func(ctx context.Context, store Transcript)) {
	j.mu.Lock()
	for j.next != ticket {
		j.turn.Wait()
	}
	j.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	op(ctx, j.store)
	cancel()

	j.mu.Lock()
	j.next++
	j.turn.Broadcast()
	j.mu.Unlock()
}
