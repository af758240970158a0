package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// WaitTimeout is the longest a long-poll client is held
const WaitTimeout = 25 * time.Second

// WaitRegistry holds long-polling clients until the game they watch changes.
// A returned channel is closed exactly once: on a ply change, game removal,
// timeout, client cancellation or shutdown.
type WaitRegistry struct {
	mu       sync.Mutex
	waiters  map[string][]*waiter // gameID → waiting clients
	timeout  time.Duration
	shutdown chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type waiter struct {
	plies int
	done  chan struct{}
	once  sync.Once
}

func (w *waiter) release() {
	w.once.Do(func() { close(w.done) })
}

func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*waiter),
		timeout:  WaitTimeout,
		shutdown: make(chan struct{}),
	}
}

// RegisterWait registers a client that last saw plies moves in gameID
func (r *WaitRegistry) RegisterWait(ctx context.Context, gameID string, plies int) <-chan struct{} {
	w := &waiter{plies: plies, done: make(chan struct{})}

	r.mu.Lock()
	r.waiters[gameID] = append(r.waiters[gameID], w)
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		timer := time.NewTimer(r.timeout)
		defer timer.Stop()

		select {
		case <-ctx.Done():
		case <-timer.C:
		case <-w.done:
		case <-r.shutdown:
		}
		w.release()
		r.remove(gameID, w)
	}()

	return w.done
}

// NotifyGame wakes every waiter whose ply count differs from plies
func (r *WaitRegistry) NotifyGame(gameID string, plies int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range r.waiters[gameID] {
		if w.plies != plies {
			w.release()
		}
	}
}

// RemoveGame wakes and forgets all waiters of a deleted game
func (r *WaitRegistry) RemoveGame(gameID string) {
	r.mu.Lock()
	list := r.waiters[gameID]
	delete(r.waiters, gameID)
	r.mu.Unlock()

	for _, w := range list {
		w.release()
	}
}

// Waiting is the number of clients currently held for gameID
func (r *WaitRegistry) Waiting(gameID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.waiters[gameID])
}

// Shutdown releases every waiter and waits for their goroutines
func (r *WaitRegistry) Shutdown(timeout time.Duration) error {
	r.stopOnce.Do(func() { close(r.shutdown) })

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out")
	}
}

func (r *WaitRegistry) remove(gameID string, target *waiter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.waiters[gameID]
	for i, w := range list {
		if w == target {
			r.waiters[gameID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(r.waiters[gameID]) == 0 {
		delete(r.waiters, gameID)
	}
}
