package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gridchess/internal/game"
	"gridchess/internal/storage"

	"github.com/google/uuid"
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrStorageDisabled = errors.New("storage disabled")
)

// Service owns the live games and hands finished ones to storage
type Service struct {
	games  map[string]*game.Game
	mu     sync.RWMutex
	store  *storage.Store // nil if persistence disabled
	waiter *WaitRegistry
	secret []byte
}

// New creates a service. store may be nil; secret signs seat tokens.
func New(store *storage.Store, secret []byte) *Service {
	return &Service{
		games:  make(map[string]*game.Game),
		store:  store,
		waiter: NewWaitRegistry(),
		secret: secret,
	}
}

// GenerateGameID returns a UUID not used by any live game
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// CreateGame starts a session in the standard arrangement and issues one
// seat token per side
func (s *Service) CreateGame(white, black string) (*game.Game, Seats, error) {
	id := s.GenerateGameID()
	g := game.New(id, white, black)

	// Sign one token per side, bound to this game ID
	seats, err := s.issueSeats(id)
	if err != nil {
		return nil, Seats{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Check for ID collision between generation and insertion
	if _, exists := s.games[id]; exists {
		return nil, Seats{}, fmt.Errorf("game %s already exists", id)
	}
	s.games[id] = g

	return g, seats, nil
}

// GetGame retrieves a live game by ID
func (s *Service) GetGame(gameID string) (*game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g, nil
}

// DeleteGame drops a game from memory and releases its waiters
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	_, ok := s.games[gameID]
	delete(s.games, gameID)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	// Wake any long-poll or websocket watchers so they see the deletion
	s.waiter.RemoveGame(gameID)
	return nil
}

// GameCount is the number of live games
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// PlayerStats returns the recorded statistics for a player name
func (s *Service) PlayerStats(name string) (*storage.PlayerRecord, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	return s.store.GetPlayer(name)
}

// RegisterWait blocks a long-poll client until the game's ply count differs
// from plies; see WaitRegistry
func (s *Service) RegisterWait(ctx context.Context, gameID string, plies int) <-chan struct{} {
	return s.waiter.RegisterWait(ctx, gameID, plies)
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Shutdown releases waiters, drops all games and closes storage
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	// Release waiters first so HTTP handlers can return
	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, err)
	}

	// Clear all games
	s.mu.Lock()
	s.games = make(map[string]*game.Game)
	s.mu.Unlock()

	// Close storage, draining queued writes
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage close: %w", err))
		}
	}
	return errors.Join(errs...)
}

// record persists a game that has just finished
func (s *Service) record(g *game.Game) {
	if s.store == nil {
		return
	}

	// Snapshot once so the row is internally consistent
	snap := g.Snapshot()
	winner := ""
	if side, ok := g.Winner(); ok {
		winner = string(side)
	}

	// Async write, player statistics updated in the same transaction
	s.store.RecordGame(storage.GameRecord{
		GameID:       snap.ID,
		WhiteName:    snap.White,
		BlackName:    snap.Black,
		Result:       int(snap.Result),
		State:        snap.State.String(),
		Winner:       winner,
		Plies:        snap.Plies,
		FinalLayout:  snap.Layout,
		StartTimeUTC: snap.StartedAt.UTC(),
		EndTimeUTC:   snap.EndedAt.UTC(),
	})
}
