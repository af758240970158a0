package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const (
	writeQueueSize = 256
	drainTimeout   = 2 * time.Second
)

// Store persists finished games and player statistics in SQLite.
// Writes are queued and applied by a single background writer; a failed
// write marks the store degraded and later writes are dropped.
type Store struct {
	db      *sql.DB
	path    string
	writes  chan func(*sql.Tx) error
	healthy atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	closed  sync.Once
}

// NewStore opens the database file and starts the writer
func NewStore(path string, devMode bool) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if devMode {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		db:     db,
		path:   path,
		writes: make(chan func(*sql.Tx) error, writeQueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	s.healthy.Store(true)

	s.wg.Add(1)
	go s.writerLoop()

	return s, nil
}

func (s *Store) IsHealthy() bool {
	return s.healthy.Load()
}

func (s *Store) writerLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			s.drain()
			return
		case fn := <-s.writes:
			if s.healthy.Load() {
				s.apply(fn)
			}
		}
	}
}

// drain applies whatever is still queued, bounded by drainTimeout
func (s *Store) drain() {
	deadline := time.After(drainTimeout)
	for {
		select {
		case fn := <-s.writes:
			if s.healthy.Load() {
				s.apply(fn)
			}
		case <-deadline:
			return
		default:
			return
		}
	}
}

func (s *Store) apply(fn func(*sql.Tx) error) {
	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("storage: degraded, begin failed: %v", err)
		s.healthy.Store(false)
		return
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		log.Printf("storage: degraded, write failed: %v", err)
		s.healthy.Store(false)
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("storage: degraded, commit failed: %v", err)
		s.healthy.Store(false)
	}
}

// enqueue hands a write to the writer without blocking the caller
func (s *Store) enqueue(what string, fn func(*sql.Tx) error) {
	if !s.healthy.Load() {
		return
	}

	select {
	case s.writes <- fn:
	default:
		log.Printf("storage: write queue full, dropping %s", what)
	}
}

// Close stops the writer after draining queued writes and closes the database
func (s *Store) Close() error {
	var err error
	s.closed.Do(func() {
		s.cancel()

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * drainTimeout):
			log.Printf("storage: writer shutdown timeout, some writes may be lost")
		}

		err = s.db.Close()
	})
	return err
}

// InitDB creates the schema if missing
func (s *Store) InitDB() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return tx.Commit()
}

// DeleteDB closes the store and removes the database file
func (s *Store) DeleteDB() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete database file: %w", err)
	}

	return nil
}
