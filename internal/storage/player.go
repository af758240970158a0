package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

var ErrPlayerNotFound = errors.New("player not found")

// GetPlayer returns the statistics of one player, name compared case-insensitively
func (s *Store) GetPlayer(name string) (*PlayerRecord, error) {
	var p PlayerRecord
	err := s.db.QueryRow(
		`SELECT name, games_played, wins, losses, draws FROM players WHERE name = ?`, name,
	).Scan(&p.Name, &p.GamesPlayed, &p.Wins, &p.Losses, &p.Draws)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("query player: %w", err)
	}
	return &p, nil
}

// ListPlayers returns every player ordered by wins, then name
func (s *Store) ListPlayers() ([]PlayerRecord, error) {
	rows, err := s.db.Query(
		`SELECT name, games_played, wins, losses, draws FROM players ORDER BY wins DESC, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var players []PlayerRecord
	for rows.Next() {
		var p PlayerRecord
		if err := rows.Scan(&p.Name, &p.GamesPlayed, &p.Wins, &p.Losses, &p.Draws); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// DeletePlayer removes a player's statistics; finished games are kept
func (s *Store) DeletePlayer(name string) error {
	res, err := s.db.Exec(`DELETE FROM players WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
	}
	return nil
}
