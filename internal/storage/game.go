package storage

import (
	"database/sql"
	"fmt"
)

const upsertPlayer = `INSERT INTO players (name, games_played, wins, losses, draws)
	VALUES (?, 1, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		games_played = games_played + 1,
		wins = wins + excluded.wins,
		losses = losses + excluded.losses,
		draws = draws + excluded.draws`

// RecordGame queues a finished game and the matching statistics update
func (s *Store) RecordGame(record GameRecord) {
	s.enqueue("game record", func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO games (
			game_id, white_name, black_name, result, state, winner,
			plies, final_layout, start_time_utc, end_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.GameID, record.WhiteName, record.BlackName, record.Result,
			record.State, record.Winner, record.Plies, record.FinalLayout,
			record.StartTimeUTC, record.EndTimeUTC,
		)
		if err != nil {
			return fmt.Errorf("insert game: %w", err)
		}

		for _, p := range []struct {
			name string
			side string
		}{{record.WhiteName, "w"}, {record.BlackName, "b"}} {
			win, loss, draw := 0, 0, 0
			switch record.Winner {
			case "":
				draw = 1
			case p.side:
				win = 1
			default:
				loss = 1
			}
			if _, err := tx.Exec(upsertPlayer, p.name, win, loss, draw); err != nil {
				return fmt.Errorf("update player %s: %w", p.name, err)
			}
		}
		return nil
	})
}

// QueryGames lists finished games, newest first. Empty or "*" filters match all.
func (s *Store) QueryGames(gameID, player string) ([]GameRecord, error) {
	query := `SELECT
		game_id, white_name, black_name, result, state, winner,
		plies, final_layout, start_time_utc, end_time_utc
	FROM games WHERE 1=1`

	var args []any

	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}

	if player != "" && player != "*" {
		query += " AND (white_name = ? COLLATE NOCASE OR black_name = ? COLLATE NOCASE)"
		args = append(args, player, player)
	}

	query += " ORDER BY end_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(
			&g.GameID, &g.WhiteName, &g.BlackName, &g.Result, &g.State, &g.Winner,
			&g.Plies, &g.FinalLayout, &g.StartTimeUTC, &g.EndTimeUTC,
		); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return games, nil
}
