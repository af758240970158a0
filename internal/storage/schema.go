package storage

import "time"

// GameRecord is a row of the games table, written once a game ends
type GameRecord struct {
	GameID       string    `db:"game_id"`
	WhiteName    string    `db:"white_name"`
	BlackName    string    `db:"black_name"`
	Result       int       `db:"result"` // 1 white wins, 2 black wins, -1 resign/draw
	State        string    `db:"state"`
	Winner       string    `db:"winner"` // "w", "b" or "" for a draw
	Plies        int       `db:"plies"`
	FinalLayout  string    `db:"final_layout"`
	StartTimeUTC time.Time `db:"start_time_utc"`
	EndTimeUTC   time.Time `db:"end_time_utc"`
}

// PlayerRecord holds the running statistics of one player name
type PlayerRecord struct {
	Name        string `db:"name"`
	GamesPlayed int    `db:"games_played"`
	Wins        int    `db:"wins"`
	Losses      int    `db:"losses"`
	Draws       int    `db:"draws"`
}

const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	white_name TEXT NOT NULL,
	black_name TEXT NOT NULL,
	result INTEGER NOT NULL CHECK(result IN (-1, 1, 2)),
	state TEXT NOT NULL,
	winner TEXT NOT NULL DEFAULT '' CHECK(winner IN ('w', 'b', '')),
	plies INTEGER NOT NULL DEFAULT 0,
	final_layout TEXT NOT NULL,
	start_time_utc DATETIME NOT NULL,
	end_time_utc DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_games_white_name ON games(white_name);
CREATE INDEX IF NOT EXISTS idx_games_black_name ON games(black_name);

CREATE TABLE IF NOT EXISTS players (
	name TEXT PRIMARY KEY COLLATE NOCASE,
	games_played INTEGER NOT NULL DEFAULT 0,
	wins INTEGER NOT NULL DEFAULT 0,
	losses INTEGER NOT NULL DEFAULT 0,
	draws INTEGER NOT NULL DEFAULT 0
);
`
