package core

import "time"

// Request types

type CreateGameRequest struct {
	White string `json:"white" validate:"required,min=1,max=40"`
	Black string `json:"black" validate:"required,min=1,max=40"`
}

type MoveRequest struct {
	From string `json:"from" validate:"required,square"`
	To   string `json:"to" validate:"required,square"`
}

// Response types

type GameResponse struct {
	GameID    string    `json:"gameId"`
	White     string    `json:"white"`
	Black     string    `json:"black"`
	Turn      string    `json:"turn"` // "w" or "b"
	State     string    `json:"state"`
	Result    Result    `json:"result"`
	Plies     int       `json:"plies"`
	Layout    string    `json:"layout"`
	LastMove  *MoveInfo `json:"lastMove,omitempty"`
	DrawOffer string    `json:"drawOffer,omitempty"` // side with a standing offer
	StartedAt time.Time `json:"startedAt"`
	Elapsed   int64     `json:"elapsedMs"`
}

// CreateGameResponse carries the seat tokens, returned only once
type CreateGameResponse struct {
	GameResponse
	WhiteToken string `json:"whiteToken"`
	BlackToken string `json:"blackToken"`
}

type MoveInfo struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Side     string `json:"side"` // "w" or "b"
	Captured string `json:"captured,omitempty"`
}

type MoveResponse struct {
	Applied bool         `json:"applied"`
	Result  Result       `json:"result"`
	Game    GameResponse `json:"game"`
}

type LegalMovesResponse struct {
	Square string   `json:"square"`
	Moves  []string `json:"moves"`
}

type BoardResponse struct {
	Layout string `json:"layout"`
	Board  string `json:"board"` // ASCII representation
	Turn   string `json:"turn"`
}

type PlayerResponse struct {
	Name        string `json:"name"`
	GamesPlayed int    `json:"gamesPlayed"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Draws       int    `json:"draws"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
