package service

import (
	"errors"
	"fmt"
	"time"

	"gridchess/internal/core"

	"github.com/lixenwraith/auth"
)

const seatTTL = 24 * time.Hour

var ErrInvalidSeat = errors.New("invalid seat token")

// Seats are the bearer tokens that let a client move for one side of a game
type Seats struct {
	White string
	Black string
}

func (s *Service) issueSeats(gameID string) (Seats, error) {
	white, err := s.seatToken(gameID, core.SideWhite)
	if err != nil {
		return Seats{}, err
	}
	black, err := s.seatToken(gameID, core.SideBlack)
	if err != nil {
		return Seats{}, err
	}
	return Seats{White: white, Black: black}, nil
}

func (s *Service) seatToken(gameID string, side core.Side) (string, error) {
	claims := map[string]any{
		"game": gameID,
		"side": string(side),
	}
	token, err := auth.GenerateHS256Token(s.secret, gameID+"/"+string(side), claims, seatTTL)
	if err != nil {
		return "", fmt.Errorf("failed to issue %s seat: %w", side, err)
	}
	return token, nil
}

// AuthorizeSeat returns the side a token was issued for, provided it was
// issued for gameID
func (s *Service) AuthorizeSeat(gameID, token string) (core.Side, error) {
	_, claims, err := auth.ValidateHS256Token(s.secret, token)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSeat, err)
	}

	if g, _ := claims["game"].(string); g != gameID {
		return 0, fmt.Errorf("%w: issued for another game", ErrInvalidSeat)
	}

	raw, _ := claims["side"].(string)
	side, ok := core.ParseSide(raw)
	if !ok {
		return 0, fmt.Errorf("%w: bad side claim", ErrInvalidSeat)
	}
	return side, nil
}
