package service

import (
	"gridchess/internal/board"
	"gridchess/internal/core"
	"gridchess/internal/game"
)

// ErrNotYourTurn is returned when the seat presented is not the side to move
var ErrNotYourTurn = game.ErrNotYourTurn

// Move plays from→to for side. A move that is not legal comes back as an
// Outcome with Applied false; errors are reserved for a missing game, a
// finished game or the wrong side.
func (s *Service) Move(gameID string, side core.Side, from, to board.Coordinate) (board.Outcome, error) {
	g, err := s.GetGame(gameID)
	if err != nil {
		return board.Outcome{}, err
	}

	out, err := g.MoveAs(side, from, to)
	if err != nil || !out.Applied {
		return out, err
	}

	// a king capture is the only way a move ends the game
	if out.Result != core.ResultNone {
		s.record(g)
	}
	s.waiter.NotifyGame(gameID, g.Plies())
	return out, nil
}

// Resign ends the game in favour of side's opponent
func (s *Service) Resign(gameID string, side core.Side) error {
	g, err := s.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := g.Resign(side); err != nil {
		return err
	}
	s.finished(g)
	return nil
}

// Draw offers a draw on behalf of side. The game ends drawn only when the
// opponent's offer is already standing; agreed reports whether it did.
func (s *Service) Draw(gameID string, side core.Side) (agreed bool, err error) {
	g, err := s.GetGame(gameID)
	if err != nil {
		return false, err
	}
	if agreed, err = g.OfferDraw(side); err != nil {
		return false, err
	}

	if agreed {
		s.finished(g)
	} else {
		// plies are unchanged; wake watchers so they see the offer
		s.waiter.NotifyGame(gameID, -1)
	}
	return agreed, nil
}

// finished records a game ended without a move and wakes its waiters.
// The ply count is unchanged, so waiters are released unconditionally.
func (s *Service) finished(g *game.Game) {
	s.record(g)
	s.waiter.NotifyGame(g.ID(), -1)
}
