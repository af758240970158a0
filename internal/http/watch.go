package http

import (
	"context"
	"log"

	"gridchess/internal/core"
	"gridchess/internal/game"
	"gridchess/internal/processor"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// upgradeRequired admits only websocket handshakes
func upgradeRequired(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// Watch streams a game to a spectator: the current state on connect, then
// one message per change of plies or draw offer. The stream ends after the
// game finishes or is deleted.
func (h *HTTPHandler) Watch(c *websocket.Conn) {
	gameID := c.Params("gameId")
	defer c.Close()

	// spectators send nothing; a failed read means the peer has gone
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	sent, offer := -1, ""
	for {
		g, err := h.svc.GetGame(gameID)
		if err != nil {
			c.WriteJSON(core.ErrorResponse{Error: "game not found", Code: core.ErrGameNotFound})
			return
		}

		snap := g.Snapshot()
		resp := processor.BuildGameResponse(snap)
		if resp.Plies != sent || resp.DrawOffer != offer || snap.State.Terminal() {
			if err := c.WriteJSON(resp); err != nil {
				log.Printf("watch %s: write failed: %v", gameID, err)
				return
			}
			sent, offer = resp.Plies, resp.DrawOffer
		}
		if snap.State.Terminal() {
			return
		}

		notify := h.svc.RegisterWait(ctx, gameID, sent)
		if g.Plies() != sent || g.State().Terminal() || offerOf(g) != offer {
			continue // changed before the wait was registered
		}
		select {
		case <-notify:
		case <-ctx.Done():
			return
		}
	}
}

func offerOf(g *game.Game) string {
	if side, ok := g.DrawOffer(); ok {
		return string(side)
	}
	return ""
}
