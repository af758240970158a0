package http

import (
	"strings"

	"gridchess/internal/core"

	"github.com/gofiber/fiber/v2"
)

// SeatAuthorizer maps a seat token to the side it was issued for in gameID
type SeatAuthorizer func(gameID, token string) (core.Side, error)

// SeatRequired admits only holders of a seat token for the game in the path.
// The seat's side is stored in Locals("side").
func SeatRequired(authorize SeatAuthorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c.Get("Authorization"))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
				Error: "missing seat token",
				Code:  core.ErrUnauthorized,
			})
		}

		side, err := authorize(c.Params("gameId"), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
				Error:   "invalid seat token",
				Code:    core.ErrUnauthorized,
				Details: err.Error(),
			})
		}

		c.Locals("side", side)
		return c.Next()
	}
}

// contentTypeValidator ensures POST requests carry JSON
func contentTypeValidator(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		contentType := c.Get("Content-Type")
		if contentType != "" && !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// gameIDValidator rejects malformed game IDs before any lookup
func gameIDValidator(c *fiber.Ctx) error {
	if !isValidUUID(c.Params("gameId")) {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid game ID format",
			Code:    core.ErrInvalidRequest,
			Details: "game ID must be a valid UUID",
		})
	}
	return c.Next()
}

func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}
