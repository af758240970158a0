package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gridchess/internal/core"
	"gridchess/internal/processor"
	"gridchess/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

const rateLimitRate = 10 // req/sec

// HTTPHandler handles HTTP requests and routes them to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, devMode bool) *fiber.App {
	// Create handler
	h := NewHTTPHandler(proc, svc)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: service.WaitTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	// Spectator stream
	app.Get("/ws/games/:gameId", upgradeRequired, gameIDValidator, websocket.New(h.Watch))

	// API v1 routes
	api := app.Group("/api/v1")

	// Standard rate limiting, doubled in dev mode
	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 2
	}
	api.Use(limiter.New(limiter.Config{
		Max:        maxReq,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			if xff := c.Get("X-Forwarded-For"); xff != "" {
				if idx := strings.Index(xff, ","); idx != -1 {
					return strings.TrimSpace(xff[:idx])
				}
				return xff
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	// Content-Type validation for POST requests
	api.Use(contentTypeValidator)

	// Body validation for games and moves
	api.Use(validationMiddleware)

	// Seat token check; anything that changes a game requires a seat
	seat := SeatRequired(svc.AuthorizeSeat)

	// Register game routes
	api.Post("/games", h.CreateGame) // No seat yet, tokens are issued here
	api.Get("/games/:gameId", gameIDValidator, h.GetGame)
	api.Delete("/games/:gameId", gameIDValidator, seat, h.DeleteGame)
	api.Get("/games/:gameId/board", gameIDValidator, h.GetBoard)
	api.Get("/games/:gameId/moves/:square", gameIDValidator, h.LegalMoves)
	api.Post("/games/:gameId/moves", gameIDValidator, seat, h.MakeMove)
	api.Post("/games/:gameId/resign", gameIDValidator, seat, h.Resign)
	api.Post("/games/:gameId/draw", gameIDValidator, seat, h.Draw)
	// Player statistics (requires storage)
	api.Get("/players/:name", h.GetPlayer)

	return app
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		// Map HTTP status to error codes
		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrGameNotFound
		case fiber.StatusBadRequest:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		case fiber.StatusUpgradeRequired:
			response.Code = core.ErrInvalidRequest
		}
	}

	return c.Status(code).JSON(response)
}

// statusFor maps an API error code to its HTTP status
func statusFor(code string) int {
	switch code {
	case core.ErrGameNotFound, core.ErrPlayerNotFound:
		return fiber.StatusNotFound
	case core.ErrNotYourTurn, core.ErrUnauthorized:
		return fiber.StatusForbidden
	case core.ErrGameOver:
		return fiber.StatusConflict
	case core.ErrStorageDisabled:
		return fiber.StatusServiceUnavailable
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

// respond writes a processor response with the status for its error code
func (h *HTTPHandler) respond(c *fiber.Ctx, resp processor.ProcessorResponse, okStatus int) error {
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}
	if resp.Data == nil {
		return c.SendStatus(okStatus)
	}
	return c.Status(okStatus).JSON(resp.Data)
}

// Health check endpoint with storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"games":   h.svc.GameCount(),
		"storage": h.svc.GetStorageHealth(),
	})
}

// CreateGame starts a game and returns both seat tokens
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	// Retrieve validated parsed body
	req, ok := c.Locals("validatedBody").(*core.CreateGameRequest)
	if !ok || req == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
	}

	// Create command and execute
	resp := h.proc.Execute(processor.NewCreateGameCommand(*req))

	// Return appropriate HTTP response
	return h.respond(c, resp, fiber.StatusCreated)
}

// GetGame returns the game state. With wait=true and plies=N the request is
// held until the ply count differs from N, the game ends or the wait times out.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	// Non-wait path
	if c.Query("wait", "false") != "true" {
		return h.respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	}

	// Long-polling path
	plies, err := strconv.Atoi(c.Query("plies", "-1"))
	if err != nil {
		plies = -1
	}

	// First check if game exists and get current state
	g, err := h.svc.GetGame(gameID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  core.ErrGameNotFound,
		})
	}

	// Wait only if the client is up to date; otherwise return immediately
	if plies == g.Plies() && !g.State().Terminal() {
		ctx := c.Context()
		notify := h.svc.RegisterWait(ctx, gameID, plies)

		// Re-check: a move between the first check and registration is not notified
		if plies == g.Plies() && !g.State().Terminal() {
			// Wait for notification, timeout, or client disconnect
			select {
			case <-notify:
			case <-ctx.Done():
				// Client disconnected
				return nil
			}
		}
	}

	// the game may have been deleted while waiting
	return h.respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
}

// GetBoard returns the layout and ASCII rendering of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	resp := h.proc.Execute(processor.NewGetBoardCommand(c.Params("gameId")))
	return h.respond(c, resp, fiber.StatusOK)
}

// LegalMoves lists the destinations of the piece on a square
func (h *HTTPHandler) LegalMoves(c *fiber.Ctx) error {
	resp := h.proc.Execute(processor.NewLegalMovesCommand(c.Params("gameId"), c.Params("square")))
	return h.respond(c, resp, fiber.StatusOK)
}

// MakeMove plays a move for the seat presented in the Authorization header
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	// Ensure middleware validation ran
	req, ok := c.Locals("validatedBody").(*core.MoveRequest)
	if !ok || req == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
	}
	// Seat side set by SeatRequired
	side, _ := c.Locals("side").(core.Side)

	resp := h.proc.Execute(processor.NewMakeMoveCommand(c.Params("gameId"), side, *req))
	return h.respond(c, resp, fiber.StatusOK)
}

// Resign ends the game in favour of the other seat
func (h *HTTPHandler) Resign(c *fiber.Ctx) error {
	side, _ := c.Locals("side").(core.Side)
	resp := h.proc.Execute(processor.NewResignCommand(c.Params("gameId"), side))
	return h.respond(c, resp, fiber.StatusOK)
}

// Draw offers a draw for the caller's seat, or accepts the opponent's
// standing offer. The game stays ongoing until both seats have asked.
func (h *HTTPHandler) Draw(c *fiber.Ctx) error {
	side, _ := c.Locals("side").(core.Side)
	resp := h.proc.Execute(processor.NewDrawCommand(c.Params("gameId"), side))
	return h.respond(c, resp, fiber.StatusOK)
}

// DeleteGame drops a game from memory. Either seat may delete it.
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	resp := h.proc.Execute(processor.NewDeleteGameCommand(c.Params("gameId")))
	return h.respond(c, resp, fiber.StatusNoContent)
}

// GetPlayer returns recorded statistics for a player name
func (h *HTTPHandler) GetPlayer(c *fiber.Ctx) error {
	resp := h.proc.Execute(processor.NewGetPlayerCommand(c.Params("name")))
	return h.respond(c, resp, fiber.StatusOK)
}
