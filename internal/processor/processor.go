package processor

import (
	"errors"
	"fmt"
	"log"

	"gridchess/internal/board"
	"gridchess/internal/core"
	"gridchess/internal/game"
	"gridchess/internal/service"
	"gridchess/internal/storage"
)

// Processor translates commands into service calls and API responses
type Processor struct {
	svc *service.Service
}

func New(svc *service.Service) *Processor {
	return &Processor{svc: svc}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	case CmdLegalMoves:
		return p.handleLegalMoves(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdResign:
		return p.handleResign(cmd)
	case CmdDraw:
		return p.handleDraw(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdGetPlayer:
		return p.handleGetPlayer(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	g, seats, err := p.svc.CreateGame(args.White, args.Black)
	if err != nil {
		log.Printf("create game failed: %v", err)
		return p.errorResponse("failed to create game", core.ErrInternalError)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.CreateGameResponse{
			GameResponse: BuildGameResponse(g.Snapshot()),
			WhiteToken:   seats.White,
			BlackToken:   seats.Black,
		},
	}
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}
	return ProcessorResponse{Success: true, Data: BuildGameResponse(g.Snapshot())}
}

func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}

	snap := g.Snapshot()
	return ProcessorResponse{
		Success: true,
		Data: core.BoardResponse{
			Layout: snap.Layout,
			Board:  snap.ASCII,
			Turn:   string(snap.Turn),
		},
	}
}

func (p *Processor) handleLegalMoves(cmd Command) ProcessorResponse {
	square, _ := cmd.Args.(string)
	c, err := board.ParseCoordinate(square)
	if err != nil {
		return p.errorResponseDetails("invalid square", core.ErrInvalidSquare, err.Error())
	}

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}

	targets := g.LegalMoves(c)
	moves := make([]string, 0, len(targets))
	for _, t := range targets {
		moves = append(moves, t.String())
	}

	return ProcessorResponse{
		Success: true,
		Data:    core.LegalMovesResponse{Square: c.String(), Moves: moves},
	}
}

func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	from, err := board.ParseCoordinate(args.From)
	if err != nil {
		return p.errorResponseDetails("invalid source square", core.ErrInvalidSquare, err.Error())
	}
	to, err := board.ParseCoordinate(args.To)
	if err != nil {
		return p.errorResponseDetails("invalid target square", core.ErrInvalidSquare, err.Error())
	}

	out, err := p.svc.Move(cmd.GameID, cmd.Side, from, to)
	if err != nil {
		return p.serviceError(err)
	}
	if !out.Applied {
		return p.errorResponseDetails("illegal move", core.ErrInvalidMove,
			fmt.Sprintf("%s to %s is not a legal move", from, to))
	}

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.MoveResponse{
			Applied: true,
			Result:  out.Result,
			Game:    BuildGameResponse(g.Snapshot()),
		},
	}
}

func (p *Processor) handleResign(cmd Command) ProcessorResponse {
	if err := p.svc.Resign(cmd.GameID, cmd.Side); err != nil {
		return p.serviceError(err)
	}
	return p.handleGetGame(cmd)
}

func (p *Processor) handleDraw(cmd Command) ProcessorResponse {
	if _, err := p.svc.Draw(cmd.GameID, cmd.Side); err != nil {
		return p.serviceError(err)
	}
	return p.handleGetGame(cmd)
}

func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.serviceError(err)
	}
	return ProcessorResponse{Success: true}
}

func (p *Processor) handleGetPlayer(cmd Command) ProcessorResponse {
	name, _ := cmd.Args.(string)
	rec, err := p.svc.PlayerStats(name)
	if err != nil {
		return p.serviceError(err)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.PlayerResponse{
			Name:        rec.Name,
			GamesPlayed: rec.GamesPlayed,
			Wins:        rec.Wins,
			Losses:      rec.Losses,
			Draws:       rec.Draws,
		},
	}
}

// BuildGameResponse converts a game snapshot to its API form
func BuildGameResponse(snap game.Snapshot) core.GameResponse {
	resp := core.GameResponse{
		GameID:    snap.ID,
		White:     snap.White,
		Black:     snap.Black,
		Turn:      string(snap.Turn),
		State:     snap.State.String(),
		Result:    snap.Result,
		Plies:     snap.Plies,
		Layout:    snap.Layout,
		StartedAt: snap.StartedAt,
		Elapsed:   snap.Elapsed.Milliseconds(),
	}
	if snap.DrawOffer != nil {
		resp.DrawOffer = string(*snap.DrawOffer)
	}

	if m := snap.LastMove; m != nil {
		resp.LastMove = &core.MoveInfo{
			From: m.From.String(),
			To:   m.To.String(),
			Side: string(m.Side),
		}
		if m.Captured != nil {
			resp.LastMove.Captured = m.Captured.Kind.String()
		}
	}
	return resp
}

// serviceError maps service and game errors to API error codes
func (p *Processor) serviceError(err error) ProcessorResponse {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return p.errorResponse("game not found", core.ErrGameNotFound)
	case errors.Is(err, service.ErrNotYourTurn):
		return p.errorResponseDetails("not your turn", core.ErrNotYourTurn, err.Error())
	case errors.Is(err, game.ErrGameOver):
		return p.errorResponse("game is over", core.ErrGameOver)
	case errors.Is(err, service.ErrStorageDisabled):
		return p.errorResponse("player statistics unavailable", core.ErrStorageDisabled)
	case errors.Is(err, storage.ErrPlayerNotFound):
		return p.errorResponse("player not found", core.ErrPlayerNotFound)
	default:
		log.Printf("processor: %v", err)
		return p.errorResponse("internal error", core.ErrInternalError)
	}
}

func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error:   &core.ErrorResponse{Error: message, Code: code},
	}
}

func (p *Processor) errorResponseDetails(message, code, details string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error:   &core.ErrorResponse{Error: message, Code: code, Details: details},
	}
}
