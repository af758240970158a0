package processor

import (
	"gridchess/internal/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdCreateGame CommandType = iota
	CmdGetGame
	CmdGetBoard
	CmdLegalMoves
	CmdMakeMove
	CmdResign
	CmdDraw
	CmdDeleteGame
	CmdGetPlayer
)

// Command is a unified structure for all processor operations
type Command struct {
	Type   CommandType
	GameID string    // For game-specific commands
	Side   core.Side // Seat the caller holds, for moves, resignation and draws
	Args   any       // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreateGameCommand(req core.CreateGameRequest) Command {
	return Command{Type: CmdCreateGame, Args: req}
}

func NewGetGameCommand(gameID string) Command {
	return Command{Type: CmdGetGame, GameID: gameID}
}

func NewGetBoardCommand(gameID string) Command {
	return Command{Type: CmdGetBoard, GameID: gameID}
}

// NewLegalMovesCommand asks for the destinations of the piece on square
func NewLegalMovesCommand(gameID, square string) Command {
	return Command{Type: CmdLegalMoves, GameID: gameID, Args: square}
}

func NewMakeMoveCommand(gameID string, side core.Side, req core.MoveRequest) Command {
	return Command{Type: CmdMakeMove, GameID: gameID, Side: side, Args: req}
}

func NewResignCommand(gameID string, side core.Side) Command {
	return Command{Type: CmdResign, GameID: gameID, Side: side}
}

// NewDrawCommand offers a draw for side, or accepts the opponent's offer
func NewDrawCommand(gameID string, side core.Side) Command {
	return Command{Type: CmdDraw, GameID: gameID, Side: side}
}

func NewDeleteGameCommand(gameID string) Command {
	return Command{Type: CmdDeleteGame, GameID: gameID}
}

func NewGetPlayerCommand(name string) Command {
	return Command{Type: CmdGetPlayer, Args: name}
}
