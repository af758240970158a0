package cli

import (
	"fmt"
	"strings"

	"gridchess/internal/board"
	"gridchess/internal/core"
	"gridchess/internal/game"

	"github.com/google/uuid"
)

// Tally counts the games finished during one session
type Tally struct {
	Played    int
	WhiteWins int
	BlackWins int
	Draws     int
}

func (t *Tally) add(state core.State) {
	t.Played++
	switch state {
	case core.StateWhiteWins:
		t.WhiteWins++
	case core.StateBlackWins:
		t.BlackWins++
	case core.StateDraw:
		t.Draws++
	}
}

// Handler runs a local two-player game on one terminal
type Handler struct {
	view  *CLI
	game  *game.Game
	white string
	black string
	tally Tally
}

func NewHandler(view *CLI, white, black string) *Handler {
	return &Handler{view: view, white: white, black: black}
}

// Tally returns the session counters
func (h *Handler) Tally() Tally {
	return h.tally
}

// Run starts a game and processes commands until quit or input error
func (h *Handler) Run() error {
	h.newGame(nil)

	for {
		cmd, err := h.view.GetCommand(h.prompt())
		if err != nil {
			return err
		}
		if !h.ProcessCommand(cmd) {
			return nil
		}
	}
}

func (h *Handler) prompt() string {
	if h.game == nil || h.game.State().Terminal() {
		return "> "
	}
	return fmt.Sprintf("[%s]> ", h.game.Turn())
}

// ProcessCommand handles one command; false means exit
func (h *Handler) ProcessCommand(cmd *Command) bool {
	switch cmd.Type {
	case CmdQuit:
		return false

	case CmdNone:

	case CmdMove:
		if len(cmd.Args) != 2 {
			h.view.ShowMessage("Usage: <from> <to>, e.g. e2 e4")
			return true
		}
		h.handleMove(cmd.Args[0], cmd.Args[1])

	case CmdMoves:
		if len(cmd.Args) != 1 {
			h.view.ShowMessage("Usage: moves <square>")
			return true
		}
		h.handleMoves(cmd.Args[0])

	case CmdBoard:
		h.view.DisplayBoard(h.game, nil)

	case CmdResign:
		side := h.game.Turn()
		if err := h.game.Resign(side); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("%s resigns.", capitalize(side.String())))
		h.finish()

	case CmdDraw:
		if err := h.game.Draw(); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage("Draw agreed.")
		h.finish()

	case CmdNew:
		h.newGame(cmd.Args)

	case CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}
		theme := ColorTheme(strings.ToLower(cmd.Args[0]))
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
		h.view.DisplayBoard(h.game, nil)

	case CmdHelp:
		h.view.ShowHelp()

	default:
		h.view.ShowMessage(fmt.Sprintf("Unknown command: %s (type 'help')", cmd.Raw))
	}

	return true
}

func (h *Handler) handleMove(fromText, toText string) {
	from, err := board.ParseCoordinate(fromText)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	to, err := board.ParseCoordinate(toText)
	if err != nil {
		h.view.ShowError(err)
		return
	}

	if h.game.State().Terminal() {
		h.view.ShowMessage("The game is over. Start a new game with 'new'.")
		return
	}

	// only the side to move may touch its own pieces
	turn := h.game.Turn()
	piece, ok := h.game.Occupant(from)
	if !ok {
		h.view.ShowMessage(fmt.Sprintf("No piece on %s.", from))
		return
	}
	if piece.Side != turn {
		h.view.ShowMessage(fmt.Sprintf("%s holds a %s piece; %s to move.", from, piece.Side, turn))
		return
	}

	out, err := h.game.Move(from, to)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	if !out.Applied {
		h.view.ShowMessage(fmt.Sprintf("Illegal move: %s %s to %s.", piece.Kind, from, to))
		return
	}

	msg := fmt.Sprintf("%s %s %s to %s", capitalize(turn.String()), piece.Kind, from, to)
	if out.Captured != nil {
		msg += fmt.Sprintf(", takes %s", out.Captured.Kind)
	}
	h.view.ShowMessage(msg)
	h.view.DisplayBoard(h.game, nil)

	if h.game.State().Terminal() {
		h.finish()
	}
}

func (h *Handler) handleMoves(text string) {
	c, err := board.ParseCoordinate(text)
	if err != nil {
		h.view.ShowError(err)
		return
	}

	moves := h.game.LegalMoves(c)
	if len(moves) == 0 {
		h.view.ShowMessage(fmt.Sprintf("No legal moves from %s.", c))
		return
	}

	names := make([]string, len(moves))
	for i, m := range moves {
		names[i] = m.String()
	}
	h.view.DisplayBoard(h.game, moves)
	h.view.ShowMessage(fmt.Sprintf("%s: %s", c, strings.Join(names, " ")))
}

// newGame starts a fresh game; args may rename the players
func (h *Handler) newGame(args []string) {
	if len(args) > 0 {
		h.white = args[0]
	}
	if len(args) > 1 {
		h.black = args[1]
	}

	h.game = game.New(uuid.New().String(), h.white, h.black)
	h.view.ShowMessage(fmt.Sprintf("New game: %s (white) vs %s (black).", h.white, h.black))
	h.view.DisplayBoard(h.game, nil)
}

func (h *Handler) finish() {
	h.tally.add(h.game.State())
	h.view.ShowGameOver(h.game.Snapshot(), h.tally)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
