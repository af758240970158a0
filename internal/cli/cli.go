package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"gridchess/internal/board"
	"gridchess/internal/core"
	"gridchess/internal/game"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdMove
	CmdMoves
	CmdBoard
	CmdResign
	CmdDraw
	CmdNew
	CmdColor
	CmdHelp
	CmdQuit
	CmdUnknown
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

// LineReader is the line editor the view reads from; readline.Instance
// satisfies it
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg   string
	darkBg    string
	highlight string
	white     string
	black     string
	reset     string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg:   "\033[48;5;230m", // Beige
		darkBg:    "\033[48;5;94m",  // Brown
		highlight: "\033[48;5;178m", // Amber
		white:     "\033[97m",
		black:     "\033[30m",
		reset:     "\033[0m",
	},
	ThemeGreen: {
		lightBg:   "\033[48;5;157m", // Light green
		darkBg:    "\033[48;5;22m",  // Dark green
		highlight: "\033[48;5;185m", // Yellow
		white:     "\033[97m",
		black:     "\033[30m",
		reset:     "\033[0m",
	},
	ThemeGray: {
		lightBg:   "\033[48;5;251m", // Light gray
		darkBg:    "\033[48;5;240m", // Dark gray
		highlight: "\033[48;5;67m",  // Steel blue
		white:     "\033[97m",
		black:     "\033[30m",
		reset:     "\033[0m",
	},
}

// CLI is the terminal view: it reads commands and renders games
type CLI struct {
	input  LineReader
	output io.Writer
	theme  ColorTheme
	color  bool // output is a terminal
}

func New(input LineReader, output io.Writer) *CLI {
	return &CLI{
		input:  input,
		output: output,
		theme:  ThemeOff,
	}
}

// EnableColor allows themes other than off; callers pass whether the
// output is a terminal
func (c *CLI) EnableColor(enabled bool) {
	c.color = enabled
	if !enabled {
		c.theme = ThemeOff
	}
}

// GetCommand prompts and reads one command. End of input reads as quit.
func (c *CLI) GetCommand(prompt string) (*Command, error) {
	c.input.SetPrompt(prompt)

	line, err := c.input.Readline()
	if errors.Is(err, io.EOF) {
		return &Command{Type: CmdQuit}, nil
	}
	if err != nil {
		return nil, err
	}

	return parseCommand(line), nil
}

func parseCommand(input string) *Command {
	input = strings.TrimSpace(input)
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "move", "m":
		return &Command{Type: CmdMove, Args: args, Raw: input}
	case "moves":
		return &Command{Type: CmdMoves, Args: args, Raw: input}
	case "board":
		return &Command{Type: CmdBoard}
	case "resign":
		return &Command{Type: CmdResign}
	case "draw":
		return &Command{Type: CmdDraw}
	case "new":
		return &Command{Type: CmdNew, Args: args}
	case "color":
		return &Command{Type: CmdColor, Args: args}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit":
		return &Command{Type: CmdQuit}
	}

	// bare "e2 e4" or "e2e4"
	switch {
	case len(parts) == 2 && len(parts[0]) == 2 && len(parts[1]) == 2:
		return &Command{Type: CmdMove, Args: parts, Raw: input}
	case len(parts) == 1 && len(cmd) == 4:
		return &Command{Type: CmdMove, Args: []string{cmd[:2], cmd[2:]}, Raw: input}
	}

	return &Command{Type: CmdUnknown, Args: parts, Raw: input}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	if theme != ThemeOff && !c.color {
		return fmt.Errorf("colors need a terminal, theme stays off")
	}
	c.theme = theme
	return nil
}

func (c *CLI) Theme() ColorTheme {
	return c.theme
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

// DisplayBoard renders the game from White's side, marking highlight squares
func (c *CLI) DisplayBoard(g *game.Game, highlight []board.Coordinate) {
	theme := themes[c.theme]
	var sb strings.Builder

	sb.WriteString("\n  A B C D E F G H\n")

	for y := board.Size - 1; y >= 0; y-- {
		sb.WriteString(fmt.Sprintf("%d ", y+1))
		for x := 0; x < board.Size; x++ {
			sq := board.Coord(x, y)
			piece, occupied := g.Occupant(sq)
			marked := slices.Contains(highlight, sq)

			letter := byte('.')
			if occupied {
				letter = pieceLetter(piece)
			}

			if c.theme == ThemeOff {
				switch {
				case marked && occupied:
					sb.WriteString(fmt.Sprintf("%c*", letter))
				case marked:
					sb.WriteString("* ")
				default:
					sb.WriteString(fmt.Sprintf("%c ", letter))
				}
				continue
			}

			bg := theme.darkBg
			if (x+y)%2 == 1 {
				bg = theme.lightBg
			}
			if marked {
				bg = theme.highlight
			}

			if !occupied {
				sb.WriteString(fmt.Sprintf("%s  %s", bg, theme.reset))
				continue
			}
			fg := theme.black
			if piece.Side == core.SideWhite {
				fg = theme.white
			}
			sb.WriteString(fmt.Sprintf("%s%s%c %s", bg, fg, letter, theme.reset))
		}
		sb.WriteString(fmt.Sprintf("%d\n", y+1))
	}
	sb.WriteString("  A B C D E F G H\n")

	c.ShowMessage(sb.String())
}

func pieceLetter(v board.PieceView) byte {
	l := v.Kind.Letter()
	if v.Side == core.SideBlack {
		l += 'a' - 'A'
	}
	return l
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  <from> <to>      - Move a piece (e.g. e2 e4, or e2e4)
  move <from> <to> - Same as above
  moves <square>   - Highlight the legal moves of the piece on a square
  board            - Show the board
  resign           - The side to move resigns
  draw             - End the game as an agreed draw
  new [white] [black] - Start a new game
  color <theme>    - Set board color theme (off|brown|green|gray)
  quit/exit        - Exit the program
  help/?           - Show this help message`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Grid Chess!")
	c.ShowMessage("Capture the opposing king to win. There is no check, castling or promotion.")
	c.ShowMessage("Type 'help' for commands.")
	c.ShowMessage("")
}

// ShowGameOver reports how a game ended and the running session tally
func (c *CLI) ShowGameOver(snap game.Snapshot, tally Tally) {
	c.ShowMessage(fmt.Sprintf("Game Over: %s after %d plies (%s)",
		snap.State, snap.Plies, snap.Elapsed.Round(time.Second)))
	c.ShowMessage(fmt.Sprintf("Session: %d played, white %d, black %d, draws %d",
		tally.Played, tally.WhiteWins, tally.BlackWins, tally.Draws))
	c.ShowMessage("Start a new game with 'new'.")
}
