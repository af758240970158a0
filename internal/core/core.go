package core

// Side is one of the two players. There is no neutral side.
type Side byte

const (
	SideWhite Side = 'w'
	SideBlack Side = 'b'
)

func (s Side) String() string {
	switch s {
	case SideWhite:
		return "white"
	case SideBlack:
		return "black"
	default:
		return "-"
	}
}

// Valid reports whether s is White or Black
func (s Side) Valid() bool {
	return s == SideWhite || s == SideBlack
}

func OppositeSide(s Side) Side {
	if s == SideWhite {
		return SideBlack
	}
	return SideWhite
}

// ParseSide accepts "w", "b", "white" or "black"
func ParseSide(s string) (Side, bool) {
	switch s {
	case "w", "white":
		return SideWhite, true
	case "b", "black":
		return SideBlack, true
	}
	return 0, false
}

type State int

const (
	StateOngoing State = iota
	StateWhiteWins
	StateBlackWins
	StateDraw
)

func (s State) String() string {
	switch s {
	case StateWhiteWins:
		return "white wins"
	case StateBlackWins:
		return "black wins"
	case StateDraw:
		return "draw"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further moves are processed in this state
func (s State) Terminal() bool {
	return s != StateOngoing
}

// WinState returns the state in which side has won
func WinState(side Side) State {
	if side == SideWhite {
		return StateWhiteWins
	}
	return StateBlackWins
}

// Result is the numeric game report code handed to drivers.
type Result int

const (
	ResultNone      Result = 0
	ResultWhiteWins Result = 1
	ResultBlackWins Result = 2
	// ResultSignaled marks a game ended by resignation or agreed draw,
	// which the board itself cannot derive.
	ResultSignaled Result = -1
)

func (r Result) String() string {
	switch r {
	case ResultWhiteWins:
		return "white wins"
	case ResultBlackWins:
		return "black wins"
	case ResultSignaled:
		return "ended by signal"
	default:
		return "none"
	}
}

// WinResult returns the report code for a win by side
func WinResult(side Side) Result {
	if side == SideWhite {
		return ResultWhiteWins
	}
	return ResultBlackWins
}
