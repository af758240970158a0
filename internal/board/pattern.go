package board

import (
	"slices"

	"gridchess/internal/core"
)

type Kind byte

const (
	King Kind = iota + 1
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

var kindNames = map[Kind]string{
	King:   "king",
	Queen:  "queen",
	Rook:   "rook",
	Bishop: "bishop",
	Knight: "knight",
	Pawn:   "pawn",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Letter returns the upper case piece letter used in layouts
func (k Kind) Letter() byte {
	switch k {
	case King:
		return 'K'
	case Queen:
		return 'Q'
	case Rook:
		return 'R'
	case Bishop:
		return 'B'
	case Knight:
		return 'N'
	case Pawn:
		return 'P'
	}
	return '?'
}

// kindFromLetter maps a layout letter of either case to a kind and side
func kindFromLetter(ch byte) (Kind, core.Side, bool) {
	side := core.SideWhite
	if ch >= 'a' && ch <= 'z' {
		side = core.SideBlack
		ch -= 'a' - 'A'
	}
	for k := King; k <= Pawn; k++ {
		if k.Letter() == ch {
			return k, side, true
		}
	}
	return 0, 0, false
}

// Offsets are written for White, forward is +Y. Black pawns subtract them.
var (
	allDirections = []Coordinate{
		{-1, 1}, {0, 1}, {1, 1},
		{-1, 0}, {1, 0},
		{-1, -1}, {0, -1}, {1, -1},
	}
	orthogonal = []Coordinate{
		{0, 1}, {1, 0}, {-1, 0}, {0, -1},
	}
	diagonal = []Coordinate{
		{-1, 1}, {1, 1}, {-1, -1}, {1, -1},
	}
	knightJumps = []Coordinate{
		{-1, 2}, {1, 2},
		{2, 1}, {2, -1},
		{1, -2}, {-1, -2},
		{-2, -1}, {-2, 1},
	}
	pawnFirst = []Coordinate{
		{0, 1}, {0, 2}, {-1, 1}, {1, 1},
	}
	pawnLater = []Coordinate{
		{0, 1}, {-1, 1}, {1, 1},
	}
)

// forward is the single forward step checked for pawn blocking
var forward = Coordinate{0, 1}

// patternFor returns the shared offset table; callers must not modify it
func patternFor(kind Kind, moved bool) []Coordinate {
	switch kind {
	case King, Queen:
		return allDirections
	case Rook:
		return orthogonal
	case Bishop:
		return diagonal
	case Knight:
		return knightJumps
	case Pawn:
		if moved {
			return pawnLater
		}
		return pawnFirst
	}
	return nil
}

// PatternFor returns a copy of the offset table for kind
func PatternFor(kind Kind, moved bool) []Coordinate {
	return slices.Clone(patternFor(kind, moved))
}

// sliding reports whether kind walks each offset as a ray
func (k Kind) sliding() bool {
	return k == Queen || k == Rook || k == Bishop
}
