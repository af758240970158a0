package board

import (
	"fmt"
	"strings"

	"gridchess/internal/core"
)

// StartingLayout is the placement text of New()
const StartingLayout = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

// ParseLayout builds a board from FEN-style placement text, rank 8 first.
// Pawns off their home rank load as already moved.
func ParseLayout(placement string, active core.Side) (*Board, error) {
	if !active.Valid() {
		return nil, fmt.Errorf("invalid layout: active side must be white or black")
	}

	ranks := strings.Split(placement, "/")
	if len(ranks) != Size {
		return nil, fmt.Errorf("invalid layout: expected %d ranks, got %d", Size, len(ranks))
	}

	b := empty(active)
	for r, text := range ranks {
		y := Size - 1 - r
		x := 0
		for i := 0; i < len(text); i++ {
			ch := text[i]
			if ch >= '1' && ch <= '8' {
				x += int(ch - '0')
				continue
			}
			if x >= Size {
				return nil, fmt.Errorf("invalid layout: too many squares in rank %d", y+1)
			}
			kind, side, ok := kindFromLetter(ch)
			if !ok {
				return nil, fmt.Errorf("invalid layout: unknown piece %q in rank %d", ch, y+1)
			}
			p := newPiece(kind, side)
			if kind == Pawn && y != pawnHomeRank(side) {
				p.moves = 1
			}
			b.grid[x][y].place(p)
			x++
		}
		if x != Size {
			return nil, fmt.Errorf("invalid layout: rank %d has %d files", y+1, x)
		}
	}

	return b, nil
}

func pawnHomeRank(side core.Side) int {
	if side == core.SideBlack {
		return 6
	}
	return 1
}

// Layout renders piece placement in the ParseLayout format
func (b *Board) Layout() string {
	var sb strings.Builder
	for y := Size - 1; y >= 0; y-- {
		run := 0
		for x := 0; x < Size; x++ {
			p := b.grid[x][y].piece
			if p == nil {
				run++
				continue
			}
			if run > 0 {
				sb.WriteByte(byte('0' + run))
				run = 0
			}
			sb.WriteByte(p.Letter())
		}
		if run > 0 {
			sb.WriteByte(byte('0' + run))
		}
		if y > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// ASCII creates a text diagram of the board, rank 8 at the top
func (b *Board) ASCII() string {
	var sb strings.Builder
	sb.WriteString("  A B C D E F G H\n")

	for y := Size - 1; y >= 0; y-- {
		sb.WriteString(fmt.Sprintf("%d ", y+1))
		for x := 0; x < Size; x++ {
			if p := b.grid[x][y].piece; p != nil {
				sb.WriteString(fmt.Sprintf("%c ", p.Letter()))
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteString(fmt.Sprintf("%d\n", y+1))
	}
	sb.WriteString("  A B C D E F G H")

	return sb.String()
}
