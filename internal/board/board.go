package board

import (
	"slices"

	"gridchess/internal/core"
)

var backRank = [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Board owns the 64 squares, the active side and the terminal state.
// It is not safe for concurrent use; callers serialize access.
type Board struct {
	grid   Grid
	active core.Side
	state  core.State
}

// Outcome reports what ApplyMove did
type Outcome struct {
	Applied  bool
	Result   core.Result
	Captured *PieceView
}

// Winner returns the side that captured a king with this move
func (o Outcome) Winner() (core.Side, bool) {
	switch o.Result {
	case core.ResultWhiteWins:
		return core.SideWhite, true
	case core.ResultBlackWins:
		return core.SideBlack, true
	}
	return 0, false
}

// empty returns a board with all squares initialized and no pieces
func empty(active core.Side) *Board {
	b := &Board{active: active, state: core.StateOngoing}
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			b.grid[x][y].coord = Coord(x, y)
		}
	}
	return b
}

// New returns the standard starting array with White to move
func New() *Board {
	b := empty(core.SideWhite)
	for x := 0; x < Size; x++ {
		b.grid[x][0].place(newPiece(backRank[x], core.SideWhite))
		b.grid[x][1].place(newPiece(Pawn, core.SideWhite))
		b.grid[x][6].place(newPiece(Pawn, core.SideBlack))
		b.grid[x][7].place(newPiece(backRank[x], core.SideBlack))
	}
	return b
}

func (b *Board) ActiveSide() core.Side { return b.active }
func (b *Board) State() core.State     { return b.state }

// Occupant returns the piece on c, false for an empty or off-board square
func (b *Board) Occupant(c Coordinate) (PieceView, bool) {
	sq, ok := b.grid.At(c)
	if !ok || !sq.Occupied() {
		return PieceView{}, false
	}
	return view(sq), true
}

func view(sq *Square) PieceView {
	return PieceView{Kind: sq.piece.kind, Side: sq.piece.side, Square: sq.coord}
}

// LegalMoves returns the destinations of the piece on c for the active side.
// Empty and off-board squares yield nil.
func (b *Board) LegalMoves(c Coordinate) []Coordinate {
	sq, ok := b.grid.At(c)
	if !ok {
		return nil
	}
	return sq.LegalMoves(&b.grid, b.active)
}

// ApplyMove moves the piece on from to to. It is a no-op, reported through
// Outcome.Applied, when the game is over, from is empty or belongs to the
// inactive side, or to is not a legal destination. Capturing a king ends the
// game in favour of the mover.
func (b *Board) ApplyMove(from, to Coordinate) Outcome {
	if b.state.Terminal() {
		return Outcome{}
	}

	src, ok := b.grid.At(from)
	if !ok || !src.Occupied() || src.piece.side != b.active {
		return Outcome{}
	}
	if !slices.Contains(src.LegalMoves(&b.grid, b.active), to) {
		return Outcome{}
	}
	dst, _ := b.grid.At(to)

	out := Outcome{Applied: true, Result: core.ResultNone}
	if dst.Occupied() {
		captured := view(dst)
		out.Captured = &captured
	}

	mover := src.take()
	mover.moves++
	dst.place(mover)

	if out.Captured != nil && out.Captured.Kind == King {
		b.state = core.WinState(b.active)
		out.Result = core.WinResult(b.active)
	}
	b.active = core.OppositeSide(b.active)

	return out
}

// Pieces lists every occupant, ordered by file then rank
func (b *Board) Pieces() []PieceView {
	var pieces []PieceView
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			if sq := &b.grid[x][y]; sq.Occupied() {
				pieces = append(pieces, view(sq))
			}
		}
	}
	return pieces
}
