package board

import "gridchess/internal/core"

// Piece is owned by exactly one Square at a time. Its position is the
// coordinate of that square and is not stored on the piece.
type Piece struct {
	kind  Kind
	side  core.Side
	moves int
	alive bool
}

func newPiece(kind Kind, side core.Side) *Piece {
	return &Piece{kind: kind, side: side, alive: true}
}

func (p *Piece) Kind() Kind      { return p.kind }
func (p *Piece) Side() core.Side { return p.side }
func (p *Piece) Moves() int      { return p.moves }
func (p *Piece) Moved() bool     { return p.moves > 0 }
func (p *Piece) Alive() bool     { return p.alive }

func (p *Piece) pattern() []Coordinate {
	return patternFor(p.kind, p.Moved())
}

// Letter is upper case for White, lower case for Black
func (p *Piece) Letter() byte {
	l := p.kind.Letter()
	if p.side == core.SideBlack {
		l += 'a' - 'A'
	}
	return l
}

// PieceView is a read-only snapshot of an occupant for rendering
type PieceView struct {
	Kind   Kind       `json:"kind"`
	Side   core.Side  `json:"side"`
	Square Coordinate `json:"square"`
}

func (v PieceView) String() string {
	return v.Side.String() + " " + v.Kind.String() + " at " + v.Square.String()
}
