package board

import "gridchess/internal/core"

// Square is one grid cell. Its coordinate is fixed; only the occupant changes.
type Square struct {
	coord Coordinate
	piece *Piece
}

func (s *Square) Coordinate() Coordinate { return s.coord }
func (s *Square) Occupied() bool         { return s.piece != nil }

// Piece returns the occupant, or nil for an empty square
func (s *Square) Piece() *Piece { return s.piece }

// place puts p on the square. A previous occupant is marked dead and
// returned detached.
func (s *Square) place(p *Piece) *Piece {
	prev := s.piece
	if prev != nil {
		prev.alive = false
	}
	s.piece = p
	return prev
}

// take detaches and returns the occupant
func (s *Square) take() *Piece {
	p := s.piece
	s.piece = nil
	return p
}

// Grid is indexed [x][y]
type Grid [Size][Size]Square

// At returns the square at c, or false when c is off the board
func (g *Grid) At(c Coordinate) (*Square, bool) {
	if !c.InBounds() {
		return nil, false
	}
	return &g[c.X][c.Y], true
}

// LegalMoves derives the destinations of the occupant. "Opposing" is judged
// against active, not against the occupant's own side. An empty square has
// no moves and yields nil.
func (s *Square) LegalMoves(g *Grid, active core.Side) []Coordinate {
	if s.piece == nil {
		return nil
	}

	switch {
	case s.piece.kind.sliding():
		return s.slidingMoves(g, active)
	case s.piece.kind == Pawn:
		return s.pawnMoves(g, active)
	default:
		return s.steppingMoves(g, active)
	}
}

// slidingMoves walks each offset as an independent ray until it leaves the
// board or hits a piece. An opposing blocker is included, an own one is not.
func (s *Square) slidingMoves(g *Grid, active core.Side) []Coordinate {
	var moves []Coordinate
	for _, dir := range s.piece.pattern() {
		for n := 1; ; n++ {
			target, ok := g.At(s.coord.Add(dir.Scale(n)))
			if !ok {
				break
			}
			if !target.Occupied() {
				moves = append(moves, target.coord)
				continue
			}
			if target.piece.side != active {
				moves = append(moves, target.coord)
			}
			break
		}
	}
	return moves
}

func (s *Square) steppingMoves(g *Grid, active core.Side) []Coordinate {
	var moves []Coordinate
	for _, off := range s.piece.pattern() {
		target, ok := g.At(s.coord.Add(off))
		if !ok {
			continue
		}
		if !target.Occupied() || target.piece.side != active {
			moves = append(moves, target.coord)
		}
	}
	return moves
}

// pawnMoves treats forward offsets as moves blocked only by the square
// directly ahead (the two-step landing square is not inspected) and diagonal
// offsets as captures only.
func (s *Square) pawnMoves(g *Grid, active core.Side) []Coordinate {
	step := func(c, off Coordinate) Coordinate { return c.Add(off) }
	if s.piece.side == core.SideBlack {
		step = func(c, off Coordinate) Coordinate { return c.Sub(off) }
	}
	ahead := step(s.coord, forward)

	var moves []Coordinate
	for _, off := range s.piece.pattern() {
		dest := step(s.coord, off)
		target, ok := g.At(dest)
		if !ok {
			continue
		}

		if off.X == 0 {
			if blocker, ok := g.At(ahead); ok && !blocker.Occupied() {
				moves = append(moves, dest)
			}
			continue
		}

		if target.Occupied() && target.piece.side != active {
			moves = append(moves, dest)
		}
	}
	return moves
}
