package board

import (
	"errors"
	"fmt"
)

const Size = 8

// ErrCoordinateFormat is returned for algebraic square text that is not
// a file letter A-H followed by a rank digit 1-8.
var ErrCoordinateFormat = errors.New("invalid square")

// Coordinate is a grid position, X is the file and Y the rank, both 0-based.
// Arithmetic is unrestricted; check InBounds before indexing.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func Coord(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

func (c Coordinate) Add(d Coordinate) Coordinate {
	return Coordinate{X: c.X + d.X, Y: c.Y + d.Y}
}

func (c Coordinate) Sub(d Coordinate) Coordinate {
	return Coordinate{X: c.X - d.X, Y: c.Y - d.Y}
}

func (c Coordinate) Scale(n int) Coordinate {
	return Coordinate{X: c.X * n, Y: c.Y * n}
}

// InBounds reports whether c addresses a square of the 8x8 grid
func (c Coordinate) InBounds() bool {
	return c.X >= 0 && c.X < Size && c.Y >= 0 && c.Y < Size
}

// String renders in-bounds coordinates as "E2"
func (c Coordinate) String() string {
	if !c.InBounds() {
		return fmt.Sprintf("(%d,%d)", c.X, c.Y)
	}
	return fmt.Sprintf("%c%c", 'A'+c.X, '1'+c.Y)
}

// ParseCoordinate reads a two-character algebraic square, file case-insensitive
func ParseCoordinate(s string) (Coordinate, error) {
	if len(s) != 2 {
		return Coordinate{}, fmt.Errorf("%w: %q must be 2 characters", ErrCoordinateFormat, s)
	}

	file := s[0]
	if file >= 'a' && file <= 'h' {
		file -= 'a' - 'A'
	}
	if file < 'A' || file > 'H' {
		return Coordinate{}, fmt.Errorf("%w: file %q outside A-H", ErrCoordinateFormat, s[0])
	}

	rank := s[1]
	if rank < '1' || rank > '8' {
		return Coordinate{}, fmt.Errorf("%w: rank %q outside 1-8", ErrCoordinateFormat, s[1])
	}

	return Coordinate{X: int(file - 'A'), Y: int(rank - '1')}, nil
}

// MustParse is ParseCoordinate for literals known to be valid
func MustParse(s string) Coordinate {
	c, err := ParseCoordinate(s)
	if err != nil {
		panic(err)
	}
	return c
}
