package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gridchess/internal/board"
	"gridchess/internal/core"
)

var (
	ErrGameOver    = errors.New("game is over")
	ErrNotYourTurn = errors.New("not your turn")
)

// MoveRecord describes the last accepted move
type MoveRecord struct {
	From     board.Coordinate
	To       board.Coordinate
	Side     core.Side
	Captured *board.PieceView
}

// Snapshot is a consistent copy of a game's public state
type Snapshot struct {
	ID        string
	White     string
	Black     string
	Turn      core.Side
	State     core.State
	Result    core.Result
	Plies     int
	Layout    string
	ASCII     string
	LastMove  *MoveRecord
	DrawOffer *core.Side
	StartedAt time.Time
	EndedAt   time.Time
	Elapsed   time.Duration
}

// Game is one play session around a Board. Methods are safe for concurrent use.
type Game struct {
	mu        sync.RWMutex
	id        string
	board     *board.Board
	players   map[core.Side]string
	state     core.State
	result    core.Result
	plies     int
	lastMove  *MoveRecord
	drawOffer *core.Side // side with a standing draw offer
	startedAt time.Time
	endedAt   time.Time
	clock     func() time.Time
}

// Option configures a Game at construction
type Option func(*Game)

// WithClock replaces time.Now. The start time is read from it too.
func WithClock(now func() time.Time) Option {
	return func(g *Game) {
		if now != nil {
			g.clock = now
		}
	}
}

func New(id, white, black string, opts ...Option) *Game {
	return newWithBoard(id, white, black, board.New(), opts)
}

// NewFromLayout starts a session from placement text
func NewFromLayout(id, white, black, layout string, active core.Side, opts ...Option) (*Game, error) {
	b, err := board.ParseLayout(layout, active)
	if err != nil {
		return nil, err
	}
	return newWithBoard(id, white, black, b, opts), nil
}

func newWithBoard(id, white, black string, b *board.Board, opts []Option) *Game {
	g := &Game{
		id:    id,
		board: b,
		players: map[core.Side]string{
			core.SideWhite: white,
			core.SideBlack: black,
		},
		state:  core.StateOngoing,
		result: core.ResultNone,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.startedAt = g.clock()
	return g
}

func (g *Game) ID() string { return g.id }

func (g *Game) Player(side core.Side) string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.players[side]
}

func (g *Game) Turn() core.Side {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.board.ActiveSide()
}

func (g *Game) State() core.State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *Game) Result() core.Result {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.result
}

func (g *Game) Plies() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.plies
}

func (g *Game) LegalMoves(c board.Coordinate) []board.Coordinate {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.board.LegalMoves(c)
}

func (g *Game) Occupant(c board.Coordinate) (board.PieceView, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.board.Occupant(c)
}

func (g *Game) ASCII() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.board.ASCII()
}

// LastMove returns the most recent applied move, nil before the first
func (g *Game) LastMove() *MoveRecord {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.lastMove == nil {
		return nil
	}
	m := *g.lastMove
	return &m
}

// Move applies a move for the active side. A rejected move returns an
// Outcome with Applied false and no error; only a finished game is an error.
func (g *Game) Move(from, to board.Coordinate) (board.Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Terminal() {
		return board.Outcome{}, ErrGameOver
	}
	return g.move(from, to), nil
}

// MoveAs is Move for a caller holding only side's seat. The turn check and
// the move happen under one lock.
func (g *Game) MoveAs(side core.Side, from, to board.Coordinate) (board.Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Terminal() {
		return board.Outcome{}, ErrGameOver
	}
	if active := g.board.ActiveSide(); active != side {
		return board.Outcome{}, fmt.Errorf("%w: %s to move", ErrNotYourTurn, active)
	}
	return g.move(from, to), nil
}

func (g *Game) move(from, to board.Coordinate) board.Outcome {
	mover := g.board.ActiveSide()
	out := g.board.ApplyMove(from, to)
	if !out.Applied {
		return out
	}

	g.plies++
	g.lastMove = &MoveRecord{From: from, To: to, Side: mover, Captured: out.Captured}
	g.drawOffer = nil

	if g.board.State().Terminal() {
		g.finish(g.board.State(), out.Result)
	}
	return out
}

// Resign ends the game in favour of the opponent of side
func (g *Game) Resign(side core.Side) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Terminal() {
		return ErrGameOver
	}
	g.finish(core.WinState(core.OppositeSide(side)), core.ResultSignaled)
	return nil
}

// OfferDraw records side's draw offer. When the opponent already has an
// offer standing the game ends drawn and agreed is true. Offers lapse on
// the next applied move.
func (g *Game) OfferDraw(side core.Side) (agreed bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Terminal() {
		return false, ErrGameOver
	}
	if g.drawOffer != nil && *g.drawOffer != side {
		g.finish(core.StateDraw, core.ResultSignaled)
		return true, nil
	}
	g.drawOffer = &side
	return false, nil
}

// DrawOffer returns the side with a standing offer
func (g *Game) DrawOffer() (core.Side, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.drawOffer == nil {
		return 0, false
	}
	return *g.drawOffer, true
}

// Draw ends the game immediately, for drivers where both players are
// present to agree
func (g *Game) Draw() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Terminal() {
		return ErrGameOver
	}
	g.finish(core.StateDraw, core.ResultSignaled)
	return nil
}

func (g *Game) finish(state core.State, result core.Result) {
	g.drawOffer = nil
	g.state = state
	g.result = result
	g.endedAt = g.clock()
}

// Elapsed is the session duration, frozen once the game ends
func (g *Game) Elapsed() time.Duration {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.elapsed()
}

func (g *Game) elapsed() time.Duration {
	if !g.endedAt.IsZero() {
		return g.endedAt.Sub(g.startedAt)
	}
	return g.clock().Sub(g.startedAt)
}

// Winner returns the winning side of a finished game, false for draws
// and ongoing games
func (g *Game) Winner() (core.Side, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	switch g.state {
	case core.StateWhiteWins:
		return core.SideWhite, true
	case core.StateBlackWins:
		return core.SideBlack, true
	}
	return 0, false
}

func (g *Game) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var last *MoveRecord
	if g.lastMove != nil {
		m := *g.lastMove
		last = &m
	}
	var offer *core.Side
	if g.drawOffer != nil {
		side := *g.drawOffer
		offer = &side
	}

	return Snapshot{
		ID:        g.id,
		White:     g.players[core.SideWhite],
		Black:     g.players[core.SideBlack],
		Turn:      g.board.ActiveSide(),
		State:     g.state,
		Result:    g.result,
		Plies:     g.plies,
		Layout:    g.board.Layout(),
		ASCII:     g.board.ASCII(),
		LastMove:  last,
		DrawOffer: offer,
		StartedAt: g.startedAt,
		EndedAt:   g.endedAt,
		Elapsed:   g.elapsed(),
	}
}
