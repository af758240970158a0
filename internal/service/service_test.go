package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gridchess/internal/board"
	"gridchess/internal/core"
	"gridchess/internal/game"
	"gridchess/internal/storage"
)

var testSecret = []byte("test-secret-minimum-32-characters-long")

func sq(s string) board.Coordinate { return board.MustParse(s) }

func TestCreateAndDeleteGame(t *testing.T) {
	svc := New(nil, testSecret)

	g, seats, err := svc.CreateGame("alice", "bob")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if seats.White == "" || seats.Black == "" || seats.White == seats.Black {
		t.Fatalf("unexpected seats: %+v", seats)
	}
	if g.Player(core.SideWhite) != "alice" || g.Player(core.SideBlack) != "bob" {
		t.Errorf("players not assigned")
	}

	got, err := svc.GetGame(g.ID())
	if err != nil || got != g {
		t.Fatalf("GetGame: %v", err)
	}

	if err := svc.DeleteGame(g.ID()); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if _, err := svc.GetGame(g.ID()); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound, got %v", err)
	}
	if err := svc.DeleteGame(g.ID()); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound on second delete, got %v", err)
	}
}

func TestAuthorizeSeat(t *testing.T) {
	svc := New(nil, testSecret)
	g1, seats1, _ := svc.CreateGame("a", "b")
	g2, _, _ := svc.CreateGame("c", "d")

	side, err := svc.AuthorizeSeat(g1.ID(), seats1.Black)
	if err != nil || side != core.SideBlack {
		t.Errorf("expected black seat, got %v %v", side, err)
	}

	if _, err := svc.AuthorizeSeat(g2.ID(), seats1.White); !errors.Is(err, ErrInvalidSeat) {
		t.Errorf("token for another game accepted: %v", err)
	}
	if _, err := svc.AuthorizeSeat(g1.ID(), "garbage"); !errors.Is(err, ErrInvalidSeat) {
		t.Errorf("garbage token accepted: %v", err)
	}

	other := New(nil, []byte("another-secret-minimum-32-characters"))
	if _, err := other.AuthorizeSeat(g1.ID(), seats1.White); !errors.Is(err, ErrInvalidSeat) {
		t.Errorf("token signed with another secret accepted: %v", err)
	}
}

func TestMoveEnforcesTurn(t *testing.T) {
	svc := New(nil, testSecret)
	g, _, _ := svc.CreateGame("a", "b")

	if _, err := svc.Move(g.ID(), core.SideBlack, sq("E7"), sq("E5")); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}

	out, err := svc.Move(g.ID(), core.SideWhite, sq("E2"), sq("E4"))
	if err != nil || !out.Applied {
		t.Fatalf("E2E4: %+v %v", out, err)
	}

	out, err = svc.Move(g.ID(), core.SideBlack, sq("E7"), sq("E3"))
	if err != nil || out.Applied {
		t.Fatalf("illegal move should be rejected without error: %+v %v", out, err)
	}
	if g.Turn() != core.SideBlack {
		t.Error("rejected move changed the turn")
	}

	if _, err := svc.Move("missing", core.SideWhite, sq("E2"), sq("E4")); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound, got %v", err)
	}
}

func TestMoveWithOtherSeatAfterTurnPasses(t *testing.T) {
	svc := New(nil, testSecret)
	g, _, _ := svc.CreateGame("a", "b")

	if _, err := svc.Move(g.ID(), core.SideWhite, sq("E2"), sq("E4")); err != nil {
		t.Fatal(err)
	}
	// white's seat must not move black's pawn once black is active
	out, err := svc.Move(g.ID(), core.SideWhite, sq("E7"), sq("E5"))
	if !errors.Is(err, ErrNotYourTurn) || out.Applied {
		t.Fatalf("expected ErrNotYourTurn, got %+v %v", out, err)
	}
	if g.Plies() != 1 {
		t.Errorf("plies = %d", g.Plies())
	}
}

func TestDrawNeedsBothSeats(t *testing.T) {
	svc := New(nil, testSecret)
	g, _, _ := svc.CreateGame("a", "b")

	if agreed, err := svc.Draw(g.ID(), core.SideBlack); err != nil || agreed {
		t.Fatalf("offer: %v %v", agreed, err)
	}
	if g.State() != core.StateOngoing {
		t.Fatalf("one seat ended the game: %v", g.State())
	}
	if agreed, _ := svc.Draw(g.ID(), core.SideBlack); agreed {
		t.Fatal("same seat accepted its own offer")
	}
	if agreed, err := svc.Draw(g.ID(), core.SideWhite); err != nil || !agreed {
		t.Fatalf("acceptance: %v %v", agreed, err)
	}
	if g.State() != core.StateDraw {
		t.Errorf("state = %v", g.State())
	}
	if _, err := svc.Draw("missing", core.SideWhite); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound, got %v", err)
	}
}

func TestResignRecordsGame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")
	store, err := storage.NewStore(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.InitDB(); err != nil {
		t.Fatal(err)
	}

	svc := New(store, testSecret)
	g, _, _ := svc.CreateGame("alice", "bob")
	if _, err := svc.Move(g.ID(), core.SideWhite, sq("D2"), sq("D4")); err != nil {
		t.Fatal(err)
	}
	if err := svc.Resign(g.ID(), core.SideBlack); err != nil {
		t.Fatalf("Resign: %v", err)
	}
	if err := svc.Resign(g.ID(), core.SideWhite); !errors.Is(err, game.ErrGameOver) {
		t.Errorf("expected ErrGameOver on second resign, got %v", err)
	}
	if _, err := svc.Move(g.ID(), core.SideBlack, sq("D7"), sq("D5")); !errors.Is(err, game.ErrGameOver) {
		t.Errorf("expected ErrGameOver after resign, got %v", err)
	}

	if err := svc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	store, err = storage.NewStore(path, false)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	games, err := store.QueryGames(g.ID(), "")
	if err != nil || len(games) != 1 {
		t.Fatalf("QueryGames: %v %d", err, len(games))
	}
	rec := games[0]
	if rec.Result != int(core.ResultSignaled) || rec.Winner != "w" || rec.Plies != 1 {
		t.Errorf("unexpected record: %+v", rec)
	}

	alice, err := store.GetPlayer("alice")
	if err != nil || alice.Wins != 1 {
		t.Errorf("alice stats: %+v %v", alice, err)
	}
	bob, err := store.GetPlayer("bob")
	if err != nil || bob.Losses != 1 {
		t.Errorf("bob stats: %+v %v", bob, err)
	}
}

func TestPlayerStatsWithoutStorage(t *testing.T) {
	svc := New(nil, testSecret)
	if _, err := svc.PlayerStats("alice"); !errors.Is(err, ErrStorageDisabled) {
		t.Errorf("expected ErrStorageDisabled, got %v", err)
	}
	if svc.GetStorageHealth() != "disabled" {
		t.Errorf("expected disabled storage health")
	}
}

func TestWaitReleasedByMove(t *testing.T) {
	svc := New(nil, testSecret)
	g, _, _ := svc.CreateGame("a", "b")

	notify := svc.RegisterWait(context.Background(), g.ID(), 0)

	select {
	case <-notify:
		t.Fatal("released before any move")
	case <-time.After(20 * time.Millisecond):
	}

	if _, err := svc.Move(g.ID(), core.SideWhite, sq("E2"), sq("E4")); err != nil {
		t.Fatal(err)
	}

	select {
	case <-notify:
	case <-time.After(time.Second):
		t.Fatal("waiter not released by move")
	}
}

func TestWaitReleasedByDrawAndDelete(t *testing.T) {
	svc := New(nil, testSecret)
	g, _, _ := svc.CreateGame("a", "b")

	notify := svc.RegisterWait(context.Background(), g.ID(), 0)
	agreed, err := svc.Draw(g.ID(), core.SideWhite)
	if err != nil || agreed {
		t.Fatalf("offer: %v %v", agreed, err)
	}
	select {
	case <-notify:
	case <-time.After(time.Second):
		t.Fatal("waiter not released by draw offer")
	}

	notify = svc.RegisterWait(context.Background(), g.ID(), 0)
	if agreed, err := svc.Draw(g.ID(), core.SideBlack); err != nil || !agreed {
		t.Fatalf("acceptance: %v %v", agreed, err)
	}
	select {
	case <-notify:
	case <-time.After(time.Second):
		t.Fatal("waiter not released by draw")
	}

	g2, _, _ := svc.CreateGame("c", "d")
	notify = svc.RegisterWait(context.Background(), g2.ID(), 0)
	if err := svc.DeleteGame(g2.ID()); err != nil {
		t.Fatal(err)
	}
	select {
	case <-notify:
	case <-time.After(time.Second):
		t.Fatal("waiter not released by delete")
	}
}

func TestWaitRegistryTimeoutAndCancel(t *testing.T) {
	r := NewWaitRegistry()
	r.timeout = 10 * time.Millisecond

	select {
	case <-r.RegisterWait(context.Background(), "g", 0):
	case <-time.After(time.Second):
		t.Fatal("waiter not released by timeout")
	}

	r.timeout = time.Minute
	ctx, cancel := context.WithCancel(context.Background())
	notify := r.RegisterWait(ctx, "g", 0)
	cancel()
	select {
	case <-notify:
	case <-time.After(time.Second):
		t.Fatal("waiter not released by cancel")
	}

	// same ply count does not release
	notify = r.RegisterWait(context.Background(), "g", 3)
	r.NotifyGame("g", 3)
	select {
	case <-notify:
		t.Fatal("released on unchanged ply count")
	case <-time.After(20 * time.Millisecond):
	}

	if err := r.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	select {
	case <-notify:
	default:
		t.Fatal("waiter not released by shutdown")
	}
	if r.Waiting("g") != 0 {
		t.Errorf("waiters left after shutdown: %d", r.Waiting("g"))
	}
}
