package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gridchess/internal/board"
	"gridchess/internal/core"
	"gridchess/internal/processor"
	"gridchess/internal/service"
	"gridchess/internal/storage"

	"github.com/gofiber/fiber/v2"
)

var testSecret = []byte("test-secret-minimum-32-characters-long")

func newTestApp(t *testing.T, store *storage.Store) (*fiber.App, *service.Service) {
	t.Helper()
	svc := service.New(store, testSecret)
	t.Cleanup(func() { svc.Shutdown(time.Second) })
	return NewFiberApp(processor.New(svc), svc, true), svc
}

func do(t *testing.T, app *fiber.App, method, path string, body any, token string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, data
}

func createGame(t *testing.T, app *fiber.App) core.CreateGameResponse {
	t.Helper()
	status, body := do(t, app, "POST", "/api/v1/games", core.CreateGameRequest{White: "alice", Black: "bob"}, "")
	if status != fiber.StatusCreated {
		t.Fatalf("create: %d %s", status, body)
	}
	var created core.CreateGameResponse
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatal(err)
	}
	return created
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e core.ErrorResponse
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("not an error response: %s", body)
	}
	return e.Code
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t, nil)
	status, body := do(t, app, "GET", "/health", nil, "")
	if status != fiber.StatusOK {
		t.Fatalf("health: %d", status)
	}
	var h map[string]any
	json.Unmarshal(body, &h)
	if h["status"] != "healthy" || h["storage"] != "disabled" {
		t.Errorf("unexpected health: %v", h)
	}
}

func TestCreateGameValidation(t *testing.T) {
	app, _ := newTestApp(t, nil)

	status, body := do(t, app, "POST", "/api/v1/games", map[string]string{"white": "alice"}, "")
	if status != fiber.StatusBadRequest || errorCode(t, body) != core.ErrInvalidRequest {
		t.Errorf("missing black: %d %s", status, body)
	}

	req := httptest.NewRequest("POST", "/api/v1/games", strings.NewReader("white=a"))
	req.Header.Set("Content-Type", "text/plain")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnsupportedMediaType {
		t.Errorf("expected 415, got %d", resp.StatusCode)
	}

	created := createGame(t, app)
	if created.Turn != "w" || created.State != "ongoing" || created.White != "alice" {
		t.Errorf("unexpected game: %+v", created.GameResponse)
	}
}

func TestMoveFlow(t *testing.T) {
	app, _ := newTestApp(t, nil)
	g := createGame(t, app)
	other := createGame(t, app)
	movePath := "/api/v1/games/" + g.GameID + "/moves"

	tests := []struct {
		name   string
		body   core.MoveRequest
		token  string
		status int
		code   string
	}{
		{"no token", core.MoveRequest{From: "E2", To: "E4"}, "", fiber.StatusUnauthorized, core.ErrUnauthorized},
		{"other game token", core.MoveRequest{From: "E2", To: "E4"}, other.WhiteToken, fiber.StatusUnauthorized, core.ErrUnauthorized},
		{"wrong seat", core.MoveRequest{From: "E7", To: "E5"}, g.BlackToken, fiber.StatusForbidden, core.ErrNotYourTurn},
		{"off board", core.MoveRequest{From: "E2", To: "E9"}, g.WhiteToken, fiber.StatusBadRequest, core.ErrInvalidSquare},
		{"illegal", core.MoveRequest{From: "F1", To: "H3"}, g.WhiteToken, fiber.StatusBadRequest, core.ErrInvalidMove},
		{"legal", core.MoveRequest{From: "E2", To: "E4"}, g.WhiteToken, fiber.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, "POST", movePath, tt.body, tt.token)
			if status != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, status, body)
			}
			if tt.code != "" && errorCode(t, body) != tt.code {
				t.Errorf("expected %s, got %s", tt.code, body)
			}
		})
	}

	status, body := do(t, app, "GET", "/api/v1/games/"+g.GameID+"/board", nil, "")
	if status != fiber.StatusOK {
		t.Fatalf("board: %d", status)
	}
	var b core.BoardResponse
	json.Unmarshal(body, &b)
	if b.Turn != "b" || b.Layout != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR" {
		t.Errorf("unexpected board: %+v", b)
	}

	status, body = do(t, app, "GET", "/api/v1/games/"+g.GameID+"/moves/f1", nil, "")
	if status != fiber.StatusOK {
		t.Fatalf("legal moves: %d", status)
	}
	var lm core.LegalMovesResponse
	json.Unmarshal(body, &lm)
	want := []string{"E2", "D3", "C4", "B5", "A6"}
	if strings.Join(lm.Moves, ",") != strings.Join(want, ",") {
		t.Errorf("bishop moves: got %v, want %v", lm.Moves, want)
	}
}

func TestResignAndDelete(t *testing.T) {
	app, _ := newTestApp(t, nil)
	g := createGame(t, app)
	base := "/api/v1/games/" + g.GameID

	status, body := do(t, app, "POST", base+"/resign", nil, g.BlackToken)
	if status != fiber.StatusOK {
		t.Fatalf("resign: %d %s", status, body)
	}
	var resp core.GameResponse
	json.Unmarshal(body, &resp)
	if resp.State != "white wins" || resp.Result != core.ResultSignaled {
		t.Errorf("unexpected state after resign: %+v", resp)
	}

	status, body = do(t, app, "POST", base+"/moves", core.MoveRequest{From: "E2", To: "E4"}, g.WhiteToken)
	if status != fiber.StatusConflict || errorCode(t, body) != core.ErrGameOver {
		t.Errorf("move after resign: %d %s", status, body)
	}

	if status, _ := do(t, app, "DELETE", base, nil, g.WhiteToken); status != fiber.StatusNoContent {
		t.Errorf("delete: %d", status)
	}
	if status, _ := do(t, app, "GET", base, nil, ""); status != fiber.StatusNotFound {
		t.Errorf("get after delete: %d", status)
	}
	if status, _ := do(t, app, "GET", "/api/v1/games/not-a-uuid", nil, ""); status != fiber.StatusBadRequest {
		t.Errorf("bad id: %d", status)
	}
}

func TestDeleteNeedsSeat(t *testing.T) {
	app, _ := newTestApp(t, nil)
	g := createGame(t, app)
	other := createGame(t, app)
	base := "/api/v1/games/" + g.GameID

	status, body := do(t, app, "DELETE", base, nil, "")
	if status != fiber.StatusUnauthorized || errorCode(t, body) != core.ErrUnauthorized {
		t.Errorf("anonymous delete: %d %s", status, body)
	}
	if status, _ := do(t, app, "DELETE", base, nil, other.BlackToken); status != fiber.StatusUnauthorized {
		t.Errorf("delete with another game's seat: %d", status)
	}
	if status, _ := do(t, app, "GET", base, nil, ""); status != fiber.StatusOK {
		t.Fatalf("game gone after rejected deletes: %d", status)
	}

	if status, _ := do(t, app, "DELETE", base, nil, g.BlackToken); status != fiber.StatusNoContent {
		t.Errorf("delete by seat: %d", status)
	}
}

func TestDrawNeedsBothSeats(t *testing.T) {
	app, _ := newTestApp(t, nil)
	g := createGame(t, app)
	drawPath := "/api/v1/games/" + g.GameID + "/draw"

	status, body := do(t, app, "POST", drawPath, nil, g.BlackToken)
	if status != fiber.StatusOK {
		t.Fatalf("offer: %d %s", status, body)
	}
	var resp core.GameResponse
	json.Unmarshal(body, &resp)
	if resp.State != "ongoing" || resp.Result != core.ResultNone || resp.DrawOffer != "b" {
		t.Fatalf("single seat changed the outcome: %+v", resp)
	}

	if status, _ := do(t, app, "POST", drawPath, nil, ""); status != fiber.StatusUnauthorized {
		t.Errorf("anonymous draw: %d", status)
	}

	status, body = do(t, app, "POST", drawPath, nil, g.WhiteToken)
	if status != fiber.StatusOK {
		t.Fatalf("accept: %d %s", status, body)
	}
	json.Unmarshal(body, &resp)
	if resp.State != "draw" || resp.Result != core.ResultSignaled {
		t.Errorf("unexpected state after acceptance: %+v", resp)
	}
}

func TestLongPollReleasedByMove(t *testing.T) {
	app, svc := newTestApp(t, nil)
	g := createGame(t, app)

	go func() {
		time.Sleep(50 * time.Millisecond)
		game, err := svc.GetGame(g.GameID)
		if err != nil {
			return
		}
		svc.Move(game.ID(), core.SideWhite, board.MustParse("E2"), board.MustParse("E4"))
	}()

	status, body := do(t, app, "GET", "/api/v1/games/"+g.GameID+"?wait=true&plies=0", nil, "")
	if status != fiber.StatusOK {
		t.Fatalf("long poll: %d %s", status, body)
	}
	var resp core.GameResponse
	json.Unmarshal(body, &resp)
	if resp.Plies != 1 || resp.Turn != "b" {
		t.Errorf("expected state after the move, got %+v", resp)
	}

	// stale ply count returns at once
	status, _ = do(t, app, "GET", "/api/v1/games/"+g.GameID+"?wait=true&plies=0", nil, "")
	if status != fiber.StatusOK {
		t.Errorf("stale poll: %d", status)
	}
}

func TestPlayerStats(t *testing.T) {
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "chess.db"), false)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.InitDB(); err != nil {
		t.Fatal(err)
	}

	app, svc := newTestApp(t, store)
	g := createGame(t, app)

	if status, _ := do(t, app, "GET", "/api/v1/players/alice", nil, ""); status != fiber.StatusNotFound {
		t.Errorf("expected 404 before any game finished, got %d", status)
	}

	for _, token := range []string{g.WhiteToken, g.BlackToken} {
		if status, body := do(t, app, "POST", "/api/v1/games/"+g.GameID+"/draw", nil, token); status != fiber.StatusOK {
			t.Fatalf("draw: %d %s", status, body)
		}
	}

	// the record is written asynchronously
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := svc.PlayerStats("alice"); err == nil || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	status, body := do(t, app, "GET", "/api/v1/players/alice", nil, "")
	if status != fiber.StatusOK {
		t.Fatalf("player: %d %s", status, body)
	}
	var p core.PlayerResponse
	json.Unmarshal(body, &p)
	if p.GamesPlayed != 1 || p.Draws != 1 || p.Wins != 0 {
		t.Errorf("unexpected stats: %+v", p)
	}
}
