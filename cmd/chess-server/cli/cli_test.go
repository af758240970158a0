package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gridchess/internal/storage"
)

func seed(t *testing.T, path string) {
	t.Helper()
	store, err := storage.NewStore(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.InitDB(); err != nil {
		t.Fatal(err)
	}
	now := time.Now().UTC()
	store.RecordGame(storage.GameRecord{
		GameID: "0b7e6a52-aaaa-bbbb-cccc-000000000001", WhiteName: "alice", BlackName: "bob",
		Result: 1, State: "white wins", Winner: "w", Plies: 9,
		FinalLayout: "8/8/8/8/8/8/8/8", StartTimeUTC: now.Add(-time.Minute), EndTimeUTC: now,
	})
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestRunSubcommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")
	var out bytes.Buffer

	if err := run([]string{"init", "-path", path}, nil, &out); err != nil {
		t.Fatalf("init: %v", err)
	}
	seed(t, path)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"query", "-path", path}, "Found 1 game(s)"},
		{[]string{"query", "-path", path, "-player", "carol"}, "No games found"},
		{[]string{"player", "list", "-path", path}, "Total players: 2"},
		{[]string{"player", "show", "-path", path, "-name", "bob"}, "bob: 1 played, 0 won, 1 lost, 0 drawn"},
		{[]string{"player", "delete", "-path", path, "-name", "bob"}, "Player deleted: bob"},
		{[]string{"player", "list", "-path", path}, "Total players: 1"},
	}

	for _, tt := range tests {
		out.Reset()
		if err := run(tt.args, nil, &out); err != nil {
			t.Fatalf("%v: %v", tt.args, err)
		}
		if !strings.Contains(out.String(), tt.want) {
			t.Errorf("%v: output %q missing %q", tt.args, out.String(), tt.want)
		}
	}

	// non-terminal input skips the confirmation
	out.Reset()
	if err := run([]string{"delete", "-path", path}, strings.NewReader(""), &out); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("database still present: %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer
	tests := [][]string{
		{},
		{"bogus"},
		{"init"},
		{"player"},
		{"player", "rename", "-path", "x.db"},
	}
	for _, args := range tests {
		if err := run(args, nil, &out); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}
