package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gridchess/internal/storage"

	"golang.org/x/term"
)

// Run is the entry point for the db administration subcommands
func Run(args []string) error {
	return run(args, os.Stdin, os.Stdout)
}

func run(args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, query, player")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:], out)
	case "delete":
		return runDelete(args[1:], in, out)
	case "query":
		return runQuery(args[1:], out)
	case "player":
		if len(args) < 2 {
			return fmt.Errorf("player subcommand required: list, show, delete")
		}
		return runPlayer(args[1], args[2:], out)
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// openStore parses the shared -path flag and opens the database
func openStore(fs *flag.FlagSet, args []string) (*storage.Store, error) {
	path := fs.String("path", "", "Database file path (required)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *path == "" {
		return nil, fmt.Errorf("database path required")
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func runInit(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Fprintf(out, "Database initialized at: %s\n", fs.Lookup("path").Value)
	return nil
}

func runDelete(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	force := fs.Bool("force", false, "Skip the confirmation prompt")
	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	path := fs.Lookup("path").Value.String()

	// ask only when a person is at the keyboard
	if !*force && isTerminal(in) {
		fmt.Fprintf(out, "Delete %s and all recorded games? [y/N]: ", path)
		answer, _ := bufio.NewReader(in).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			store.Close()
			fmt.Fprintln(out, "Aborted")
			return nil
		}
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Fprintf(out, "Database deleted: %s\n", path)
	return nil
}

func runQuery(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	gameID := fs.String("gameId", "", "Game ID to filter (optional, * for all)")
	player := fs.String("player", "", "Player name to filter (optional, * for all)")
	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	games, err := store.QueryGames(*gameID, *player)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(games) == 0 {
		fmt.Fprintln(out, "No games found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tWhite\tBlack\tOutcome\tPlies\tEnded")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, g := range games {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			shortID(g.GameID),
			g.WhiteName,
			g.BlackName,
			g.State,
			g.Plies,
			g.EndTimeUTC.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nFound %d game(s)\n", len(games))
	return nil
}

func runPlayer(subcommand string, args []string, out io.Writer) error {
	switch subcommand {
	case "list":
		return runPlayerList(args, out)
	case "show":
		return runPlayerShow(args, out)
	case "delete":
		return runPlayerDelete(args, out)
	default:
		return fmt.Errorf("unknown player subcommand: %s", subcommand)
	}
}

func runPlayerList(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("player list", flag.ContinueOnError)
	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	players, err := store.ListPlayers()
	if err != nil {
		return fmt.Errorf("failed to list players: %w", err)
	}

	if len(players) == 0 {
		fmt.Fprintln(out, "No players found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Name\tPlayed\tWins\tLosses\tDraws")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, p := range players {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", p.Name, p.GamesPlayed, p.Wins, p.Losses, p.Draws)
	}
	w.Flush()

	fmt.Fprintf(out, "\nTotal players: %d\n", len(players))
	return nil
}

func runPlayerShow(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("player show", flag.ContinueOnError)
	name := fs.String("name", "", "Player name (required)")
	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if *name == "" {
		return fmt.Errorf("-name required")
	}

	p, err := store.GetPlayer(*name)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %d played, %d won, %d lost, %d drawn\n",
		p.Name, p.GamesPlayed, p.Wins, p.Losses, p.Draws)
	return nil
}

func runPlayerDelete(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("player delete", flag.ContinueOnError)
	name := fs.String("name", "", "Player name (required)")
	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if *name == "" {
		return fmt.Errorf("-name required")
	}

	if err := store.DeletePlayer(*name); err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}

	fmt.Fprintf(out, "Player deleted: %s\n", *name)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
