// Package main runs a two-player grid chess game on one terminal.
package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"gridchess/internal/cli"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// lineEditor treats Ctrl-C as an empty line instead of ending the session
type lineEditor struct {
	*readline.Instance
}

func (l lineEditor) Readline() (string, error) {
	line, err := l.Instance.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", nil
	}
	return line, err
}

func main() {
	var (
		theme   = flag.String("theme", "brown", "Board color theme when output is a terminal (off|brown|green|gray)")
		history = flag.String("history", ".gridchess_history", "Command history file (empty disables history)")
		white   = flag.String("white", "White", "Name of the white player")
		black   = flag.String("black", "Black", "Name of the black player")
	)
	flag.Parse()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     *history,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Fatalf("Failed to start line editor: %v", err)
	}
	defer rl.Close()

	view := cli.New(lineEditor{rl}, rl.Stdout())
	colors := term.IsTerminal(int(os.Stdout.Fd()))
	view.EnableColor(colors)
	if colors {
		if err := view.SetTheme(cli.ColorTheme(*theme)); err != nil {
			log.Printf("theme not applied: %v", err)
		}
	}

	view.ShowWelcome()
	handler := cli.NewHandler(view, *white, *black)
	if err := handler.Run(); err != nil {
		log.Fatalf("Input error: %v", err)
	}
}
