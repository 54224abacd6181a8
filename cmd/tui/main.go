package main

import (
	"fmt"
	"os"

	"codeberg.org/architai/server/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
)

func main() {
	env := os.Getenv("ARCHITAI_ENV")

	if env == "" {
		env = "development"
	}

	app := tui.NewApp(env)

	if term.IsTerminal(os.Stdout.Fd()) {
		if width, height, err := term.GetSize(os.Stdout.Fd()); err == nil {
			app.SetSize(width, height)
		}
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		fmt.Printf("error running architai: %v\n", err)
		os.Exit(1)
	}
}
