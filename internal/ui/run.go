package ui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// CheckTerminal fails with ErrNotTerminal unless stdin and stdout are both
// attached to a terminal
func CheckTerminal() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNotTerminal
	}
	return nil
}

// Run starts the bubbletea frontend and blocks until the user quits
func Run(c *Controls) error {
	p := tea.NewProgram(NewModel(c), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
