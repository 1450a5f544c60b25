// Package tcellui is a plain tcell frontend for terminals where the
// bubbletea one is too heavy. Key handling is shared through ui.Controls.
package tcellui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/SirSobhan0/polysynth/internal/ui"
	"github.com/SirSobhan0/polysynth/internal/voice"
)

const frameInterval = 30 * time.Millisecond

var (
	styleTitle  = tcell.StyleDefault.Foreground(tcell.NewHexColor(0x00E6C3)).Bold(true)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleKey    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBlack  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.NewHexColor(0x1A1A1A))
	styleActive = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.NewHexColor(0x00E6C3)).Bold(true)
	styleHelp   = tcell.StyleDefault.Foreground(tcell.ColorDimGray)
)

// App draws the keyboard and status line on a tcell screen
type App struct {
	screen   tcell.Screen
	controls *ui.Controls
	active   []bool
	status   voice.Status
}

// New wraps an initialized screen
func New(screen tcell.Screen, c *ui.Controls) *App {
	return &App{
		screen:   screen,
		controls: c,
		active:   make([]bool, len(c.Notes)),
	}
}

// Run opens the terminal screen and blocks until the user quits
func Run(c *ui.Controls) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("tcell: new screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("tcell: init screen: %w", err)
	}
	defer screen.Fini()

	New(screen, c).Loop()
	return nil
}

// Loop polls screen events on a goroutine and redraws on a ticker
func (a *App) Loop() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	go a.screen.ChannelEvents(events, quit)
	defer close(quit)

	a.Draw()
	for {
		select {
		case ev, ok := <-events:
			if !ok || !a.HandleEvent(ev) {
				return
			}
		case <-ticker.C:
			a.Draw()
		}
	}
}

// HandleEvent applies one event and reports whether to keep running
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch a.controls.Key(keyName(ev)) {
		case ui.ActionQuit:
			return false
		case ui.ActionInstrument, ui.ActionVolume, ui.ActionSilence:
			a.Draw()
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

// keyName converts a tcell key to the names Controls understands
func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return "ctrl+c"
	case tcell.KeyEscape:
		return "esc"
	case tcell.KeyTab:
		return "tab"
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return "space"
		}
		return string(ev.Rune())
	}
	return ""
}

func (a *App) refresh() {
	a.controls.Synth.ActiveInto(a.active)
	a.status = a.controls.Synth.Snapshot()
}

// Draw renders one frame from a fresh registry snapshot
func (a *App) Draw() {
	a.refresh()
	a.screen.Clear()

	header := fmt.Sprintf("POLYSYNTH  Preset: %s  Vol: %3.0f%%",
		a.controls.Synth.Instrument().Name, a.controls.Mixer.Volume()*100)
	a.text(1, 1, header, styleTitle)

	// Black keys sit one row above the white ones, offset by half a key
	x := 1
	for id, n := range a.controls.Notes {
		style := styleKey
		if n.Black {
			style = styleBlack
		}
		if a.active[id] {
			style = styleActive
		}
		label := fmt.Sprintf(" %-3s%c ", n.Label, upper(n.Key))
		y := 5
		if n.Black {
			a.text(x-len(label)/2, 3, label, style)
			continue
		}
		a.text(x, y, label, style)
		x += len(label)
	}

	a.text(1, 7, ui.StatusLine(a.status), styleText)
	a.text(1, 9, "TAB: Instrument  SHIFT+KEY: Fast End  ↑/↓: Volume  SPACE: Silence  ESC: Quit", styleHelp)
	a.screen.Show()
}

func (a *App) text(x, y int, s string, style tcell.Style) {
	if x < 0 {
		x = 0
	}
	for _, r := range s {
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func upper(r rune) rune {
	return []rune(strings.ToUpper(string(r)))[0]
}
