package tcellui

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/SirSobhan0/polysynth/internal/input"
	"github.com/SirSobhan0/polysynth/internal/keyboard"
	"github.com/SirSobhan0/polysynth/internal/render"
	"github.com/SirSobhan0/polysynth/internal/ui"
	"github.com/SirSobhan0/polysynth/internal/voice"
)

func newTestApp(t *testing.T) (*App, tcell.SimulationScreen, *voice.Registry, *input.HoldSource) {
	t.Helper()
	reg, err := voice.NewRegistry(keyboard.Layout, voice.Presets[0])
	if err != nil {
		t.Fatal(err)
	}
	rend, err := render.New(reg, 8000, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	hold := input.NewHoldSource(len(keyboard.Layout), time.Minute, time.Minute)

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(120, 12)

	return New(screen, ui.NewControls(reg, rend, hold, keyboard.Layout)), screen, reg, hold
}

func screenText(s tcell.SimulationScreen) string {
	cells, w, h := s.GetContents()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			if len(c.Runes) == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteRune(c.Runes[0])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func TestHandleEvent(t *testing.T) {
	a, _, reg, hold := newTestApp(t)

	if !a.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModNone)) {
		t.Fatal("note key stopped the loop")
	}
	if !hold.IsActive(9) {
		t.Error("h did not press A4")
	}

	first := reg.Instrument().Name
	a.HandleEvent(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	if reg.Instrument().Name == first {
		t.Error("tab did not change instrument")
	}

	_ = reg.Activate(0, 0)
	a.HandleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	if v, _ := reg.Voice(0); v.Active {
		t.Error("space did not silence")
	}

	if a.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("esc did not stop the loop")
	}
}

func TestDraw(t *testing.T) {
	a, screen, reg, _ := newTestApp(t)
	_ = reg.Activate(9, 0)

	a.Draw()
	text := screenText(screen)
	for _, want := range []string{"POLYSYNTH", "Pure Sine", "C4", "F5", "Note: A4"} {
		if !strings.Contains(text, want) {
			t.Errorf("screen missing %q:\n%s", want, text)
		}
	}
	if !a.active[9] {
		t.Error("draw did not refresh active flags")
	}
}

func TestKeyName(t *testing.T) {
	cases := []struct {
		ev   *tcell.EventKey
		want string
	}{
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "esc"},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), "up"},
		{tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), "down"},
		{tcell.NewEventKey(tcell.KeyRune, ';', tcell.ModNone), ";"},
		{tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), ""},
	}
	for _, c := range cases {
		if got := keyName(c.ev); got != c.want {
			t.Errorf("keyName(%v) = %q, want %q", c.ev.Name(), got, c.want)
		}
	}
}
