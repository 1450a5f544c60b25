package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SirSobhan0/polysynth/internal/voice"
)

// --- MODEL ---

type TickMsg time.Time

const (
	numBars      = 42
	tickInterval = 30 * time.Millisecond
)

// Model is the bubbletea frontend
type Model struct {
	controls *Controls
	active   []bool
	status   voice.Status
	instName string
	volume   float64
	width    int
	height   int
	spectrum []float64
}

// NewModel creates the frontend over controls
func NewModel(c *Controls) Model {
	return Model{
		controls: c,
		active:   make([]bool, len(c.Notes)),
		instName: c.Synth.Instrument().Name,
		volume:   c.Mixer.Volume(),
		spectrum: make([]float64, numBars),
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd { return tick() }

// freqToBucket maps a frequency logarithmically to our visualizer bars
func freqToBucket(freq float64) int {
	minF, maxF := 100.0, 4000.0
	if freq < minF {
		freq = minF
	}
	if freq > maxF {
		freq = maxF
	}
	ratio := math.Log(freq/minF) / math.Log(maxF/minF)
	bucket := int(ratio * float64(numBars))
	if bucket >= numBars {
		bucket = numBars - 1
	}
	return bucket
}

// refresh pulls one snapshot from the registry and decays the bars
func (m *Model) refresh() {
	m.controls.Synth.ActiveInto(m.active)
	m.status = m.controls.Synth.Snapshot()
	m.instName = m.controls.Synth.Instrument().Name
	m.volume = m.controls.Mixer.Volume()

	for i := range m.spectrum {
		m.spectrum[i] *= 0.82
	}

	// Excite the fundamental and a few harmonics per sounding note
	for id, on := range m.active {
		if !on {
			continue
		}
		f := m.controls.Notes[id].Freq
		m.spectrum[freqToBucket(f)] = 1.0
		m.spectrum[freqToBucket(f*2)] += 0.5
		m.spectrum[freqToBucket(f*3)] += 0.25
		m.spectrum[freqToBucket(f*4)] += 0.1
	}

	for i := range m.spectrum {
		if m.spectrum[i] > 1.0 {
			m.spectrum[i] = 1.0
		}
	}
}

// keyName converts a bubbletea key to the names Controls understands
func keyName(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyCtrlC:
		return "ctrl+c"
	case tea.KeyEscape:
		return "esc"
	case tea.KeySpace:
		return "space"
	case tea.KeyTab:
		return "tab"
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyRunes:
		return string(msg.Runes)
	}
	return msg.String()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		m.refresh()
		return m, tick()

	case tea.KeyMsg:
		switch m.controls.Key(keyName(msg)) {
		case ActionQuit:
			return m, tea.Quit
		case ActionInstrument, ActionVolume, ActionSilence:
			m.refresh()
		}
	}
	return m, nil
}

// --- STYLES ---
var (
	panelStyle = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("#444444"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			MarginBottom(1).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00E6C3"))

	instStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00E6C3")).
			Background(lipgloss.Color("#111111")).
			Padding(0, 1).
			MarginBottom(1)

	visStyle = lipgloss.NewStyle().
			MarginBottom(1)

	waveColor = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00E6C3"))

	keyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#AAAAAA")).
			Width(5).
			Height(2).
			Align(lipgloss.Center)

	blackKeyStyle = keyStyle.
			Foreground(lipgloss.Color("#DDDDDD")).
			Background(lipgloss.Color("#1A1A1A"))

	activeKeyStyle = keyStyle.
			BorderForeground(lipgloss.Color("#00E6C3")).
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#00E6C3")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4")).
			MarginTop(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)
)

// StatusLine formats the current note for display
func StatusLine(s voice.Status) string {
	repr, freq := "NONE", 0.0
	if s.Playing {
		repr, freq = s.Label, s.Freq
	}
	return fmt.Sprintf("Note: %-4s │ Frequency: %07.3f Hz │ Voices: %d", repr, freq, s.Active)
}

func (m Model) visualizer() string {
	var lines []string
	for r := 3; r >= -3; r-- {
		var line strings.Builder
		absR := math.Abs(float64(r))
		for _, val := range m.spectrum {
			h := val * 3.0
			switch {
			case r == 0 && h > 0.1:
				line.WriteString("█")
			case r == 0:
				line.WriteString("━")
			case h >= absR:
				line.WriteString("█")
			case h >= absR-0.5 && r > 0:
				line.WriteString("▄")
			case h >= absR-0.5:
				line.WriteString("▀")
			default:
				line.WriteString(" ")
			}
			line.WriteString(" ")
		}
		lines = append(lines, waveColor.Render(line.String()))
	}
	return visStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) keys() string {
	var black, white []string
	for id, n := range m.controls.Notes {
		content := fmt.Sprintf("%s\n%s", n.Label, strings.ToUpper(string(n.Key)))
		style := keyStyle
		if n.Black {
			style = blackKeyStyle
		}
		if id < len(m.active) && m.active[id] {
			style = activeKeyStyle
		}
		if n.Black {
			black = append(black, style.Render(content))
		} else {
			white = append(white, style.Render(content))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.JoinHorizontal(lipgloss.Top, black...),
		lipgloss.JoinHorizontal(lipgloss.Top, white...),
	)
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("🎹 POLYSYNTH"),
		"   ",
		instStyle.Render(fmt.Sprintf("Preset: %s  Vol: %3.0f%%", m.instName, m.volume*100)),
	)

	status := statusStyle.Render(StatusLine(m.status))
	help := helpStyle.Render("TAB: Instrument  •  SHIFT+KEY: Fast End  •  ↑/↓: Volume  •  SPACE: Silence  •  ESC: Quit")

	ui := lipgloss.JoinVertical(lipgloss.Center, header, m.visualizer(), m.keys(), status, help)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panelStyle.Render(ui))
}
