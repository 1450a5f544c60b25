// Package ui holds the terminal frontends. They feed key presses into the
// hold source and render a read-only snapshot of the registry.
package ui

import (
	"errors"
	"log"

	"github.com/SirSobhan0/polysynth/internal/keyboard"
	"github.com/SirSobhan0/polysynth/internal/voice"
)

// ErrNotTerminal is returned when stdin or stdout is not a terminal
var ErrNotTerminal = errors.New("frontend needs an interactive terminal")

// Synth is the registry surface a frontend may touch
type Synth interface {
	Snapshot() voice.Status
	ActiveInto(dst []bool) int
	Instrument() voice.Instrument
	SetInstrument(inst voice.Instrument) error
	SetStaccato(id int, on bool) error
	Silence()
}

// Mixer controls master volume
type Mixer interface {
	Volume() float64
	SetVolume(vol float64)
}

// Keys receives key presses
type Keys interface {
	Press(id int)
	PressShort(id int)
	ReleaseAll()
}

// Action is what a key did
type Action int

const (
	ActionNone Action = iota
	ActionNote
	ActionQuit
	ActionSilence
	ActionInstrument
	ActionVolume
)

const volumeStep = 0.05

// Controls maps key names to synth operations, shared by both frontends
type Controls struct {
	Synth Synth
	Mixer Mixer
	Keys  Keys
	Notes []keyboard.Note
	Index keyboard.Index
}

// NewControls builds controls over the given note table
func NewControls(s Synth, m Mixer, k Keys, notes []keyboard.Note) *Controls {
	return &Controls{
		Synth: s,
		Mixer: m,
		Keys:  k,
		Notes: notes,
		Index: keyboard.NewIndex(notes),
	}
}

// Key handles one key event by name ("esc", "tab", "a", ...)
func (c *Controls) Key(name string) Action {
	switch name {
	case "esc", "ctrl+c":
		return ActionQuit

	case "space", " ":
		c.Keys.ReleaseAll()
		c.Synth.Silence()
		return ActionSilence

	case "tab":
		next := voice.NextPreset(c.Synth.Instrument().Name)
		if err := c.Synth.SetInstrument(next); err != nil {
			log.Printf("instrument %q: %v", next.Name, err)
			return ActionNone
		}
		log.Printf("instrument: %s", next.Name)
		return ActionInstrument

	case "up":
		c.Mixer.SetVolume(c.Mixer.Volume() + volumeStep)
		return ActionVolume

	case "down":
		c.Mixer.SetVolume(c.Mixer.Volume() - volumeStep)
		return ActionVolume
	}

	// SHIFT+key ends the note fast
	if id, shift, ok := c.Index.Resolve(name); ok {
		if err := c.Synth.SetStaccato(id, shift); err != nil {
			log.Printf("key %q: %v", name, err)
			return ActionNone
		}
		if shift {
			c.Keys.PressShort(id)
		} else {
			c.Keys.Press(id)
		}
		return ActionNote
	}
	return ActionNone
}
