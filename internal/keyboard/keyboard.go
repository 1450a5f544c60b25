// Package keyboard holds the static mapping from computer keys to pitches.
package keyboard

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// PitchStandard is the frequency of A4 in Hz
const PitchStandard = 440.0

// Note is one playable control: the key that drives it, its label and pitch
type Note struct {
	Key   rune
	Label string
	Freq  float64
	Black bool
}

// Freq returns the frequency semitones away from A4
func Freq(semitones int) float64 {
	return PitchStandard * math.Pow(2, float64(semitones)/12)
}

// Layout is two rows of a QWERTY keyboard laid out as a piano from C4 to F5.
// A control id is the index into this slice.
var Layout = []Note{
	{'a', "C4", Freq(-9), false},
	{'w', "C#4", Freq(-8), true},
	{'s', "D4", Freq(-7), false},
	{'e', "D#4", Freq(-6), true},
	{'d', "E4", Freq(-5), false},
	{'f', "F4", Freq(-4), false},
	{'t', "F#4", Freq(-3), true},
	{'g', "G4", Freq(-2), false},
	{'y', "G#4", Freq(-1), true},
	{'h', "A4", Freq(0), false},
	{'u', "A#4", Freq(1), true},
	{'j', "B4", Freq(2), false},
	{'k', "C5", Freq(3), false},
	{'o', "C#5", Freq(4), true},
	{'l', "D5", Freq(5), false},
	{'p', "D#5", Freq(6), true},
	{';', "E5", Freq(7), false},
	{'\'', "F5", Freq(8), false},
}

// Index maps a key to its control id
type Index map[rune]int

// NewIndex builds a lookup over notes, panicking on duplicate keys
func NewIndex(notes []Note) Index {
	idx := make(Index, len(notes))
	for i, n := range notes {
		if prev, dup := idx[n.Key]; dup {
			panic(fmt.Sprintf("keyboard: key %q bound to both %s and %s", n.Key, notes[prev].Label, n.Label))
		}
		idx[n.Key] = i
	}
	return idx
}

// shifted maps US layout shifted punctuation back to the unshifted key
var shifted = map[rune]rune{
	':': ';',
	'"': '\'',
}

// Resolve returns the control id for a key and whether it was typed with
// SHIFT held (an upper case letter or shifted punctuation)
func (idx Index) Resolve(key string) (id int, shift bool, ok bool) {
	r := []rune(key)
	if len(r) != 1 {
		return 0, false, false
	}
	k := r[0]
	if base, isShifted := shifted[k]; isShifted {
		k, shift = base, true
	} else if unicode.IsUpper(k) {
		k, shift = unicode.ToLower(k), true
	}
	id, ok = idx[k]
	return id, shift && ok, ok
}

// Lookup returns the control id for a key, ignoring case
func (idx Index) Lookup(key string) (int, bool) {
	r := []rune(strings.ToLower(key))
	if len(r) != 1 {
		return 0, false
	}
	id, ok := idx[r[0]]
	return id, ok
}
