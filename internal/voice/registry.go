// Package voice holds the fixed set of voices shared by the renderer and the
// input adapter.
//
// One mutex covers the whole registry. The render path holds it for a single
// O(capacity) pass per sample and never calls out while holding it.
package voice

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/SirSobhan0/polysynth/internal/keyboard"
)

var (
	ErrUnknownControl    = errors.New("unknown control id")
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrEmptyRegistry     = errors.New("registry needs at least one control")
)

// Voice is the excitation state of one controllable pitch.
//
// Onset > Release means the key is held. Amplitude is never stored; it is
// derived from the two timestamps and the render clock.
type Voice struct {
	Control int
	Label   string
	Freq    float64
	Onset   float64
	Release float64
	Active  bool

	inst     Instrument
	staccato bool
}

// Instrument returns the instrument captured at the last activation
func (v *Voice) Instrument() Instrument {
	return v.inst
}

// Held reports whether the voice is between activation and release
func (v *Voice) Held() bool {
	return v.Onset > v.Release
}

// Status is the display snapshot of the most recently started active voice
type Status struct {
	Playing bool
	Control int
	Label   string
	Freq    float64
	Held    bool
	Active  int
}

// Registry is the fixed-capacity voice table, one slot per control
type Registry struct {
	mu     sync.Mutex
	voices []Voice
	inst   Instrument
}

// NewRegistry allocates one voice per note. Capacity never changes afterwards.
func NewRegistry(notes []keyboard.Note, inst Instrument) (*Registry, error) {
	if len(notes) == 0 {
		return nil, ErrEmptyRegistry
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}

	r := &Registry{
		voices: make([]Voice, len(notes)),
		inst:   inst,
	}
	for i, n := range notes {
		r.voices[i] = Voice{
			Control: i,
			Label:   n.Label,
			Freq:    n.Freq,
		}
		r.voices[i].reset()
	}
	return r, nil
}

// reset returns the slot to its never-triggered state
func (v *Voice) reset() {
	v.Onset = 0
	v.Release = math.Inf(-1)
	v.Active = false
	v.staccato = false
}

// Len returns the fixed capacity
func (r *Registry) Len() int {
	return len(r.voices)
}

// Activate starts or retriggers a voice at the given render time.
// Retriggering while releasing restarts the attack without waiting for silence.
func (r *Registry) Activate(id int, at float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id < 0 || id >= len(r.voices) {
		return fmt.Errorf("activate %d: %w", id, ErrUnknownControl)
	}
	v := &r.voices[id]
	// The clock only moves per buffer, so a re-press can share the release
	// timestamp. Onset must stay strictly after Release to read as held.
	if at <= v.Release {
		at = math.Nextafter(v.Release, math.Inf(1))
	}
	v.Onset = at
	v.Active = true
	v.inst = r.inst
	if v.staccato {
		v.inst = v.inst.Staccato()
	}
	return nil
}

// Deactivate stamps the release time. The renderer clears Active once the
// release has decayed to silence.
func (r *Registry) Deactivate(id int, at float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id < 0 || id >= len(r.voices) {
		return fmt.Errorf("deactivate %d: %w", id, ErrUnknownControl)
	}
	v := &r.voices[id]
	if at < v.Onset {
		at = v.Onset
	}
	v.Release = at
	return nil
}

// SetStaccato marks the articulation for the next activation of id.
// A sounding voice keeps the envelope it was started with.
func (r *Registry) SetStaccato(id int, on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id < 0 || id >= len(r.voices) {
		return fmt.Errorf("staccato %d: %w", id, ErrUnknownControl)
	}
	r.voices[id].staccato = on
	return nil
}

// RenderTick mixes every active voice at now and retires released voices
// whose envelope has reached silence. The result is not volume scaled.
func (r *Registry) RenderTick(now float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	mix := 0.0
	for i := range r.voices {
		v := &r.voices[i]
		if !v.Active {
			continue
		}

		amp, finished := v.inst.Amplitude(v.Onset, v.Release, now)
		if finished && v.Release >= v.Onset {
			v.Active = false
			continue
		}
		mix += amp * v.inst.Sample(v.Freq, now)
	}
	return mix
}

// Snapshot copies the most recently started active voice for display
func (r *Registry) Snapshot() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s Status
	latest := math.Inf(-1)
	for i := range r.voices {
		v := &r.voices[i]
		if !v.Active {
			continue
		}
		s.Active++
		if v.Onset >= latest {
			latest = v.Onset
			s.Playing = true
			s.Control = v.Control
			s.Label = v.Label
			s.Freq = v.Freq
			s.Held = v.Held()
		}
	}
	return s
}

// ActiveInto copies the active flags into dst and returns how many are set.
// dst shorter than Len is filled as far as it goes.
func (r *Registry) ActiveInto(dst []bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for i := range dst {
		if i >= len(r.voices) {
			dst[i] = false
			continue
		}
		dst[i] = r.voices[i].Active
		if dst[i] {
			n++
		}
	}
	return n
}

// Voice returns a copy of one slot
func (r *Registry) Voice(id int) (Voice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id < 0 || id >= len(r.voices) {
		return Voice{}, false
	}
	return r.voices[id], true
}

// SetInstrument selects the instrument for subsequent activations.
// Sounding voices keep the one they were started with.
func (r *Registry) SetInstrument(inst Instrument) error {
	if err := inst.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.inst = inst
	r.mu.Unlock()
	return nil
}

// Instrument returns the instrument used for the next activation
func (r *Registry) Instrument() Instrument {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inst
}

// Silence drops every voice immediately
func (r *Registry) Silence() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.voices {
		r.voices[i].reset()
	}
}
