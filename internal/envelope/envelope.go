// Package envelope implements a stateless ADSR amplitude envelope.
//
// The amplitude is a pure function of the onset time, the release time and
// the current time, so it can be reconstructed at any instant without stored
// level state. Callers must keep timestamps monotonic per voice: evaluating
// with current < release while released is undefined and is not checked.
package envelope

import (
	"errors"
	"fmt"
)

// Epsilon is the level at or below which a released envelope counts as silent
const Epsilon = 1e-4

var ErrInvalidParams = errors.New("invalid envelope parameters")

// Params holds ADSR timings in seconds and levels in [0, 1]
type Params struct {
	Attack     float64
	Decay      float64
	StartAmp   float64
	SustainAmp float64
	Release    float64
}

// DefaultParams matches the classic keyboard preset
func DefaultParams() Params {
	return Params{
		Attack:     0.10,
		Decay:      0.01,
		StartAmp:   1.0,
		SustainAmp: 0.8,
		Release:    0.2,
	}
}

// Validate rejects parameters that would divide by zero or leave [0, 1]
func (p Params) Validate() error {
	switch {
	case p.Attack <= 0:
		return fmt.Errorf("%w: attack %v must be positive", ErrInvalidParams, p.Attack)
	case p.Decay <= 0:
		return fmt.Errorf("%w: decay %v must be positive", ErrInvalidParams, p.Decay)
	case p.Release <= 0:
		return fmt.Errorf("%w: release %v must be positive", ErrInvalidParams, p.Release)
	case p.StartAmp < 0 || p.StartAmp > 1:
		return fmt.Errorf("%w: start amplitude %v outside [0,1]", ErrInvalidParams, p.StartAmp)
	case p.SustainAmp < 0 || p.SustainAmp > 1:
		return fmt.Errorf("%w: sustain amplitude %v outside [0,1]", ErrInvalidParams, p.SustainAmp)
	}
	return nil
}

// Held returns the level lifetime seconds after onset while the key is down
func (p Params) Held(lifetime float64) float64 {
	switch {
	case lifetime <= 0:
		return 0
	case lifetime <= p.Attack:
		// Attack: ramp towards the peak
		return (lifetime / p.Attack) * p.StartAmp
	case lifetime <= p.Attack+p.Decay:
		// Decay: fall to the sustain level
		return ((lifetime-p.Attack)/p.Decay)*(p.SustainAmp-p.StartAmp) + p.StartAmp
	default:
		return p.SustainAmp
	}
}

// Amplitude evaluates the envelope at current.
//
// onset > release means the key is held. Otherwise the release ramp starts
// from whatever level the held phases had reached at release, so letting go
// mid-attack fades from the partial level. finished reports that a released
// envelope has decayed to silence.
func Amplitude(p Params, onset, release, current float64) (amp float64, finished bool) {
	if onset > release {
		return p.Held(current - onset), false
	}

	level := p.Held(release - onset)
	amp = level * (1 - (current-release)/p.Release)
	if amp <= Epsilon {
		return 0, true
	}
	return amp, false
}
