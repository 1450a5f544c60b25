// Package osc maps (frequency, time, waveform) to a signal sample in [-1, 1].
//
// Every function here is stateless and safe for concurrent use.
package osc

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Waveform selects the oscillator shape
type Waveform int

const (
	Sine Waveform = iota
	Square
	Triangle
	Saw
	Noise
	Pulse
	Organ
	Piano
	waveformCount
)

// Harmonics summed by the additive sawtooth
const SawHarmonics = 39

// Default vibrato for SampleLFO callers that want the classic wobble
const (
	VibratoHz    = 5.0
	VibratoDepth = 0.01
)

var ErrUnknownWaveform = errors.New("unknown waveform")

var waveformNames = [waveformCount]string{
	Sine:     "sine",
	Square:   "square",
	Triangle: "triangle",
	Saw:      "saw",
	Noise:    "noise",
	Pulse:    "pulse",
	Organ:    "organ",
	Piano:    "piano",
}

func (w Waveform) String() string {
	if w < 0 || w >= waveformCount {
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
	return waveformNames[w]
}

// ParseWaveform resolves a case-insensitive waveform name
func ParseWaveform(name string) (Waveform, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range waveformNames {
		if n == name {
			return Waveform(i), nil
		}
	}
	if name == "sawtooth" {
		return Saw, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWaveform, name)
}

// W converts hertz to angular velocity
func W(hz float64) float64 {
	return hz * 2 * math.Pi
}

// Sample returns the waveform value at absolute time t seconds
func Sample(hz, t float64, kind Waveform) float64 {
	return shape(W(hz)*t, kind)
}

// SampleLFO is Sample with the phase modulated by a low frequency oscillator
func SampleLFO(hz, t float64, kind Waveform, lfoHz, lfoAmp float64) float64 {
	return shape(W(hz)*t+lfoAmp*hz*math.Sin(W(lfoHz)*t), kind)
}

// shape applies the waveform to an already computed phase in radians
func shape(phase float64, kind Waveform) float64 {
	switch kind {
	case Sine:
		return math.Sin(phase)

	case Square:
		if math.Sin(phase) > 0 {
			return 1
		}
		return -1

	case Triangle:
		return math.Asin(math.Sin(phase)) * (2 / math.Pi)

	case Saw:
		out := 0.0
		for n := 1.0; n <= SawHarmonics; n++ {
			out += math.Sin(n*phase) / n
		}
		// Partial sums overshoot near the edge (Gibbs)
		return clamp(out * (2 / math.Pi))

	case Noise:
		return rand.Float64()*2 - 1

	case Pulse:
		// 25% duty cycle
		if math.Mod(phase, 2*math.Pi) < math.Pi/2 {
			return 1
		}
		return -1

	case Organ:
		// Octave drawbars, weights sum to 1.875
		out := math.Sin(phase) + math.Sin(2*phase)*0.5 + math.Sin(4*phase)*0.25 + math.Sin(8*phase)*0.125
		return out / 1.875

	case Piano:
		out := math.Sin(phase) + math.Sin(2*phase)*0.5 + math.Sin(3*phase)*0.2
		return out / 1.7

	default:
		return 0
	}
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
