package voice

import (
	"fmt"
	"strings"

	"github.com/SirSobhan0/polysynth/internal/envelope"
	"github.com/SirSobhan0/polysynth/internal/osc"
)

// --- INSTRUMENT DEFINITIONS ---

// Instrument pairs a waveform with its own envelope
type Instrument struct {
	Name string
	Wave osc.Waveform
	Env  envelope.Params

	// Optional phase modulation, zero depth disables it
	LFOHz    float64
	LFODepth float64
}

// Sample returns the raw oscillator value for hz at time t
func (in *Instrument) Sample(hz, t float64) float64 {
	if in.LFODepth != 0 {
		return osc.SampleLFO(hz, t, in.Wave, in.LFOHz, in.LFODepth)
	}
	return osc.Sample(hz, t, in.Wave)
}

// Amplitude evaluates the instrument envelope
func (in *Instrument) Amplitude(onset, release, now float64) (float64, bool) {
	return envelope.Amplitude(in.Env, onset, release, now)
}

// StaccatoRelease caps the release of short notes played with SHIFT
const StaccatoRelease = 0.03

// Staccato returns a copy of the instrument with a short release
func (in *Instrument) Staccato() Instrument {
	out := *in
	out.Env.Release = min(out.Env.Release, StaccatoRelease)
	return out
}

// Validate checks the envelope of the instrument
func (in *Instrument) Validate() error {
	if err := in.Env.Validate(); err != nil {
		return fmt.Errorf("instrument %q: %w", in.Name, err)
	}
	return nil
}

// Presets are cycled by the frontends, the first one is the default
var Presets = []Instrument{
	{Name: "Pure Sine", Wave: osc.Sine, Env: envelope.DefaultParams()},
	{Name: "Vibrato Sine", Wave: osc.Sine, Env: envelope.DefaultParams(), LFOHz: osc.VibratoHz, LFODepth: osc.VibratoDepth},
	{Name: "8-Bit Square", Wave: osc.Square, Env: envelope.Params{Attack: 0.005, Decay: 0.05, StartAmp: 0.5, SustainAmp: 0.35, Release: 0.08}},
	{Name: "Synth Saw", Wave: osc.Saw, Env: envelope.Params{Attack: 0.02, Decay: 0.2, StartAmp: 0.7, SustainAmp: 0.5, Release: 0.3}},
	{Name: "Soft Flute", Wave: osc.Triangle, Env: envelope.Params{Attack: 0.15, Decay: 0.1, StartAmp: 1.0, SustainAmp: 0.9, Release: 0.4}},
	{Name: "Sci-Fi Noise", Wave: osc.Noise, Env: envelope.Params{Attack: 0.01, Decay: 0.3, StartAmp: 0.6, SustainAmp: 0.2, Release: 0.5}},
	{Name: "Electric Piano", Wave: osc.Piano, Env: envelope.Params{Attack: 0.005, Decay: 0.6, StartAmp: 1.0, SustainAmp: 0.4, Release: 0.5}},
	{Name: "Church Organ", Wave: osc.Organ, Env: envelope.Params{Attack: 0.04, Decay: 0.01, StartAmp: 0.8, SustainAmp: 0.8, Release: 0.15}},
	{Name: "Gameboy Pulse", Wave: osc.Pulse, Env: envelope.Params{Attack: 0.002, Decay: 0.1, StartAmp: 0.5, SustainAmp: 0.4, Release: 0.05}},
}

// PresetByName finds a preset by case-insensitive name or waveform name
func PresetByName(name string) (Instrument, error) {
	name = strings.TrimSpace(name)
	for _, p := range Presets {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	if w, err := osc.ParseWaveform(name); err == nil {
		for _, p := range Presets {
			if p.Wave == w && p.LFODepth == 0 {
				return p, nil
			}
		}
	}
	return Instrument{}, fmt.Errorf("%w: %q", ErrUnknownInstrument, name)
}

// NextPreset returns the preset after the one named current, wrapping around
func NextPreset(current string) Instrument {
	for i, p := range Presets {
		if p.Name == current {
			return Presets[(i+1)%len(Presets)]
		}
	}
	return Presets[0]
}
