// Package render fills audio buffers from the voice registry and owns the
// render clock.
package render

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/SirSobhan0/polysynth/internal/voice"
)

var ErrInvalidSampleRate = errors.New("sample rate must be positive")

// Renderer is the sample-fill routine called by an audio backend.
//
// The sample counter is the only clock in the system: Now is what input
// timestamps are taken from, so onsets and the rendered signal share one
// time base.
type Renderer struct {
	reg        *voice.Registry
	sampleRate float64

	samples atomic.Uint64
	volume  atomic.Uint64 // math.Float64bits

	// Held for the length of one fill so Close can fence on it
	mu     sync.Mutex
	closed bool
}

// New creates a renderer over reg
func New(reg *voice.Registry, sampleRate int, volume float64) (*Renderer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	r := &Renderer{
		reg:        reg,
		sampleRate: float64(sampleRate),
	}
	r.SetVolume(volume)
	return r, nil
}

// SampleRate returns the rate the clock advances at
func (r *Renderer) SampleRate() int {
	return int(r.sampleRate)
}

// Samples returns the number of frames rendered so far
func (r *Renderer) Samples() uint64 {
	return r.samples.Load()
}

// Now returns the render clock in seconds. Safe from any goroutine.
func (r *Renderer) Now() float64 {
	return float64(r.samples.Load()) / r.sampleRate
}

// SetVolume sets master volume, clamped to 0.0-1.0
func (r *Renderer) SetVolume(vol float64) {
	if vol < 0 || math.IsNaN(vol) {
		vol = 0
	} else if vol > 1 {
		vol = 1
	}
	r.volume.Store(math.Float64bits(vol))
}

// Volume returns master volume
func (r *Renderer) Volume() float64 {
	return math.Float64frombits(r.volume.Load())
}

// Fill renders len(buf) mono frames. After Close it writes silence.
func (r *Renderer) Fill(buf []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		clear(buf)
		return
	}

	master := r.Volume()
	n := r.samples.Load()
	for i := range buf {
		now := float64(n) / r.sampleRate
		buf[i] = float32(r.reg.RenderTick(now) * master)
		n++
		r.samples.Store(n)
	}
}

// Stream implements beep.Streamer, writing the mono signal to both channels
func (r *Renderer) Stream(samples [][2]float64) (n int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, false
	}

	master := r.Volume()
	clock := r.samples.Load()
	for i := range samples {
		now := float64(clock) / r.sampleRate
		s := r.reg.RenderTick(now) * master
		samples[i][0] = s
		samples[i][1] = s
		clock++
		r.samples.Store(clock)
	}
	return len(samples), true
}

// Err implements beep.Streamer
func (r *Renderer) Err() error { return nil }

// Close waits for an in-flight fill to finish and detaches the registry.
// Safe to call more than once.
func (r *Renderer) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

// Closed reports whether Close has been called
func (r *Renderer) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
