//go:build !headless

package backend

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/SirSobhan0/polysynth/internal/render"
)

// Beep plays the renderer through the beep speaker
type Beep struct {
	mu      sync.Mutex
	buffer  time.Duration
	started bool
}

func NewBeep(buffer time.Duration) *Beep {
	return &Beep{buffer: buffer}
}

func (b *Beep) Name() string { return NameBeep }

// Start initializes the speaker and plays r as its only streamer
func (b *Beep) Start(r *render.Renderer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return ErrAlreadyStarted
	}

	sr := beep.SampleRate(r.SampleRate())
	if err := speaker.Init(sr, sr.N(b.buffer)); err != nil {
		return fmt.Errorf("beep: init speaker: %w", err)
	}
	speaker.Play(r)
	b.started = true
	return nil
}

// Close removes the streamer under the speaker lock, then closes the device
func (b *Beep) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.started {
		return nil
	}
	speaker.Clear()
	speaker.Close()
	b.started = false
	return nil
}
