//go:build !headless

package backend

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/SirSobhan0/polysynth/internal/render"
)

// Oto pulls mono float32 frames from the renderer through an oto player
type Oto struct {
	buffer time.Duration

	ctx      *oto.Context
	player   *oto.Player
	renderer atomic.Pointer[render.Renderer] // Atomic for lock-free Read()
	samples  []float32                       // Pre-allocated sample buffer
	started  bool
	mu       sync.Mutex // Only for setup/control operations
}

func NewOto(buffer time.Duration) *Oto {
	return &Oto{buffer: buffer}
}

func (o *Oto) Name() string { return NameOto }

// Start opens an oto context at the renderer's rate and begins playback
func (o *Oto) Start(r *render.Renderer) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.started {
		return ErrAlreadyStarted
	}

	if o.ctx == nil {
		op := &oto.NewContextOptions{
			SampleRate:   r.SampleRate(),
			ChannelCount: 1,
			Format:       oto.FormatFloat32LE,
			BufferSize:   o.buffer,
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			return fmt.Errorf("oto: new context: %w", err)
		}
		<-ready
		o.ctx = ctx
	}

	// Reads are bounded by the player buffer, one device buffer of frames
	n := frames(r.SampleRate(), o.buffer)
	o.samples = make([]float32, n)
	o.renderer.Store(r)
	o.player = o.ctx.NewPlayer(o)
	o.player.SetBufferSize(n * 4)
	o.player.Play()
	o.started = true
	return nil
}

// Read implements io.Reader for the oto player. Requests larger than the
// preallocated buffer are rendered in chunks so the callback never allocates.
func (o *Oto) Read(p []byte) (int, error) {
	r := o.renderer.Load()
	if r == nil || len(o.samples) == 0 {
		clear(p)
		return len(p), nil
	}

	n := len(p) / 4
	for off := 0; off < n; {
		chunk := o.samples[:min(n-off, len(o.samples))]
		r.Fill(chunk)
		for i, s := range chunk {
			binary.LittleEndian.PutUint32(p[(off+i)*4:], math.Float32bits(s))
		}
		off += len(chunk)
	}
	return n * 4, nil
}

// Close stops the player. The oto context lives until process exit.
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.started {
		return nil
	}
	o.started = false

	var err error
	if o.player != nil {
		o.player.Pause()
		err = o.player.Close()
		o.player = nil
	}
	o.renderer.Store(nil)
	if err != nil {
		return fmt.Errorf("oto: close player: %w", err)
	}
	return nil
}
