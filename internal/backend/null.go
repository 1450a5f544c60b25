package backend

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/SirSobhan0/polysynth/internal/render"
)

// Null renders on a ticker at the device cadence and discards the result.
// Used when no audio device is wanted and in tests.
type Null struct {
	buffer time.Duration

	running atomic.Bool
	buffers atomic.Uint64
	stop    chan struct{}
	wg      sync.WaitGroup
}

func NewNull(buffer time.Duration) *Null {
	return &Null{buffer: buffer}
}

func (n *Null) Name() string { return NameNull }

// Start begins calling r.Fill once per buffer period
func (n *Null) Start(r *render.Renderer) error {
	if !n.running.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	buf := make([]float32, frames(r.SampleRate(), n.buffer))
	n.stop = make(chan struct{})
	n.wg.Add(1)
	go n.loop(r, buf)
	return nil
}

func (n *Null) loop(r *render.Renderer, buf []float32) {
	defer n.wg.Done()

	ticker := time.NewTicker(n.buffer)
	defer ticker.Stop()

	for {
		select {
		case <-n.stop:
			return
		case <-ticker.C:
			r.Fill(buf)
			n.buffers.Add(1)
		}
	}
}

// Buffers returns how many buffers have been rendered
func (n *Null) Buffers() uint64 {
	return n.buffers.Load()
}

// Close stops the loop and waits for the last fill
func (n *Null) Close() error {
	if !n.running.CompareAndSwap(true, false) {
		return nil
	}
	close(n.stop)
	n.wg.Wait()
	return nil
}
