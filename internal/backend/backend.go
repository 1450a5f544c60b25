// Package backend connects the renderer to an audio output.
//
// A backend owns the device and the callback schedule; the core only sees
// "fill this buffer". Device failures are returned from Start and Close.
package backend

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SirSobhan0/polysynth/internal/render"
)

// Backend drives a renderer from an output device
type Backend interface {
	Name() string
	Start(r *render.Renderer) error
	// Close stops the callback schedule. No fill runs after it returns.
	Close() error
}

// Names of the available backends
const (
	NameBeep = "beep"
	NameOto  = "oto"
	NameNull = "null"
)

// DefaultBuffer is the device buffer length
const DefaultBuffer = 50 * time.Millisecond

// Sentinel errors
var (
	ErrUnknownBackend = errors.New("unknown audio backend")
	ErrAlreadyStarted = errors.New("audio backend already started")
	ErrUnavailable    = errors.New("audio backend not built in")
)

// New returns the named backend with the given device buffer length
func New(name string, buffer time.Duration) (Backend, error) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	switch strings.ToLower(name) {
	case NameBeep:
		return NewBeep(buffer), nil
	case NameOto:
		return NewOto(buffer), nil
	case NameNull, "headless", "none":
		return NewNull(buffer), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// frames converts a buffer duration to a frame count at sampleRate
func frames(sampleRate int, d time.Duration) int {
	n := int(d.Seconds() * float64(sampleRate))
	if n < 1 {
		n = 1
	}
	return n
}
