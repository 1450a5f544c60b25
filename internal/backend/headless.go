//go:build headless

package backend

import (
	"fmt"
	"time"

	"github.com/SirSobhan0/polysynth/internal/render"
)

// Device backends are stubbed out in headless builds so the binary links
// without an audio library.

type Beep struct{}

func NewBeep(time.Duration) *Beep { return &Beep{} }

func (b *Beep) Name() string { return NameBeep }

func (b *Beep) Start(*render.Renderer) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, NameBeep)
}

func (b *Beep) Close() error { return nil }

type Oto struct{}

func NewOto(time.Duration) *Oto { return &Oto{} }

func (o *Oto) Name() string { return NameOto }

func (o *Oto) Start(*render.Renderer) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, NameOto)
}

func (o *Oto) Close() error { return nil }
