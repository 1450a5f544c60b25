//go:build !headless

package backend

import (
	"encoding/binary"
	"math"
	"testing"
	"time"
)

// TestOtoRead exercises the reader without opening a device
func TestOtoRead(t *testing.T) {
	o := NewOto(10 * time.Millisecond)

	p := make([]byte, 64)
	for i := range p {
		p[i] = 0xff
	}
	if n, err := o.Read(p); n != len(p) || err != nil {
		t.Fatalf("detached Read = %d, %v", n, err)
	}
	for _, b := range p {
		if b != 0 {
			t.Fatal("detached reader must emit silence")
		}
	}

	r, reg := newTestRenderer(t)
	_ = reg.Activate(9, 0)
	// Smaller than the request so Read has to render in chunks
	o.samples = make([]float32, 64)
	o.renderer.Store(r)

	p = make([]byte, 4*400)
	n, err := o.Read(p)
	if err != nil || n != len(p) {
		t.Fatalf("Read = %d, %v", n, err)
	}
	if r.Samples() != 400 {
		t.Errorf("renderer advanced %d frames, want 400", r.Samples())
	}

	nonZero := false
	for i := 0; i < 400; i++ {
		s := math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
		if s < -1 || s > 1 {
			t.Fatalf("frame %d out of range: %v", i, s)
		}
		if s != 0 {
			nonZero = true
		}
	}
	if !nonZero {
		t.Error("held voice encoded as silence")
	}

	// Chunked rendering must match one straight fill of the same frames
	ref, refReg := newTestRenderer(t)
	_ = refReg.Activate(9, 0)
	want := make([]float32, 400)
	ref.Fill(want)
	for i, w := range want {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:])); got != w {
			t.Fatalf("frame %d: %v, want %v", i, got, w)
		}
	}

	if allocs := testing.AllocsPerRun(20, func() { _, _ = o.Read(p) }); allocs != 0 {
		t.Errorf("Read allocates %v times per call", allocs)
	}

	// Close without Start is a no-op
	if err := o.Close(); err != nil {
		t.Errorf("Close = %v", err)
	}
}
