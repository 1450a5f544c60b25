// Package input polls key state and turns transitions into voice activations.
package input

import (
	"context"
	"fmt"
	"time"
)

// Source reports whether a control is physically held right now
type Source interface {
	IsActive(id int) bool
}

// SourceFunc adapts a plain function to Source
type SourceFunc func(id int) bool

func (f SourceFunc) IsActive(id int) bool { return f(id) }

// Clock is the render clock edges are stamped with
type Clock interface {
	Now() float64
}

// Target receives edge-triggered activations
type Target interface {
	Len() int
	Activate(id int, at float64) error
	Deactivate(id int, at float64) error
}

// DefaultPollInterval matches a 1ms polling loop
const DefaultPollInterval = time.Millisecond

// Adapter edge-detects every control on each poll.
//
// Held flags are owned by the adapter; Poll must not be called from more
// than one goroutine at a time.
type Adapter struct {
	target   Target
	clock    Clock
	source   Source
	interval time.Duration
	held     []bool
}

// New creates an adapter with one held flag per target control
func New(target Target, clock Clock, source Source, interval time.Duration) *Adapter {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Adapter{
		target:   target,
		clock:    clock,
		source:   source,
		interval: interval,
		held:     make([]bool, target.Len()),
	}
}

// Held reports the last sampled state of a control
func (a *Adapter) Held(id int) bool {
	return id >= 0 && id < len(a.held) && a.held[id]
}

// Poll samples every control once and forwards the transitions
func (a *Adapter) Poll() error {
	now := a.clock.Now()
	for id := range a.held {
		down := a.source.IsActive(id)
		switch {
		case down && !a.held[id]:
			if err := a.target.Activate(id, now); err != nil {
				return fmt.Errorf("poll: %w", err)
			}
			a.held[id] = true
		case !down && a.held[id]:
			if err := a.target.Deactivate(id, now); err != nil {
				return fmt.Errorf("poll: %w", err)
			}
			a.held[id] = false
		}
	}
	return nil
}

// Run polls until ctx is cancelled. Held keys are released on exit so no
// voice is left sustaining.
func (a *Adapter) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.releaseAll()
			return nil
		case <-ticker.C:
			if err := a.Poll(); err != nil {
				return err
			}
		}
	}
}

func (a *Adapter) releaseAll() {
	now := a.clock.Now()
	for id, h := range a.held {
		if h {
			_ = a.target.Deactivate(id, now)
			a.held[id] = false
		}
	}
}
