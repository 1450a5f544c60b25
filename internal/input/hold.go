package input

import (
	"sync"
	"time"
)

// Terminal auto-repeat defaults: the first repeat arrives after the initial
// delay, later ones much faster
const (
	DefaultInitialHold = 600 * time.Millisecond
	DefaultRepeatHold  = 100 * time.Millisecond
)

type keyHold struct {
	lastSeen time.Time
	repeats  int
	short    bool
}

// HoldSource turns key press events into held state.
//
// Terminals deliver presses and auto-repeats but no releases, so a key
// stays held until no repeat arrives within the hold window.
type HoldSource struct {
	mu      sync.Mutex
	keys    []keyHold
	initial time.Duration
	repeat  time.Duration
	now     func() time.Time
}

// NewHoldSource tracks n controls
func NewHoldSource(n int, initial, repeat time.Duration) *HoldSource {
	if initial <= 0 {
		initial = DefaultInitialHold
	}
	if repeat <= 0 {
		repeat = DefaultRepeatHold
	}
	return &HoldSource{
		keys:    make([]keyHold, n),
		initial: initial,
		repeat:  repeat,
		now:     time.Now,
	}
}

func (h *HoldSource) deadline(k *keyHold) time.Time {
	if k.repeats == 0 && !k.short {
		return k.lastSeen.Add(h.initial)
	}
	return k.lastSeen.Add(h.repeat)
}

// Press records a key press or auto-repeat. Unknown ids are ignored.
func (h *HoldSource) Press(id int) {
	h.press(id, false)
}

// PressShort records a staccato press: the key is dropped after the repeat
// window even before the first auto-repeat arrives
func (h *HoldSource) PressShort(id int) {
	h.press(id, true)
}

func (h *HoldSource) press(id int, short bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if id < 0 || id >= len(h.keys) {
		return
	}
	k := &h.keys[id]
	now := h.now()
	if !k.lastSeen.IsZero() && !now.After(h.deadline(k)) {
		k.repeats++
	} else {
		k.repeats = 0
	}
	k.lastSeen = now
	k.short = short
}

// Release drops a key immediately, for sources that do see key-up
func (h *HoldSource) Release(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if id >= 0 && id < len(h.keys) {
		h.keys[id] = keyHold{}
	}
}

// ReleaseAll drops every key
func (h *HoldSource) ReleaseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	clear(h.keys)
}

// IsActive implements Source
func (h *HoldSource) IsActive(id int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if id < 0 || id >= len(h.keys) {
		return false
	}
	k := &h.keys[id]
	if k.lastSeen.IsZero() {
		return false
	}
	if h.now().After(h.deadline(k)) {
		*k = keyHold{}
		return false
	}
	return true
}
