package envelope

import (
	"errors"
	"math"
	"testing"
)

const tol = 1e-9

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// TestKeyboardScenario walks the classic preset through a full press and release
func TestKeyboardScenario(t *testing.T) {
	p := DefaultParams()
	const onset = 0.0
	const release = 0.2

	// Held phases: release timestamp still behind onset
	held := []struct {
		now  float64
		want float64
	}{
		{0.0, 0.0},
		{0.05, 0.5},
		{0.1, 1.0},
		{0.105, 0.9},
		{0.11, 0.8},
		{0.2, 0.8},
	}
	for _, c := range held {
		amp, finished := Amplitude(p, onset, -1, c.now)
		if !near(amp, c.want, 1e-6) {
			t.Errorf("held t=%v: amp=%v want %v", c.now, amp, c.want)
		}
		if finished {
			t.Errorf("held t=%v: finished while key down", c.now)
		}
	}

	amp, finished := Amplitude(p, onset, release, 0.3)
	if !near(amp, 0.4, 1e-6) || finished {
		t.Errorf("mid release: amp=%v finished=%v, want 0.4 false", amp, finished)
	}

	amp, finished = Amplitude(p, onset, release, 0.41)
	if amp != 0 || !finished {
		t.Errorf("after release: amp=%v finished=%v, want 0 true", amp, finished)
	}
}

// TestPhaseBoundariesContinuous verifies adjacent formulas agree at each boundary
func TestPhaseBoundariesContinuous(t *testing.T) {
	presets := []Params{
		DefaultParams(),
		{Attack: 0.02, Decay: 0.3, StartAmp: 0.9, SustainAmp: 0.2, Release: 1},
		{Attack: 0.5, Decay: 0.5, StartAmp: 0.6, SustainAmp: 0.6, Release: 0.1},
	}
	const d = 1e-9

	for _, p := range presets {
		// Attack / decay
		before := p.Held(p.Attack)
		after := p.Held(p.Attack + d)
		if !near(before, p.StartAmp, tol) || !near(after, before, 1e-6) {
			t.Errorf("%+v: attack/decay boundary %v vs %v", p, before, after)
		}

		// Decay / sustain
		before = p.Held(p.Attack + p.Decay)
		after = p.Held(p.Attack + p.Decay + d)
		if !near(before, p.SustainAmp, tol) || !near(after, before, 1e-6) {
			t.Errorf("%+v: decay/sustain boundary %v vs %v", p, before, after)
		}

		// Held / released at the release instant
		for _, rel := range []float64{p.Attack / 2, p.Attack + p.Decay/2, p.Attack + p.Decay + 0.5} {
			h, _ := Amplitude(p, 0, -1, rel)
			r, _ := Amplitude(p, 0, rel, rel)
			if !near(h, r, tol) {
				t.Errorf("%+v: release at %v jumps %v -> %v", p, rel, h, r)
			}
		}
	}
}

// TestReleaseDuringAttack verifies release starts from the partial attack level
func TestReleaseDuringAttack(t *testing.T) {
	p := DefaultParams()
	// Released 25ms into a 100ms attack: level 0.25, not sustain 0.8
	amp, finished := Amplitude(p, 0, 0.025, 0.025)
	if !near(amp, 0.25, 1e-9) || finished {
		t.Fatalf("release start amp=%v finished=%v", amp, finished)
	}
	amp, _ = Amplitude(p, 0, 0.025, 0.125)
	if !near(amp, 0.125, 1e-9) {
		t.Errorf("halfway through release amp=%v, want 0.125", amp)
	}
	amp, _ = Amplitude(p, 0, 0.025, 0.1)
	if amp >= 0.25 {
		t.Errorf("release must fall below the attack level, got %v", amp)
	}
}

// TestReleaseDuringDecay verifies release starts from the partial decay level
func TestReleaseDuringDecay(t *testing.T) {
	p := DefaultParams()
	amp, _ := Amplitude(p, 0, 0.105, 0.105)
	if !near(amp, 0.9, 1e-6) {
		t.Errorf("release from decay amp=%v, want 0.9", amp)
	}
}

// TestReleaseNeverNegative verifies the ramp clamps to zero and stays finished
func TestReleaseNeverNegative(t *testing.T) {
	p := DefaultParams()
	for now := 0.2; now < 2; now += 0.01 {
		amp, finished := Amplitude(p, 0, 0.2, now)
		if amp < 0 {
			t.Fatalf("t=%v: negative amp %v", now, amp)
		}
		if now > 0.2+p.Release && (!finished || amp != 0) {
			t.Fatalf("t=%v: amp=%v finished=%v after release window", now, amp, finished)
		}
	}
}

// TestFreshSlotIsSilent verifies a never-triggered voice reads as finished silence
func TestFreshSlotIsSilent(t *testing.T) {
	amp, finished := Amplitude(DefaultParams(), 0, 0, 3.5)
	if amp != 0 || !finished {
		t.Errorf("fresh slot amp=%v finished=%v", amp, finished)
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}

	bad := map[string]Params{
		"zero attack":  {Attack: 0, Decay: 0.1, StartAmp: 1, SustainAmp: 0.5, Release: 0.1},
		"zero decay":   {Attack: 0.1, Decay: 0, StartAmp: 1, SustainAmp: 0.5, Release: 0.1},
		"zero release": {Attack: 0.1, Decay: 0.1, StartAmp: 1, SustainAmp: 0.5, Release: 0},
		"loud start":   {Attack: 0.1, Decay: 0.1, StartAmp: 1.5, SustainAmp: 0.5, Release: 0.1},
		"neg sustain":  {Attack: 0.1, Decay: 0.1, StartAmp: 1, SustainAmp: -0.1, Release: 0.1},
	}
	for name, p := range bad {
		t.Run(name, func(t *testing.T) {
			if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
				t.Errorf("expected ErrInvalidParams, got %v", err)
			}
		})
	}
}
