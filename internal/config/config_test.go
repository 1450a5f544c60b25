package config

import (
	"errors"
	"testing"
	"time"

	"github.com/SirSobhan0/polysynth/internal/backend"
	"github.com/SirSobhan0/polysynth/internal/voice"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.SampleRate != 44100 || cfg.MasterVolume != 0.5 || cfg.PollInterval != time.Millisecond {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Backend != backend.NameBeep || cfg.Frontend != FrontendTea {
		t.Errorf("unexpected default backend/frontend: %s/%s", cfg.Backend, cfg.Frontend)
	}
}

func TestLoadEnv(t *testing.T) {
	cfg, err := Load(nil, envMap(map[string]string{
		"POLYSYNTH_SAMPLE_RATE": "48000",
		"POLYSYNTH_VOLUME":      "0.8",
		"POLYSYNTH_BACKEND":     "oto",
		"POLYSYNTH_UI":          "tcell",
		"POLYSYNTH_INSTRUMENT":  "saw",
		"POLYSYNTH_BUFFER":      "20ms",
		"POLYSYNTH_POLL":        "2ms",
		"POLYSYNTH_HOLD":        "400ms",
		"POLYSYNTH_REPEAT_HOLD": "80ms",
		"POLYSYNTH_LOG":         "off",
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Config{
		SampleRate:   48000,
		Buffer:       20 * time.Millisecond,
		MasterVolume: 0.8,
		Backend:      "oto",
		Frontend:     FrontendTcell,
		Instrument:   "saw",
		PollInterval: 2 * time.Millisecond,
		InitialHold:  400 * time.Millisecond,
		RepeatHold:   80 * time.Millisecond,
		LogFile:      "",
	}
	if *cfg != want {
		t.Errorf("Load env:\n got %+v\nwant %+v", *cfg, want)
	}
}

// TestFlagsOverrideEnv verifies precedence flags > env > defaults
func TestFlagsOverrideEnv(t *testing.T) {
	env := envMap(map[string]string{
		"POLYSYNTH_VOLUME":  "0.1",
		"POLYSYNTH_BACKEND": "oto",
	})
	cfg, err := Load([]string{"-volume", "0.9", "-backend", "null", "-instrument", "Soft Flute"}, env)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MasterVolume != 0.9 || cfg.Backend != "null" || cfg.Instrument != "Soft Flute" {
		t.Errorf("flags did not override: %+v", cfg)
	}
	if cfg.SampleRate != Default().SampleRate {
		t.Errorf("untouched field changed: %d", cfg.SampleRate)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
		env  map[string]string
		is   error
	}{
		{"bad flag", []string{"-nope"}, nil, ErrInvalidConfig},
		{"stray arg", []string{"extra"}, nil, ErrInvalidConfig},
		{"bad rate env", nil, map[string]string{"POLYSYNTH_SAMPLE_RATE": "fast"}, ErrInvalidConfig},
		{"bad volume env", nil, map[string]string{"POLYSYNTH_VOLUME": "loud"}, ErrInvalidConfig},
		{"volume env range", nil, map[string]string{"POLYSYNTH_VOLUME": "80"}, ErrInvalidConfig},
		{"bad duration env", nil, map[string]string{"POLYSYNTH_POLL": "soon"}, ErrInvalidConfig},
		{"low rate", []string{"-rate", "100"}, nil, ErrInvalidConfig},
		{"volume range", []string{"-volume", "1.5"}, nil, ErrInvalidConfig},
		{"zero poll", []string{"-poll", "0s"}, nil, ErrInvalidConfig},
		{"zero hold", []string{"-hold", "0s"}, nil, ErrInvalidConfig},
		{"frontend", []string{"-ui", "gtk"}, nil, ErrInvalidConfig},
		{"backend", []string{"-backend", "jack"}, nil, backend.ErrUnknownBackend},
		{"instrument", []string{"-instrument", "kazoo"}, nil, voice.ErrUnknownInstrument},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Load(c.args, envMap(c.env))
			if !errors.Is(err, c.is) {
				t.Errorf("Load = %v, want %v", err, c.is)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Load = %v, want wrapped ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadNilEnv(t *testing.T) {
	cfg, err := Load([]string{"-log", ""}, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogFile != "" {
		t.Errorf("LogFile = %q, want empty", cfg.LogFile)
	}
}
