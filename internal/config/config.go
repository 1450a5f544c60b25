// Package config loads runtime settings from flags and POLYSYNTH_ environment
// variables. Flags win over the environment, which wins over defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/SirSobhan0/polysynth/internal/backend"
	"github.com/SirSobhan0/polysynth/internal/input"
	"github.com/SirSobhan0/polysynth/internal/voice"
)

// Frontends
const (
	FrontendTea   = "tea"
	FrontendTcell = "tcell"
)

const envPrefix = "POLYSYNTH_"

var ErrInvalidConfig = errors.New("invalid config")

// Config holds everything main needs to wire the synth
type Config struct {
	SampleRate   int
	Buffer       time.Duration
	MasterVolume float64
	Backend      string
	Frontend     string
	Instrument   string
	PollInterval time.Duration
	InitialHold  time.Duration
	RepeatHold   time.Duration
	LogFile      string
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		SampleRate:   44100,
		Buffer:       backend.DefaultBuffer,
		MasterVolume: 0.5,
		Backend:      backend.NameBeep,
		Frontend:     FrontendTea,
		Instrument:   voice.Presets[0].Name,
		PollInterval: input.DefaultPollInterval,
		InitialHold:  input.DefaultInitialHold,
		RepeatHold:   input.DefaultRepeatHold,
		LogFile:      "polysynth.log",
	}
}

// Load applies environment overrides via getenv, then parses args.
// A nil getenv skips the environment.
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := Default()
	if getenv != nil {
		if err := cfg.applyEnv(getenv); err != nil {
			return nil, err
		}
	}

	fs := flag.NewFlagSet("polysynth", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&cfg.SampleRate, "rate", cfg.SampleRate, "sample rate in Hz")
	fs.DurationVar(&cfg.Buffer, "buffer", cfg.Buffer, "audio device buffer length")
	fs.Float64Var(&cfg.MasterVolume, "volume", cfg.MasterVolume, "master volume 0.0-1.0")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "audio backend: beep, oto, null")
	fs.StringVar(&cfg.Frontend, "ui", cfg.Frontend, "frontend: tea, tcell")
	fs.StringVar(&cfg.Instrument, "instrument", cfg.Instrument, "starting instrument preset or waveform")
	fs.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "key polling interval")
	fs.DurationVar(&cfg.InitialHold, "hold", cfg.InitialHold, "hold window after the first key press")
	fs.DurationVar(&cfg.RepeatHold, "repeat-hold", cfg.RepeatHold, "hold window between auto-repeats")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "log file, empty disables logging")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %v", ErrInvalidConfig, fs.Args())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(name string, dst *string) {
		if v := getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) error {
		v := getenv(envPrefix + name)
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, envPrefix, name, err)
		}
		*dst = d
		return nil
	}

	if v := getenv(envPrefix + "SAMPLE_RATE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sSAMPLE_RATE: %v", ErrInvalidConfig, envPrefix, err)
		}
		c.SampleRate = n
	}

	// Same 0.0-1.0 scale as -volume
	if v := getenv(envPrefix + "VOLUME"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %sVOLUME: %v", ErrInvalidConfig, envPrefix, err)
		}
		c.MasterVolume = f
	}

	str("BACKEND", &c.Backend)
	str("UI", &c.Frontend)
	str("INSTRUMENT", &c.Instrument)
	if v, ok := lookup(getenv, envPrefix+"LOG"); ok {
		c.LogFile = v
	}

	for name, dst := range map[string]*time.Duration{
		"BUFFER":      &c.Buffer,
		"POLL":        &c.PollInterval,
		"HOLD":        &c.InitialHold,
		"REPEAT_HOLD": &c.RepeatHold,
	} {
		if err := dur(name, dst); err != nil {
			return err
		}
	}
	return nil
}

// lookup treats "off" and "none" as an explicit empty value
func lookup(getenv func(string) string, key string) (string, bool) {
	v := getenv(key)
	switch v {
	case "":
		return "", false
	case "off", "none":
		return "", true
	}
	return v, true
}

// Validate checks ranges and names
func (c *Config) Validate() error {
	switch {
	case c.SampleRate < 8000 || c.SampleRate > 192000:
		return fmt.Errorf("%w: sample rate %d outside 8000-192000", ErrInvalidConfig, c.SampleRate)
	case c.Buffer <= 0:
		return fmt.Errorf("%w: buffer %v must be positive", ErrInvalidConfig, c.Buffer)
	case c.MasterVolume < 0 || c.MasterVolume > 1:
		return fmt.Errorf("%w: volume %v outside 0.0-1.0", ErrInvalidConfig, c.MasterVolume)
	case c.PollInterval <= 0:
		return fmt.Errorf("%w: poll interval %v must be positive", ErrInvalidConfig, c.PollInterval)
	case c.InitialHold <= 0 || c.RepeatHold <= 0:
		return fmt.Errorf("%w: hold windows must be positive", ErrInvalidConfig)
	case c.Frontend != FrontendTea && c.Frontend != FrontendTcell:
		return fmt.Errorf("%w: frontend %q", ErrInvalidConfig, c.Frontend)
	}

	if _, err := backend.New(c.Backend, c.Buffer); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := voice.PresetByName(c.Instrument); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
