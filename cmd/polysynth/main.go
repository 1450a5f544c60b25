package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SirSobhan0/polysynth/internal/backend"
	"github.com/SirSobhan0/polysynth/internal/config"
	"github.com/SirSobhan0/polysynth/internal/input"
	"github.com/SirSobhan0/polysynth/internal/keyboard"
	"github.com/SirSobhan0/polysynth/internal/render"
	"github.com/SirSobhan0/polysynth/internal/ui"
	"github.com/SirSobhan0/polysynth/internal/ui/tcellui"
	"github.com/SirSobhan0/polysynth/internal/voice"
)

// setupLogging sends the standard logger to path. The TUI owns the
// terminal, so an empty path discards logs instead of writing to stderr.
func setupLogging(path string) (*os.File, error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return nil, nil
	}
	f, err := tea.LogToFile(path, "polysynth")
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}
	return f, nil
}

// frontend picks the UI runner for the configured name
func frontend(name string) func(*ui.Controls) error {
	if name == config.FrontendTcell {
		return tcellui.Run
	}
	return ui.Run
}

func run(cfg *config.Config) error {
	inst, err := voice.PresetByName(cfg.Instrument)
	if err != nil {
		return err
	}
	reg, err := voice.NewRegistry(keyboard.Layout, inst)
	if err != nil {
		return err
	}
	rend, err := render.New(reg, cfg.SampleRate, cfg.MasterVolume)
	if err != nil {
		return err
	}
	out, err := backend.New(cfg.Backend, cfg.Buffer)
	if err != nil {
		return err
	}

	hold := input.NewHoldSource(reg.Len(), cfg.InitialHold, cfg.RepeatHold)
	adapter := input.New(reg, rend, hold, cfg.PollInterval)

	if err := out.Start(rend); err != nil {
		return fmt.Errorf("start %s backend: %w", out.Name(), err)
	}
	log.Printf("audio: %s backend at %d Hz, buffer %v", out.Name(), cfg.SampleRate, cfg.Buffer)
	log.Printf("instrument: %s", inst.Name)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	var pollErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		pollErr = adapter.Run(ctx)
	}()

	uiErr := frontend(cfg.Frontend)(ui.NewControls(reg, rend, hold, keyboard.Layout))

	// Backend first so no callback is in flight, then fence the renderer,
	// then stop polling
	closeErr := out.Close()
	rend.Close()
	cancel()
	wg.Wait()
	log.Printf("shutdown after %d frames", rend.Samples())

	if closeErr != nil {
		closeErr = fmt.Errorf("close %s backend: %w", out.Name(), closeErr)
	}
	return errors.Join(uiErr, pollErr, closeErr)
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\r\npolysynth crashed: %v\r\n%s\r\n", r, debug.Stack())
			os.Exit(1)
		}
	}()

	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "polysynth: %v\n", err)
		os.Exit(2)
	}

	logFile, err := setupLogging(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "polysynth: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if err := ui.CheckTerminal(); err != nil {
		fmt.Fprintf(os.Stderr, "polysynth: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Printf("error: %v", err)
		fmt.Fprintf(os.Stderr, "polysynth: %v\n", err)
		os.Exit(1)
	}
}
