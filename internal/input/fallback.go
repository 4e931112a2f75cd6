//go:build darwin || linux || windows

package input

import (
	"context"
	"fmt"

	"golang.design/x/hotkey"
)

// FallbackSource registers a single system hotkey instead of observing the
// full input stream. It only ever emits key-down and key-up events for the
// registered combination, which is enough for the keyboard-hold strategy
// when the global hook is unavailable or denied.
type FallbackSource struct {
	baseSource
	combo Hotkey
	hk    *hotkey.Hotkey
	stop  chan struct{}
}

// NewFallbackSource creates a source for the given combination.
func NewFallbackSource(combo Hotkey) *FallbackSource {
	return &FallbackSource{combo: combo, stop: make(chan struct{})}
}

// Available reports whether hotkey registration works here.
func (f *FallbackSource) Available() (bool, string) {
	return true, "registered system hotkey (hold combination only)"
}

// Start registers the hotkey and begins synthesizing events.
func (f *FallbackSource) Start(ctx context.Context) error {
	if f.isRunning() {
		return ErrAlreadyRunning
	}
	hk := hotkey.New(fallbackMods(f.combo.Mods), hotkey.Key(f.combo.Code))
	if err := hk.Register(); err != nil {
		return fmt.Errorf("%w: register hotkey: %v", ErrNotAvailable, err)
	}
	f.hk = hk
	f.setRunning(true)
	go f.run(ctx)
	return nil
}

func (f *FallbackSource) run(ctx context.Context) {
	out := f.events()
	defer close(out)
	defer f.hk.Unregister()
	for {
		select {
		case <-ctx.Done():
			return
		case <-f.stop:
			return
		case <-f.hk.Keydown():
			out <- Event{Kind: KindKeyDown, Code: f.combo.Code, Mods: f.combo.Mods, Time: Now()}
		}
		select {
		case <-ctx.Done():
			return
		case <-f.stop:
			return
		case <-f.hk.Keyup():
			out <- Event{Kind: KindKeyUp, Code: f.combo.Code, Mods: f.combo.Mods, Time: Now()}
		}
	}
}

// Stop unregisters the hotkey and ends the stream.
func (f *FallbackSource) Stop() error {
	if !f.isRunning() {
		return nil
	}
	f.setRunning(false)
	close(f.stop)
	return nil
}
