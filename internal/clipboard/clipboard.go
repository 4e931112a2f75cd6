// Package clipboard delivers transcribed text into the focused
// application by staging it on the system clipboard and synthesizing a
// paste keystroke.
package clipboard

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
)

// Options configures a Deliverer.
type Options struct {
	// RestoreOriginal puts the prior clipboard contents back after the
	// paste keystroke has been consumed.
	RestoreOriginal bool

	// RestoreDelay is how long to wait before restoring.
	RestoreDelay time.Duration

	// Logger receives delivery events.
	Logger *slog.Logger
}

// Deliverer pastes text into the focused application.
type Deliverer struct {
	opts Options
	log  *slog.Logger
}

// New creates a Deliverer.
func New(opts Options) *Deliverer {
	if opts.RestoreDelay <= 0 {
		opts.RestoreDelay = 300 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Deliverer{opts: opts, log: opts.Logger}
}

// Deliver stages text on the clipboard and sends the paste keystroke.
// The previous clipboard contents are restored afterwards when
// configured, after the restore delay has passed.
func (d *Deliverer) Deliver(text string) error {
	if text == "" {
		return nil
	}

	var orig string
	var hadOrig bool
	if d.opts.RestoreOriginal {
		if prev, err := clipboard.ReadAll(); err == nil {
			orig = prev
			hadOrig = true
		}
	}

	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}

	// Give the clipboard owner change time to settle before pasting.
	time.Sleep(80 * time.Millisecond)

	if err := sendPaste(); err != nil {
		d.log.Warn("paste keystroke failed, text left on clipboard", "error", err)
		return nil
	}

	if hadOrig {
		time.Sleep(d.opts.RestoreDelay)
		if err := clipboard.WriteAll(orig); err != nil {
			d.log.Warn("clipboard restore failed", "error", err)
		}
	}

	d.log.Debug("text delivered", "length", len(text))
	return nil
}

// Copy places text on the clipboard without pasting.
func (d *Deliverer) Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}
