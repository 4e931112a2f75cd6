// Package notify raises desktop notifications for dictation state
// changes. Only Linux has an implementation, over the
// org.freedesktop.Notifications D-Bus interface; other platforms are
// silent no-ops.
package notify

import "log/slog"

// Notifier shows desktop notifications.
type Notifier struct {
	enabled bool
	log     *slog.Logger
	send    func(title, body string) error
}

// New creates a Notifier. A disabled notifier swallows all calls.
func New(enabled bool, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{enabled: enabled, log: log, send: platformNotify}
}

// RecordingStarted announces that capture has begun.
func (n *Notifier) RecordingStarted() {
	n.show("Voxtyped", "Recording...")
}

// RecordingStopped announces that capture ended and transcription started.
func (n *Notifier) RecordingStopped() {
	n.show("Voxtyped", "Transcribing...")
}

// Delivered announces that text was pasted.
func (n *Notifier) Delivered() {
	n.show("Voxtyped", "Text inserted")
}

// Failed announces a pipeline failure. The caller supplies the complete
// message; nothing is prefixed onto it.
func (n *Notifier) Failed(reason string) {
	n.show("Voxtyped", reason)
}

func (n *Notifier) show(title, body string) {
	if !n.enabled {
		return
	}
	if err := n.send(title, body); err != nil {
		n.log.Debug("notification failed", "error", err)
	}
}
