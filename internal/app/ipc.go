package app

import (
	"errors"
	"time"

	"voxtyped/internal/ipc"
)

// defaultHistoryLimit bounds history replies when the client does not
// give one.
const defaultHistoryLimit = 20

// Status implements ipc.Handler.
func (a *App) Status() ipc.Status {
	cfg := a.currentConfig()

	count, err := a.store.CountTranscriptions()
	if err != nil {
		a.log.Warn("history count failed", "error", err)
	}

	a.mu.Lock()
	recording := a.rec != nil
	a.mu.Unlock()

	return ipc.Status{
		Mode:           cfg.Hotkey.Mode,
		Recording:      recording,
		Source:         a.srcName,
		UptimeSeconds:  int64(time.Since(a.startedAt).Seconds()),
		Transcriptions: count,
	}
}

// Toggle implements ipc.Handler. The flip is routed through the engine's
// run loop so its phase stays in step with the recorder, and the next
// hotkey gesture keeps its usual meaning.
func (a *App) Toggle() (ipc.Status, error) {
	if a.ctx == nil {
		return ipc.Status{}, errors.New("daemon not running")
	}

	recording, err := a.engine.Toggle(a.ctx)
	if err != nil {
		return ipc.Status{}, err
	}

	// The engine dispatches callbacks asynchronously, so report its phase
	// rather than the recorder's.
	st := a.Status()
	st.Recording = recording
	return st, nil
}

// Cancel implements ipc.Handler. The in-flight recording is discarded
// without transcription.
func (a *App) Cancel() error {
	a.mu.Lock()
	rec := a.rec
	a.rec = nil
	a.mu.Unlock()
	if rec == nil {
		return errors.New("not recording")
	}

	if _, err := rec.Cancel(); err != nil {
		return err
	}
	a.log.Info("recording canceled")
	return nil
}

// Reload implements ipc.Handler by forcing a config re-read outside the
// file watcher.
func (a *App) Reload() error {
	cfg, err := a.loader.Load()
	if err != nil {
		return err
	}
	a.onConfigChange(cfg)
	return nil
}

// History implements ipc.Handler.
func (a *App) History(limit int) ([]ipc.HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	rows, err := a.store.RecentTranscriptions(limit)
	if err != nil {
		return nil, err
	}
	entries := make([]ipc.HistoryEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, ipc.HistoryEntry{
			ID:         r.ID,
			CreatedNs:  r.CreatedNs,
			Mode:       r.Mode,
			Model:      r.Model,
			DurationMs: r.DurationMs,
			Text:       r.Text,
		})
	}
	return entries, nil
}
