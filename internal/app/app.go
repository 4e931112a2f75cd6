// Package app wires the dictation pipeline together: global input feeds
// the activation engine, which drives the recorder; finished recordings
// flow through transcription, dictionary replacement and clipboard
// delivery, and land in history.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"voxtyped/internal/activation"
	"voxtyped/internal/clipboard"
	"voxtyped/internal/config"
	"voxtyped/internal/dictionary"
	"voxtyped/internal/input"
	"voxtyped/internal/ipc"
	"voxtyped/internal/logging"
	"voxtyped/internal/notify"
	"voxtyped/internal/recorder"
	"voxtyped/internal/store"
	"voxtyped/internal/transcribe"
)

// App is the voxtyped daemon.
type App struct {
	loader *config.Loader
	log    *logging.Logger

	engine   *activation.Engine
	source   input.Source
	srcName  string
	store    *store.Store
	dict     *dictionary.Dictionary
	notifier *notify.Notifier
	ipcSrv   *ipc.Server

	// client and deliver are rebuilt on config reload.
	mu        sync.Mutex
	cfg       *config.Config
	client    *transcribe.Client
	deliver   *clipboard.Deliverer
	rec       *recorder.Recorder
	startedAt time.Time

	ctx context.Context
	wg  sync.WaitGroup
}

// New assembles the daemon from a loaded configuration.
func New(loader *config.Loader, log *logging.Logger) (*App, error) {
	cfg := loader.Config()
	if cfg == nil {
		return nil, errors.New("app: configuration not loaded")
	}

	a := &App{
		loader:    loader,
		log:       log,
		cfg:       cfg,
		dict:      dictionary.New(),
		notifier:  notify.New(cfg.Notify.Enabled, log.WithComponent("notify").Logger),
		startedAt: time.Now(),
	}
	a.rebuildPipeline(cfg)

	st, err := store.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("app: open store: %w", err)
	}
	a.store = st

	if cfg.Dictionary.Enabled {
		if err := a.loadDictionary(cfg); err != nil {
			log.Warn("dictionary load failed", "error", err)
		}
	}

	actCfg, err := cfg.Hotkey.Activation()
	if err != nil {
		st.Close()
		return nil, err
	}
	a.engine = activation.NewEngine(actCfg, a.onActivate, a.onDeactivate,
		activation.WithLogger(log.WithComponent("activation").Logger))

	return a, nil
}

// rebuildPipeline refreshes the components that depend only on config
// values, not on open resources.
func (a *App) rebuildPipeline(cfg *config.Config) {
	a.client = transcribe.New(transcribe.Options{
		BaseURL:      cfg.Server.BaseURL,
		Token:        cfg.Server.Token,
		Model:        cfg.Server.Model,
		VADThreshold: cfg.Server.VADThreshold,
		Timeout:      time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		MaxRetries:   cfg.Server.MaxRetries,
		Logger:       a.log.WithComponent("transcribe").Logger,
	})
	a.deliver = clipboard.New(clipboard.Options{
		RestoreOriginal: cfg.Clipboard.RestoreOriginal,
		RestoreDelay:    time.Duration(cfg.Clipboard.RestoreDelayMs) * time.Millisecond,
		Logger:          a.log.WithComponent("clipboard").Logger,
	})
}

// loadDictionary fills the in-memory dictionary from the database plus
// any configured import files. Import files seed the global scope;
// entries a user has saved take precedence over them.
func (a *App) loadDictionary(cfg *config.Config) error {
	for _, scope := range []dictionary.Scope{dictionary.ScopeUser, dictionary.ScopeGlobal} {
		rows, err := a.store.DictionaryEntries(scope.String())
		if err != nil {
			return err
		}
		entries := make([]dictionary.Entry, 0, len(rows))
		for _, r := range rows {
			entries = append(entries, dictionary.Entry{Pattern: r.Pattern, Replacement: r.Replacement})
		}
		a.dict.Replace(scope, entries)
	}

	for _, path := range cfg.Dictionary.ImportPaths {
		n, err := a.dict.ImportFile(path, dictionary.ScopeGlobal)
		if err != nil {
			a.log.Warn("dictionary import failed", "path", path, "error", err)
			continue
		}
		a.log.Info("dictionary imported", "path", path, "entries", n)
	}
	return nil
}

// Run starts the input source, the activation loop, config watching and
// the IPC server, then blocks until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	a.ctx = ctx
	cfg := a.currentConfig()

	src, name, err := selectSource(cfg)
	if err != nil {
		return err
	}
	a.source = src
	a.srcName = name

	if err := src.Start(ctx); err != nil {
		if errors.Is(err, input.ErrPermissionDenied) {
			return fmt.Errorf("%w; grant accessibility or input monitoring permission and restart", err)
		}
		return fmt.Errorf("app: start input source: %w", err)
	}
	a.log.Info("input source started", "source", name, "mode", cfg.Hotkey.Mode)

	if cfg.IPC.Enabled && cfg.IPC.SocketPath != "" {
		srv := ipc.NewServer(cfg.IPC.SocketPath, a, a.log)
		if err := srv.Start(ctx); err != nil {
			a.log.Warn("ipc server unavailable", "error", err)
		} else {
			a.ipcSrv = srv
		}
	}

	a.loader.OnChange(a.onConfigChange)
	if err := a.loader.Watch(); err != nil {
		a.log.Warn("config watch unavailable", "error", err)
	}

	err = a.engine.Run(ctx, src.Events())
	a.shutdown()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) shutdown() {
	a.source.Stop()
	if a.ipcSrv != nil {
		a.ipcSrv.Close()
	}

	a.mu.Lock()
	rec := a.rec
	a.rec = nil
	a.mu.Unlock()
	if rec != nil {
		if res, err := rec.Cancel(); err == nil && res.WavPath != "" {
			os.Remove(res.WavPath)
		}
	}

	a.wg.Wait()
	if err := a.store.Close(); err != nil {
		a.log.Warn("store close failed", "error", err)
	}
	a.log.Info("daemon stopped")
}

// selectSource picks the global hook when it is usable, otherwise the
// registered-hotkey fallback. The fallback only reports a single
// combination, so it is limited to the keyboard hold mode.
func selectSource(cfg *config.Config) (input.Source, string, error) {
	hook := input.NewHookSource()
	if ok, _ := hook.Available(); ok && !cfg.Hotkey.UseFallback {
		return hook, "hook", nil
	}

	if cfg.Hotkey.Mode != config.ModeKeyboardHold {
		if ok, reason := hook.Available(); !ok {
			return nil, "", fmt.Errorf("app: mode %s needs global input observation: %s", cfg.Hotkey.Mode, reason)
		}
		return hook, "hook", nil
	}

	combo, err := input.ParseHotkey(cfg.Hotkey.Key)
	if err != nil {
		return nil, "", err
	}
	fb := input.NewFallbackSource(combo)
	if ok, reason := fb.Available(); !ok {
		return nil, "", fmt.Errorf("app: no usable input source: %s", reason)
	}
	return fb, "fallback", nil
}

func (a *App) currentConfig() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

func (a *App) onConfigChange(cfg *config.Config) {
	actCfg, err := cfg.Hotkey.Activation()
	if err != nil {
		a.log.Warn("reloaded hotkey config rejected", "error", err)
		return
	}

	a.mu.Lock()
	a.cfg = cfg
	a.rebuildPipeline(cfg)
	a.mu.Unlock()

	// Reconfiguring forces the engine idle, so finish any live session
	// first rather than orphaning the recorder.
	a.onDeactivate()

	a.engine.SetConfig(actCfg)
	a.log.Info("configuration reloaded", "mode", cfg.Hotkey.Mode)
}

// onActivate begins a capture session. Called from the engine's
// dispatcher goroutine.
func (a *App) onActivate() {
	cfg := a.currentConfig()

	a.mu.Lock()
	if a.rec != nil {
		a.mu.Unlock()
		return
	}
	rec := recorder.New(recorder.Options{
		SampleRate: cfg.Audio.SampleRate,
		Channels:   cfg.Audio.Channels,
		TempDir:    cfg.Audio.TempDir,
		Logger:     a.log.WithComponent("recorder").Logger,
	})
	a.rec = rec
	a.mu.Unlock()

	if err := rec.Start(a.ctx); err != nil {
		a.mu.Lock()
		a.rec = nil
		a.mu.Unlock()
		a.log.Error("recording start failed", "error", err)
		a.notifier.Failed("Could not start recording")
		return
	}
	a.notifier.RecordingStarted()
}

// onDeactivate ends the capture session and hands the result to the
// processing pipeline.
func (a *App) onDeactivate() {
	a.mu.Lock()
	rec := a.rec
	a.rec = nil
	a.mu.Unlock()
	if rec == nil {
		return
	}

	res, err := rec.Stop()
	if err != nil {
		a.log.Error("recording stop failed", "error", err)
		return
	}
	a.notifier.RecordingStopped()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.process(res)
	}()
}

// process transcribes a finished recording, applies the dictionary,
// delivers the text and persists the result.
func (a *App) process(res recorder.Result) {
	if res.Err != nil {
		a.log.Error("recording failed", "error", res.Err)
		a.notifier.Failed("Recording failed")
		return
	}
	if res.Canceled || res.WavPath == "" {
		return
	}

	cfg := a.currentConfig()
	a.mu.Lock()
	client := a.client
	deliver := a.deliver
	a.mu.Unlock()

	defer a.finishAudio(cfg, res.WavPath)

	resp, err := client.Transcribe(a.ctx, res.WavPath)
	if err != nil {
		if errors.Is(err, transcribe.ErrNoSpeech) {
			a.log.Info("no speech detected", "duration", res.Duration)
			a.notifier.Failed("No speech detected")
			return
		}
		a.log.Error("transcription failed", "error", err)
		a.notifier.Failed("Transcription failed")
		return
	}

	text := resp.Text
	if cfg.Dictionary.Enabled {
		text = a.dict.Apply(text)
	}

	if err := deliver.Deliver(text); err != nil {
		a.log.Error("delivery failed", "error", err)
		a.notifier.Failed("Could not insert text")
	} else {
		a.notifier.Delivered()
	}

	a.persist(cfg, res, resp, text)
}

func (a *App) persist(cfg *config.Config, res recorder.Result, resp transcribe.Response, text string) {
	row := &store.Transcription{
		CreatedNs:  time.Now().UnixNano(),
		Mode:       cfg.Hotkey.Mode,
		Model:      cfg.Server.Model,
		DurationMs: res.Duration.Milliseconds(),
		RawText:    resp.RawText,
		Text:       text,
	}
	if cfg.Storage.KeepAudio {
		row.AudioPath = a.archivedAudioPath(cfg, res.WavPath)
	}
	if _, err := a.store.InsertTranscription(row); err != nil {
		a.log.Warn("history insert failed", "error", err)
		return
	}
	if _, err := a.store.PruneHistory(cfg.Storage.HistoryLimit); err != nil {
		a.log.Warn("history prune failed", "error", err)
	}
}

// finishAudio archives or deletes the temp WAV once processing is done.
func (a *App) finishAudio(cfg *config.Config, wavPath string) {
	if !cfg.Storage.KeepAudio {
		os.Remove(wavPath)
		return
	}
	dst := a.archivedAudioPath(cfg, wavPath)
	if dst == wavPath {
		return
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o700); err != nil {
		a.log.Warn("audio archive failed", "error", err)
		return
	}
	if err := os.Rename(wavPath, dst); err != nil {
		a.log.Warn("audio archive failed", "error", err)
	}
}

func (a *App) archivedAudioPath(cfg *config.Config, wavPath string) string {
	if cfg.Storage.AudioDir == "" {
		return wavPath
	}
	return filepath.Join(cfg.Storage.AudioDir, filepath.Base(wavPath))
}
