package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxtyped/internal/config"
	"voxtyped/internal/logging"
	"voxtyped/internal/store"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("VOXTYPED_DATABASE_PATH", filepath.Join(dir, "voxtyped.db"))
	t.Setenv("VOXTYPED_DATA_DIR", dir)

	loader := config.NewLoader(filepath.Join(dir, "config.toml"))
	_, err := loader.Load()
	require.NoError(t, err)

	a, err := New(loader, logging.Default())
	require.NoError(t, err)
	t.Cleanup(func() { a.store.Close() })
	return a
}

func TestStatusIdle(t *testing.T) {
	a := newTestApp(t)

	st := a.Status()
	assert.False(t, st.Recording)
	assert.Equal(t, config.ModeModifierDoubleTap, st.Mode)
	assert.Zero(t, st.Transcriptions)
}

func TestHistoryRoundTrip(t *testing.T) {
	a := newTestApp(t)

	for i, text := range []string{"first note", "second note"} {
		_, err := a.store.InsertTranscription(&store.Transcription{
			CreatedNs: time.Now().UnixNano() + int64(i),
			Mode:      config.ModeModifierDoubleTap,
			Model:     "fast",
			Text:      text,
		})
		require.NoError(t, err)
	}

	entries, err := a.History(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second note", entries[0].Text)

	entries, err = a.History(1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestToggleBeforeRunFails(t *testing.T) {
	a := newTestApp(t)

	// Without a running engine loop there is nothing to toggle.
	_, err := a.Toggle()
	assert.Error(t, err)
}

func TestCancelWithoutRecording(t *testing.T) {
	a := newTestApp(t)
	assert.Error(t, a.Cancel())
}

func TestReloadKeepsRunningOnStableConfig(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Reload())

	st := a.Status()
	assert.Equal(t, config.ModeModifierDoubleTap, st.Mode)
}

func TestSelectSourceRejectsFallbackForDoubleTap(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Hotkey.Mode = config.ModeModifierDoubleTap
	cfg.Hotkey.UseFallback = true

	// UseFallback is only honored for keyboard hold; double tap still
	// gets the hook when it is available.
	src, name, err := selectSource(cfg)
	if err != nil {
		t.Skipf("no input source on this platform: %v", err)
	}
	assert.Equal(t, "hook", name)
	assert.NotNil(t, src)
}
