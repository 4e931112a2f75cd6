package recorder

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateRecording, "recording"},
		{StateStopping, "stopping"},
		{StateCanceled, "canceled"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestStopWhileIdle(t *testing.T) {
	r := New(Options{})
	if _, err := r.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("Stop on idle recorder = %v, want ErrNotRecording", err)
	}
	if _, err := r.Cancel(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("Cancel on idle recorder = %v, want ErrNotRecording", err)
	}
}

func TestOptionDefaults(t *testing.T) {
	r := New(Options{})
	if r.opts.SampleRate != 16000 {
		t.Errorf("default sample rate = %d, want 16000", r.opts.SampleRate)
	}
	if r.opts.Channels != 1 {
		t.Errorf("default channels = %d, want 1", r.opts.Channels)
	}
	if r.opts.Logger == nil {
		t.Error("expected default logger")
	}
}

func TestTempWavPath(t *testing.T) {
	dir := t.TempDir()
	r := New(Options{TempDir: dir})

	path := r.tempWavPath()
	if filepath.Dir(path) != dir {
		t.Errorf("temp path %q not under %q", path, dir)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "voxtyped_") || !strings.HasSuffix(base, ".wav") {
		t.Errorf("unexpected temp file name %q", base)
	}

	// Names must be unique across captures.
	if r.tempWavPath() == path {
		t.Error("expected unique capture filenames")
	}
}
