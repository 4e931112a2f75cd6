// Package recorder captures microphone audio through PortAudio and writes
// it to a temporary WAV file while the dictation session is live.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"
	"github.com/gordonklaus/portaudio"
)

// ErrNotIdle is returned when Start is called on a busy recorder.
var ErrNotIdle = errors.New("recorder not idle")

// ErrNotRecording is returned when Stop or Cancel is called while idle.
var ErrNotRecording = errors.New("recorder not running")

// State represents recorder state.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateStopping
	StateCanceled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateStopping:
		return "stopping"
	case StateCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Result is returned when a recording completes or is canceled.
type Result struct {
	// WavPath is the finished recording, empty when canceled.
	WavPath string

	// Duration is the wall-clock length of the capture.
	Duration time.Duration

	// Canceled reports that the recording was discarded.
	Canceled bool

	// Err is the terminal error, if the capture failed.
	Err error
}

// Options configures a Recorder.
type Options struct {
	// SampleRate in Hz. Speech models generally want 16000.
	SampleRate int

	// Channels is the number of capture channels.
	Channels int

	// TempDir is where in-flight WAV files are written.
	TempDir string

	// Logger receives capture lifecycle events.
	Logger *slog.Logger
}

// Recorder manages PortAudio capture and streaming WAV writing.
// One capture at a time; Start while busy returns ErrNotIdle.
type Recorder struct {
	mu         sync.Mutex
	state      State
	opts       Options
	started    time.Time
	stopCtx    context.Context
	stopCancel context.CancelFunc
	done       chan Result
}

// New creates a recorder.
func New(opts Options) *Recorder {
	if opts.SampleRate <= 0 {
		opts.SampleRate = 16000
	}
	if opts.Channels <= 0 {
		opts.Channels = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Recorder{opts: opts, state: StateIdle}
}

// Start begins capturing in the background.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state != StateIdle {
		r.mu.Unlock()
		return ErrNotIdle
	}
	r.state = StateRecording
	r.started = time.Now()
	r.done = make(chan Result, 1)
	r.stopCtx, r.stopCancel = context.WithCancel(ctx)
	r.mu.Unlock()

	go r.captureLoop()
	return nil
}

// Stop requests a clean stop and waits for the finished WAV.
func (r *Recorder) Stop() (Result, error) {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return Result{}, ErrNotRecording
	}
	r.state = StateStopping
	cancel := r.stopCancel
	done := r.done
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	res := <-done
	return res, res.Err
}

// Cancel stops capturing and discards the recording.
func (r *Recorder) Cancel() (Result, error) {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return Result{}, ErrNotRecording
	}
	r.state = StateCanceled
	cancel := r.stopCancel
	done := r.done
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	res := <-done
	return res, res.Err
}

// State returns the current recorder state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Recorder) captureLoop() {
	wavPath := r.tempWavPath()
	log := r.opts.Logger

	log.Debug("capture starting", "path", wavPath, "sample_rate", r.opts.SampleRate)

	if err := portaudio.Initialize(); err != nil {
		r.finish(Result{Err: fmt.Errorf("portaudio init: %w", err)})
		return
	}
	defer portaudio.Terminate()

	in := make([]int16, 1024)
	stream, err := portaudio.OpenDefaultStream(r.opts.Channels, 0, float64(r.opts.SampleRate), len(in), in)
	if err != nil {
		r.finish(Result{Err: fmt.Errorf("open capture stream: %w", err)})
		return
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		r.finish(Result{Err: fmt.Errorf("start capture stream: %w", err)})
		return
	}

	file, err := os.Create(wavPath)
	if err != nil {
		stream.Stop()
		stream.Close()
		r.finish(Result{Err: fmt.Errorf("create wav: %w", err)})
		return
	}
	enc := wav.NewEncoder(file, r.opts.SampleRate, 16, r.opts.Channels, 1)
	format := &audio.Format{NumChannels: r.opts.Channels, SampleRate: r.opts.SampleRate}
	intBuf := make([]int, len(in))

loop:
	for {
		select {
		case <-r.stopCtx.Done():
			break loop
		default:
		}

		if err := stream.Read(); err != nil {
			log.Debug("capture read error", "error", err)
			continue
		}
		for i, v := range in {
			intBuf[i] = int(v)
		}
		buf := &audio.IntBuffer{Format: format, Data: intBuf, SourceBitDepth: 16}
		if err := enc.Write(buf); err != nil {
			enc.Close()
			file.Close()
			stream.Stop()
			stream.Close()
			os.Remove(wavPath)
			r.finish(Result{Err: fmt.Errorf("wav write: %w", err)})
			return
		}
	}

	stream.Stop()
	stream.Close()
	duration := time.Since(r.started)

	if r.isCanceled() {
		enc.Close()
		file.Close()
		os.Remove(wavPath)
		log.Debug("capture canceled", "duration_ms", duration.Milliseconds())
		r.finish(Result{Duration: duration, Canceled: true})
		return
	}

	if err := enc.Close(); err != nil {
		file.Close()
		os.Remove(wavPath)
		r.finish(Result{Err: fmt.Errorf("wav finalize: %w", err)})
		return
	}
	file.Close()

	log.Debug("capture finished", "path", wavPath, "duration_ms", duration.Milliseconds())
	r.finish(Result{WavPath: wavPath, Duration: duration})
}

func (r *Recorder) finish(res Result) {
	r.mu.Lock()
	r.state = StateIdle
	r.mu.Unlock()
	r.done <- res
}

func (r *Recorder) isCanceled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == StateCanceled
}

func (r *Recorder) tempWavPath() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	dir := r.opts.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, fmt.Sprintf("voxtyped_%s.wav", id))
}
