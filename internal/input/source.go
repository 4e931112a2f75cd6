package input

import (
	"context"
	"errors"
	"sync"
)

// Source delivers normalized input events from some observation mechanism.
type Source interface {
	// Start begins event delivery. It fails once, up front, if the
	// platform facility cannot be opened (missing permission); there are
	// no per-event errors after a successful Start.
	Start(ctx context.Context) error

	// Stop ends delivery and closes the event channel.
	Stop() error

	// Events returns the normalized event stream. Events are delivered
	// serially in timestamp order.
	Events() <-chan Event

	// Available reports whether this source can run on the current
	// platform with current permissions, with a human-readable note.
	Available() (bool, string)
}

// ErrNotAvailable is returned when global input observation isn't available.
var ErrNotAvailable = errors.New("global input observation not available on this platform")

// ErrPermissionDenied is returned when the OS has not granted the
// observation permission.
var ErrPermissionDenied = errors.New("insufficient permissions for global input observation")

// ErrAlreadyRunning is returned when Start is called while already running.
var ErrAlreadyRunning = errors.New("input source already running")

// eventBuffer absorbs short bursts so the platform callback never blocks.
const eventBuffer = 64

// baseSource provides the running flag and output channel shared by
// source implementations.
type baseSource struct {
	mu      sync.Mutex
	running bool
	out     chan Event
}

func (b *baseSource) Events() <-chan Event {
	return b.events()
}

func (b *baseSource) events() chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.out == nil {
		b.out = make(chan Event, eventBuffer)
	}
	return b.out
}

func (b *baseSource) setRunning(running bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.running = running
}

func (b *baseSource) isRunning() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

// SimulatedSource is a source for tests that doesn't hook real input.
type SimulatedSource struct {
	baseSource
}

// NewSimulated creates a source for testing.
func NewSimulated() *SimulatedSource {
	return &SimulatedSource{}
}

// Start begins the simulated source.
func (s *SimulatedSource) Start(ctx context.Context) error {
	if s.isRunning() {
		return ErrAlreadyRunning
	}
	s.events()
	s.setRunning(true)
	return nil
}

// Stop stops the simulated source and closes the event channel.
func (s *SimulatedSource) Stop() error {
	if !s.isRunning() {
		return nil
	}
	s.setRunning(false)
	close(s.events())
	return nil
}

// Inject delivers an event as if the platform had observed it.
func (s *SimulatedSource) Inject(ev Event) {
	if s.isRunning() {
		s.events() <- ev
	}
}

// Available returns true (simulated is always available).
func (s *SimulatedSource) Available() (bool, string) {
	return true, "simulated input source (for testing)"
}
