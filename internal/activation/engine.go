package activation

import (
	"context"
	"log/slog"
	"time"

	"voxtyped/internal/input"
)

// Engine owns the active configuration and the idle/recording phase, routes
// each normalized event to the resolver for the active mode, and is the
// only component that invokes the external start/stop callbacks.
//
// All state is touched from a single event-delivery context: HandleEvent,
// Tick and Reconfigure must be called from one goroutine (Run arranges
// this). Callbacks are dispatched fire-and-forget so the event path never
// blocks; delaying here risks delaying global input system-wide.
type Engine struct {
	cfg       Config
	recording bool
	state     modeState

	onStart  func()
	onStop   func()
	dispatch func(func())
	log      *slog.Logger

	reconfig chan Config
	toggle   chan chan bool
}

// Per-mode bookkeeping lives in an independent variant per mode, selected
// by the active configuration. Switching modes discards the old variant
// outright, so no stale state can leak between strategies.
type modeState interface{ mode() Mode }

type keyHoldState struct {
	// pressed tracks whether a matching press has been seen and not yet
	// released; release-side events consult it, not the live mask.
	pressed bool
}

type doubleTapState struct {
	toggle *DoubleTapToggle
}

type pointerHoldState struct {
	hold *PointerHold
}

func (*keyHoldState) mode() Mode     { return ModeKeyboardHold }
func (*doubleTapState) mode() Mode   { return ModeModifierDoubleTap }
func (*pointerHoldState) mode() Mode { return ModePointerHold }

// Option customizes an Engine.
type Option func(*Engine)

// WithDispatcher replaces the default go-routine dispatch of callbacks.
// Tests use a synchronous dispatcher.
func WithDispatcher(d func(func())) Option {
	return func(e *Engine) { e.dispatch = d }
}

// WithLogger sets the engine logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine creates an engine in the idle phase. onStart and onStop are the
// recording pipeline's notifications; the engine guarantees they strictly
// alternate, starting with onStart.
func NewEngine(cfg Config, onStart, onStop func(), opts ...Option) *Engine {
	e := &Engine{
		onStart:  onStart,
		onStop:   onStop,
		dispatch: func(fn func()) { go fn() },
		log:      slog.Default(),
		reconfig: make(chan Config, 1),
		toggle:   make(chan chan bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Reconfigure(cfg)
	return e
}

// Recording reports the current phase.
func (e *Engine) Recording() bool {
	return e.recording
}

// Config returns the active (normalized) configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Reconfigure installs a new configuration, discarding in-flight detector
// state and forcing the phase back to idle without a spurious stop.
func (e *Engine) Reconfigure(cfg Config) {
	e.cfg = cfg.Normalized()
	e.recording = false
	e.resetDetectors()
	e.log.Debug("activation reconfigured", "mode", e.cfg.Mode.String())
}

// resetDetectors builds fresh per-mode state for the active mode.
func (e *Engine) resetDetectors() {
	switch e.cfg.Mode {
	case ModeModifierDoubleTap:
		e.state = &doubleTapState{
			toggle: NewDoubleTapToggle(e.cfg.TapWindow, e.start, e.stop),
		}
	case ModePointerHold:
		e.state = &pointerHoldState{hold: NewPointerHold(e.cfg.IdleTimeout)}
	default:
		e.state = &keyHoldState{}
	}
}

// HandleEvent classifies one normalized event.
func (e *Engine) HandleEvent(ev input.Event) {
	switch st := e.state.(type) {
	case *keyHoldState:
		e.handleKeyHold(st, ev)
	case *doubleTapState:
		e.handleDoubleTap(st, ev)
	case *pointerHoldState:
		e.handlePointerHold(st, ev)
	}
}

func (e *Engine) handleKeyHold(st *keyHoldState, ev input.Event) {
	keyDownMatch := ev.Kind == input.KindKeyDown &&
		ev.Code == e.cfg.HoldKey &&
		ev.Mods.Contains(e.cfg.HoldMods)
	keyUpMatch := ev.Code == e.cfg.HoldKey
	modifierStillHeld := ev.Mods.Contains(e.cfg.HoldMods)

	tr := ResolveKeyHold(ev.Kind, true, keyDownMatch, keyUpMatch, st.pressed, modifierStillHeld)
	switch tr {
	case TransitionStart:
		st.pressed = true
	case TransitionStop:
		st.pressed = false
	}
	e.apply(tr)
}

func (e *Engine) handleDoubleTap(st *doubleTapState, ev input.Event) {
	switch ev.Kind {
	case input.KindModifierChange:
		if ev.Code == e.cfg.TapCode {
			bit := input.ModifierForCode(ev.Code)
			if ev.IsRepeat || ev.Mods.Has(bit) {
				// Press edge (or a repeat, which the toggle discards).
				st.toggle.RegisterTap(ev.Time, e.recording, ev.IsRepeat)
			}
			return
		}
		// A different modifier going down is foreign input mid-sequence.
		if ev.Mods.Has(input.ModifierForCode(ev.Code)) {
			st.toggle.ResetSequence()
		}
	case input.KindKeyDown:
		st.toggle.ResetSequence()
	}
}

func (e *Engine) handlePointerHold(st *pointerHoldState, ev input.Event) {
	if ev.Kind != input.KindPointerScroll {
		return
	}
	if ev.Code != e.cfg.ScrollCode || !ev.Mods.Contains(e.cfg.ScrollMods) {
		// Non-qualifying events neither extend nor break the hold.
		return
	}
	e.apply(st.hold.OnEvent(ev.Time))
}

// Tick drives the pointer-hold idle check. It runs on the same context as
// event handling; in other modes it is a no-op.
func (e *Engine) Tick(now float64) {
	if st, ok := e.state.(*pointerHoldState); ok {
		e.apply(st.hold.CheckIdle(now))
	}
}

func (e *Engine) apply(tr Transition) {
	switch tr {
	case TransitionStart:
		e.start()
	case TransitionStop:
		e.stop()
	}
}

// start and stop enforce the alternation invariant: a redundant start while
// recording, or stop while idle, is swallowed here no matter which resolver
// produced it.
func (e *Engine) start() {
	if e.recording {
		return
	}
	e.recording = true
	e.log.Debug("activation transition", "transition", "start")
	if e.onStart != nil {
		e.dispatch(e.onStart)
	}
}

func (e *Engine) stop() {
	if !e.recording {
		return
	}
	e.recording = false
	e.log.Debug("activation transition", "transition", "stop")
	if e.onStop != nil {
		e.dispatch(e.onStop)
	}
}

// SetConfig requests a reconfiguration from outside the event context. Safe
// to call concurrently with Run; the newest configuration wins.
func (e *Engine) SetConfig(cfg Config) {
	for {
		select {
		case e.reconfig <- cfg:
			return
		default:
			select {
			case <-e.reconfig:
			default:
			}
		}
	}
}

// Toggle asks the run loop to flip the recording phase, exactly as if the
// active gesture had fired, and reports the resulting phase. It blocks
// until the loop services the request or ctx is done; Run must be active.
func (e *Engine) Toggle(ctx context.Context) (bool, error) {
	reply := make(chan bool, 1)
	select {
	case e.toggle <- reply:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case recording := <-reply:
		return recording, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// forceToggle flips the phase from outside the gesture stream, then
// rebuilds detector state so a half-completed gesture cannot fire against
// the new phase. Runs on the event context.
func (e *Engine) forceToggle() bool {
	if e.recording {
		e.stop()
	} else {
		e.start()
	}
	e.resetDetectors()
	return e.recording
}

// Run consumes the event stream until ctx is canceled or the stream closes.
// Events and the pointer-hold idle tick are serviced on this one goroutine,
// so detector state needs no locking.
func (e *Engine) Run(ctx context.Context, events <-chan input.Event) error {
	tick := time.NewTicker(e.tickDuration())
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cfg := <-e.reconfig:
			e.Reconfigure(cfg)
			tick.Reset(e.tickDuration())
		case reply := <-e.toggle:
			reply <- e.forceToggle()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			e.HandleEvent(ev)
		case <-tick.C:
			e.Tick(input.Now())
		}
	}
}

func (e *Engine) tickDuration() time.Duration {
	return time.Duration(e.cfg.TickInterval * float64(time.Second))
}
