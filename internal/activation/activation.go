// Package activation classifies the normalized global input stream into
// start-recording / stop-recording / no-op decisions.
//
// Three mutually exclusive strategies are supported: hold a key combination,
// double-tap a modifier, or hold a pointer scroll gesture. The package
// tolerates the event-ordering anomalies real platforms produce: a modifier
// released before its paired key, key auto-repeat, partial modifier
// combinations, and foreign keystrokes interleaved mid-sequence.
package activation

import "voxtyped/internal/input"

// Transition is the engine's decision for one input event.
type Transition int

const (
	// TransitionNone leaves the recording phase unchanged.
	TransitionNone Transition = iota
	// TransitionStart begins recording. Only ever emitted from idle.
	TransitionStart
	// TransitionStop ends recording. Only ever emitted while recording.
	TransitionStop
)

func (t Transition) String() string {
	switch t {
	case TransitionStart:
		return "start"
	case TransitionStop:
		return "stop"
	default:
		return "none"
	}
}

// Mode selects the active strategy.
type Mode int

const (
	// ModeKeyboardHold records while a key combination is held down.
	ModeKeyboardHold Mode = iota
	// ModeModifierDoubleTap toggles recording on a modifier double-tap.
	ModeModifierDoubleTap
	// ModePointerHold records while a qualifying scroll gesture continues.
	ModePointerHold
)

func (m Mode) String() string {
	switch m {
	case ModeKeyboardHold:
		return "keyboard-hold"
	case ModeModifierDoubleTap:
		return "modifier-double-tap"
	case ModePointerHold:
		return "pointer-hold"
	default:
		return "invalid"
	}
}

// Clamp floors for degenerate configuration values, in seconds. A hotkey
// engine clamped to a tiny window still activates; one that rejects its
// configuration silently never does.
const (
	MinTapWindow    = 0.05
	MaxTapWindow    = 2.0
	MinIdleTimeout  = 0.1
	MinTickInterval = 0.02
)

// Defaults, in seconds. The idle timeout and tick rate for pointer hold are
// deliberately configuration, not constants baked into the detector.
const (
	DefaultTapWindow    = 0.4
	DefaultIdleTimeout  = 1.0
	DefaultTickInterval = 0.25
)

// Config is the single active hotkey configuration. Exactly one mode is in
// effect; the parameters of the other modes are ignored.
type Config struct {
	Mode Mode

	// KeyboardHold: required key plus modifier mask.
	HoldKey  uint16
	HoldMods input.Modifier

	// ModifierDoubleTap: target modifier key code and detection window.
	TapCode   uint16
	TapWindow float64

	// PointerHold: trigger axis code, optional modifier mask, idle
	// timeout, and how often the idle check runs.
	ScrollCode   uint16
	ScrollMods   input.Modifier
	IdleTimeout  float64
	TickInterval float64
}

// Normalized returns a copy with out-of-range durations clamped into their
// documented bounds and zero values replaced by defaults.
func (c Config) Normalized() Config {
	if c.TapWindow == 0 {
		c.TapWindow = DefaultTapWindow
	}
	c.TapWindow = clamp(c.TapWindow, MinTapWindow, MaxTapWindow)

	if c.IdleTimeout == 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	if c.IdleTimeout < MinIdleTimeout {
		c.IdleTimeout = MinIdleTimeout
	}

	if c.TickInterval == 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.TickInterval < MinTickInterval {
		c.TickInterval = MinTickInterval
	}
	if c.TickInterval > c.IdleTimeout {
		c.TickInterval = c.IdleTimeout
	}
	return c
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
