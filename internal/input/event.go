// Package input normalizes platform-delivered global input events into a
// single stream the activation engine can consume.
//
// IMPORTANT: This package observes keyboard and pointer events only to decide
// when dictation should start or stop. It does not record typed content; no
// event leaves the process.
//
// Platform support (via the global hook source):
//   - macOS: CGEventTap (requires Accessibility permission)
//   - Linux: X11 record extension (requires an X session)
//   - Windows: SetWindowsHookEx (user-mode hook)
package input

import "time"

// EventKind categorizes a normalized input event.
type EventKind uint8

const (
	KindUnknown EventKind = iota
	KindKeyDown
	KindKeyUp
	KindModifierChange
	KindPointerScroll
)

// String returns the kind name for logs and test failures.
func (k EventKind) String() string {
	switch k {
	case KindKeyDown:
		return "key-down"
	case KindKeyUp:
		return "key-up"
	case KindModifierChange:
		return "modifier-change"
	case KindPointerScroll:
		return "pointer-scroll"
	default:
		return "unknown"
	}
}

// Scroll axis codes. Reported in Event.Code for KindPointerScroll so the
// engine can match a configured axis the same way it matches a key.
const (
	CodeWheelVertical   uint16 = 0xF001
	CodeWheelHorizontal uint16 = 0xF002
)

// Event is one normalized input event. Immutable value; Time is monotonic
// seconds since process start and is non-decreasing across the stream (a
// platform guarantee the consumers rely on and do not re-validate).
type Event struct {
	Kind     EventKind
	Code     uint16
	Mods     Modifier
	Time     float64
	IsRepeat bool
}

// epoch anchors the monotonic clock shared by event stamping and the
// engine's idle tick.
var epoch = time.Now()

// Now returns the current time in monotonic seconds since process start.
func Now() float64 {
	return time.Since(epoch).Seconds()
}

// SinceEpoch converts an absolute time to monotonic event seconds.
func SinceEpoch(t time.Time) float64 {
	if t.IsZero() {
		return Now()
	}
	return t.Sub(epoch).Seconds()
}
