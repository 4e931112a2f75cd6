package input

import (
	"context"
	"fmt"
	"runtime"
	"time"

	hook "github.com/robotn/gohook"
)

// Normalizer converts raw hook events into normalized Events, maintaining
// the live modifier mask across the stream.
type Normalizer struct {
	mods Modifier
}

// Mods returns the modifier mask as of the last normalized event.
func (n *Normalizer) Mods() Modifier {
	return n.mods
}

// Reset clears the tracked modifier mask.
func (n *Normalizer) Reset() {
	n.mods = ModNone
}

// Normalize converts one raw hook record. ok is false for record kinds the
// engine has no use for (mouse moves, clicks, hook lifecycle markers).
func (n *Normalizer) Normalize(raw hook.Event) (Event, bool) {
	t := SinceEpoch(raw.When)

	switch raw.Kind {
	case hook.KeyDown, hook.KeyHold:
		code := raw.Rawcode
		repeat := raw.Kind == hook.KeyHold
		if bit := ModifierForCode(code); bit != ModNone {
			if !repeat {
				n.mods = n.mods.With(bit)
			}
			return Event{Kind: KindModifierChange, Code: code, Mods: n.mods, Time: t, IsRepeat: repeat}, true
		}
		return Event{Kind: KindKeyDown, Code: code, Mods: n.mods, Time: t, IsRepeat: repeat}, true

	case hook.KeyUp:
		code := raw.Rawcode
		if bit := ModifierForCode(code); bit != ModNone {
			n.mods = n.mods.Without(bit)
			return Event{Kind: KindModifierChange, Code: code, Mods: n.mods, Time: t}, true
		}
		return Event{Kind: KindKeyUp, Code: code, Mods: n.mods, Time: t}, true

	case hook.MouseWheel:
		axis := CodeWheelVertical
		// libuiohook reports direction 4 for horizontal wheels.
		if raw.Direction == 4 {
			axis = CodeWheelHorizontal
		}
		return Event{Kind: KindPointerScroll, Code: axis, Mods: n.mods, Time: t}, true
	}

	return Event{}, false
}

// HookSource observes global input through the OS-level hook and feeds the
// normalized stream. At most one instance per process; the underlying hook
// is a singleton.
type HookSource struct {
	baseSource
	norm Normalizer
	stop chan struct{}
}

// NewHookSource creates the global hook source.
func NewHookSource() *HookSource {
	return &HookSource{stop: make(chan struct{})}
}

// Available reports hook availability for this platform.
func (h *HookSource) Available() (bool, string) {
	switch runtime.GOOS {
	case "darwin":
		return true, "CGEventTap (requires Accessibility permission)"
	case "linux":
		return true, "X11 record extension (requires an X session)"
	case "windows":
		return true, "SetWindowsHookEx low-level hook"
	default:
		return false, "no global input hook on " + runtime.GOOS
	}
}

// Start opens the hook and begins normalizing. A missing OS permission is
// detected here, once: the hook must signal readiness within a short
// deadline or Start fails with ErrPermissionDenied.
func (h *HookSource) Start(ctx context.Context) error {
	if h.isRunning() {
		return ErrAlreadyRunning
	}
	if ok, note := h.Available(); !ok {
		return fmt.Errorf("%w: %s", ErrNotAvailable, note)
	}

	raw := hook.Start()
	select {
	case ev, ok := <-raw:
		if !ok {
			return fmt.Errorf("%w: event hook closed during startup", ErrPermissionDenied)
		}
		// The first record is the hook-enabled marker; anything else is
		// already a live event and is forwarded.
		if ev.Kind != hook.HookEnabled {
			if n, use := h.norm.Normalize(ev); use {
				h.events() <- n
			}
		}
	case <-time.After(2 * time.Second):
		hook.End()
		return fmt.Errorf("%w: event hook did not come up", ErrPermissionDenied)
	case <-ctx.Done():
		hook.End()
		return ctx.Err()
	}

	h.setRunning(true)
	go h.run(ctx, raw)
	return nil
}

func (h *HookSource) run(ctx context.Context, raw chan hook.Event) {
	out := h.events()
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			hook.End()
			return
		case <-h.stop:
			hook.End()
			return
		case ev, ok := <-raw:
			if !ok {
				return
			}
			n, use := h.norm.Normalize(ev)
			if !use {
				continue
			}
			select {
			case out <- n:
			default:
				// Never block the hook callback path; drop under burst.
			}
		}
	}
}

// Stop ends observation.
func (h *HookSource) Stop() error {
	if !h.isRunning() {
		return nil
	}
	h.setRunning(false)
	close(h.stop)
	return nil
}
