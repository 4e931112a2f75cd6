package activation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"voxtyped/internal/input"
)

// transitions records the callback order delivered to the pipeline.
type transitions struct {
	seq []string
}

func (tr *transitions) start() { tr.seq = append(tr.seq, "start") }
func (tr *transitions) stop()  { tr.seq = append(tr.seq, "stop") }

// assertAlternates verifies the core invariant: start and stop strictly
// alternate, starting with start.
func (tr *transitions) assertAlternates(t *testing.T) {
	t.Helper()
	for i, s := range tr.seq {
		want := "start"
		if i%2 == 1 {
			want = "stop"
		}
		if s != want {
			t.Fatalf("transition %d: got %q, want %q (seq=%v)", i, s, want, tr.seq)
		}
	}
}

func newTestEngine(t *testing.T, cfg Config) (*Engine, *transitions) {
	t.Helper()
	tr := &transitions{}
	e := NewEngine(cfg, tr.start, tr.stop,
		WithDispatcher(func(fn func()) { fn() }))
	return e, tr
}

func holdConfig(t *testing.T) Config {
	t.Helper()
	key, err := input.KeyCodeByName("space")
	require.NoError(t, err)
	return Config{Mode: ModeKeyboardHold, HoldKey: key, HoldMods: input.ModCtrl}
}

func rctrlCode(t *testing.T) uint16 {
	t.Helper()
	code, err := input.KeyCodeByName("rctrl")
	require.NoError(t, err)
	return code
}

func TestEngineKeyboardHoldPressAndRelease(t *testing.T) {
	e, tr := newTestEngine(t, holdConfig(t))
	key := e.Config().HoldKey

	e.HandleEvent(input.Event{Kind: input.KindKeyDown, Code: key, Mods: input.ModCtrl, Time: 0.0})
	require.True(t, e.Recording())

	e.HandleEvent(input.Event{Kind: input.KindKeyUp, Code: key, Time: 0.8})
	require.False(t, e.Recording())
	require.Equal(t, []string{"start", "stop"}, tr.seq)
}

func TestEngineKeyboardHoldModifierReleasedFirst(t *testing.T) {
	// Common release ordering: the user lets go of ctrl before space. The
	// modifier break stops recording; the trailing key-up is then inert.
	e, tr := newTestEngine(t, holdConfig(t))
	key := e.Config().HoldKey

	e.HandleEvent(input.Event{Kind: input.KindKeyDown, Code: key, Mods: input.ModCtrl, Time: 0.0})
	e.HandleEvent(input.Event{Kind: input.KindModifierChange, Code: rctrlCode(t), Mods: input.ModNone, Time: 0.5})
	require.False(t, e.Recording())

	e.HandleEvent(input.Event{Kind: input.KindKeyUp, Code: key, Time: 0.6})
	require.Equal(t, []string{"start", "stop"}, tr.seq)
	tr.assertAlternates(t)
}

func TestEngineKeyboardHoldKeyReleasedAfterModifierStillStops(t *testing.T) {
	// Reverse interleaving: key-up arrives while the modifier is already
	// gone but before any modifier-change event was seen by the engine.
	e, tr := newTestEngine(t, holdConfig(t))
	key := e.Config().HoldKey

	e.HandleEvent(input.Event{Kind: input.KindKeyDown, Code: key, Mods: input.ModCtrl, Time: 0.0})
	e.HandleEvent(input.Event{Kind: input.KindKeyUp, Code: key, Mods: input.ModNone, Time: 0.5})
	require.Equal(t, []string{"start", "stop"}, tr.seq)
}

func TestEngineKeyboardHoldAutoRepeatSuppressed(t *testing.T) {
	e, tr := newTestEngine(t, holdConfig(t))
	key := e.Config().HoldKey

	e.HandleEvent(input.Event{Kind: input.KindKeyDown, Code: key, Mods: input.ModCtrl, Time: 0.0})
	for ts := 0.1; ts < 0.5; ts += 0.1 {
		e.HandleEvent(input.Event{Kind: input.KindKeyDown, Code: key, Mods: input.ModCtrl, Time: ts, IsRepeat: true})
	}
	require.Equal(t, []string{"start"}, tr.seq, "auto-repeat must not re-start")
}

func TestEngineKeyboardHoldForeignKeysIgnored(t *testing.T) {
	e, tr := newTestEngine(t, holdConfig(t))
	key := e.Config().HoldKey
	other, err := input.KeyCodeByName("a")
	require.NoError(t, err)

	e.HandleEvent(input.Event{Kind: input.KindKeyDown, Code: other, Mods: input.ModCtrl, Time: 0.0})
	require.False(t, e.Recording())

	e.HandleEvent(input.Event{Kind: input.KindKeyDown, Code: key, Mods: input.ModCtrl, Time: 0.1})
	e.HandleEvent(input.Event{Kind: input.KindKeyDown, Code: other, Mods: input.ModCtrl, Time: 0.2, IsRepeat: false})
	e.HandleEvent(input.Event{Kind: input.KindKeyUp, Code: other, Mods: input.ModCtrl, Time: 0.3})
	require.True(t, e.Recording(), "foreign keystrokes mid-hold must not stop")

	e.HandleEvent(input.Event{Kind: input.KindKeyUp, Code: key, Mods: input.ModCtrl, Time: 0.4})
	require.Equal(t, []string{"start", "stop"}, tr.seq)
}

func TestEngineKeyUpWithNoRecordedPressIsIgnored(t *testing.T) {
	e, tr := newTestEngine(t, holdConfig(t))
	e.HandleEvent(input.Event{Kind: input.KindKeyUp, Code: e.Config().HoldKey, Time: 0.0})
	require.Empty(t, tr.seq)
	require.False(t, e.Recording())
}

func TestEngineDoubleTapToggle(t *testing.T) {
	code := rctrlCode(t)
	e, tr := newTestEngine(t, Config{
		Mode:      ModeModifierDoubleTap,
		TapCode:   code,
		TapWindow: 0.4,
	})

	press := func(ts float64) input.Event {
		return input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModCtrl, Time: ts}
	}
	release := func(ts float64) input.Event {
		return input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModNone, Time: ts}
	}

	e.HandleEvent(press(0.0))
	e.HandleEvent(release(0.05))
	e.HandleEvent(press(0.2))
	e.HandleEvent(release(0.25))
	require.True(t, e.Recording())
	require.Equal(t, []string{"start"}, tr.seq)

	e.HandleEvent(press(1.0))
	e.HandleEvent(release(1.05))
	require.True(t, e.Recording(), "lone tap outside any pair must not toggle")

	e.HandleEvent(press(1.1))
	e.HandleEvent(release(1.15))
	require.False(t, e.Recording())
	require.Equal(t, []string{"start", "stop"}, tr.seq)
	tr.assertAlternates(t)
}

func TestEngineDoubleTapForeignKeyBreaksSequence(t *testing.T) {
	code := rctrlCode(t)
	e, tr := newTestEngine(t, Config{
		Mode:      ModeModifierDoubleTap,
		TapCode:   code,
		TapWindow: 0.4,
	})
	other, err := input.KeyCodeByName("a")
	require.NoError(t, err)

	e.HandleEvent(input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModCtrl, Time: 0.0})
	e.HandleEvent(input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModNone, Time: 0.05})
	// Unrelated keystroke lands between the taps.
	e.HandleEvent(input.Event{Kind: input.KindKeyDown, Code: other, Time: 0.1})
	e.HandleEvent(input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModCtrl, Time: 0.2})
	require.False(t, e.Recording(), "interrupted sequence must not toggle")
	require.Empty(t, tr.seq)
}

func TestEngineDoubleTapReleaseEdgesDoNotCount(t *testing.T) {
	code := rctrlCode(t)
	e, tr := newTestEngine(t, Config{
		Mode:      ModeModifierDoubleTap,
		TapCode:   code,
		TapWindow: 0.4,
	})

	// A single press-release cycle produces one tap, not two.
	e.HandleEvent(input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModCtrl, Time: 0.0})
	e.HandleEvent(input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModNone, Time: 0.1})
	require.Empty(t, tr.seq)
}

func TestEnginePointerHold(t *testing.T) {
	e, tr := newTestEngine(t, Config{
		Mode:        ModePointerHold,
		ScrollCode:  input.CodeWheelVertical,
		IdleTimeout: 1.0,
	})

	scroll := func(ts float64) input.Event {
		return input.Event{Kind: input.KindPointerScroll, Code: input.CodeWheelVertical, Time: ts}
	}

	e.HandleEvent(scroll(0.0))
	require.True(t, e.Recording())
	e.HandleEvent(scroll(0.3))
	e.HandleEvent(scroll(0.6))
	require.Equal(t, []string{"start"}, tr.seq)

	e.Tick(1.5)
	require.True(t, e.Recording(), "idle check within the refreshed timeout must not stop")

	e.Tick(1.7)
	require.False(t, e.Recording())
	require.Equal(t, []string{"start", "stop"}, tr.seq)
}

func TestEnginePointerHoldIgnoresNonQualifyingEvents(t *testing.T) {
	e, tr := newTestEngine(t, Config{
		Mode:        ModePointerHold,
		ScrollCode:  input.CodeWheelVertical,
		ScrollMods:  input.ModCtrl,
		IdleTimeout: 1.0,
	})

	// Wrong axis, missing modifier, and key events are all inert.
	e.HandleEvent(input.Event{Kind: input.KindPointerScroll, Code: input.CodeWheelHorizontal, Mods: input.ModCtrl, Time: 0.0})
	e.HandleEvent(input.Event{Kind: input.KindPointerScroll, Code: input.CodeWheelVertical, Time: 0.1})
	e.HandleEvent(input.Event{Kind: input.KindKeyDown, Code: 10, Time: 0.2})
	require.Empty(t, tr.seq)

	e.HandleEvent(input.Event{Kind: input.KindPointerScroll, Code: input.CodeWheelVertical, Mods: input.ModCtrl, Time: 0.3})
	require.True(t, e.Recording())

	// Non-qualifying events do not refresh the hold either.
	e.HandleEvent(input.Event{Kind: input.KindPointerScroll, Code: input.CodeWheelHorizontal, Mods: input.ModCtrl, Time: 1.2})
	e.Tick(1.4)
	require.False(t, e.Recording(), "only qualifying events keep the hold alive")
}

func TestEngineReconfigureResetsWithoutSpuriousStop(t *testing.T) {
	e, tr := newTestEngine(t, holdConfig(t))
	key := e.Config().HoldKey

	e.HandleEvent(input.Event{Kind: input.KindKeyDown, Code: key, Mods: input.ModCtrl, Time: 0.0})
	require.True(t, e.Recording())

	e.Reconfigure(Config{Mode: ModeModifierDoubleTap, TapCode: rctrlCode(t), TapWindow: 0.4})
	require.False(t, e.Recording())
	require.Equal(t, []string{"start"}, tr.seq, "reconfigure must not emit a stop")

	// Detector state from the old mode is gone: the hotkey release from
	// before the switch means nothing now.
	e.HandleEvent(input.Event{Kind: input.KindKeyUp, Code: key, Time: 1.0})
	require.Equal(t, []string{"start"}, tr.seq)
}

func TestEngineAlternationUnderNoisyStream(t *testing.T) {
	e, tr := newTestEngine(t, holdConfig(t))
	key := e.Config().HoldKey
	other, err := input.KeyCodeByName("x")
	require.NoError(t, err)

	// Three hold cycles with repeats, foreign keys and out-of-order
	// releases sprinkled in.
	events := []input.Event{
		{Kind: input.KindKeyDown, Code: key, Mods: input.ModCtrl, Time: 0.0},
		{Kind: input.KindKeyDown, Code: key, Mods: input.ModCtrl, Time: 0.1, IsRepeat: true},
		{Kind: input.KindKeyDown, Code: other, Mods: input.ModCtrl, Time: 0.2},
		{Kind: input.KindKeyUp, Code: key, Mods: input.ModCtrl, Time: 0.3},
		{Kind: input.KindKeyUp, Code: key, Mods: input.ModCtrl, Time: 0.35}, // stray duplicate release
		{Kind: input.KindKeyDown, Code: key, Mods: input.ModCtrl, Time: 1.0},
		{Kind: input.KindModifierChange, Code: rctrlCode(t), Mods: input.ModNone, Time: 1.2},
		{Kind: input.KindKeyUp, Code: key, Mods: input.ModNone, Time: 1.3},
		{Kind: input.KindKeyDown, Code: key, Mods: input.ModNone, Time: 2.0}, // modifier missing: no match
		{Kind: input.KindKeyDown, Code: key, Mods: input.ModCtrl, Time: 2.5},
		{Kind: input.KindKeyUp, Code: key, Mods: input.ModCtrl, Time: 2.9},
	}
	for _, ev := range events {
		e.HandleEvent(ev)
	}

	tr.assertAlternates(t)
	require.Equal(t, []string{"start", "stop", "start", "stop", "start", "stop"}, tr.seq)
}

func TestEngineConfigClamping(t *testing.T) {
	e, _ := newTestEngine(t, Config{
		Mode:         ModeModifierDoubleTap,
		TapCode:      rctrlCode(t),
		TapWindow:    -3,
		IdleTimeout:  -1,
		TickInterval: -1,
	})

	cfg := e.Config()
	require.Equal(t, MinTapWindow, cfg.TapWindow)
	require.Equal(t, MinIdleTimeout, cfg.IdleTimeout)
	require.Equal(t, MinTickInterval, cfg.TickInterval)
}

func TestEngineDefaultsApplied(t *testing.T) {
	e, _ := newTestEngine(t, Config{Mode: ModePointerHold, ScrollCode: input.CodeWheelVertical})
	cfg := e.Config()
	require.Equal(t, DefaultIdleTimeout, cfg.IdleTimeout)
	require.Equal(t, DefaultTickInterval, cfg.TickInterval)
}

func awaitTransition(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestEngineToggleSyncsWithGestureStream(t *testing.T) {
	code := rctrlCode(t)
	starts := make(chan struct{}, 4)
	stops := make(chan struct{}, 4)
	e := NewEngine(Config{Mode: ModeModifierDoubleTap, TapCode: code, TapWindow: 0.4},
		func() { starts <- struct{}{} },
		func() { stops <- struct{}{} },
		WithDispatcher(func(fn func()) { fn() }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan input.Event)
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx, events) }()

	recording, err := e.Toggle(ctx)
	require.NoError(t, err)
	require.True(t, recording)
	awaitTransition(t, starts, "start after forced toggle")

	// The session began outside the gesture stream; a single double-tap
	// must still end it.
	events <- input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModCtrl, Time: 1.0}
	events <- input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModNone, Time: 1.05}
	events <- input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModCtrl, Time: 1.2}
	events <- input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModNone, Time: 1.25}
	awaitTransition(t, stops, "stop after one double-tap")

	// And symmetrically: a gesture starts, a toggle stops.
	events <- input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModCtrl, Time: 2.0}
	events <- input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModNone, Time: 2.05}
	events <- input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModCtrl, Time: 2.2}
	events <- input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModNone, Time: 2.25}
	awaitTransition(t, starts, "start after second double-tap")

	recording, err = e.Toggle(ctx)
	require.NoError(t, err)
	require.False(t, recording)
	awaitTransition(t, stops, "stop after forced toggle")

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestEngineToggleDiscardsHalfGesture(t *testing.T) {
	code := rctrlCode(t)
	starts := make(chan struct{}, 2)
	stops := make(chan struct{}, 2)
	e := NewEngine(Config{Mode: ModeModifierDoubleTap, TapCode: code, TapWindow: 0.4},
		func() { starts <- struct{}{} },
		func() { stops <- struct{}{} },
		WithDispatcher(func(fn func()) { fn() }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan input.Event)
	go e.Run(ctx, events)

	// One tap lands, then a toggle arrives before the pair completes.
	events <- input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModCtrl, Time: 0.0}
	events <- input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModNone, Time: 0.05}

	recording, err := e.Toggle(ctx)
	require.NoError(t, err)
	require.True(t, recording)
	awaitTransition(t, starts, "start after forced toggle")

	// The pending tap must not pair with the next one against the new
	// phase: a full double-tap is still required to stop.
	events <- input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModCtrl, Time: 0.2}
	events <- input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModNone, Time: 0.25}
	select {
	case <-stops:
		t.Fatal("stale tap paired across the toggle")
	case <-time.After(50 * time.Millisecond):
	}

	events <- input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModCtrl, Time: 0.4}
	events <- input.Event{Kind: input.KindModifierChange, Code: code, Mods: input.ModNone, Time: 0.45}
	awaitTransition(t, stops, "stop after a complete double-tap")
}
