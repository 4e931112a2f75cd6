package activation

import "testing"

func TestTapWindowFirstTapNeverCompletes(t *testing.T) {
	w := NewTapWindow(0.4)
	if w.RegisterTap(0.0) {
		t.Error("first tap must not complete a pair")
	}
}

func TestTapWindowBoundaryInclusive(t *testing.T) {
	w := NewTapWindow(0.4)
	w.RegisterTap(0.0)
	if !w.RegisterTap(0.4) {
		t.Error("tap exactly at the window boundary should complete the pair")
	}
}

func TestTapWindowJustPastBoundary(t *testing.T) {
	w := NewTapWindow(0.4)
	w.RegisterTap(0.0)
	if w.RegisterTap(0.401) {
		t.Error("tap past the window boundary must not complete the pair")
	}
}

func TestTapWindowPairConsumed(t *testing.T) {
	w := NewTapWindow(0.4)
	w.RegisterTap(0.0)
	if !w.RegisterTap(0.2) {
		t.Fatal("second tap should complete")
	}
	// The pair is consumed: the third tap starts over instead of pairing
	// with the second.
	if w.RegisterTap(0.3) {
		t.Error("third tap must not complete against a consumed pair")
	}
	if !w.RegisterTap(0.5) {
		t.Error("fourth tap should pair with the third")
	}
}

func TestTapWindowLateTapBecomesBaseline(t *testing.T) {
	w := NewTapWindow(0.4)
	w.RegisterTap(0.0)
	if w.RegisterTap(1.0) {
		t.Fatal("late tap must not complete")
	}
	// The late tap opened a fresh window of its own.
	if !w.RegisterTap(1.2) {
		t.Error("tap within the window of the late tap should complete")
	}
}

func TestTapWindowReset(t *testing.T) {
	w := NewTapWindow(0.4)
	w.RegisterTap(0.0)
	w.Reset()
	if w.RegisterTap(0.1) {
		t.Error("tap after reset must start a fresh window, not complete")
	}
	if !w.RegisterTap(0.2) {
		t.Error("pair built entirely after the reset should complete")
	}
}

func TestTapWindowClampsDegenerateWindow(t *testing.T) {
	w := NewTapWindow(-1)
	w.RegisterTap(0.0)
	if !w.RegisterTap(0.0 + MinTapWindow) {
		t.Error("negative window should clamp to the minimum, not disable detection")
	}
}
