package activation

// TapWindow answers one question: did two qualifying taps land within the
// configured window of each other? It knows nothing about key identity;
// identity filtering is the caller's job.
type TapWindow struct {
	window float64
	last   float64
	armed  bool
}

// NewTapWindow creates a detector with the given window in seconds.
// Non-positive windows are clamped to the minimum.
func NewTapWindow(window float64) *TapWindow {
	if window < MinTapWindow {
		window = MinTapWindow
	}
	return &TapWindow{window: window}
}

// RegisterTap records a tap at time t and reports whether it completed a
// pair. The boundary is inclusive: a tap landing exactly at the window edge
// counts. A completing tap consumes the pair, so a third tap starts over
// rather than pairing with the second. A late tap becomes the new baseline,
// so any tap can open a fresh window.
func (w *TapWindow) RegisterTap(t float64) bool {
	if w.armed && t-w.last <= w.window {
		w.armed = false
		return true
	}
	w.last = t
	w.armed = true
	return false
}

// Reset clears the baseline; the next tap starts a fresh window.
func (w *TapWindow) Reset() {
	w.armed = false
}
