package activation

// DoubleTapToggle turns a modifier double-tap into a recording on/off
// toggle. Completing a pair fires exactly one of the two callbacks,
// depending on whether recording is currently in progress.
type DoubleTapToggle struct {
	window  *TapWindow
	onStart func()
	onStop  func()
}

// NewDoubleTapToggle creates a toggle with the given window in seconds.
func NewDoubleTapToggle(window float64, onStart, onStop func()) *DoubleTapToggle {
	return &DoubleTapToggle{
		window:  NewTapWindow(window),
		onStart: onStart,
		onStop:  onStop,
	}
}

// RegisterTap records a deliberate tap at time t and reports whether it
// completed a double-tap. Auto-repeat taps are ignored outright: a held
// modifier delivers a stream of synthetic key-downs that must neither count
// as a second tap nor disturb the window.
func (d *DoubleTapToggle) RegisterTap(t float64, recording, isRepeat bool) bool {
	if isRepeat {
		return false
	}
	if !d.window.RegisterTap(t) {
		return false
	}
	if recording {
		d.onStop()
	} else {
		d.onStart()
	}
	return true
}

// ResetSequence clears the tap baseline without firing a callback. Called
// when an unrelated key lands between taps, so ordinary fast typing that
// happens to brush the modifier never toggles recording.
func (d *DoubleTapToggle) ResetSequence() {
	d.window.Reset()
}
