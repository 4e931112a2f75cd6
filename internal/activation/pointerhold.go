package activation

// PointerHold approximates press-and-hold for a device with no crisp "up"
// event: a scroll wheel engages on the first qualifying event and
// disengages when qualifying events stop arriving for the idle timeout.
// The caller drives CheckIdle from a periodic tick on the same
// single-threaded context as OnEvent.
type PointerHold struct {
	idleTimeout float64
	engaged     bool
	lastSeen    float64
	heldFor     float64
}

// NewPointerHold creates a detector with the given idle timeout in seconds.
func NewPointerHold(idleTimeout float64) *PointerHold {
	if idleTimeout < MinIdleTimeout {
		idleTimeout = MinIdleTimeout
	}
	return &PointerHold{idleTimeout: idleTimeout}
}

// OnEvent feeds a qualifying event at time t. The first one engages the
// hold and returns Start; every later one refreshes the idle clock and
// returns None. Non-qualifying events must not be fed here at all; they
// neither extend nor break the hold.
func (p *PointerHold) OnEvent(t float64) Transition {
	if !p.engaged {
		p.engaged = true
		p.lastSeen = t
		p.heldFor = 0
		return TransitionStart
	}
	if t > p.lastSeen {
		p.heldFor += t - p.lastSeen
	}
	p.lastSeen = t
	return TransitionNone
}

// CheckIdle compares now against the last qualifying event and returns
// Stop once the gap exceeds the idle timeout while engaged.
func (p *PointerHold) CheckIdle(now float64) Transition {
	if p.engaged && now-p.lastSeen > p.idleTimeout {
		p.engaged = false
		return TransitionStop
	}
	return TransitionNone
}

// HeldFor returns the accumulated gesture duration of the current or most
// recent hold, in seconds.
func (p *PointerHold) HeldFor() float64 {
	return p.heldFor
}

// Reset disengages without emitting a transition.
func (p *PointerHold) Reset() {
	p.engaged = false
	p.heldFor = 0
}
