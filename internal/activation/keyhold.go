package activation

import "voxtyped/internal/input"

// ResolveKeyHold maps one event to a transition for press-and-hold
// activation. It is a pure function of explicit facts about the event and
// the current hold state; the engine snapshots those facts per call, which
// keeps the decision testable without simulating the operating system.
//
// Facts:
//   - active: the keyboard-hold mode is the configured strategy
//   - keyDownMatch: the event is the configured key with the required
//     modifiers held
//   - keyUpMatch: the released key is the configured key, regardless of
//     whether the combination still matches at that instant
//   - hotkeyPressed: a matching press was previously observed and not yet
//     released
//   - modifierStillHeld: the required modifiers are all still down after
//     this event
//
// A key-up or a modifier break each independently stop the hold: the OS
// does not guarantee release ordering between a modifier and its paired
// key, so either signal must suffice on its own.
func ResolveKeyHold(kind input.EventKind, active, keyDownMatch, keyUpMatch, hotkeyPressed, modifierStillHeld bool) Transition {
	if !active {
		return TransitionNone
	}

	switch kind {
	case input.KindKeyDown:
		if keyDownMatch {
			return TransitionStart
		}

	case input.KindKeyUp:
		if hotkeyPressed && keyUpMatch {
			return TransitionStop
		}

	case input.KindModifierChange:
		if hotkeyPressed && !modifierStillHeld {
			return TransitionStop
		}
	}

	return TransitionNone
}
