package activation

import (
	"testing"

	"voxtyped/internal/input"
)

func TestResolveKeyHold(t *testing.T) {
	tests := []struct {
		name              string
		kind              input.EventKind
		active            bool
		keyDownMatch      bool
		keyUpMatch        bool
		hotkeyPressed     bool
		modifierStillHeld bool
		want              Transition
	}{
		{
			name: "matching key down starts",
			kind: input.KindKeyDown, active: true, keyDownMatch: true,
			want: TransitionStart,
		},
		{
			name: "non-matching key down is a no-op",
			kind: input.KindKeyDown, active: true,
			want: TransitionNone,
		},
		{
			name: "key up of hotkey stops even when combination broke first",
			// The modifier was released before the primary key, so the live
			// combination no longer matches; the release must stop anyway.
			kind: input.KindKeyUp, active: true,
			keyDownMatch: false, keyUpMatch: true, hotkeyPressed: true,
			want: TransitionStop,
		},
		{
			name: "key up without a recorded press is a no-op",
			kind: input.KindKeyUp, active: true, keyUpMatch: true,
			want: TransitionNone,
		},
		{
			name: "key up of an unrelated key is a no-op",
			kind: input.KindKeyUp, active: true, hotkeyPressed: true,
			want: TransitionNone,
		},
		{
			name: "modifier break stops without a direct key match",
			kind: input.KindModifierChange, active: true,
			hotkeyPressed: true, modifierStillHeld: false,
			want: TransitionStop,
		},
		{
			name: "modifier still held mid-gesture is a no-op",
			kind: input.KindModifierChange, active: true,
			hotkeyPressed: true, modifierStillHeld: true,
			want: TransitionNone,
		},
		{
			name: "modifier break before any press is a no-op",
			kind: input.KindModifierChange, active: true,
			modifierStillHeld: false,
			want: TransitionNone,
		},
		{
			name: "inactive mode resolves everything to none",
			kind: input.KindKeyDown, active: false, keyDownMatch: true,
			want: TransitionNone,
		},
		{
			name: "inactive mode ignores release too",
			kind: input.KindKeyUp, active: false, keyUpMatch: true, hotkeyPressed: true,
			want: TransitionNone,
		},
		{
			name: "scroll events never resolve for keyboard hold",
			kind: input.KindPointerScroll, active: true, keyDownMatch: true,
			want: TransitionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveKeyHold(tt.kind, tt.active, tt.keyDownMatch,
				tt.keyUpMatch, tt.hotkeyPressed, tt.modifierStillHeld)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
