package input

import "strings"

// Modifier is a bitset of currently-held modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates either Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates either Control key.
	ModCtrl

	// ModAlt indicates either Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS, Win on Windows).
	ModMeta
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// Contains returns true if every modifier in req is held in m.
func (m Modifier) Contains(req Modifier) bool {
	return m&req == req
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// String returns a representation like "Ctrl+Shift".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

// modifierNames maps config spellings (lowercase) to Modifier values.
var modifierNames = map[string]Modifier{
	"shift":   ModShift,
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"meta":    ModMeta,
	"cmd":     ModMeta,
	"win":     ModMeta,
	"super":   ModMeta,
}

// ParseModifier resolves a config spelling like "ctrl" to its bit.
func ParseModifier(name string) (Modifier, bool) {
	m, ok := modifierNames[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// ModifierForCode returns the modifier bit for a platform key code, or
// ModNone if the code is not a modifier key.
func ModifierForCode(code uint16) Modifier {
	return modifierCodes[code]
}

// IsModifierCode reports whether code identifies a modifier key.
func IsModifierCode(code uint16) bool {
	return modifierCodes[code] != ModNone
}
