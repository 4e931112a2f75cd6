//go:build linux

package input

// X11 keysyms as delivered in the hook's raw code field. Only the low 16
// bits are carried; the 0xFFxx range covers function and modifier keys.

// modifierCodes maps modifier keysyms to their mask bit.
var modifierCodes = map[uint16]Modifier{
	0xFFE1: ModShift, // Shift_L
	0xFFE2: ModShift, // Shift_R
	0xFFE3: ModCtrl,  // Control_L
	0xFFE4: ModCtrl,  // Control_R
	0xFFE9: ModAlt,   // Alt_L
	0xFFEA: ModAlt,   // Alt_R
	0xFFEB: ModMeta,  // Super_L
	0xFFEC: ModMeta,  // Super_R
}

// DefaultTapCode is the right control key; most Linux keyboards lack a
// right super key, so right control is the conventional trigger.
const DefaultTapCode uint16 = 0xFFE4

var keyCodeNames = buildLinuxNames()

func buildLinuxNames() map[string]uint16 {
	m := map[string]uint16{
		"enter": 0xFF0D, "return": 0xFF0D, "tab": 0xFF09,
		"space": 0x0020, "backspace": 0xFF08, "esc": 0xFF1B,
		"escape": 0xFF1B, "delete": 0xFFFF,
		"home": 0xFF50, "end": 0xFF57, "pageup": 0xFF55, "pagedown": 0xFF56,
		"left": 0xFF51, "up": 0xFF52, "right": 0xFF53, "down": 0xFF54,
		"shift": 0xFFE1, "rshift": 0xFFE2, "ctrl": 0xFFE3, "rctrl": 0xFFE4,
		"alt": 0xFFE9, "ralt": 0xFFEA, "meta": 0xFFEB, "super": 0xFFEB,
		"rmeta": 0xFFEC, "rsuper": 0xFFEC,
	}
	for c := byte('a'); c <= 'z'; c++ {
		m[string(c)] = uint16(c)
	}
	for c := byte('0'); c <= '9'; c++ {
		m[string(c)] = uint16(c)
	}
	for i := uint16(1); i <= 20; i++ {
		m["f"+itoa(i)] = 0xFFBE + i - 1
	}
	return m
}

func itoa(n uint16) string {
	if n >= 10 {
		return string([]byte{'0' + byte(n/10), '0' + byte(n%10)})
	}
	return string([]byte{'0' + byte(n)})
}
