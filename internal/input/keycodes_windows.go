//go:build windows

package input

// Windows virtual-key codes as delivered in the hook's raw code field.

// modifierCodes maps modifier VKs to their mask bit. The hook reports the
// side-specific VKs (VK_LSHIFT and friends), not the generic ones.
var modifierCodes = map[uint16]Modifier{
	0xA0: ModShift, // VK_LSHIFT
	0xA1: ModShift, // VK_RSHIFT
	0xA2: ModCtrl,  // VK_LCONTROL
	0xA3: ModCtrl,  // VK_RCONTROL
	0xA4: ModAlt,   // VK_LMENU
	0xA5: ModAlt,   // VK_RMENU
	0x5B: ModMeta,  // VK_LWIN
	0x5C: ModMeta,  // VK_RWIN
}

// DefaultTapCode is the right control key.
const DefaultTapCode uint16 = 0xA3

var keyCodeNames = buildWindowsNames()

func buildWindowsNames() map[string]uint16 {
	m := map[string]uint16{
		"enter": 0x0D, "return": 0x0D, "tab": 0x09, "space": 0x20,
		"backspace": 0x08, "esc": 0x1B, "escape": 0x1B, "delete": 0x2E,
		"insert": 0x2D, "home": 0x24, "end": 0x23,
		"pageup": 0x21, "pagedown": 0x22,
		"left": 0x25, "up": 0x26, "right": 0x27, "down": 0x28,
		"shift": 0xA0, "rshift": 0xA1, "ctrl": 0xA2, "rctrl": 0xA3,
		"alt": 0xA4, "ralt": 0xA5, "meta": 0x5B, "win": 0x5B,
		"rmeta": 0x5C, "rwin": 0x5C,
	}
	for c := byte('a'); c <= 'z'; c++ {
		m[string(c)] = uint16(c - 'a' + 'A')
	}
	for c := byte('0'); c <= '9'; c++ {
		m[string(c)] = uint16(c)
	}
	for i := uint16(1); i <= 24; i++ {
		m["f"+itoa(i)] = 0x70 + i - 1
	}
	return m
}

func itoa(n uint16) string {
	if n >= 10 {
		return string([]byte{'0' + byte(n/10), '0' + byte(n%10)})
	}
	return string([]byte{'0' + byte(n)})
}
