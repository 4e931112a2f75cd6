//go:build darwin

package input

// macOS virtual key codes as delivered in the hook's raw code field.

// modifierCodes maps modifier key codes to their mask bit.
var modifierCodes = map[uint16]Modifier{
	56: ModShift, // left shift
	60: ModShift, // right shift
	59: ModCtrl,  // left control
	62: ModCtrl,  // right control
	58: ModAlt,   // left option
	61: ModAlt,   // right option
	55: ModMeta,  // left command
	54: ModMeta,  // right command
}

// DefaultTapCode is the right command key, the conventional double-tap
// dictation trigger on macOS.
const DefaultTapCode uint16 = 54

var keyCodeNames = map[string]uint16{
	"a": 0, "s": 1, "d": 2, "f": 3, "h": 4, "g": 5, "z": 6, "x": 7,
	"c": 8, "v": 9, "b": 11, "q": 12, "w": 13, "e": 14, "r": 15,
	"y": 16, "t": 17, "o": 31, "u": 32, "i": 34, "p": 35, "l": 37,
	"j": 38, "k": 40, "n": 45, "m": 46,
	"1": 18, "2": 19, "3": 20, "4": 21, "5": 23, "6": 22, "7": 26,
	"8": 28, "9": 25, "0": 29,
	"enter": 36, "return": 36, "tab": 48, "space": 49,
	"backspace": 51, "esc": 53, "escape": 53, "delete": 117,
	"home": 115, "end": 119, "pageup": 116, "pagedown": 121,
	"left": 123, "right": 124, "down": 125, "up": 126,
	"f1": 122, "f2": 120, "f3": 99, "f4": 118, "f5": 96, "f6": 97,
	"f7": 98, "f8": 100, "f9": 101, "f10": 109, "f11": 103, "f12": 111,
	"f13": 105, "f14": 107, "f15": 113, "f16": 106, "f17": 64,
	"f18": 79, "f19": 80, "f20": 90,
	"shift": 56, "rshift": 60, "ctrl": 59, "rctrl": 62,
	"alt": 58, "option": 58, "ralt": 61, "roption": 61,
	"cmd": 55, "meta": 55, "rcmd": 54, "rmeta": 54, "fn": 63,
}
