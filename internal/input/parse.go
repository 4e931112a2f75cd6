package input

import (
	"fmt"
	"strings"
)

// Hotkey is a parsed key + required-modifier combination.
type Hotkey struct {
	Code uint16
	Mods Modifier
}

// ParseHotkey accepts specs like "alt+q", "ctrl+shift+f13" or "f19" and
// returns the platform key code plus required modifier mask.
func ParseHotkey(spec string) (Hotkey, error) {
	if strings.TrimSpace(spec) == "" {
		return Hotkey{}, fmt.Errorf("empty hotkey spec")
	}
	parts := strings.Split(spec, "+")
	for i := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(parts[i]))
	}

	var mods Modifier
	keyToken := parts[len(parts)-1]
	for _, p := range parts[:len(parts)-1] {
		m, ok := ParseModifier(p)
		if !ok {
			return Hotkey{}, fmt.Errorf("unknown modifier %q in %q", p, spec)
		}
		mods = mods.With(m)
	}

	code, err := KeyCodeByName(keyToken)
	if err != nil {
		return Hotkey{}, fmt.Errorf("hotkey %q: %w", spec, err)
	}
	return Hotkey{Code: code, Mods: mods}, nil
}

// KeyCodeByName resolves a single key name to its platform code.
func KeyCodeByName(name string) (uint16, error) {
	code, ok := keyCodeNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unsupported key name %q", name)
	}
	return code, nil
}

// ScrollAxisByName resolves a scroll axis name to its event code.
func ScrollAxisByName(name string) (uint16, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "vertical", "wheel":
		return CodeWheelVertical, nil
	case "horizontal":
		return CodeWheelHorizontal, nil
	default:
		return 0, fmt.Errorf("unsupported scroll axis %q", name)
	}
}
