package input

import "golang.design/x/hotkey"

func fallbackMods(m Modifier) []hotkey.Modifier {
	var out []hotkey.Modifier
	if m.Has(ModCtrl) {
		out = append(out, hotkey.ModCtrl)
	}
	if m.Has(ModShift) {
		out = append(out, hotkey.ModShift)
	}
	if m.Has(ModAlt) {
		out = append(out, hotkey.ModAlt)
	}
	if m.Has(ModMeta) {
		out = append(out, hotkey.ModWin)
	}
	return out
}
