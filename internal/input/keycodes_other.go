//go:build !darwin && !linux && !windows

package input

// No global hook on this platform; the tables stay empty so parsing fails
// with a clear error instead of silently matching nothing.

var modifierCodes = map[uint16]Modifier{}

const DefaultTapCode uint16 = 0

var keyCodeNames = map[string]uint16{}
