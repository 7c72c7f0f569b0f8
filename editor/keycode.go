package editor

import "unicode"

// SpecialKey represents non-character keys.
type SpecialKey int

const (
	KeyNone SpecialKey = iota
	KeyEscape
	KeyEnter
	KeyDelete
	KeyBackspace
	KeyTab
)

// Modifier is a bit set of held modifier keys.
type Modifier int

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModMeta // Cmd on macOS
	ModAlt
)

// KeyEvent represents either a regular character or a special key
type KeyEvent struct {
	Rune       rune
	SpecialKey SpecialKey
	Mod        Modifier
}

// IsSpecial returns true if this is a special key event
func (k KeyEvent) IsSpecial() bool {
	return k.SpecialKey != KeyNone
}

// Command returns true if Ctrl or Cmd is held.
func (k KeyEvent) Command() bool {
	return k.Mod&(ModCtrl|ModMeta) != 0
}

// Is reports whether the event is the character r, ignoring case.
func (k KeyEvent) Is(r rune) bool {
	return !k.IsSpecial() && unicode.ToLower(k.Rune) == unicode.ToLower(r)
}

// Shifted reports whether shift is held, either as a modifier or implied by
// an upper-case rune.
func (k KeyEvent) Shifted() bool {
	return k.Mod&ModShift != 0 || unicode.IsUpper(k.Rune)
}

// Rune builds a plain character key event.
func Rune(r rune) KeyEvent {
	return KeyEvent{Rune: r}
}

// Ctrl builds a Ctrl+character key event.
func Ctrl(r rune) KeyEvent {
	return KeyEvent{Rune: r, Mod: ModCtrl}
}

// Special builds a special key event.
func Special(k SpecialKey) KeyEvent {
	return KeyEvent{SpecialKey: k}
}
