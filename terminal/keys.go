package terminal

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"isopipe/editor"
)

// TranslateKey converts a tcell key event into an editor key event. It
// returns false for keys the editor has no binding for (arrows, function keys).
//
// Cmd is reported as Meta+rune on some terminals and as Alt+rune on others,
// so both count as a command modifier.
func TranslateKey(ev *tcell.EventKey) (editor.KeyEvent, bool) {
	mod := translateMod(ev.Modifiers())

	switch ev.Key() {
	case tcell.KeyCtrlZ:
		return editor.KeyEvent{Rune: 'z', Mod: mod | editor.ModCtrl}, true
	case tcell.KeyCtrlY:
		return editor.KeyEvent{Rune: 'y', Mod: mod | editor.ModCtrl}, true
	case tcell.KeyEscape:
		return editor.Special(editor.KeyEscape), true
	case tcell.KeyEnter:
		return editor.Special(editor.KeyEnter), true
	case tcell.KeyDelete:
		return editor.Special(editor.KeyDelete), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return editor.Special(editor.KeyBackspace), true
	case tcell.KeyTab:
		return editor.Special(editor.KeyTab), true
	case tcell.KeyRune:
		r := ev.Rune()
		if mod&(editor.ModMeta|editor.ModAlt) != 0 {
			mod |= editor.ModMeta
		}
		if unicode.IsUpper(r) {
			mod |= editor.ModShift
		}
		return editor.KeyEvent{Rune: r, Mod: mod}, true
	}
	return editor.KeyEvent{}, false
}

func translateMod(m tcell.ModMask) editor.Modifier {
	var mod editor.Modifier
	if m&tcell.ModShift != 0 {
		mod |= editor.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mod |= editor.ModCtrl
	}
	if m&tcell.ModMeta != 0 {
		mod |= editor.ModMeta
	}
	if m&tcell.ModAlt != 0 {
		mod |= editor.ModAlt
	}
	return mod
}
