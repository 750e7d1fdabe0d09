package key

import "github.com/gdamore/tcell/v2"

var tcellKeys = map[tcell.Key]Key{
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyTab:        KeyTab,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyInsert:     KeyInsert,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyPgUp:       KeyPageUp,
	tcell.KeyPgDn:       KeyPageDown,
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
	tcell.KeyF1:         KeyF1,
	tcell.KeyF2:         KeyF2,
	tcell.KeyF3:         KeyF3,
	tcell.KeyF4:         KeyF4,
	tcell.KeyF5:         KeyF5,
	tcell.KeyF6:         KeyF6,
	tcell.KeyF7:         KeyF7,
	tcell.KeyF8:         KeyF8,
	tcell.KeyF9:         KeyF9,
	tcell.KeyF10:        KeyF10,
	tcell.KeyF11:        KeyF11,
	tcell.KeyF12:        KeyF12,
}

// FromTcell converts a tcell key event for hosts built on tcell.
// Control letters arrive as dedicated tcell keys and become CTRL runes.
func FromTcell(ev *tcell.EventKey) Event {
	mods := fromTcellMods(ev.Modifiers())
	k := ev.Key()
	if k == tcell.KeyRune {
		return Event{Key: KeyRune, Rune: ev.Rune(), Mods: mods &^ ModShift}.Normalize()
	}
	if sk, ok := tcellKeys[k]; ok {
		return Event{Key: sk, Mods: mods}
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return Event{Key: KeyRune, Rune: 'a' + rune(k-tcell.KeyCtrlA), Mods: ModCtrl | (mods &^ ModShift)}.Normalize()
	}
	return Event{}
}

func fromTcellMods(m tcell.ModMask) Modifier {
	var out Modifier
	if m&tcell.ModShift != 0 {
		out |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= ModMeta
	}
	return out
}
