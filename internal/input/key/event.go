package key

import "unicode"

// Event is a single key press.
type Event struct {
	Key  Key
	Rune rune
	Mods Modifier
}

// Rune returns the event for typing r.
func Rune(r rune) Event {
	return Event{Key: KeyRune, Rune: r}
}

// Ctrl returns the event for CTRL-r.
func Ctrl(r rune) Event {
	return Event{Key: KeyRune, Rune: unicode.ToLower(r), Mods: ModCtrl}
}

// Special returns the event for an unmodified special key.
func Special(k Key) Event {
	return Event{Key: k}
}

// Common events.
var (
	Esc       = Special(KeyEscape)
	Enter     = Special(KeyEnter)
	Tab       = Special(KeyTab)
	Backspace = Special(KeyBackspace)
)

// IsRune reports whether e is a character key.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar reports whether e types a printable character, without CTRL,
// ALT or META.
func (e Event) IsChar() bool {
	return e.IsRune() && !e.Mods.Has(ModCtrl|ModAlt|ModMeta) && (unicode.IsPrint(e.Rune) || e.Rune == '\t')
}

// IsCtrl reports whether e is CTRL-r.
func (e Event) IsCtrl(r rune) bool {
	return e.Key == KeyRune && e.Mods == ModCtrl && e.Rune == unicode.ToLower(r)
}

// Is reports whether e is the unmodified special key k.
func (e Event) Is(k Key) bool {
	return e.Key == k && e.Mods == ModNone
}

// Char returns the typed rune, or 0 when e does not type one.
func (e Event) Char() rune {
	if e.IsChar() {
		return e.Rune
	}
	return 0
}

// Normalize maps CTRL combinations that terminals cannot tell apart
// onto their special keys: CTRL-[ is <Esc>, CTRL-M and CTRL-J are <CR>,
// CTRL-I is <Tab> and CTRL-H is <BS>.
func (e Event) Normalize() Event {
	if e.Key != KeyRune || e.Mods != ModCtrl {
		return e
	}
	switch e.Rune {
	case '[':
		return Esc
	case 'm', 'j':
		return Enter
	case 'i':
		return Tab
	case 'h':
		return Backspace
	}
	return e
}

// String returns the key notation of e.
func (e Event) String() string {
	switch {
	case e.Key == KeyNone:
		return ""
	case e.Key == KeyRune && e.Mods == ModNone:
		if e.Rune == '<' {
			return "<lt>"
		}
		return string(e.Rune)
	case e.Key == KeyRune:
		name := string(e.Rune)
		switch e.Rune {
		case ' ':
			name = "Space"
		case '<':
			name = "lt"
		}
		return "<" + e.Mods.prefix() + name + ">"
	}
	return "<" + e.Mods.prefix() + e.Key.String() + ">"
}
