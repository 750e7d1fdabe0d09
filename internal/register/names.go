package register

import "unicode"

// Special register names.
const (
	Unnamed   = '"'
	Yank      = '0'
	SmallDel  = '-'
	BlackHole = '_'
	Clipboard = '+'
	Selection = '*'
	LastIns   = '.'
	LastEx    = ':'
	FileName  = '%'
	LastFind  = '/'
)

// IsLetter reports whether r is a named register a-z.
func IsLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

// IsAppend reports whether r is an upper-case register, which appends to
// its lower-case counterpart.
func IsAppend(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// IsNumbered reports whether r is one of 0-9.
func IsNumbered(r rune) bool {
	return r >= '0' && r <= '9'
}

// IsClipboard reports whether r is routed through the clipboard bridge.
func IsClipboard(r rune) bool {
	return r == Clipboard || r == Selection
}

// IsReadOnly reports whether r can only be written by the engine itself.
func IsReadOnly(r rune) bool {
	switch r {
	case LastIns, LastEx, FileName, LastFind:
		return true
	}
	return false
}

// IsValid reports whether r names any register.
func IsValid(r rune) bool {
	switch {
	case IsLetter(r), IsAppend(r), IsNumbered(r), IsClipboard(r), IsReadOnly(r):
		return true
	case r == Unnamed, r == SmallDel, r == BlackHole:
		return true
	}
	return false
}

// IsRecordable reports whether a write to r is shared by every caret.
// Only named registers and the clipboard are; the rest are caret-local for
// secondary carets.
func IsRecordable(r rune) bool {
	return IsLetter(r) || IsAppend(r) || IsClipboard(r)
}

// Normalize maps an append register to the register it appends to.
func Normalize(r rune) rune {
	if IsAppend(r) {
		return unicode.ToLower(r)
	}
	return r
}

// Order lists register names in :registers display order.
func Order() []rune {
	out := []rune{Unnamed}
	for r := '0'; r <= '9'; r++ {
		out = append(out, r)
	}
	for r := 'a'; r <= 'z'; r++ {
		out = append(out, r)
	}
	return append(out, SmallDel, Selection, Clipboard, LastIns, LastEx, FileName, LastFind)
}
