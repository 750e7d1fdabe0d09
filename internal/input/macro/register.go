package macro

import (
	"strings"

	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/register"
)

// Store is the register storage macros are kept in. *register.Store
// implements it.
type Store interface {
	Get(name rune) (register.Register, bool)
	Set(name rune, content string, typ text.SelectionType) error
}

// CanRecord reports whether "q" accepts name: a-z, A-Z to append, 0-9
// and the unnamed register.
func CanRecord(name rune) bool {
	return register.IsLetter(name) || register.IsAppend(name) ||
		register.IsNumbered(name) || name == register.Unnamed
}

// CanPlay reports whether "@" accepts name. '@' stands for the last played
// register.
func CanPlay(name rune) bool {
	switch {
	case name == '@':
		return true
	case CanRecord(name), register.IsClipboard(name):
		return true
	case name == register.LastIns, name == register.LastEx:
		return true
	}
	return false
}

// Encode returns the register text that replays keys.
func Encode(keys key.Sequence) string {
	return keys.String()
}

// Decode parses register text into keys. Line breaks in the text replay as
// <CR>, as they do when a yanked line is executed.
func Decode(content string) key.Sequence {
	seq := key.ParseNotation(content)
	for i, e := range seq {
		if e.Key == key.KeyRune && e.Mods == key.ModNone && (e.Rune == '\n' || e.Rune == '\r') {
			seq[i] = key.Enter
		}
	}
	return seq
}

// trimLineBreak drops a linewise register's final newline from an ex
// command line.
func trimLineBreak(s string) string {
	return strings.TrimSuffix(s, "\n")
}
