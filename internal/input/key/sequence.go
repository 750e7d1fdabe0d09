package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidKey is returned by ParseKey for text that is not one key.
var ErrInvalidKey = errors.New("invalid key notation")

// Sequence is an ordered list of key events.
type Sequence []Event

// String returns the notation of the sequence.
func (s Sequence) String() string {
	var b strings.Builder
	for _, e := range s {
		b.WriteString(e.String())
	}
	return b.String()
}

// Clone returns a copy of s.
func (s Sequence) Clone() Sequence {
	return append(Sequence(nil), s...)
}

// Text returns the characters typed by s, or false if s holds anything
// other than plain characters.
func (s Sequence) Text() (string, bool) {
	var b strings.Builder
	for _, e := range s {
		if e.Key != KeyRune || e.Mods != ModNone {
			return "", false
		}
		b.WriteRune(e.Rune)
	}
	return b.String(), true
}

// FromText returns the events that type s literally.
func FromText(s string) Sequence {
	out := make(Sequence, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		out = append(out, Rune(r))
	}
	return out
}

// ParseNotation parses key notation such as "d2w", "<C-r>a" or "i<lt><Esc>".
// A '<' that does not open a known key name is taken literally.
func ParseNotation(s string) Sequence {
	var out Sequence
	for i := 0; i < len(s); {
		if s[i] == '<' {
			if end := strings.IndexByte(s[i+1:], '>'); end > 0 {
				if e, err := parseBracket(s[i+1 : i+1+end]); err == nil {
					out = append(out, e)
					i += end + 2
					continue
				}
			}
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		out = append(out, Rune(r))
		i += size
	}
	return out
}

// ParseKey parses the notation of exactly one key.
func ParseKey(s string) (Event, error) {
	seq := ParseNotation(s)
	if len(seq) != 1 {
		return Event{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return seq[0], nil
}

// parseBracket parses the inside of <...>: modifiers such as "C-" followed
// by a key name or a single character.
func parseBracket(inner string) (Event, error) {
	var mods Modifier
	for len(inner) > 2 && inner[1] == '-' {
		m, ok := modifierFor(inner[0])
		if !ok {
			break
		}
		mods |= m
		inner = inner[2:]
	}

	if k, r, ok := lookup(inner); ok {
		if k == KeyRune {
			return Event{Key: KeyRune, Rune: r, Mods: mods}, nil
		}
		return Event{Key: k, Mods: mods}.Normalize(), nil
	}

	r, size := utf8.DecodeRuneInString(inner)
	if size != len(inner) || mods == ModNone || r == utf8.RuneError {
		return Event{}, fmt.Errorf("%w: <%s>", ErrInvalidKey, inner)
	}
	if mods.Has(ModCtrl) && 'A' <= r && r <= 'Z' {
		r += 'a' - 'A'
	}
	return Event{Key: KeyRune, Rune: r, Mods: mods}.Normalize(), nil
}
