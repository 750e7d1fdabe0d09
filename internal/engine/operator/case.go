package operator

import (
	"unicode"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/text"
)

var caseFuncs = map[Operator]func(rune) rune{
	OpToggleCase: toggleRune,
	OpLower:      unicode.ToLower,
	OpUpper:      unicode.ToUpper,
	OpRot13:      rot13,
}

func toggleRune(r rune) rune {
	switch {
	case unicode.IsUpper(r):
		return unicode.ToLower(r)
	case unicode.IsLower(r):
		return unicode.ToUpper(r)
	}
	return r
}

func rot13(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return 'a' + (r-'a'+13)%26
	case r >= 'A' && r <= 'Z':
		return 'A' + (r-'A'+13)%26
	}
	return r
}

// MapRunes applies fn to every rune of s.
func MapRunes(s string, fn func(rune) rune) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		out = append(out, fn(r))
	}
	return string(out)
}

// transformCase rewrites every pair of r through fn, bottom pair first.
func transformCase(ctx *Context, r text.TextRange, fn func(rune) rune) (Outcome, error) {
	ed := ctx.Editor
	s := ed.Text()
	r = r.Normalize(len(s))
	if r.IsEmpty() {
		return Outcome{}, engine.ErrMotionFailed
	}
	for i := len(r.Starts) - 1; i >= 0; i-- {
		st, en := r.Starts[i], r.Ends[i]
		old := s[st:en]
		repl := MapRunes(old, fn)
		if repl == old {
			continue
		}
		if err := replace(ed, st, en, repl); err != nil {
			return Outcome{}, err
		}
	}
	idx := text.IndexOf(ed)
	first, last := Lines(idx, r)
	return Outcome{Caret: clampToChar(idx, r.Start()), Lines: last - first + 1}, nil
}
