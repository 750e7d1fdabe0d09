package search

import "github.com/dshills/vimcore/internal/engine/motion"

// FindState remembers the last f, F, t or T for ";" and ",".
type FindState struct {
	kind motion.Kind
	char rune
	set  bool
}

// Remember records a find-char command.
func (f *FindState) Remember(kind motion.Kind, ch rune) {
	if !kind.IsFind() {
		return
	}
	f.kind, f.char, f.set = kind, ch, true
}

// Last returns the remembered command.
func (f *FindState) Last() (motion.Kind, rune, bool) {
	return f.kind, f.char, f.set
}

// Repeat runs the remembered command again, reversed for ",". The returned
// kind carries the motion type an operator should use.
func (f *FindState) Repeat(ctx *motion.Context, reverse bool) (motion.Motion, motion.Kind) {
	if !f.set {
		return motion.Error, f.kind
	}
	kind := f.kind
	if reverse {
		kind = reverseFind(kind)
	}
	return motion.FindChar(ctx, kind, f.char, true), kind
}

func reverseFind(k motion.Kind) motion.Kind {
	switch k {
	case motion.FindForward:
		return motion.FindBackward
	case motion.FindBackward:
		return motion.FindForward
	case motion.TillForward:
		return motion.TillBackward
	case motion.TillBackward:
		return motion.TillForward
	}
	return k
}
