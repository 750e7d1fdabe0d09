package motion

import (
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/engine/text"
)

// wordScanner walks runes of a text snapshot classifying them for word motions.
type wordScanner struct {
	s   string
	cls text.Classifier
	big bool
}

func (w wordScanner) class(o text.Offset) text.CharClass {
	r, _ := utf8.DecodeRuneInString(w.s[o:])
	return w.cls.Class(r, w.big)
}

func (w wordScanner) next(o text.Offset) text.Offset {
	_, size := utf8.DecodeRuneInString(w.s[o:])
	if size == 0 {
		size = 1
	}
	return o + text.Offset(size)
}

func (w wordScanner) prev(o text.Offset) text.Offset {
	_, size := utf8.DecodeLastRuneInString(w.s[:o])
	if size == 0 {
		size = 1
	}
	return o - text.Offset(size)
}

// emptyLineAt reports whether o is the start of an empty line.
func (w wordScanner) emptyLineAt(o text.Offset) bool {
	return int(o) < len(w.s) && w.s[o] == '\n' && (o == 0 || w.s[o-1] == '\n')
}

// nextWordStart returns the start of the word after o, or len(s).
// An empty line counts as a word.
func (w wordScanner) nextWordStart(o text.Offset) text.Offset {
	n := text.Offset(len(w.s))
	if c := w.class(o); c != text.ClassBlank {
		for o < n && w.s[o] != '\n' && w.class(o) == c {
			o = w.next(o)
		}
	}
	for o < n && w.class(o) == text.ClassBlank {
		if w.s[o] == '\n' {
			o++
			if w.emptyLineAt(o) {
				return o
			}
			continue
		}
		o = w.next(o)
	}
	return o
}

// prevWordStart returns the start of the word before o.
func (w wordScanner) prevWordStart(o text.Offset) text.Offset {
	o = w.prev(o)
	for o > 0 && w.class(o) == text.ClassBlank && !w.emptyLineAt(o) {
		o = w.prev(o)
	}
	if w.emptyLineAt(o) {
		return o
	}
	c := w.class(o)
	for o > 0 {
		p := w.prev(o)
		if w.s[p] == '\n' || w.class(p) != c {
			break
		}
		o = p
	}
	return o
}

// wordEndFrom returns the last rune of the word ending after o, or len(s).
func (w wordScanner) wordEndFrom(o text.Offset) text.Offset {
	n := text.Offset(len(w.s))
	o = w.next(o)
	for o < n && w.class(o) == text.ClassBlank {
		o = w.next(o)
	}
	if o >= n {
		return n
	}
	c := w.class(o)
	for {
		nx := w.next(o)
		if nx >= n || w.s[nx] == '\n' || w.class(nx) != c {
			return o
		}
		o = nx
	}
}

// prevWordEnd returns the last rune of the word before o. Empty lines stop it.
func (w wordScanner) prevWordEnd(o text.Offset) text.Offset {
	if c := w.class(o); c != text.ClassBlank {
		for o > 0 {
			p := w.prev(o)
			if w.s[p] == '\n' || w.class(p) != c {
				o = p
				break
			}
			o = p
		}
		if o == 0 && w.class(0) == c {
			return -1
		}
	} else {
		o = w.prev(o)
	}
	for o > 0 && w.class(o) == text.ClassBlank && !w.emptyLineAt(o) {
		o = w.prev(o)
	}
	if o == 0 && w.class(0) == text.ClassBlank && !w.emptyLineAt(0) {
		return -1
	}
	return o
}

func (ctx *Context) scanner(big bool) wordScanner {
	return wordScanner{s: ctx.Index.Text(), cls: ctx.Classifier, big: big}
}

func wordForward(ctx *Context, big bool) Motion {
	w := ctx.scanner(big)
	n := text.Offset(len(w.s))
	o := ctx.Caret
	if o >= n {
		return Error
	}

	var stepStart text.Offset
	for i := ctx.count(); i > 0 && o < n; i-- {
		stepStart = o
		o = w.nextWordStart(o)
	}

	if ctx.PastEnd {
		// The last word moved over ends the operated text when it is at the
		// end of its line.
		switch {
		case o >= n && n > 0 && w.s[n-1] == '\n':
			// The final newline stays: the operated text ends where the
			// last line does.
			o = n - 1
		case o < n && ctx.Index.LineOf(o) > ctx.Index.LineOf(stepStart):
			if end := lastNonBlankBefore(w, o); end >= stepStart && ctx.Index.LineOf(end) < ctx.Index.LineOf(o) {
				o = ctx.Index.LineEnd(ctx.Index.LineOf(end))
			}
		}
		if o == ctx.Caret {
			return Error
		}
		return To(o)
	}

	if o >= n {
		o = ctx.Index.LastCharOffset(ctx.Index.LineCount() - 1)
	}
	if o <= ctx.Caret {
		return Error
	}
	return To(o)
}

// lastNonBlankBefore returns the last non-blank rune before o, or -1.
func lastNonBlankBefore(w wordScanner, o text.Offset) text.Offset {
	for o > 0 {
		o = w.prev(o)
		if w.class(o) != text.ClassBlank {
			return o
		}
	}
	return -1
}

func wordBackward(ctx *Context, big bool) Motion {
	w := ctx.scanner(big)
	o := ctx.Caret.Clamp(len(w.s))
	if o == 0 {
		return Error
	}
	for i := ctx.count(); i > 0 && o > 0; i-- {
		o = w.prevWordStart(o)
	}
	return To(o)
}

func wordEnd(ctx *Context, big bool) Motion {
	w := ctx.scanner(big)
	n := text.Offset(len(w.s))
	o := ctx.Caret
	for i := ctx.count(); i > 0; i-- {
		next := w.wordEndFrom(o)
		if next >= n {
			break
		}
		o = next
	}
	if o == ctx.Caret {
		return Error
	}
	return To(o)
}

func wordEndBackward(ctx *Context, big bool) Motion {
	w := ctx.scanner(big)
	o := ctx.Caret.Clamp(len(w.s))
	if o >= text.Offset(len(w.s)) && o > 0 {
		o = w.prev(o)
	}
	for i := ctx.count(); i > 0; i-- {
		p := w.prevWordEnd(o)
		if p < 0 {
			if o == ctx.Caret {
				return Error
			}
			return To(0)
		}
		o = p
	}
	if o == ctx.Caret {
		return Error
	}
	return To(o)
}
