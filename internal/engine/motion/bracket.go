package motion

import (
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/engine/text"
)

// matchPair implements "%": find the first bracket at or after the caret on
// its line, then jump to its partner. Brackets inside quoted strings are
// skipped unless the starting bracket is itself inside one.
func matchPair(ctx *Context) Motion {
	idx := ctx.Index
	s := idx.Text()
	pairs := ctx.options().Pairs()
	closers := make(map[rune]rune, len(pairs))
	for open, cl := range pairs {
		closers[cl] = open
	}

	line := idx.LineOf(ctx.Caret)
	end := idx.LineEnd(line)
	start := text.Offset(-1)
	var br rune
	for o := ctx.Caret; o < end; {
		r, size := utf8.DecodeRuneInString(s[o:])
		if _, ok := pairs[r]; ok {
			start, br = o, r
			break
		}
		if _, ok := closers[r]; ok {
			start, br = o, r
			break
		}
		o += text.Offset(size)
	}
	if start < 0 {
		return Error
	}

	lit := ctx.literalCheck()
	inLit := lit(start)

	if cl, ok := pairs[br]; ok {
		depth := 0
		for o := start; int(o) < len(s); {
			r, size := utf8.DecodeRuneInString(s[o:])
			if lit(o) == inLit {
				switch r {
				case br:
					depth++
				case cl:
					depth--
					if depth == 0 {
						return To(o)
					}
				}
			}
			o += text.Offset(size)
		}
		return Error
	}

	open := closers[br]
	depth := 0
	for o := start + text.Offset(utf8.RuneLen(br)); o > 0; {
		r, size := utf8.DecodeLastRuneInString(s[:o])
		o -= text.Offset(size)
		if lit(o) != inLit {
			continue
		}
		switch r {
		case br:
			depth++
		case open:
			depth--
			if depth == 0 {
				return To(o)
			}
		}
	}
	return Error
}

// literalCheck returns a predicate telling whether an offset is inside a
// string literal. The host's detector wins; otherwise double and single
// quotes on the same line are balanced left to right.
func (c *Context) literalCheck() func(text.Offset) bool {
	if c.Literals != nil {
		return func(o text.Offset) bool {
			p, ok := o.Pointer(c.Index.Len())
			return ok && c.Literals.InLiteral(p)
		}
	}
	idx := c.Index
	cache := make(map[int][]bool)
	return func(o text.Offset) bool {
		line := idx.LineOf(o)
		flags, ok := cache[line]
		if !ok {
			flags = quotedBytes(idx.LineText(line))
			cache[line] = flags
		}
		col := idx.Column(o)
		return col < len(flags) && flags[col]
	}
}

// quotedBytes marks each byte of line that lies inside a quoted string.
// Quote characters themselves count as inside.
func quotedBytes(line string) []bool {
	out := make([]bool, len(line))
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			out[i] = true
			if c == '\\' && i+1 < len(line) {
				i++
				out[i] = true
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			if c == '\'' && i > 0 && isWordByte(line[i-1]) {
				continue
			}
			quote = c
			out[i] = true
		}
	}
	return out
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
