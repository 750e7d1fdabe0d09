package motion

import (
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/engine/text"
)

func left(ctx *Context, kind Kind) Motion {
	idx := ctx.Index
	s := idx.Text()
	wrap := ctx.options().WrapsWith("h")
	if kind == Backspace {
		wrap = ctx.options().WrapsWith("b")
	}

	o := ctx.Caret
	line := idx.LineOf(o)
	for n := ctx.count(); n > 0; n-- {
		start := idx.LineStart(line)
		if o > start {
			o = text.PrevGrapheme(s, o, start)
			continue
		}
		if !wrap || line == 0 {
			break
		}
		line--
		o = ctx.lineLimit(line)
	}
	if o == ctx.Caret {
		return Error
	}
	return To(o)
}

func right(ctx *Context, kind Kind) Motion {
	idx := ctx.Index
	s := idx.Text()
	wrap := ctx.options().WrapsWith("l")
	if kind == Space {
		wrap = ctx.options().WrapsWith("s")
	}

	o := ctx.Caret
	line := idx.LineOf(o)
	for n := ctx.count(); n > 0; n-- {
		limit := ctx.lineLimit(line)
		if o < limit {
			o = text.NextGrapheme(s, o, idx.LineEnd(line))
			continue
		}
		if !wrap || line+1 >= idx.LineCount() {
			break
		}
		line++
		o = idx.LineStart(line)
	}
	if o == ctx.Caret {
		return Error
	}
	return To(o)
}

func lineEnd(ctx *Context) Motion {
	idx := ctx.Index
	line := idx.LineOf(ctx.Caret) + ctx.count() - 1
	if line >= idx.LineCount() {
		return Error
	}
	return To(idx.LastCharOffset(line)).WithColumn(LastColumn)
}

func lastNonBlank(ctx *Context) Motion {
	idx := ctx.Index
	line := idx.LineOf(ctx.Caret) + ctx.count() - 1
	if line >= idx.LineCount() {
		return Error
	}
	start, end := idx.LineStart(line), idx.LineEnd(line)
	for o := end; o > start; {
		r, size := utf8.DecodeLastRuneInString(idx.Text()[start:o])
		if !text.IsBlank(r) {
			return To(text.AlignToGrapheme(idx.Text(), o-text.Offset(size), start))
		}
		o -= text.Offset(size)
	}
	return To(start)
}

func column(ctx *Context) Motion {
	idx := ctx.Index
	line := idx.LineOf(ctx.Caret)
	lt := idx.LineText(line)
	want := ctx.count() - 1
	col := text.ByteColumnAt(lt, want, ctx.options().TabStop, false)
	return To(idx.LineStart(line) + text.Offset(col)).WithColumn(want)
}

// FindChar runs f, F, t or T for ch on the caret's line. With repeat set, a
// till motion that would not move because ch is adjacent hops past it.
func FindChar(ctx *Context, kind Kind, ch rune, repeat bool) Motion {
	idx := ctx.Index
	s := idx.Text()
	line := idx.LineOf(ctx.Caret)
	start, end := idx.LineStart(line), idx.LineEnd(line)
	bounds := text.GraphemeBoundaries(s, start, end)

	cur := -1
	for i, b := range bounds {
		if b <= ctx.Caret {
			cur = i
		}
	}
	if cur < 0 {
		cur = 0
		if len(bounds) == 0 {
			return Error
		}
	}

	matches := func(i int) bool {
		r, _ := utf8.DecodeRuneInString(s[bounds[i]:])
		return r == ch
	}

	forward := kind == FindForward || kind == TillForward
	till := kind == TillForward || kind == TillBackward
	step := 1
	if !forward {
		step = -1
	}

	i := cur
	skip := repeat && till && ctx.count() == 1
	for n := ctx.count(); n > 0; n-- {
		i += step
		for i >= 0 && i < len(bounds) && !matches(i) {
			i += step
		}
		if i < 0 || i >= len(bounds) {
			return Error
		}
		if skip && i == cur+step {
			skip = false
			n++
		}
	}
	if till {
		i -= step
	}
	return To(bounds[i])
}
