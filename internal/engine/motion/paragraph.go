package motion

import (
	"sort"

	"github.com/dshills/vimcore/internal/engine/text"
)

// paragraph moves to the next or previous empty line. A run of empty lines
// is one boundary. Running off the buffer lands on its first or last
// character.
func paragraph(ctx *Context, forward bool) Motion {
	idx := ctx.Index
	line := idx.LineOf(ctx.Caret)
	last := idx.LineCount() - 1

	for n := ctx.count(); n > 0; n-- {
		if forward {
			if line >= last {
				break
			}
			for line < last && idx.IsEmptyLine(line) {
				line++
			}
			for line < last && !idx.IsEmptyLine(line) {
				line++
			}
		} else {
			if line <= 0 {
				break
			}
			for line > 0 && idx.IsEmptyLine(line) {
				line--
			}
			for line > 0 && !idx.IsEmptyLine(line) {
				line--
			}
		}
	}

	var o text.Offset
	switch {
	case forward && line == last && !idx.IsEmptyLine(line):
		o = ctx.lineLimit(line)
	case forward && line == last && ctx.PastEnd:
		o = idx.LineEnd(line)
	default:
		o = idx.LineStart(line)
	}
	if o == ctx.Caret {
		return Error
	}
	return To(o)
}

// SentenceStarts returns every sentence start in the snapshot, sorted.
// A sentence ends at '.', '!' or '?' followed by optional closing
// characters and then whitespace or the end of a line. Empty lines are
// sentence starts of their own, and so is the first non-blank after them.
func SentenceStarts(idx *text.Index) []text.Offset {
	s := idx.Text()
	seen := make(map[text.Offset]bool)
	var out []text.Offset
	add := func(o text.Offset) {
		if int(o) < len(s) && !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	skipWhite := func(o int) int {
		for o < len(s) && (s[o] == ' ' || s[o] == '\t' || s[o] == '\n') {
			if s[o] == '\n' && o+1 < len(s) && s[o+1] == '\n' {
				return o + 1
			}
			o++
		}
		return o
	}

	add(text.Offset(skipWhite(0)))
	for line := 0; line < idx.LineCount(); line++ {
		if idx.IsEmptyLine(line) {
			add(idx.LineStart(line))
			if line+1 < idx.LineCount() && !idx.IsEmptyLine(line+1) {
				add(text.Offset(skipWhite(int(idx.LineStart(line + 1)))))
			}
		}
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '.' && s[i] != '!' && s[i] != '?' {
			continue
		}
		j := i + 1
		for j < len(s) && (s[j] == ')' || s[j] == ']' || s[j] == '"' || s[j] == '\'') {
			j++
		}
		if j < len(s) && s[j] != ' ' && s[j] != '\t' && s[j] != '\n' {
			continue
		}
		if k := skipWhite(j); k > j || j == len(s) {
			add(text.Offset(k))
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

func sentence(ctx *Context, forward bool) Motion {
	idx := ctx.Index
	starts := SentenceStarts(idx)
	o := ctx.Caret
	for n := ctx.count(); n > 0; n-- {
		if forward {
			i := sort.Search(len(starts), func(i int) bool { return starts[i] > o })
			if i == len(starts) {
				last := idx.LineCount() - 1
				end := ctx.lineLimit(last)
				if o >= end {
					break
				}
				o = end
				break
			}
			o = starts[i]
		} else {
			i := sort.Search(len(starts), func(i int) bool { return starts[i] >= o }) - 1
			if i < 0 {
				if o == 0 {
					break
				}
				o = 0
				break
			}
			o = starts[i]
		}
	}
	if o == ctx.Caret {
		return Error
	}
	return To(o)
}
