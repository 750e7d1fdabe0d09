package operator

import (
	"strings"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/engine/text"
)

// replace swaps [start, end) for s.
func replace(ed text.MutableTextView, start, end text.Offset, s string) error {
	if end > start {
		if err := ed.Delete(start, end); err != nil {
			return err
		}
	}
	if s == "" {
		return nil
	}
	return ed.Insert(start, s)
}

// leadingWhite returns the indentation of line.
func leadingWhite(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// buildIndent renders an indent of width display columns.
func buildIndent(width int, opts *config.Options) string {
	if width <= 0 {
		return ""
	}
	if opts.ExpandTab || opts.TabStop <= 0 {
		return strings.Repeat(" ", width)
	}
	return strings.Repeat("\t", width/opts.TabStop) + strings.Repeat(" ", width%opts.TabStop)
}

func shiftWidth(opts *config.Options) int {
	if opts.ShiftWidth > 0 {
		return opts.ShiftWidth
	}
	if opts.TabStop > 0 {
		return opts.TabStop
	}
	return 8
}

// shift indents (dir 1) or outdents (dir -1) every line of r by
// 'shiftwidth' times the amount. Empty lines are never indented.
func shift(ctx *Context, r text.TextRange, dir int) (Outcome, error) {
	ed := ctx.Editor
	opts := ctx.options()
	idx := text.IndexOf(ed)
	first, last := Lines(idx, r)
	amount := max(ctx.Amount, 1)
	delta := dir * shiftWidth(opts) * amount

	for line := last; line >= first; line-- {
		lt := idx.LineText(line)
		if lt == "" {
			continue
		}
		ws := leadingWhite(lt)
		width := text.DisplayWidth(ws, opts.TabStop) + delta
		indent := buildIndent(width, opts)
		if indent == ws {
			continue
		}
		ls := idx.LineStart(line)
		if err := replace(ed, ls, ls+text.Offset(len(ws)), indent); err != nil {
			return Outcome{}, err
		}
	}
	idx = text.IndexOf(ed)
	return Outcome{Caret: idx.FirstNonBlank(first), Lines: last - first + 1}, nil
}

// reindent gives every line of r the indent of the nearest non-blank line
// above the range, as 'autoindent' would. Blank lines lose their
// whitespace.
func reindent(ctx *Context, r text.TextRange) (Outcome, error) {
	ed := ctx.Editor
	idx := text.IndexOf(ed)
	first, last := Lines(idx, r)

	ref := leadingWhite(idx.LineText(first))
	for l := first - 1; l >= 0; l-- {
		if !idx.IsBlankLine(l) {
			ref = leadingWhite(idx.LineText(l))
			break
		}
	}

	for line := last; line >= first; line-- {
		lt := idx.LineText(line)
		ws := leadingWhite(lt)
		want := ref
		if ws == lt {
			want = ""
		}
		if ws == want {
			continue
		}
		ls := idx.LineStart(line)
		if err := replace(ed, ls, ls+text.Offset(len(ws)), want); err != nil {
			return Outcome{}, err
		}
	}
	idx = text.IndexOf(ed)
	return Outcome{Caret: idx.FirstNonBlank(first), Lines: last - first + 1}, nil
}
