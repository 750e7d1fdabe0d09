package operator

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/text"
)

// Join joins count lines starting at line, at least two. With spaces set
// (J) the next line's indent is dropped and a separator inserted; without
// (gJ) lines are concatenated as they are.
func Join(ed text.MutableTextView, line, count int, spaces bool, opts *config.Options) (Outcome, error) {
	if !ed.Writable() {
		return Outcome{}, engine.ErrReadOnly
	}
	if count < 2 {
		count = 2
	}
	idx := text.IndexOf(ed)
	if line+1 >= idx.LineCount() {
		return Outcome{}, engine.ErrMotionFailed
	}
	joins := min(count-1, idx.LineCount()-1-line)
	joinSpaces := opts != nil && opts.JoinSpaces

	var caret text.Offset
	for n := 0; n < joins; n++ {
		idx = text.IndexOf(ed)
		cur := idx.LineText(line)
		end := idx.LineEnd(line)
		next := idx.LineText(line + 1)
		lead := 0
		sep := ""
		if spaces {
			lead = len(leadingWhite(next))
			rest := next[lead:]
			switch {
			case rest == "", cur == "":
			case strings.HasSuffix(cur, " "), strings.HasSuffix(cur, "\t"):
			case strings.HasPrefix(rest, ")"):
			case joinSpaces && endsSentence(cur):
				sep = "  "
			default:
				sep = " "
			}
		}
		// Remove the newline and the next line's indent.
		if err := replace(ed, end, end+1+text.Offset(lead), sep); err != nil {
			return Outcome{}, err
		}
		caret = end
	}
	idx = text.IndexOf(ed)
	return Outcome{Caret: clampToChar(idx, caret), Lines: joins + 1}, nil
}

// PutOptions controls a put.
type PutOptions struct {
	// Before puts before the caret (P) instead of after it (p).
	Before bool
	Count  int
	// CaretAfter leaves the caret just after the new text (gp, gP).
	CaretAfter bool
}

// Put inserts register content of the given type at the caret.
func Put(ctx *Context, content string, typ text.SelectionType, po PutOptions) (Outcome, error) {
	ed := ctx.Editor
	if !ed.Writable() {
		return Outcome{}, engine.ErrReadOnly
	}
	if content == "" {
		return Outcome{}, engine.ErrMotionFailed
	}
	count := max(po.Count, 1)
	switch typ {
	case text.Line:
		return putLines(ctx, content, count, po)
	case text.Block:
		return putBlock(ctx, content, count, po)
	default:
		return putChars(ctx, content, count, po)
	}
}

func putChars(ctx *Context, content string, count int, po PutOptions) (Outcome, error) {
	ed := ctx.Editor
	idx := text.IndexOf(ed)
	at := ctx.Caret
	if !po.Before {
		line := idx.LineOf(at)
		at = text.NextGrapheme(idx.Text(), at, idx.LineEnd(line))
	}
	rep := strings.Repeat(content, count)
	if err := ed.Insert(at, rep); err != nil {
		return Outcome{}, err
	}
	end := at + text.Offset(len(rep))
	out := Outcome{Lines: strings.Count(rep, "\n") + 1}
	switch {
	case po.CaretAfter:
		out.Caret = end
	case strings.Contains(rep, "\n"):
		out.Caret = at
	default:
		out.Caret = text.PrevGrapheme(ed.Text(), end, at)
	}
	return out, nil
}

func putLines(ctx *Context, content string, count int, po PutOptions) (Outcome, error) {
	ed := ctx.Editor
	idx := text.IndexOf(ed)
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	rep := strings.Repeat(content, count)
	n := strings.Count(rep, "\n")
	line := idx.LineOf(ctx.Caret)

	var firstNew int
	var err error
	switch {
	case po.Before:
		firstNew = line
		err = ed.Insert(idx.LineStart(line), rep)
	case line == idx.LineCount()-1 && !idx.HasTrailingNewline():
		firstNew = line + 1
		err = ed.Insert(text.Offset(idx.Len()), "\n"+strings.TrimSuffix(rep, "\n"))
	default:
		firstNew = line + 1
		err = ed.Insert(idx.LineEndWithNewline(line), rep)
	}
	if err != nil {
		return Outcome{}, err
	}
	idx = text.IndexOf(ed)
	out := Outcome{Lines: n}
	if po.CaretAfter {
		after := firstNew + n
		if after >= idx.LineCount() {
			out.Caret = idx.LineStart(idx.LineCount() - 1)
		} else {
			out.Caret = idx.LineStart(after)
		}
	} else {
		out.Caret = idx.FirstNonBlank(firstNew)
	}
	return out, nil
}

// putBlock inserts each row of content on successive lines at the caret's
// display column, padding short lines and adding lines at the end.
func putBlock(ctx *Context, content string, count int, po PutOptions) (Outcome, error) {
	ed := ctx.Editor
	opts := ctx.options()
	ts := opts.TabStop
	idx := text.IndexOf(ed)
	rows := strings.Split(content, "\n")

	line := idx.LineOf(ctx.Caret)
	lt := idx.LineText(line)
	col := text.VisualColumn(lt, idx.Column(ctx.Caret), ts)
	if !po.Before && lt != "" {
		next := text.NextGrapheme(idx.Text(), ctx.Caret, idx.LineEnd(line))
		col = text.VisualColumn(lt, idx.Column(next), ts)
	}
	width := 0
	for _, r := range rows {
		width = max(width, text.DisplayWidth(r, ts))
	}

	var first, lastEnd text.Offset
	for i, row := range rows {
		padded := row + strings.Repeat(" ", width-text.DisplayWidth(row, ts))
		piece := strings.Repeat(padded, count)
		idx = text.IndexOf(ed)
		l := line + i
		var at text.Offset
		var ins string
		if l >= idx.LineCount() {
			ins = strings.Repeat(" ", col) + strings.TrimRight(piece, " ")
			if idx.HasTrailingNewline() {
				at = text.Offset(idx.Len())
				ins += "\n"
			} else {
				at = text.Offset(idx.Len())
				ins = "\n" + ins
			}
		} else {
			lt := idx.LineText(l)
			dw := text.DisplayWidth(lt, ts)
			if dw < col {
				at = idx.LineEnd(l)
				ins = strings.Repeat(" ", col-dw) + strings.TrimRight(piece, " ")
			} else {
				at = idx.LineStart(l) + text.Offset(text.ByteColumnAt(lt, col, ts, true))
				ins = piece
				if at == idx.LineEnd(l) {
					ins = strings.TrimRight(piece, " ")
				}
			}
		}
		if err := ed.Insert(at, ins); err != nil {
			return Outcome{}, err
		}
		if i == 0 {
			first = at
			if strings.HasPrefix(ins, "\n") {
				first++
			}
		}
		lastEnd = at + text.Offset(len(strings.TrimSuffix(ins, "\n")))
	}
	out := Outcome{Caret: first, Lines: len(rows)}
	if po.CaretAfter {
		out.Caret = lastEnd
	}
	return out, nil
}

// ReplaceChar replaces count characters from the caret with ch, as "r"
// does. A newline replaces all of them with a single line break.
func ReplaceChar(ed text.MutableTextView, caret text.Offset, ch rune, count int) (Outcome, error) {
	if !ed.Writable() {
		return Outcome{}, engine.ErrReadOnly
	}
	count = max(count, 1)
	idx := text.IndexOf(ed)
	s := idx.Text()
	line := idx.LineOf(caret)
	le := idx.LineEnd(line)
	end := caret
	for n := 0; n < count; n++ {
		if end >= le {
			return Outcome{}, engine.ErrMotionFailed
		}
		end = text.NextGrapheme(s, end, le)
	}
	if ch == '\n' {
		if err := replace(ed, caret, end, "\n"); err != nil {
			return Outcome{}, err
		}
		return Outcome{Caret: caret + 1, Lines: 2}, nil
	}
	rep := strings.Repeat(string(ch), count)
	if err := replace(ed, caret, end, rep); err != nil {
		return Outcome{}, err
	}
	return Outcome{Caret: caret + text.Offset(len(rep)-utf8.RuneLen(ch)), Lines: 1}, nil
}

// ReplaceRange replaces every character of r except line breaks with ch,
// as "r" does in Visual mode.
func ReplaceRange(ed text.MutableTextView, r text.TextRange, ch rune) (Outcome, error) {
	if !ed.Writable() {
		return Outcome{}, engine.ErrReadOnly
	}
	s := ed.Text()
	r = r.Normalize(len(s))
	if r.IsEmpty() {
		return Outcome{}, engine.ErrMotionFailed
	}
	for i := len(r.Starts) - 1; i >= 0; i-- {
		st, en := r.Starts[i], r.Ends[i]
		seg := s[st:en]
		var b strings.Builder
		for _, b0 := range text.GraphemeBoundaries(seg, 0, text.Offset(len(seg))) {
			if seg[b0] == '\n' {
				b.WriteByte('\n')
				continue
			}
			b.WriteRune(ch)
		}
		if err := replace(ed, st, en, b.String()); err != nil {
			return Outcome{}, err
		}
	}
	return Outcome{Caret: r.Start()}, nil
}
