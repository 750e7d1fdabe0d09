package operator

import (
	"strings"

	"github.com/dshills/vimcore/internal/engine/text"
)

const defaultTextWidth = 79

// format re-wraps each paragraph of r to 'textwidth'. Paragraphs are runs
// of non-blank lines; every wrapped line takes the first line's indent.
func format(ctx *Context, r text.TextRange) (Outcome, error) {
	ed := ctx.Editor
	opts := ctx.options()
	width := opts.TextWidth
	if width <= 0 {
		width = defaultTextWidth
	}
	idx := text.IndexOf(ed)
	first, last := Lines(idx, r)

	type para struct{ first, last int }
	var paras []para
	for l := first; l <= last; l++ {
		if idx.IsBlankLine(l) {
			continue
		}
		p := para{first: l, last: l}
		for p.last+1 <= last && !idx.IsBlankLine(p.last+1) {
			p.last++
		}
		paras = append(paras, p)
		l = p.last
	}

	lastLine := last
	for i := len(paras) - 1; i >= 0; i-- {
		p := paras[i]
		indent := leadingWhite(idx.LineText(p.first))
		words := strings.Fields(idx.Slice(idx.LineStart(p.first), idx.LineEnd(p.last)))
		lines := wrapWords(words, indent, width, opts.JoinSpaces, opts.TabStop)
		if err := replace(ed, idx.LineStart(p.first), idx.LineEnd(p.last), strings.Join(lines, "\n")); err != nil {
			return Outcome{}, err
		}
		lastLine += len(lines) - (p.last - p.first + 1)
	}

	idx = text.IndexOf(ed)
	lastLine = idx.ClampLine(lastLine)
	return Outcome{Caret: idx.FirstNonBlank(lastLine), Lines: last - first + 1}, nil
}

// wrapWords fills lines up to width display columns. A word longer than
// the width gets a line of its own.
func wrapWords(words []string, indent string, width int, joinSpaces bool, tabstop int) []string {
	var (
		out []string
		cur strings.Builder
	)
	prev := ""
	for _, w := range words {
		if cur.Len() == 0 {
			cur.WriteString(indent)
			cur.WriteString(w)
			prev = w
			continue
		}
		sep := " "
		if joinSpaces && endsSentence(prev) {
			sep = "  "
		}
		if text.DisplayWidth(cur.String()+sep+w, tabstop) > width {
			out = append(out, cur.String())
			cur.Reset()
			cur.WriteString(indent)
			cur.WriteString(w)
		} else {
			cur.WriteString(sep)
			cur.WriteString(w)
		}
		prev = w
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func endsSentence(w string) bool {
	return strings.HasSuffix(w, ".") || strings.HasSuffix(w, "!") || strings.HasSuffix(w, "?")
}
