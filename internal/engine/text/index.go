package text

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Index is a line index over an immutable snapshot of the buffer text.
//
// Line numbering follows Vim: a trailing newline terminates the last line
// instead of starting a new empty one, so "a\nb\n" has two lines.
type Index struct {
	text   string
	starts []int
	count  int
}

// NewIndex builds the line index for s.
func NewIndex(s string) *Index {
	starts := make([]int, 1, strings.Count(s, "\n")+1)
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	count := len(starts)
	if count > 1 && starts[count-1] == len(s) {
		count--
	}
	return &Index{text: s, starts: starts, count: count}
}

// IndexOf builds the line index for the view's current text.
func IndexOf(v TextView) *Index {
	return NewIndex(v.Text())
}

// Text returns the indexed text.
func (x *Index) Text() string { return x.text }

// Len returns the text length in bytes.
func (x *Index) Len() int { return len(x.text) }

// LineCount returns the number of lines; an empty buffer has one line.
func (x *Index) LineCount() int { return x.count }

// HasTrailingNewline reports whether the last line ends with a newline.
func (x *Index) HasTrailingNewline() bool {
	return len(x.text) > 0 && x.text[len(x.text)-1] == '\n'
}

// ClampLine limits line to [0, LineCount-1].
func (x *Index) ClampLine(line int) int {
	if line < 0 {
		return 0
	}
	if line >= x.count {
		return x.count - 1
	}
	return line
}

// LineStart returns the offset of the first character of line.
func (x *Index) LineStart(line int) Offset {
	return Offset(x.starts[x.ClampLine(line)])
}

// LineEnd returns the offset just past the last character of line,
// excluding the newline.
func (x *Index) LineEnd(line int) Offset {
	line = x.ClampLine(line)
	if line+1 < len(x.starts) {
		return Offset(x.starts[line+1] - 1)
	}
	return Offset(len(x.text))
}

// LineEndWithNewline returns the offset just past line's newline, or the
// buffer end for a final line without one.
func (x *Index) LineEndWithNewline(line int) Offset {
	line = x.ClampLine(line)
	if line+1 < len(x.starts) {
		return Offset(x.starts[line+1])
	}
	return Offset(len(x.text))
}

// LineLength returns the byte length of line without its newline.
func (x *Index) LineLength(line int) int {
	return int(x.LineEnd(line) - x.LineStart(line))
}

// LineText returns line's text without its newline.
func (x *Index) LineText(line int) string {
	return x.text[x.LineStart(line):x.LineEnd(line)]
}

// LineOf returns the line containing o.
func (x *Index) LineOf(o Offset) int {
	o = o.Clamp(len(x.text))
	i := sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > int(o) }) - 1
	return x.ClampLine(i)
}

// Column returns o's byte column within its line.
func (x *Index) Column(o Offset) int {
	return int(o - x.LineStart(x.LineOf(o)))
}

// OffsetToLogical converts o to a line and byte column.
func (x *Index) OffsetToLogical(o Offset) LogicalPosition {
	line := x.LineOf(o)
	return LogicalPosition{Line: line, Column: int(o.Clamp(len(x.text)) - x.LineStart(line))}
}

// LogicalToOffset converts p to an offset, clamping the column to the line.
func (x *Index) LogicalToOffset(p LogicalPosition) Offset {
	line := x.ClampLine(p.Line)
	start := x.LineStart(line)
	col := p.Column
	if col < 0 {
		col = 0
	}
	if n := x.LineLength(line); col > n {
		col = n
	}
	return start + Offset(col)
}

// LastCharOffset returns where a Normal-mode caret rests at the end of line:
// the start of its last grapheme, or the line start for an empty line.
func (x *Index) LastCharOffset(line int) Offset {
	start, end := x.LineStart(line), x.LineEnd(line)
	if end <= start {
		return start
	}
	return PrevGrapheme(x.text, end, start)
}

// FirstNonBlank returns the first non-blank character of line, or the
// last character position when the line is all blanks.
func (x *Index) FirstNonBlank(line int) Offset {
	start, end := x.LineStart(line), x.LineEnd(line)
	for o := start; o < end; o++ {
		if c := x.text[o]; c != ' ' && c != '\t' {
			return o
		}
	}
	return x.LastCharOffset(line)
}

// IsBlankLine reports whether line is empty or only whitespace.
func (x *Index) IsBlankLine(line int) bool {
	return strings.TrimSpace(x.LineText(line)) == ""
}

// IsEmptyLine reports whether line has no characters.
func (x *Index) IsEmptyLine(line int) bool {
	return x.LineLength(line) == 0
}

// RuneAt returns the rune starting at o, or utf8.RuneError at end of text.
func (x *Index) RuneAt(o Offset) rune {
	if o < 0 || int(o) >= len(x.text) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(x.text[o:])
	return r
}

// RuneBefore returns the rune ending at o.
func (x *Index) RuneBefore(o Offset) (rune, int) {
	if o <= 0 || int(o) > len(x.text) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeLastRuneInString(x.text[:o])
}

// Slice returns the text in [start, end).
func (x *Index) Slice(start, end Offset) string {
	start, end = start.Clamp(len(x.text)), end.Clamp(len(x.text))
	if end < start {
		start, end = end, start
	}
	return x.text[start:end]
}

// IsBlank reports whether r is a space or tab.
func IsBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

// IsSpace reports whether r is whitespace, including newlines.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r)
}
