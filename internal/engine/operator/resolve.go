package operator

import (
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/text"
)

// Force overrides a motion's type, as "v", "V" and CTRL-V typed between an
// operator and its motion do.
type Force uint8

const (
	ForceNone Force = iota
	ForceCharacter
	ForceLine
	ForceBlock
)

// Request describes the span an operator applies to: either a motion from
// Caret to Target or a ready-made Range from a text object or selection.
type Request struct {
	Index  *text.Index
	Caret  text.Offset
	Target text.Offset
	Type   motion.Type
	Force  Force
	// Range takes precedence over Target when set.
	Range *text.TextRange
	// TabStop is needed for forced block ranges.
	TabStop int
}

// Resolution is the range an operator will act on.
type Resolution struct {
	Range text.TextRange
	// BackedOff is set when an exclusive motion ending at column 0 was
	// shortened to the previous line's end.
	BackedOff bool
}

// Resolve turns a motion or object into the range an operator acts on.
//
// Linewise motions cover whole lines. An exclusive motion whose end lands
// at the start of a later line stops at the end of the line before it
// instead, and covers whole lines when it also started at or before the
// first non-blank. Inclusive motions include the character at the end.
// Line ranges run from the first line's start to the last line's end,
// excluding the final newline; DeleteDryRun decides which newline goes.
func Resolve(req Request) (Resolution, error) {
	idx := req.Index
	if req.Range != nil {
		r := req.Range.Normalize(idx.Len())
		if req.Force == ForceLine && r.Type != text.Line {
			first, last := Lines(idx, r)
			return Resolution{Range: LineRange(idx, first, last)}, nil
		}
		return Resolution{Range: r}, nil
	}

	start, end := req.Caret, req.Target
	if end < start {
		start, end = end, start
	}
	typ := req.Type
	switch req.Force {
	case ForceLine:
		typ = motion.Linewise
	case ForceCharacter:
		// o_v toggles inclusive and exclusive, and makes linewise exclusive.
		if typ == motion.Exclusive {
			typ = motion.Inclusive
		} else {
			typ = motion.Exclusive
		}
	case ForceBlock:
		tab := req.TabStop
		if tab <= 0 {
			tab = 8
		}
		return Resolution{Range: BlockRange(idx, req.Caret, req.Target, tab, false)}, nil
	}

	switch typ {
	case motion.Linewise:
		return Resolution{Range: lineRange(idx, start, end)}, nil
	case motion.Inclusive:
		if int(end) < idx.Len() {
			end = text.NextGrapheme(idx.Text(), end, text.Offset(idx.Len()))
		}
		return Resolution{Range: text.NewRange(start, end, text.Character)}, nil
	}

	if end == start {
		return Resolution{}, engine.ErrMotionFailed
	}
	startLine, endLine := idx.LineOf(start), idx.LineOf(end)
	if endLine > startLine && end == idx.LineStart(endLine) {
		prev := endLine - 1
		if start <= idx.FirstNonBlank(startLine) {
			return Resolution{Range: lineRange(idx, start, idx.LineStart(prev)), BackedOff: true}, nil
		}
		return Resolution{Range: text.NewRange(start, idx.LineEnd(prev), text.Character), BackedOff: true}, nil
	}
	return Resolution{Range: text.NewRange(start, end, text.Character)}, nil
}

// lineRange covers the lines of caret positions start and end.
func lineRange(idx *text.Index, start, end text.Offset) text.TextRange {
	return LineRange(idx, idx.LineOf(start), idx.LineOf(end))
}

// LineRange returns the Line range covering lines first through last.
func LineRange(idx *text.Index, first, last int) text.TextRange {
	if last < first {
		first, last = last, first
	}
	first, last = idx.ClampLine(first), idx.ClampLine(last)
	return text.NewRange(idx.LineStart(first), idx.LineEnd(last), text.Line)
}

// Lines returns the first and last line a range touches.
func Lines(idx *text.Index, r text.TextRange) (first, last int) {
	start, end := r.Start(), r.End()
	first, last = idx.LineOf(start), idx.LineOf(end)
	if r.Type != text.Line && end > start && last > first && end == idx.LineStart(last) {
		last--
	}
	return first, last
}

// BlockRange returns the rectangle with corners a and b, one pair per line.
// Columns are display columns. With toEnd every row runs to its line end,
// as after "$" in Visual block mode.
func BlockRange(idx *text.Index, a, b text.Offset, tabstop int, toEnd bool) text.TextRange {
	s := idx.Text()
	la, lb := idx.LineOf(a), idx.LineOf(b)
	ca := text.VisualColumn(idx.LineText(la), idx.Column(a), tabstop)
	cb := text.VisualColumn(idx.LineText(lb), idx.Column(b), tabstop)
	if la > lb {
		la, lb = lb, la
	}
	left, right := ca, cb
	if left > right {
		left, right = right, left
	}
	// The right edge includes the full width of the character under it.
	rightOff := b
	if cb < ca {
		rightOff = a
	}
	rightLine := idx.LineOf(rightOff)
	if int(rightOff) < len(s) {
		rt := idx.LineText(rightLine)
		next := text.NextGrapheme(s, rightOff, idx.LineEnd(rightLine))
		w := text.VisualColumn(rt, idx.Column(next), tabstop) - text.VisualColumn(rt, idx.Column(rightOff), tabstop)
		if w > 0 {
			right += w - 1
		}
	}

	var starts, ends []text.Offset
	for line := la; line <= lb; line++ {
		lt := idx.LineText(line)
		ls := idx.LineStart(line)
		st := ls + text.Offset(text.ByteColumnAt(lt, left, tabstop, true))
		en := idx.LineEnd(line)
		if !toEnd {
			en = ls + text.Offset(text.ByteColumnAt(lt, right+1, tabstop, true))
		}
		if en < st {
			en = st
		}
		starts = append(starts, st)
		ends = append(ends, en)
	}
	return text.NewBlockRange(starts, ends)
}
