package operator

import (
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/text"
)

// DeleteDryRun computes what deleting r would remove without touching the
// buffer. Line ranges take the newline after their last line (NLOnEnd);
// at the end of a buffer without one they take the newline before their
// first line (NLOnStart); a buffer holding only those lines has neither
// (NoNL).
func DeleteDryRun(view text.TextView, r text.TextRange) text.OperatedRange {
	return dryRun(text.IndexOf(view), r)
}

func dryRun(idx *text.Index, r text.TextRange) text.OperatedRange {
	s := idx.Text()
	r = r.Normalize(len(s))
	switch r.Type {
	case text.Line:
		first, last := idx.LineOf(r.Start()), idx.LineOf(r.End())
		start, end := idx.LineStart(first), idx.LineEnd(last)
		shift := text.NoNL
		switch {
		case int(end) < len(s):
			end++
			shift = text.NLOnEnd
		case start > 0:
			start--
			shift = text.NLOnStart
		}
		return text.OperatedRange{
			Text:      s[start:end],
			Start:     start,
			End:       end,
			Type:      text.Line,
			Shift:     shift,
			FirstLine: first,
			LineCount: last - first + 1,
		}
	case text.Block:
		out := text.OperatedRange{Type: text.Block, Start: r.Start(), End: r.End()}
		for i := range r.Starts {
			st, en := r.Starts[i], r.Ends[i]
			out.Rows = append(out.Rows, text.OperatedRange{
				Text:  s[st:en],
				Start: st,
				End:   en,
				Type:  text.Character,
			})
		}
		out.FirstLine = idx.LineOf(r.Start())
		out.LineCount = len(r.Starts)
		return out
	default:
		st, en := r.Start(), r.End()
		return text.OperatedRange{
			Text:      s[st:en],
			Start:     st,
			End:       en,
			Type:      text.Character,
			FirstLine: idx.LineOf(st),
			LineCount: idx.LineOf(en) - idx.LineOf(st) + 1,
		}
	}
}

// Delete removes r from ed and returns what was removed.
func Delete(ed text.MutableTextView, r text.TextRange) (text.OperatedRange, error) {
	if !ed.Writable() {
		return text.OperatedRange{}, engine.ErrReadOnly
	}
	op := DeleteDryRun(ed, r)
	if op.IsEmpty() {
		return op, engine.ErrMotionFailed
	}
	if err := apply(ed, op); err != nil {
		return text.OperatedRange{}, err
	}
	return op, nil
}

// apply performs a dry-run result. Block rows go bottom to top so earlier
// offsets stay valid.
func apply(ed text.MutableTextView, op text.OperatedRange) error {
	if op.Type != text.Block {
		return ed.Delete(op.Start, op.End)
	}
	for i := len(op.Rows) - 1; i >= 0; i-- {
		row := op.Rows[i]
		if row.End <= row.Start {
			continue
		}
		if err := ed.Delete(row.Start, row.End); err != nil {
			return err
		}
	}
	return nil
}
