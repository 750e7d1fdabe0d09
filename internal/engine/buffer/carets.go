package buffer

import (
	"sort"

	"github.com/dshills/vimcore/internal/engine/text"
)

type caret struct {
	id       text.CaretID
	offset   text.Offset
	hasSel   bool
	selStart text.Offset
	selEnd   text.Offset
}

// Carets returns caret ids ascending by offset, ties broken by id.
func (b *Buffer) Carets() []text.CaretID {
	sorted := make([]*caret, len(b.carets))
	copy(sorted, b.carets)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].offset != sorted[j].offset {
			return sorted[i].offset < sorted[j].offset
		}
		return sorted[i].id < sorted[j].id
	})
	ids := make([]text.CaretID, len(sorted))
	for i, c := range sorted {
		ids[i] = c.id
	}
	return ids
}

// PrimaryCaret returns the primary caret id.
func (b *Buffer) PrimaryCaret() text.CaretID {
	return b.primary
}

func (b *Buffer) find(id text.CaretID) *caret {
	for _, c := range b.carets {
		if c.id == id {
			return c
		}
	}
	return nil
}

// CaretOffset returns the caret's offset, or 0 for an unknown caret.
func (b *Buffer) CaretOffset(id text.CaretID) text.Offset {
	if c := b.find(id); c != nil {
		return c.offset
	}
	return 0
}

// MoveCaret places the caret, clamped to the document.
func (b *Buffer) MoveCaret(id text.CaretID, to text.Offset) {
	if c := b.find(id); c != nil {
		c.offset = to.Clamp(len(b.text))
	}
}

// Selection returns the caret's selection.
func (b *Buffer) Selection(id text.CaretID) (text.Offset, text.Offset, bool) {
	c := b.find(id)
	if c == nil || !c.hasSel {
		return 0, 0, false
	}
	return c.selStart, c.selEnd, true
}

// SetSelection sets the caret's selection to [start, end).
func (b *Buffer) SetSelection(id text.CaretID, start, end text.Offset) {
	c := b.find(id)
	if c == nil {
		return
	}
	if end < start {
		start, end = end, start
	}
	c.hasSel = true
	c.selStart = start.Clamp(len(b.text))
	c.selEnd = end.Clamp(len(b.text))
}

// RemoveSelection clears the caret's selection.
func (b *Buffer) RemoveSelection(id text.CaretID) {
	if c := b.find(id); c != nil {
		c.hasSel = false
	}
}

// AddCaret adds a secondary caret. A caret already at the offset is
// returned instead of a new one.
func (b *Buffer) AddCaret(at text.Offset) text.CaretID {
	at = at.Clamp(len(b.text))
	for _, c := range b.carets {
		if c.offset == at {
			return c.id
		}
	}
	id := b.nextID
	b.nextID++
	b.carets = append(b.carets, &caret{id: id, offset: at})
	return id
}

// RemoveSecondaryCarets leaves only the primary caret.
func (b *Buffer) RemoveSecondaryCarets() {
	for _, c := range b.carets {
		if c.id == b.primary {
			b.carets = []*caret{c}
			return
		}
	}
}

// Offsets returns every caret offset in caret order.
func (b *Buffer) Offsets() []int {
	ids := b.Carets()
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(b.CaretOffset(id))
	}
	return out
}

// Caret returns the primary caret's offset.
func (b *Buffer) Caret() int {
	return int(b.CaretOffset(b.primary))
}

var (
	_ text.Editor       = (*Buffer)(nil)
	_ text.Viewport     = (*Buffer)(nil)
	_ text.VisualLines  = (*Buffer)(nil)
	_ text.Transactor   = (*Buffer)(nil)
	_ text.Undoer       = (*Buffer)(nil)
	_ text.UndoGrouper  = (*Buffer)(nil)
	_ text.PathProvider = (*Buffer)(nil)
)
