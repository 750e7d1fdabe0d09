package dispatcher

import (
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/engine/tracking"
)

func (m *Machine) buf() *tracking.Editor { return m.state.Buffer() }

func (m *Machine) index() *text.Index { return text.IndexOf(m.buf()) }

func (m *Machine) primary() text.CaretID { return m.buf().PrimaryCaret() }

func (m *Machine) position(o text.Offset) text.LogicalPosition {
	idx := m.index()
	return idx.OffsetToLogical(min(o, text.Offset(idx.Len())))
}

// motionContext describes caret id for the motion engine. pastEnd lets
// targets land on a line's end, as operator boundaries need.
func (m *Machine) motionContext(id text.CaretID, count int, hasCount, pastEnd bool) *motion.Context {
	buf := m.buf()
	host := m.state.Editor()
	idx := text.IndexOf(buf)
	path := m.state.Path()
	ctx := &motion.Context{
		Index:         idx,
		Caret:         buf.CaretOffset(id),
		Count:         count,
		HasCount:      hasCount,
		DesiredColumn: m.column(id),
		PastEnd:       pastEnd,
		Options:       m.state.Options,
		Classifier:    text.ParseKeywordSpec(m.state.Options.IsKeyword),
		Lines:         text.VisualLinesOf(host, idx),
		Marks: func(name rune) (text.Offset, bool) {
			return m.state.Marks.Offset(idx, path, name)
		},
	}
	if vp, ok := host.(text.Viewport); ok {
		ctx.Viewport = vp
	}
	if ld, ok := host.(text.LiteralDetector); ok {
		ctx.Literals = ld
	}
	return ctx
}

// column returns the desired column of caret id, or NoColumn.
func (m *Machine) column(id text.CaretID) int {
	if c, ok := m.columns[id]; ok {
		return c
	}
	return motion.NoColumn
}

func (m *Machine) setColumn(id text.CaretID, col int) {
	if col == motion.NoColumn {
		delete(m.columns, id)
		return
	}
	m.columns[id] = col
}

// moveTo places caret id at a motion's target and remembers its column.
func (m *Machine) moveTo(id text.CaretID, mv motion.Motion) {
	m.buf().MoveCaret(id, mv.Offset)
	m.setColumn(id, mv.Column)
}

// eachCaret runs fn for every caret, bottom caret first, so that edits do
// not shift carets still to be processed. Every caret runs; the error is
// the first one reported.
func (m *Machine) eachCaret(fn func(id text.CaretID, primary bool) error) error {
	buf := m.buf()
	carets := buf.Carets()
	primary := buf.PrimaryCaret()
	var first error
	for i := len(carets) - 1; i >= 0; i-- {
		if err := fn(carets[i], carets[i] == primary); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// clampCarets keeps carets off line ends in Normal mode, unless
// 'virtualedit' includes onemore.
func (m *Machine) clampCarets() {
	if !m.modes.Mode().IsNormalLike() || m.state.Options.HasVirtualEdit("onemore") {
		return
	}
	buf := m.buf()
	idx := text.IndexOf(buf)
	for _, id := range buf.Carets() {
		o := min(buf.CaretOffset(id), text.Offset(idx.Len()))
		if last := idx.LastCharOffset(idx.LineOf(o)); o > last {
			buf.MoveCaret(id, last)
		}
	}
}

func (m *Machine) saveJump(id text.CaretID) {
	m.state.Marks.SaveJump(m.state.Path(), m.position(m.buf().CaretOffset(id)))
}

// write runs fn in one host write action.
func (m *Machine) write(fn func() error) error {
	if tx, ok := m.state.Editor().(text.Transactor); ok {
		return tx.RunWriteAction(fn)
	}
	return fn()
}

// beginUndoGroup merges the following write actions into one undo step
// until the matching endUndoGroup, on hosts that support it. Groups nest.
func (m *Machine) beginUndoGroup() {
	m.undoDepth++
	if m.undoDepth > 1 {
		return
	}
	if g, ok := m.state.Editor().(text.UndoGrouper); ok {
		g.BeginUndoGroup()
	}
}

func (m *Machine) endUndoGroup() {
	if m.undoDepth == 0 {
		return
	}
	m.undoDepth--
	if m.undoDepth > 0 {
		return
	}
	if g, ok := m.state.Editor().(text.UndoGrouper); ok {
		g.EndUndoGroup()
	}
}

// dropSecondaryCarets collapses to the primary caret and forgets the
// per-caret state of the others.
func (m *Machine) dropSecondaryCarets() {
	buf := m.buf()
	primary := buf.PrimaryCaret()
	buf.RemoveSecondaryCarets()
	m.state.Registers.DropShadows()
	for id := range m.columns {
		if id != primary {
			delete(m.columns, id)
		}
	}
}
