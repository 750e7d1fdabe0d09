package buffer

import (
	"strings"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/text"
)

// Fold hides lines (Start, End] behind line Start.
type Fold struct {
	Start, End int
}

// Buffer is an in-memory document with carets.
// It is not safe for concurrent use; the engine is single-threaded.
type Buffer struct {
	text     string
	readOnly bool
	path     string

	carets  []*caret
	primary text.CaretID
	nextID  text.CaretID

	firstVisible int
	lastVisible  int
	width        int
	folds        []Fold

	undo []string
	redo []string

	writeTx int
	readTx  int
	// depth counts open write actions; edits inside one share an undo step.
	depth   int
	grouped bool
}

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithReadOnly marks the document as not writable.
func WithReadOnly() Option {
	return func(b *Buffer) {
		b.readOnly = true
	}
}

// WithPath sets the document's file path.
func WithPath(path string) Option {
	return func(b *Buffer) {
		b.path = path
	}
}

// WithCaret places the primary caret at offset.
func WithCaret(offset int) Option {
	return func(b *Buffer) {
		b.carets[0].offset = text.Offset(offset).Clamp(len(b.text))
	}
}

// WithCarets adds secondary carets at the given offsets.
func WithCarets(offsets ...int) Option {
	return func(b *Buffer) {
		for _, o := range offsets {
			b.AddCaret(text.Offset(o))
		}
	}
}

// WithViewport sets the visible line window and width.
func WithViewport(first, last, width int) Option {
	return func(b *Buffer) {
		b.firstVisible = first
		b.lastVisible = last
		b.width = width
	}
}

// WithFolds collapses the given line spans.
func WithFolds(folds ...Fold) Option {
	return func(b *Buffer) {
		b.folds = append(b.folds, folds...)
	}
}

// New creates a buffer holding s with a single caret at offset 0.
func New(s string, opts ...Option) *Buffer {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	b := &Buffer{
		text:         s,
		firstVisible: 0,
		lastVisible:  -1,
		width:        80,
	}
	b.carets = []*caret{{id: 0}}
	b.nextID = 1

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Text returns the full buffer contents.
func (b *Buffer) Text() string {
	return b.text
}

// String returns the buffer contents.
func (b *Buffer) String() string {
	return b.text
}

// Writable reports whether the document accepts edits.
func (b *Buffer) Writable() bool {
	return !b.readOnly
}

// SetReadOnly toggles writability.
func (b *Buffer) SetReadOnly(ro bool) {
	b.readOnly = ro
}

// Path returns the document's file path.
func (b *Buffer) Path() string {
	return b.path
}

// Insert inserts s before offset at. Carets at or after at shift right.
func (b *Buffer) Insert(at text.Offset, s string) error {
	if b.readOnly {
		return engine.ErrReadOnly
	}
	if at < 0 || int(at) > len(b.text) {
		return engine.ErrOffsetOutOfRange
	}
	if s == "" {
		return nil
	}
	b.pushUndo()
	b.text = b.text[:at] + s + b.text[at:]
	n := text.Offset(len(s))
	for _, c := range b.carets {
		if c.offset > at {
			c.offset += n
		}
		if c.hasSel {
			if c.selStart >= at {
				c.selStart += n
			}
			if c.selEnd > at {
				c.selEnd += n
			}
		}
	}
	return nil
}

// Delete removes [start, end). Carets inside collapse to start; carets past
// it shift left.
func (b *Buffer) Delete(start, end text.Offset) error {
	if b.readOnly {
		return engine.ErrReadOnly
	}
	if start > end {
		return engine.ErrRangeInvalid
	}
	if start < 0 || int(end) > len(b.text) {
		return engine.ErrOffsetOutOfRange
	}
	if start == end {
		return nil
	}
	b.pushUndo()
	b.text = b.text[:start] + b.text[end:]
	shift := func(o text.Offset) text.Offset {
		switch {
		case o >= end:
			return o - (end - start)
		case o > start:
			return start
		}
		return o
	}
	for _, c := range b.carets {
		c.offset = shift(c.offset)
		if c.hasSel {
			c.selStart, c.selEnd = shift(c.selStart), shift(c.selEnd)
		}
	}
	return nil
}

// Replace swaps [start, end) for s.
func (b *Buffer) Replace(start, end text.Offset, s string) error {
	if err := b.Delete(start, end); err != nil {
		return err
	}
	return b.Insert(start, s)
}

// SetText replaces the whole document and resets carets to offset 0.
func (b *Buffer) SetText(s string) {
	b.pushUndo()
	b.text = s
	for _, c := range b.carets {
		c.offset = c.offset.Clamp(len(s))
		c.hasSel = false
	}
}

// FirstVisibleLine returns the first line of the viewport.
func (b *Buffer) FirstVisibleLine() int {
	return b.firstVisible
}

// LastVisibleLine returns the last line of the viewport, defaulting to the
// last line of the document.
func (b *Buffer) LastVisibleLine() int {
	if b.lastVisible < 0 {
		return text.NewIndex(b.text).LineCount() - 1
	}
	return b.lastVisible
}

// VisibleWidth returns the viewport width in columns.
func (b *Buffer) VisibleWidth() int {
	return b.width
}

// SetViewport moves the visible window.
func (b *Buffer) SetViewport(first, last int) {
	b.firstVisible, b.lastVisible = first, last
}

// LogicalToVisualLine maps a logical line to its visual line, collapsing folds.
func (b *Buffer) LogicalToVisualLine(line int) int {
	hidden := 0
	for _, f := range b.folds {
		switch {
		case line > f.End:
			hidden += f.End - f.Start
		case line > f.Start:
			return f.Start - hidden
		}
	}
	return line - hidden
}

// VisualToLogicalLine maps a visual line back to the first logical line it shows.
func (b *Buffer) VisualToLogicalLine(visual int) int {
	line := visual
	for _, f := range b.folds {
		if line > f.Start {
			line += f.End - f.Start
		}
	}
	return line
}

// VisualLineCount returns the number of visual lines.
func (b *Buffer) VisualLineCount() int {
	n := text.NewIndex(b.text).LineCount()
	return b.LogicalToVisualLine(n-1) + 1
}

// RunWriteAction runs fn inside a write transaction. Every edit made
// before the outermost action returns is undone in one step.
func (b *Buffer) RunWriteAction(fn func() error) error {
	b.writeTx++
	b.depth++
	defer func() {
		b.depth--
		if b.depth == 0 {
			b.grouped = false
		}
	}()
	return fn()
}

// BeginUndoGroup opens a group that lasts until EndUndoGroup. Edits made
// inside it, in any number of write actions, undo in one step.
func (b *Buffer) BeginUndoGroup() {
	b.depth++
}

// EndUndoGroup closes the group opened by BeginUndoGroup.
func (b *Buffer) EndUndoGroup() {
	if b.depth == 0 {
		return
	}
	b.depth--
	if b.depth == 0 {
		b.grouped = false
	}
}

// RunReadAction runs fn inside a read transaction.
func (b *Buffer) RunReadAction(fn func() error) error {
	b.readTx++
	return fn()
}

// Transactions returns the write and read transaction counts.
func (b *Buffer) Transactions() (write, read int) {
	return b.writeTx, b.readTx
}

func (b *Buffer) pushUndo() {
	if b.depth > 0 {
		if b.grouped {
			return
		}
		b.grouped = true
	}
	b.undo = append(b.undo, b.text)
	b.redo = b.redo[:0]
}

// Undo restores the text before the most recent edit.
func (b *Buffer) Undo() error {
	if len(b.undo) == 0 {
		return engine.ErrNothingToUndo
	}
	prev := b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]
	b.redo = append(b.redo, b.text)
	b.text = prev
	b.clampCarets()
	return nil
}

// Redo reapplies the most recently undone edit.
func (b *Buffer) Redo() error {
	if len(b.redo) == 0 {
		return engine.ErrNothingToRedo
	}
	next := b.redo[len(b.redo)-1]
	b.redo = b.redo[:len(b.redo)-1]
	b.undo = append(b.undo, b.text)
	b.text = next
	b.clampCarets()
	return nil
}

func (b *Buffer) clampCarets() {
	for _, c := range b.carets {
		c.offset = c.offset.Clamp(len(b.text))
		c.hasSel = false
	}
}
