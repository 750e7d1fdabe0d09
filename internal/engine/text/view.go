package text

// TextView is read access to the host's character sequence.
type TextView interface {
	// Text returns the full buffer contents.
	Text() string

	// Writable reports whether the document accepts edits.
	Writable() bool
}

// MutableTextView adds the buffer mutations the engine issues.
type MutableTextView interface {
	TextView

	// Insert inserts s before offset at.
	Insert(at Offset, s string) error

	// Delete removes the bytes in [start, end).
	Delete(start, end Offset) error
}

// CaretID identifies a caret for the lifetime of the caret.
type CaretID int

// CaretView exposes the host's carets and selections.
type CaretView interface {
	// Carets returns caret ids in a stable order, ascending by offset.
	Carets() []CaretID

	// PrimaryCaret returns the caret that owns named registers.
	PrimaryCaret() CaretID

	// CaretOffset returns the caret's offset.
	CaretOffset(id CaretID) Offset

	// MoveCaret places the caret at offset to.
	MoveCaret(id CaretID, to Offset)

	// Selection returns the caret's selection bounds, if any.
	Selection(id CaretID) (start, end Offset, ok bool)

	// SetSelection sets the caret's selection to [start, end).
	SetSelection(id CaretID, start, end Offset)

	// RemoveSelection clears the caret's selection.
	RemoveSelection(id CaretID)

	// AddCaret adds a secondary caret at offset at. Hosts merge a caret
	// added on top of an existing one.
	AddCaret(at Offset) CaretID

	// RemoveSecondaryCarets leaves only the primary caret.
	RemoveSecondaryCarets()
}

// Editor is the capability set a host adapter provides.
type Editor interface {
	MutableTextView
	CaretView
}

// Viewport is implemented by hosts that can report the visible window.
// Only screen-relative motions use it.
type Viewport interface {
	FirstVisibleLine() int
	LastVisibleLine() int
	VisibleWidth() int
}

// VisualLines is implemented by hosts whose visual lines differ from logical
// lines because of folds or inlays.
type VisualLines interface {
	LogicalToVisualLine(line int) int
	VisualToLogicalLine(visual int) int
	VisualLineCount() int
}

// Transactor is implemented by hosts that need edits bracketed.
type Transactor interface {
	RunWriteAction(fn func() error) error
	RunReadAction(fn func() error) error
}

// Undoer is implemented by hosts with an undo history.
type Undoer interface {
	Undo() error
	Redo() error
}

// UndoGrouper is implemented by hosts that can merge the edits of several
// write actions into one undo step, as an insert session needs.
type UndoGrouper interface {
	BeginUndoGroup()
	EndUndoGroup()
}

// LiteralDetector is implemented by hosts with a lexer. The bracket motion
// skips characters inside string or comment literals.
type LiteralDetector interface {
	InLiteral(p Pointer) bool
}

// PathProvider is implemented by hosts that know the document's file path.
type PathProvider interface {
	Path() string
}

// identityLines maps visual lines one-to-one onto logical lines.
type identityLines struct{ count int }

func (l identityLines) LogicalToVisualLine(line int) int  { return line }
func (l identityLines) VisualToLogicalLine(visual int) int { return visual }
func (l identityLines) VisualLineCount() int               { return l.count }

// VisualLinesOf returns the host mapping, or an identity mapping over idx.
func VisualLinesOf(v any, idx *Index) VisualLines {
	if vl, ok := v.(VisualLines); ok {
		return vl
	}
	return identityLines{count: idx.LineCount()}
}
