// Package operator resolves the range an operator acts on and performs the
// operator against the host buffer.
//
// Operators never touch registers or modes. They report what they removed
// or produced in an Outcome and the dispatcher routes it.
package operator

import (
	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/text"
)

// Operator identifies an operator command.
type Operator uint8

const (
	OpNone Operator = iota
	OpDelete
	OpYank
	OpChange
	OpIndent
	OpOutdent
	OpReindent
	OpToggleCase
	OpLower
	OpUpper
	OpRot13
	OpFormat
)

var operatorInfo = [...]struct {
	name string
	keys string
	edit bool
}{
	OpNone:       {"none", "", false},
	OpDelete:     {"delete", "d", true},
	OpYank:       {"yank", "y", false},
	OpChange:     {"change", "c", true},
	OpIndent:     {"indent", ">", true},
	OpOutdent:    {"outdent", "<", true},
	OpReindent:   {"reindent", "=", true},
	OpToggleCase: {"togglecase", "g~", true},
	OpLower:      {"lowercase", "gu", true},
	OpUpper:      {"uppercase", "gU", true},
	OpRot13:      {"rot13", "g?", true},
	OpFormat:     {"format", "gq", true},
}

// String returns the operator name.
func (o Operator) String() string {
	if int(o) < len(operatorInfo) {
		return operatorInfo[o].name
	}
	return "unknown"
}

// Keys returns the keys that invoke the operator in Normal mode.
func (o Operator) Keys() string {
	if int(o) < len(operatorInfo) {
		return operatorInfo[o].keys
	}
	return ""
}

// Modifies reports whether the operator changes the buffer.
func (o Operator) Modifies() bool {
	return int(o) < len(operatorInfo) && operatorInfo[o].edit
}

// ForKeys returns the operator typed as keys, such as "d" or "gU".
func ForKeys(keys string) (Operator, bool) {
	for i, info := range operatorInfo {
		if info.keys != "" && info.keys == keys {
			return Operator(i), true
		}
	}
	return OpNone, false
}

// Context carries what an operator needs besides its range.
type Context struct {
	Editor text.MutableTextView
	// Caret is the caret offset before the operator ran.
	Caret   text.Offset
	Options *config.Options
	// Amount repeats shift operators, as a count does in Visual mode.
	Amount int
}

func (c *Context) options() *config.Options {
	if c.Options == nil {
		d := config.Defaults()
		c.Options = &d
	}
	return c.Options
}

// Outcome reports what an operator did.
type Outcome struct {
	// Caret is where the caret goes afterwards.
	Caret text.Offset
	// Text is the register content the operator produced. HasText is false
	// for operators that produce none.
	Text    string
	Type    text.SelectionType
	HasText bool
	// Removed is the dry-run of a delete or change.
	Removed text.OperatedRange
	// Insert asks the caller to enter Insert mode.
	Insert bool
	// Rows holds the per-row insert positions after a block change.
	Rows []text.Offset
	// Lines is the number of lines the operator touched.
	Lines int
}

// Apply runs op over r.
func Apply(ctx *Context, op Operator, r text.TextRange) (Outcome, error) {
	if op.Modifies() && !ctx.Editor.Writable() {
		return Outcome{}, engine.ErrReadOnly
	}
	switch op {
	case OpDelete:
		return deleteOp(ctx, r)
	case OpYank:
		return yank(ctx, r)
	case OpChange:
		return change(ctx, r)
	case OpIndent:
		return shift(ctx, r, 1)
	case OpOutdent:
		return shift(ctx, r, -1)
	case OpReindent:
		return reindent(ctx, r)
	case OpToggleCase, OpLower, OpUpper, OpRot13:
		return transformCase(ctx, r, caseFuncs[op])
	case OpFormat:
		return format(ctx, r)
	default:
		return Outcome{}, engine.ErrMotionFailed
	}
}

func yank(ctx *Context, r text.TextRange) (Outcome, error) {
	idx := text.IndexOf(ctx.Editor)
	op := dryRun(idx, r)
	if op.IsEmpty() && r.Type != text.Line {
		return Outcome{}, engine.ErrMotionFailed
	}
	out := Outcome{
		Text:    yankText(idx, r, op),
		Type:    r.Type,
		HasText: true,
		Lines:   op.LineCount,
		Caret:   r.Start(),
	}
	if r.Type == text.Line {
		// A linewise yank keeps the caret's column unless it started below.
		out.Caret = ctx.Caret
		if ctx.Caret > r.Start() && idx.LineOf(ctx.Caret) != op.FirstLine {
			out.Caret = idx.LineStart(op.FirstLine) + text.Offset(min(idx.Column(ctx.Caret), idx.LineLength(op.FirstLine)))
		}
	}
	return out, nil
}

// yankText returns the register content for r. A linewise yank always
// holds whole lines ending in a newline.
func yankText(idx *text.Index, r text.TextRange, op text.OperatedRange) string {
	if r.Type == text.Line {
		first, last := idx.LineOf(r.Start()), idx.LineOf(r.End())
		return idx.Slice(idx.LineStart(first), idx.LineEnd(last)) + "\n"
	}
	return op.RegisterText()
}

func deleteOp(ctx *Context, r text.TextRange) (Outcome, error) {
	removed, err := Delete(ctx.Editor, r)
	if err != nil {
		return Outcome{}, err
	}
	idx := text.IndexOf(ctx.Editor)
	out := Outcome{
		Text:    removed.RegisterText(),
		Type:    r.Type,
		HasText: true,
		Removed: removed,
		Lines:   removed.LineCount,
	}
	switch r.Type {
	case text.Line:
		out.Caret = idx.FirstNonBlank(idx.ClampLine(removed.FirstLine))
	case text.Block:
		out.Caret = clampToChar(idx, r.Start())
	default:
		out.Caret = clampToChar(idx, removed.Start)
	}
	return out, nil
}

// clampToChar keeps a Normal-mode caret off the end of its line.
func clampToChar(idx *text.Index, o text.Offset) text.Offset {
	if int(o) > idx.Len() {
		o = text.Offset(idx.Len())
	}
	line := idx.LineOf(o)
	if last := idx.LastCharOffset(line); o > last {
		return last
	}
	return o
}

func change(ctx *Context, r text.TextRange) (Outcome, error) {
	ed := ctx.Editor
	switch r.Type {
	case text.Line:
		// Change keeps one empty line in place of the changed lines.
		idx := text.IndexOf(ed)
		op := dryRun(idx, r)
		first, last := idx.LineOf(r.Start()), idx.LineOf(r.End())
		start, end := idx.LineStart(first), idx.LineEnd(last)
		if end > start {
			if err := ed.Delete(start, end); err != nil {
				return Outcome{}, err
			}
		}
		return Outcome{
			Caret:   start,
			Text:    op.RegisterText(),
			Type:    text.Line,
			HasText: true,
			Removed: op,
			Insert:  true,
			Lines:   op.LineCount,
		}, nil
	case text.Block:
		removed, err := Delete(ed, r)
		if err != nil && !engine.IsMotionFailure(err) {
			return Outcome{}, err
		}
		rows := make([]text.Offset, len(r.Starts))
		var shiftBy text.Offset
		for i := range r.Starts {
			rows[i] = r.Starts[i] - shiftBy
			shiftBy += r.Ends[i] - r.Starts[i]
		}
		return Outcome{
			Caret:   rows[0],
			Text:    removed.RegisterText(),
			Type:    text.Block,
			HasText: err == nil,
			Removed: removed,
			Insert:  true,
			Rows:    rows,
			Lines:   len(rows),
		}, nil
	default:
		if r.IsEmpty() {
			return Outcome{Caret: r.Start(), Insert: true}, nil
		}
		removed, err := Delete(ed, r)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{
			Caret:   removed.Start,
			Text:    removed.RegisterText(),
			Type:    text.Character,
			HasText: true,
			Removed: removed,
			Insert:  true,
			Lines:   removed.LineCount,
		}, nil
	}
}
