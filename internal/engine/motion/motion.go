// Package motion computes caret destinations for Vim motions.
//
// Every motion is a pure function of a Context (a text snapshot, the caret,
// the count and a few options) and returns a Motion: either a target offset
// or Error when nothing was found. Applying the result is the caller's job.
package motion

import (
	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/text"
)

// LastColumn is the desired-column sentinel meaning "end of line". It is
// set by "$" and survives vertical moves until a horizontal motion resets it.
const LastColumn = 9999

// NoColumn asks the caller to derive the desired column from the new offset.
const NoColumn = -1

// Motion is the result of a motion computation.
type Motion struct {
	Offset text.Offset
	// Column is the desired display column to remember after the move.
	Column int
	failed bool
}

// Error is the result of a motion that found nothing. Callers no-op.
var Error = Motion{Column: NoColumn, failed: true}

// To returns a successful motion to o.
func To(o text.Offset) Motion {
	return Motion{Offset: o, Column: NoColumn}
}

// WithColumn returns m remembering col as the desired column.
func (m Motion) WithColumn(col int) Motion {
	m.Column = col
	return m
}

// Failed reports whether the motion found nothing.
func (m Motion) Failed() bool { return m.failed }

// Err returns engine.ErrMotionFailed for a failed motion, nil otherwise.
func (m Motion) Err() error {
	if m.failed {
		return engine.ErrMotionFailed
	}
	return nil
}

// Type says how an operator interprets the span up to a motion's target.
type Type uint8

const (
	Exclusive Type = iota
	Inclusive
	Linewise
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case Exclusive:
		return "exclusive"
	case Inclusive:
		return "inclusive"
	case Linewise:
		return "linewise"
	default:
		return "unknown"
	}
}

// Context carries what a motion needs to know about the caret and buffer.
type Context struct {
	Index *text.Index
	Caret text.Offset
	// Count is the effective count, at least 1.
	Count int
	// HasCount is set when the user typed a count; G, % and | depend on it.
	HasCount bool
	// DesiredColumn is the remembered display column, LastColumn, or NoColumn.
	DesiredColumn int
	// PastEnd allows targets at a line's end, as needed for operator
	// boundaries. Plain caret placement leaves it unset.
	PastEnd bool

	Options    *config.Options
	Classifier text.Classifier
	Viewport   text.Viewport
	Lines      text.VisualLines
	Literals   text.LiteralDetector
	// Marks resolves a mark name to an offset.
	Marks func(name rune) (text.Offset, bool)
}

func (c *Context) count() int {
	if c.Count < 1 {
		return 1
	}
	return c.Count
}

func (c *Context) options() *config.Options {
	if c.Options == nil {
		d := config.Defaults()
		c.Options = &d
	}
	return c.Options
}

func (c *Context) pastEnd() bool {
	return c.PastEnd || c.options().HasVirtualEdit("onemore")
}

func (c *Context) lines() text.VisualLines {
	if c.Lines == nil {
		c.Lines = text.VisualLinesOf(nil, c.Index)
	}
	return c.Lines
}

// lineLimit returns the last offset a caret may occupy on line.
func (c *Context) lineLimit(line int) text.Offset {
	if c.pastEnd() {
		return c.Index.LineEnd(line)
	}
	return c.Index.LastCharOffset(line)
}

// Compute evaluates kind for ctx. arg is the character operand of find and
// mark motions. Search kinds are evaluated by the search package and yield
// Error here.
func Compute(ctx *Context, kind Kind, arg rune) Motion {
	switch kind {
	case Left, Backspace:
		return left(ctx, kind)
	case Right, Space:
		return right(ctx, kind)
	case Up, ScreenUp:
		return vertical(ctx, -ctx.count())
	case Down, ScreenDown:
		return vertical(ctx, ctx.count())
	case LineUp:
		return lineFirstNonBlank(ctx, -ctx.count())
	case LineDown:
		return lineFirstNonBlank(ctx, ctx.count())
	case LineCurrent:
		return lineFirstNonBlank(ctx, ctx.count()-1)
	case LineStart, ScreenLineStart:
		return To(ctx.Index.LineStart(ctx.Index.LineOf(ctx.Caret))).WithColumn(0)
	case FirstNonBlank:
		return To(ctx.Index.FirstNonBlank(ctx.Index.LineOf(ctx.Caret)))
	case LineEnd, ScreenLineEnd:
		return lineEnd(ctx)
	case LastNonBlank:
		return lastNonBlank(ctx)
	case Column:
		return column(ctx)
	case WordForward, BigWordForward:
		return wordForward(ctx, kind == BigWordForward)
	case WordBackward, BigWordBackward:
		return wordBackward(ctx, kind == BigWordBackward)
	case WordEnd, BigWordEnd:
		return wordEnd(ctx, kind == BigWordEnd)
	case WordEndBackward, BigWordEndBackward:
		return wordEndBackward(ctx, kind == BigWordEndBackward)
	case GotoFirstLine:
		return gotoLine(ctx, ctx.HasCount, 0)
	case GotoLine:
		return gotoLine(ctx, ctx.HasCount, ctx.Index.LineCount()-1)
	case GotoPercent:
		return gotoPercent(ctx)
	case GotoByte:
		return gotoByte(ctx)
	case MatchPair:
		if ctx.HasCount {
			return gotoPercent(ctx)
		}
		return matchPair(ctx)
	case ScreenTop, ScreenMiddle, ScreenBottom:
		return screen(ctx, kind)
	case FindForward, FindBackward, TillForward, TillBackward:
		return FindChar(ctx, kind, arg, false)
	case ParagraphForward:
		return paragraph(ctx, true)
	case ParagraphBackward:
		return paragraph(ctx, false)
	case SentenceForward:
		return sentence(ctx, true)
	case SentenceBackward:
		return sentence(ctx, false)
	case MarkLine, MarkExact:
		return mark(ctx, kind, arg)
	default:
		return Error
	}
}
