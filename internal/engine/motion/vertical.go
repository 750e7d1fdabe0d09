package motion

import (
	"github.com/dshills/vimcore/internal/engine/text"
)

// desiredColumn returns the display column vertical motions aim for.
func (c *Context) desiredColumn() int {
	if c.DesiredColumn != NoColumn && c.DesiredColumn >= 0 {
		return c.DesiredColumn
	}
	idx := c.Index
	line := idx.LineOf(c.Caret)
	return text.VisualColumn(idx.LineText(line), idx.Column(c.Caret), c.options().TabStop)
}

// atColumn returns the offset on line nearest display column col.
func (c *Context) atColumn(line, col int) text.Offset {
	idx := c.Index
	if col >= LastColumn {
		return c.lineLimit(line)
	}
	lt := idx.LineText(line)
	b := text.ByteColumnAt(lt, col, c.options().TabStop, c.pastEnd())
	return idx.LineStart(line) + text.Offset(b)
}

// vertical moves delta lines through the host's visual-line mapping, so a
// folded region counts as one step.
func vertical(ctx *Context, delta int) Motion {
	idx := ctx.Index
	vl := ctx.lines()
	line := idx.LineOf(ctx.Caret)
	cur := vl.LogicalToVisualLine(line)
	last := vl.VisualLineCount() - 1

	target := cur + delta
	switch {
	case delta > 0 && cur >= last, delta < 0 && cur <= 0:
		return Error
	case target > last:
		target = last
	case target < 0:
		target = 0
	}

	tl := idx.ClampLine(vl.VisualToLogicalLine(target))
	col := ctx.desiredColumn()
	return To(ctx.atColumn(tl, col)).WithColumn(col)
}

func lineFirstNonBlank(ctx *Context, delta int) Motion {
	idx := ctx.Index
	line := idx.LineOf(ctx.Caret)
	target := line + delta
	if target < 0 || target >= idx.LineCount() {
		return Error
	}
	return To(idx.FirstNonBlank(target))
}

// lineTarget places the caret on line per 'startofline'.
func (c *Context) lineTarget(line int) Motion {
	if c.options().StartOfLine {
		return To(c.Index.FirstNonBlank(line))
	}
	col := c.desiredColumn()
	return To(c.atColumn(line, col)).WithColumn(col)
}

func gotoLine(ctx *Context, hasCount bool, dflt int) Motion {
	line := dflt
	if hasCount {
		line = ctx.Index.ClampLine(ctx.count() - 1)
	}
	return ctx.lineTarget(line)
}

func gotoPercent(ctx *Context) Motion {
	if !ctx.HasCount || ctx.Count > 100 {
		return Error
	}
	n := ctx.Index.LineCount()
	line := (ctx.count()*n + 99) / 100
	return ctx.lineTarget(ctx.Index.ClampLine(line - 1))
}

func gotoByte(ctx *Context) Motion {
	o := text.Offset(ctx.count() - 1).Clamp(ctx.Index.Len())
	if int(o) == ctx.Index.Len() && o > 0 {
		o--
	}
	line := ctx.Index.LineOf(o)
	return To(text.AlignToGrapheme(ctx.Index.Text(), o, ctx.Index.LineStart(line)))
}

func screen(ctx *Context, kind Kind) Motion {
	idx := ctx.Index
	first, last := 0, idx.LineCount()-1
	if ctx.Viewport != nil {
		first = idx.ClampLine(ctx.Viewport.FirstVisibleLine())
		if l := ctx.Viewport.LastVisibleLine(); l >= 0 {
			last = idx.ClampLine(l)
		}
	}
	if last < first {
		last = first
	}

	var line int
	switch kind {
	case ScreenTop:
		line = first + ctx.count() - 1
		if line > last {
			line = last
		}
	case ScreenBottom:
		line = last - (ctx.count() - 1)
		if line < first {
			line = first
		}
	default:
		line = first + (last-first)/2
	}
	return To(idx.FirstNonBlank(line))
}

func mark(ctx *Context, kind Kind, name rune) Motion {
	if ctx.Marks == nil {
		return Error
	}
	o, ok := ctx.Marks(name)
	if !ok {
		return Error
	}
	o = o.Clamp(ctx.Index.Len())
	if kind == MarkLine {
		return To(ctx.Index.FirstNonBlank(ctx.Index.LineOf(o)))
	}
	return To(o)
}
