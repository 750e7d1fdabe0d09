package dispatcher

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
	"github.com/dshills/vimcore/internal/mark"
	"github.com/dshills/vimcore/internal/register"
)

// insertSession is the state of one Insert or Replace mode visit.
type insertSession struct {
	action  vim.Action
	replace bool
	count   int
	// before is the buffer text when the session started, to find the
	// typed text when it ends.
	before string
	// replaced holds, per caret, the text each overwrite in Replace mode
	// removed, so <BS> can put it back. An empty entry was appended.
	replaced      map[text.CaretID][]string
	awaitRegister bool
	// addedCarets is set when the session created carets of its own, as
	// Visual-block I and A do. They go away with the session.
	addedCarets bool
}

func (m *Machine) doInsert(cmd *vim.Command) Result {
	if m.modes.Mode().HasSelection() {
		return m.visualInsert(cmd)
	}
	err := m.write(func() error {
		return m.eachCaret(func(id text.CaretID, _ bool) error {
			return m.placeForInsert(id, cmd.Action)
		})
	})
	if err != nil {
		return Error(err)
	}
	m.startInsert(cmd.Action, cmd.EffectiveCount())
	return Success()
}

// placeForInsert moves caret id to where act starts typing, opening a
// line for o and O.
func (m *Machine) placeForInsert(id text.CaretID, act vim.Action) error {
	buf := m.buf()
	idx := text.IndexOf(buf)
	o := buf.CaretOffset(id)
	line := idx.LineOf(o)
	switch act {
	case vim.ActAppend:
		if le := idx.LineEnd(line); o < le {
			o = text.NextGrapheme(idx.Text(), o, le)
		}
	case vim.ActInsertStart:
		o = idx.FirstNonBlank(line)
	case vim.ActAppendEnd:
		o = idx.LineEnd(line)
	case vim.ActInsertColumnZero:
		o = idx.LineStart(line)
	case vim.ActInsertResume:
		if p, ok := m.state.Marks.Offset(idx, m.state.Path(), mark.LastInsert); ok {
			o = p
		}
	case vim.ActOpenBelow:
		le := idx.LineEnd(line)
		if err := buf.Insert(le, "\n"); err != nil {
			return err
		}
		o = le + 1
	case vim.ActOpenAbove:
		ls := idx.LineStart(line)
		if err := buf.Insert(ls, "\n"); err != nil {
			return err
		}
		o = ls
	}
	buf.MoveCaret(id, o)
	m.setColumn(id, motion.NoColumn)
	return nil
}

// startInsert enters Insert or Replace mode. A session already open,
// as under CTRL-O, is kept.
func (m *Machine) startInsert(act vim.Action, count int) {
	if m.insert != nil {
		return
	}
	replace := act == vim.ActReplaceMode
	m.insert = &insertSession{
		action:   act,
		replace:  replace,
		count:    max(count, 1),
		before:   m.buf().Text(),
		replaced: make(map[text.CaretID][]string),
	}
	md := mode.Insert
	if replace {
		md = mode.Replace
	}
	m.modes.Push(md, mode.SubNone)
}

func (m *Machine) insertKey(e key.Event) DispatchResult {
	e = e.Normalize()
	if m.insert == nil {
		m.startInsert(vim.ActInsert, 1)
	}
	ins := m.insert

	if ins.awaitRegister {
		ins.awaitRegister = false
		if r := e.Char(); r != 0 {
			return dispatched(Error(m.insertRegister(r)))
		}
		return dispatched(NoOp())
	}

	var err error
	switch {
	case e.Is(key.KeyEscape):
		m.finishInsert()
	case e.Is(key.KeyEnter):
		err = m.typeText("\n", false)
	case e.Is(key.KeyTab):
		err = m.typeTab()
	case e.Is(key.KeyBackspace):
		err = m.backspace()
	case e.Is(key.KeyDelete):
		err = m.deleteBack(func(idx *text.Index, o text.Offset) (text.Offset, text.Offset) {
			return o, text.NextGrapheme(idx.Text(), o, text.Offset(idx.Len()))
		})
	case e.IsCtrl('w'):
		err = m.deleteBack(m.wordStartBefore)
	case e.IsCtrl('u'):
		err = m.deleteBack(func(idx *text.Index, o text.Offset) (text.Offset, text.Offset) {
			line := idx.LineOf(o)
			if fnb := idx.FirstNonBlank(line); fnb < o {
				return fnb, o
			}
			return idx.LineStart(line), o
		})
	case e.IsCtrl('r'):
		ins.awaitRegister = true
		return incomplete("^R")
	case e.IsCtrl('o'):
		m.modes.Push(mode.InsertNormal, mode.SubNone)
	case e.Is(key.KeyLeft), e.Is(key.KeyRight), e.Is(key.KeyUp), e.Is(key.KeyDown),
		e.Is(key.KeyHome), e.Is(key.KeyEnd):
		err = m.insertMove(e)
	case e.IsChar():
		err = m.typeText(string(e.Rune), ins.replace)
	default:
		return dispatched(NoOp())
	}
	return dispatched(Error(err))
}

// typeText inserts s at every caret. With overwrite set, each character
// replaces the one under the caret unless the caret is at a line end.
func (m *Machine) typeText(s string, overwrite bool) error {
	buf := m.buf()
	return m.write(func() error {
		return m.eachCaret(func(id text.CaretID, _ bool) error {
			if !overwrite || s == "\n" {
				o := buf.CaretOffset(id)
				if err := buf.Insert(o, s); err != nil {
					return err
				}
				buf.MoveCaret(id, o+text.Offset(len(s)))
				return nil
			}
			for _, r := range s {
				if err := m.overwrite(id, string(r)); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

func (m *Machine) overwrite(id text.CaretID, s string) error {
	buf := m.buf()
	idx := text.IndexOf(buf)
	o := buf.CaretOffset(id)
	orig := ""
	if le := idx.LineEnd(idx.LineOf(o)); o < le {
		end := text.NextGrapheme(idx.Text(), o, le)
		orig = idx.Slice(o, end)
		if err := buf.Delete(o, end); err != nil {
			return err
		}
	}
	if err := buf.Insert(o, s); err != nil {
		return err
	}
	m.insert.replaced[id] = append(m.insert.replaced[id], orig)
	buf.MoveCaret(id, o+text.Offset(len(s)))
	return nil
}

func (m *Machine) typeTab() error {
	opts := m.state.Options
	if !opts.ExpandTab {
		return m.typeText("\t", m.insert.replace)
	}
	idx := m.index()
	o := m.buf().CaretOffset(m.primary())
	line := idx.LineOf(o)
	vcol := text.VisualColumn(idx.LineText(line), idx.Column(o), opts.TabStop)
	n := opts.TabStop - vcol%max(opts.TabStop, 1)
	return m.typeText(strings.Repeat(" ", n), m.insert.replace)
}

// backspace deletes the character before each caret. In Replace mode it
// restores what the last overwrite removed instead.
func (m *Machine) backspace() error {
	if !m.insert.replace {
		return m.deleteBack(func(idx *text.Index, o text.Offset) (text.Offset, text.Offset) {
			return text.PrevGrapheme(idx.Text(), o, 0), o
		})
	}
	buf := m.buf()
	return m.write(func() error {
		return m.eachCaret(func(id text.CaretID, _ bool) error {
			idx := text.IndexOf(buf)
			o := buf.CaretOffset(id)
			stack := m.insert.replaced[id]
			prev := text.PrevGrapheme(idx.Text(), o, idx.LineStart(idx.LineOf(o)))
			if len(stack) == 0 {
				buf.MoveCaret(id, prev)
				return nil
			}
			orig := stack[len(stack)-1]
			m.insert.replaced[id] = stack[:len(stack)-1]
			if err := buf.Delete(prev, o); err != nil {
				return err
			}
			if orig != "" {
				if err := buf.Insert(prev, orig); err != nil {
					return err
				}
			}
			buf.MoveCaret(id, prev)
			return nil
		})
	})
}

// deleteBack deletes the span span reports for each caret.
func (m *Machine) deleteBack(span func(idx *text.Index, o text.Offset) (start, end text.Offset)) error {
	buf := m.buf()
	return m.write(func() error {
		return m.eachCaret(func(id text.CaretID, _ bool) error {
			idx := text.IndexOf(buf)
			start, end := span(idx, buf.CaretOffset(id))
			if start >= end {
				return nil
			}
			if err := buf.Delete(start, end); err != nil {
				return err
			}
			buf.MoveCaret(id, start)
			return nil
		})
	})
}

// wordStartBefore is the span CTRL-W deletes: back to the start of the
// word before o, stopping at the line start.
func (m *Machine) wordStartBefore(idx *text.Index, o text.Offset) (text.Offset, text.Offset) {
	ls := idx.LineStart(idx.LineOf(o))
	if o == ls {
		return text.PrevGrapheme(idx.Text(), o, 0), o
	}
	ctx := m.motionContext(m.primary(), 1, false, true)
	ctx.Caret = o
	mv := motion.Compute(ctx, motion.WordBackward, 0)
	if mv.Failed() || mv.Offset < ls {
		return ls, o
	}
	return mv.Offset, o
}

func (m *Machine) insertMove(e key.Event) error {
	kind := map[key.Key]motion.Kind{
		key.KeyLeft:  motion.Left,
		key.KeyRight: motion.Right,
		key.KeyUp:    motion.Up,
		key.KeyDown:  motion.Down,
		key.KeyHome:  motion.LineStart,
		key.KeyEnd:   motion.LineEnd,
	}[e.Key]
	return m.eachCaret(func(id text.CaretID, _ bool) error {
		ctx := m.motionContext(id, 1, false, true)
		mv := motion.Compute(ctx, kind, 0)
		if mv.Failed() {
			return nil
		}
		if kind == motion.LineEnd {
			mv.Offset = ctx.Index.LineEnd(ctx.Index.LineOf(ctx.Caret))
		}
		m.moveTo(id, mv)
		return nil
	})
}

// insertRegister types the contents of register r, as CTRL-R does.
func (m *Machine) insertRegister(r rune) error {
	buf := m.buf()
	return m.write(func() error {
		return m.eachCaret(func(id text.CaretID, primary bool) error {
			reg, ok := m.state.Registers.For(id, primary).Get(r)
			if !ok || reg.Text == "" {
				return nil
			}
			s := reg.Text
			if reg.Type == text.Line && !strings.HasSuffix(s, "\n") {
				s += "\n"
			}
			o := buf.CaretOffset(id)
			if err := buf.Insert(o, s); err != nil {
				return err
			}
			buf.MoveCaret(id, o+text.Offset(len(s)))
			return nil
		})
	})
}

// insertedText returns the text added between before and after. With
// several carets the same text went in at each, so only the first run
// counts.
func insertedText(before, after string, carets int) string {
	dmp := diffmatchpatch.New()
	var b strings.Builder
	for _, d := range dmp.DiffMain(before, after, false) {
		if d.Type != diffmatchpatch.DiffInsert {
			continue
		}
		if carets > 1 {
			return d.Text
		}
		b.WriteString(d.Text)
	}
	return b.String()
}

// finishInsert ends the insert session as <Esc> does: the typed text is
// repeated for a count, stored in the "." register, and the caret steps
// back onto the last typed character.
func (m *Machine) finishInsert() {
	ins := m.insert
	if ins == nil {
		return
	}
	m.insert = nil
	buf := m.buf()
	typed := insertedText(ins.before, buf.Text(), len(buf.Carets()))

	if ins.count > 1 && typed != "" && len(buf.Carets()) == 1 {
		_ = m.write(func() error { return m.repeatInsert(ins, typed) })
	}
	if ins.addedCarets {
		m.dropSecondaryCarets()
	}

	path := m.state.Path()
	caret := buf.CaretOffset(m.primary())
	m.state.Marks.SetLastInsert(path, m.position(caret))
	if typed != "" {
		m.state.Marks.SetLastChange(path, m.position(caret))
	}
	m.state.Registers.Remember(register.LastIns, typed)

	idx := text.IndexOf(buf)
	for _, id := range buf.Carets() {
		o := buf.CaretOffset(id)
		buf.MoveCaret(id, text.PrevGrapheme(idx.Text(), o, idx.LineStart(idx.LineOf(o))))
	}
	m.endUndoGroup()
	m.repeat.Commit()
	if m.modes.Mode().IsInsert() {
		_, _ = m.modes.Pop()
	}
	m.columns = make(map[text.CaretID]int)
	m.clampCarets()
}

// repeatInsert types typed count-1 more times: on new lines for o and O,
// at the caret otherwise.
func (m *Machine) repeatInsert(ins *insertSession, typed string) error {
	buf := m.buf()
	id := m.primary()
	n := ins.count - 1
	switch {
	case ins.action == vim.ActOpenBelow || ins.action == vim.ActOpenAbove:
		idx := text.IndexOf(buf)
		le := idx.LineEnd(idx.LineOf(buf.CaretOffset(id)))
		s := strings.Repeat("\n"+typed, n)
		if err := buf.Insert(le, s); err != nil {
			return err
		}
		buf.MoveCaret(id, le+text.Offset(len(s)))
	case ins.replace:
		m.insert = ins
		defer func() { m.insert = nil }()
		for range n {
			for _, r := range typed {
				if err := m.overwrite(id, string(r)); err != nil {
					return err
				}
			}
		}
	default:
		o := buf.CaretOffset(id)
		s := strings.Repeat(typed, n)
		if err := buf.Insert(o, s); err != nil {
			return err
		}
		buf.MoveCaret(id, o+text.Offset(len(s)))
	}
	return nil
}
