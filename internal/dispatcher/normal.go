package dispatcher

import (
	"fmt"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/operator"
	"github.com/dshills/vimcore/internal/engine/search"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/vim"
	"github.com/dshills/vimcore/internal/mark"
	"github.com/dshills/vimcore/internal/register"
)

// normalKey parses one key in Normal, Operator-pending or Insert-normal
// mode and runs the command it completes.
func (m *Machine) normalKey(e key.Event) DispatchResult {
	res := m.parser.Parse(e)
	m.syncOperatorPending()

	var out DispatchResult
	switch res.Status {
	case vim.StatusPending:
		return incomplete(res.Pending)
	case vim.StatusCancelled:
		out = cancelled()
	case vim.StatusInvalid:
		out = dispatched(Error(fmt.Errorf("%w: %s", ErrInvalidCommand, e)))
	default:
		out = dispatched(m.execute(res.Command))
	}
	m.leaveInsertNormal()
	return out
}

// motionTarget computes cmd's motion for ctx. Find, search and repeat
// kinds go through the session's find and search memory.
func (m *Machine) motionTarget(ctx *motion.Context, cmd *vim.Command) (motion.Motion, motion.Type, error) {
	k := cmd.Motion
	switch k {
	case motion.RepeatFind, motion.RepeatFindReverse:
		mv, kind := m.state.Find.Repeat(ctx, k == motion.RepeatFindReverse)
		return mv, kind.Type(), mv.Err()
	case motion.SearchNext, motion.SearchPrev:
		res, err := m.state.Search.Next(ctx, k == motion.SearchPrev)
		if err != nil {
			return motion.Error, 0, err
		}
		return res.Motion, res.Type, nil
	case motion.SearchWordForward, motion.SearchWordBackward,
		motion.SearchPartialWordForward, motion.SearchPartialWordBackward:
		dir := search.Forward
		if k == motion.SearchWordBackward || k == motion.SearchPartialWordBackward {
			dir = search.Backward
		}
		whole := k == motion.SearchWordForward || k == motion.SearchWordBackward
		res, err := m.state.Search.Star(ctx, dir, whole)
		if err != nil {
			return motion.Error, 0, err
		}
		m.state.Registers.Remember(register.LastFind, mustPattern(m.state.Search))
		return res.Motion, res.Type, nil
	case motion.SearchForward, motion.SearchBackward:
		return motion.Error, 0, ErrInvalidCommand
	}
	m.state.Find.Remember(k, cmd.Char)
	mv := motion.Compute(ctx, k, cmd.Char)
	return mv, k.Type(), mv.Err()
}

func mustPattern(s *search.State) string {
	p, _ := s.Pattern(search.RESearch)
	return p
}

func (m *Machine) doMotion(cmd *vim.Command) Result {
	err := m.eachCaret(func(id text.CaretID, primary bool) error {
		ctx := m.motionContext(id, cmd.EffectiveCount(), cmd.HasCount(), false)
		mv, _, err := m.motionTarget(ctx, cmd)
		if err != nil {
			return err
		}
		if cmd.Motion.IsJump() && primary {
			m.saveJump(id)
		}
		m.moveTo(id, mv)
		return nil
	})
	if m.modes.Mode().HasSelection() {
		m.updateSelection()
	}
	return Error(err)
}

func (m *Machine) doOperator(cmd *vim.Command) Result {
	if m.modes.Mode().IsVisual() {
		return m.visualOperator(cmd)
	}
	var rows []text.Offset
	insert := false
	err := m.eachCaret(func(id text.CaretID, primary bool) error {
		out, err := m.operate(id, primary, cmd)
		if err != nil {
			return err
		}
		if out.Insert {
			insert = true
			if primary {
				rows = out.Rows
			}
		}
		return nil
	})
	if insert {
		m.startChange(rows)
	} else {
		m.clampCarets()
	}
	return Error(err)
}

// operate resolves and applies cmd's operator for one caret.
func (m *Machine) operate(id text.CaretID, primary bool, cmd *vim.Command) (operator.Outcome, error) {
	buf := m.buf()
	idx := text.IndexOf(buf)
	caret := buf.CaretOffset(id)
	req := operator.Request{Index: idx, Caret: caret, Force: cmd.Force, TabStop: m.state.Options.TabStop}
	count := cmd.EffectiveCount()
	big := false

	switch {
	case cmd.Linewise:
		line := idx.LineOf(caret)
		r := operator.LineRange(idx, line, min(line+count-1, idx.LineCount()-1))
		req.Range = &r
	case cmd.HasObject:
		ctx := m.motionContext(id, count, cmd.HasCount(), true)
		r, err := search.Select(ctx, cmd.Object, cmd.Around)
		if err != nil {
			return operator.Outcome{}, err
		}
		req.Range = &r
	case cmd.Match:
		ctx := m.motionContext(id, count, cmd.HasCount(), true)
		match, err := m.state.Search.Match(ctx, matchDirection(cmd), false)
		if err != nil {
			return operator.Outcome{}, err
		}
		r := text.NewRange(match[0], match[1], text.Character)
		req.Range = &r
	case cmd.HasMotion:
		ctx := m.motionContext(id, count, cmd.HasCount(), true)
		var (
			mv  motion.Motion
			typ motion.Type
			err error
		)
		if cmd.Operator == operator.OpChange && (cmd.Motion == motion.WordForward || cmd.Motion == motion.BigWordForward) &&
			!text.IsSpace(idx.RuneAt(caret)) && caret < idx.LineEnd(idx.LineOf(caret)) {
			mv, typ = changeWordTarget(ctx, cmd.Motion == motion.BigWordForward), motion.Inclusive
			err = mv.Err()
		} else {
			mv, typ, err = m.motionTarget(ctx, cmd)
		}
		if err != nil {
			return operator.Outcome{}, err
		}
		if cmd.Motion.IsJump() && primary {
			m.saveJump(id)
		}
		req.Target, req.Type = mv.Offset, typ
		big = cmd.Motion.AlwaysBigDelete()
	default:
		return operator.Outcome{}, ErrInvalidCommand
	}

	res, err := operator.Resolve(req)
	if err != nil {
		return operator.Outcome{}, err
	}
	return m.applyOperator(id, primary, cmd.Operator, cmd.Register, res.Range, big, 1)
}

// changeWordTarget is the end of "cw": on a non-blank it stops at the end
// of the word instead of the start of the next one.
func changeWordTarget(ctx *motion.Context, big bool) motion.Motion {
	idx := ctx.Index
	s := idx.Text()
	line := idx.LineOf(ctx.Caret)
	next := text.NextGrapheme(s, ctx.Caret, idx.LineEnd(line))
	n := max(ctx.Count, 1)
	atEnd := next >= idx.LineEnd(line) ||
		ctx.Classifier.Class(idx.RuneAt(next), big) != ctx.Classifier.Class(idx.RuneAt(ctx.Caret), big)
	if atEnd {
		n--
		if n == 0 {
			return motion.To(ctx.Caret)
		}
	}
	sub := *ctx
	sub.Count = n
	kind := motion.WordEnd
	if big {
		kind = motion.BigWordEnd
	}
	return motion.Compute(&sub, kind, 0)
}

// applyOperator runs op over r for caret id, then routes the text it
// produced to the registers and records the change marks.
func (m *Machine) applyOperator(id text.CaretID, primary bool, op operator.Operator, reg rune, r text.TextRange, big bool, amount int) (operator.Outcome, error) {
	buf := m.buf()
	opCtx := &operator.Context{Editor: buf, Caret: buf.CaretOffset(id), Options: m.state.Options, Amount: amount}
	var out operator.Outcome
	err := m.write(func() error {
		var err error
		out, err = operator.Apply(opCtx, op, r)
		return err
	})
	if err != nil {
		return out, err
	}
	if out.HasText {
		kind := register.KindDelete
		if op == operator.OpYank {
			kind = register.KindYank
		}
		w := register.Write{Name: reg, Text: out.Text, Type: out.Type, Kind: kind, Big: big}
		if err := m.state.Registers.For(id, primary).Record(w); err != nil {
			return out, err
		}
	}
	buf.MoveCaret(id, out.Caret)
	m.setColumn(id, motion.NoColumn)
	if primary {
		m.state.Marks.SetChange(m.state.Path(), m.position(r.Start()), m.position(out.Caret))
		if op.Modifies() {
			m.state.Marks.SetLastChange(m.state.Path(), m.position(out.Caret))
		}
	}
	return out, nil
}

// startChange opens the insert session of a change operator. A block
// change types on every row of the block.
func (m *Machine) startChange(rows []text.Offset) {
	if len(rows) > 1 {
		buf := m.buf()
		m.dropSecondaryCarets()
		buf.MoveCaret(buf.PrimaryCaret(), rows[0])
		for _, o := range rows[1:] {
			buf.AddCaret(o)
		}
		m.startInsert(vim.ActInsert, 1)
		m.insert.addedCarets = true
		return
	}
	m.startInsert(vim.ActInsert, 1)
}

func (m *Machine) doToggleCase(cmd *vim.Command) Result {
	err := m.eachCaret(func(id text.CaretID, primary bool) error {
		buf := m.buf()
		idx := text.IndexOf(buf)
		caret := buf.CaretOffset(id)
		le := idx.LineEnd(idx.LineOf(caret))
		end := caret
		for i := 0; i < cmd.EffectiveCount() && end < le; i++ {
			end = text.NextGrapheme(idx.Text(), end, le)
		}
		if end == caret {
			return engine.ErrMotionFailed
		}
		if _, err := m.applyOperator(id, primary, operator.OpToggleCase, 0, text.NewRange(caret, end, text.Character), false, 1); err != nil {
			return err
		}
		buf.MoveCaret(id, end)
		return nil
	})
	m.clampCarets()
	return Error(err)
}

func (m *Machine) doReplaceChar(cmd *vim.Command) Result {
	if m.modes.Mode().IsVisual() {
		return m.visualReplace(cmd)
	}
	buf := m.buf()
	err := m.write(func() error {
		return m.eachCaret(func(id text.CaretID, primary bool) error {
			out, err := operator.ReplaceChar(buf, buf.CaretOffset(id), cmd.Char, cmd.EffectiveCount())
			if err != nil {
				return err
			}
			buf.MoveCaret(id, out.Caret)
			if primary {
				m.state.Marks.SetLastChange(m.state.Path(), m.position(out.Caret))
			}
			return nil
		})
	})
	return Error(err)
}

func (m *Machine) doPut(cmd *vim.Command) Result {
	if m.modes.Mode().IsVisual() {
		return m.visualPut(cmd)
	}
	buf := m.buf()
	po := operator.PutOptions{
		Before:     cmd.Action == vim.ActPutBefore || cmd.Action == vim.ActPutBeforeMove,
		CaretAfter: cmd.Action == vim.ActPutAfterMove || cmd.Action == vim.ActPutBeforeMove,
		Count:      cmd.EffectiveCount(),
	}
	err := m.write(func() error {
		return m.eachCaret(func(id text.CaretID, primary bool) error {
			reg, ok := m.state.Registers.For(id, primary).Get(cmd.Register)
			if !ok {
				return &engine.NotFoundError{Kind: engine.NotFoundRegister, Name: string(cmd.Register)}
			}
			ctx := &operator.Context{Editor: buf, Caret: buf.CaretOffset(id), Options: m.state.Options}
			out, err := operator.Put(ctx, reg.Text, reg.Type, po)
			if err != nil {
				return err
			}
			buf.MoveCaret(id, out.Caret)
			m.setColumn(id, motion.NoColumn)
			if primary {
				m.state.Marks.SetLastChange(m.state.Path(), m.position(out.Caret))
			}
			return nil
		})
	})
	if !po.CaretAfter {
		m.clampCarets()
	}
	return Error(err)
}

func (m *Machine) doJoin(cmd *vim.Command) Result {
	if m.modes.Mode().IsVisual() {
		return m.visualJoin(cmd)
	}
	idx := m.index()
	buf := m.buf()
	return Error(m.join(cmd.Action == vim.ActJoin, func(id text.CaretID) (int, int) {
		return idx.LineOf(buf.CaretOffset(id)), cmd.EffectiveCount()
	}))
}

// join joins lines at every caret. span gives the first line and the
// number of lines for each caret.
func (m *Machine) join(spaces bool, span func(id text.CaretID) (line, count int)) error {
	buf := m.buf()
	return m.write(func() error {
		return m.eachCaret(func(id text.CaretID, primary bool) error {
			line, count := span(id)
			out, err := operator.Join(buf, line, count, spaces, m.state.Options)
			if err != nil {
				return err
			}
			buf.MoveCaret(id, out.Caret)
			m.setColumn(id, motion.NoColumn)
			if primary {
				m.state.Marks.SetLastChange(m.state.Path(), m.position(out.Caret))
			}
			return nil
		})
	})
}

// doIncrement is CTRL-A and CTRL-X, and their Visual forms. The formats
// recognized follow 'nrformats'.
func (m *Machine) doIncrement(cmd *vim.Command) Result {
	delta := cmd.EffectiveCount()
	if cmd.Action == vim.ActDecrement || cmd.Action == vim.ActDecrementProgressive {
		delta = -delta
	}
	nf := operator.ParseNumberFormats(m.state.Options.NrFormats)
	if m.modes.Mode().HasSelection() {
		return m.visualIncrement(cmd, delta, nf)
	}
	if cmd.Action == vim.ActIncrementProgressive || cmd.Action == vim.ActDecrementProgressive {
		return Error(ErrInvalidCommand)
	}
	buf := m.buf()
	err := m.write(func() error {
		return m.eachCaret(func(id text.CaretID, primary bool) error {
			out, err := operator.Increment(buf, buf.CaretOffset(id), delta, nf)
			if err != nil {
				return err
			}
			buf.MoveCaret(id, out.Caret)
			m.setColumn(id, motion.NoColumn)
			if primary {
				m.state.Marks.SetLastChange(m.state.Path(), m.position(out.Caret))
			}
			return nil
		})
	})
	return Error(err)
}

func (m *Machine) doUndo(cmd *vim.Command) Result {
	u, ok := m.state.Editor().(text.Undoer)
	if !ok {
		return NoOp()
	}
	step := u.Undo
	if cmd.Action == vim.ActRedo {
		step = u.Redo
	}
	for i := 0; i < cmd.EffectiveCount(); i++ {
		if err := step(); err != nil {
			if i == 0 {
				return Error(err)
			}
			break
		}
	}
	m.columns = make(map[text.CaretID]int)
	m.clampCarets()
	return Success()
}

func (m *Machine) doRepeat(cmd *vim.Command) Result {
	seq, ok := m.repeat.Sequence(cmd.Count)
	if !ok {
		return NoOp()
	}
	m.repeating++
	m.noremap++
	err := m.FeedSequence(seq)
	m.noremap--
	m.repeating--
	if cmd.HasCount() {
		m.repeat.Set(m.repeat.Keys(), cmd.Count)
	}
	return Error(err)
}

func (m *Machine) doRecord(cmd *vim.Command) Result {
	if err := m.recorder.Start(cmd.Char); err != nil {
		return Error(err)
	}
	m.parser.SetRecording(true)
	return Success()
}

func (m *Machine) doStopRecord(*vim.Command) Result {
	m.parser.SetRecording(false)
	_, err := m.recorder.Stop()
	return Error(err)
}

func (m *Machine) doPlay(cmd *vim.Command) Result {
	return Error(m.player.Play(cmd.Char, cmd.EffectiveCount(), m))
}

func (m *Machine) doSetMark(cmd *vim.Command) Result {
	caret := m.buf().CaretOffset(m.primary())
	return Error(m.state.Marks.Set(m.state.Path(), cmd.Char, m.position(caret)))
}

// doJump walks the jump list: CTRL-O to older entries, CTRL-I or <Tab>
// to newer ones.
func (m *Machine) doJump(cmd *vim.Command) Result {
	count := cmd.EffectiveCount()
	if cmd.Action == vim.ActJumpOlder {
		count = -count
	}
	buf := m.buf()
	id := buf.PrimaryCaret()
	path := m.state.Path()
	cur := m.position(buf.CaretOffset(id))
	j, ok := m.state.Marks.Jumps().Move(count, mark.Jump{Line: cur.Line, Column: cur.Column, Path: path})
	if !ok || j.Path != path {
		return NoOp()
	}
	idx := text.IndexOf(buf)
	buf.MoveCaret(id, idx.LogicalToOffset(text.LogicalPosition{Line: idx.ClampLine(j.Line), Column: j.Column}))
	m.setColumn(id, motion.NoColumn)
	m.clampCarets()
	return Success()
}

// doRepeatSubstitute is "&": the last :s on the caret line, without its
// flags.
func (m *Machine) doRepeatSubstitute(*vim.Command) Result {
	_, err := m.exec.Run("s")
	m.clampCarets()
	return Error(err)
}

func (m *Machine) doEscape(*vim.Command) Result {
	if m.modes.Mode().HasSelection() {
		m.exitVisual()
		return Success()
	}
	return NoOp()
}
