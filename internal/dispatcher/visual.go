package dispatcher

import (
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/operator"
	"github.com/dshills/vimcore/internal/engine/search"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
	"github.com/dshills/vimcore/internal/mark"
	"github.com/dshills/vimcore/internal/register"
)

// visualMemory is what gv needs besides the '< and '> marks.
type visualMemory struct {
	set        bool
	sub        mode.SubMode
	caretAtEnd bool
	// dollar is set when the selection was extended with "$".
	dollar bool
}

var visualSubs = map[vim.Action]mode.SubMode{
	vim.ActVisual:      mode.VisualCharacter,
	vim.ActVisualLine:  mode.VisualLine,
	vim.ActVisualBlock: mode.VisualBlock,
	vim.ActSelect:      mode.VisualCharacter,
	vim.ActSelectLine:  mode.VisualLine,
	vim.ActSelectBlock: mode.VisualBlock,
}

func (m *Machine) anchor(id text.CaretID) text.Offset {
	if a, ok := m.anchors[id]; ok {
		return a
	}
	return m.buf().CaretOffset(id)
}

// visualRange returns the text caret id's selection covers. With
// 'selection' inclusive the character under the caret is part of it, and
// a selection reaching a line end takes the newline too.
func (m *Machine) visualRange(id text.CaretID) text.TextRange {
	idx := m.index()
	caret := m.buf().CaretOffset(id)
	anchor := m.anchor(id)
	switch m.modes.Sub() {
	case mode.VisualLine:
		return operator.LineRange(idx, idx.LineOf(anchor), idx.LineOf(caret))
	case mode.VisualBlock:
		return operator.BlockRange(idx, anchor, caret, m.state.Options.TabStop, m.column(id) == motion.LastColumn)
	}
	start, end := min(anchor, caret), max(anchor, caret)
	if m.state.Options.Selection != "exclusive" {
		line := idx.LineOf(end)
		le := idx.LineEnd(line)
		if end >= le || (end == caret && m.column(id) == motion.LastColumn) {
			end = idx.LineEndWithNewline(line)
		} else {
			end = text.NextGrapheme(idx.Text(), end, le)
		}
	}
	return text.NewRange(start, end, text.Character)
}

// updateSelection shows every caret's selection on the host. A block
// selection is shown as the span from its first to its last row.
func (m *Machine) updateSelection() {
	buf := m.buf()
	for _, id := range buf.Carets() {
		r := m.visualRange(id)
		buf.SetSelection(id, r.Start(), r.End())
	}
}

// enterVisual switches to md with shape sub. Carets without an anchor are
// anchored where they stand.
func (m *Machine) enterVisual(md mode.Mode, sub mode.SubMode) {
	cur := m.modes.Mode()
	buf := m.buf()
	if !cur.HasSelection() {
		for _, id := range buf.Carets() {
			if _, ok := m.anchors[id]; !ok {
				m.anchors[id] = buf.CaretOffset(id)
			}
		}
	}
	fromInsert := cur == mode.InsertNormal || cur == mode.InsertVisual || cur == mode.InsertSelect
	if fromInsert {
		md = map[mode.Mode]mode.Mode{mode.Visual: mode.InsertVisual, mode.Select: mode.InsertSelect}[md]
	}
	if cur.HasSelection() || cur == mode.InsertNormal {
		m.modes.Switch(md, sub)
	} else {
		m.modes.Push(md, sub)
	}
	m.updateSelection()
}

// exitVisual leaves Visual or Select mode, remembering the selection for
// gv and the '< and '> marks.
func (m *Machine) exitVisual() {
	buf := m.buf()
	id := buf.PrimaryCaret()
	caret := buf.CaretOffset(id)
	anchor := m.anchor(id)
	m.state.Marks.SetVisual(m.state.Path(), m.position(anchor), m.position(caret))
	m.lastVisual = visualMemory{
		set:        true,
		sub:        m.modes.Sub(),
		caretAtEnd: caret >= anchor,
		dollar:     m.column(id) == motion.LastColumn,
	}
	for _, c := range buf.Carets() {
		buf.RemoveSelection(c)
	}
	clear(m.anchors)
	_, _ = m.modes.Pop()
	m.clampCarets()
}

func (m *Machine) visualKey(e key.Event) DispatchResult {
	if e.IsCtrl('g') && m.parser.Idle() {
		m.enterVisual(mode.Select, m.modes.Sub())
		return dispatched(Success())
	}
	res := m.parser.Parse(e)
	switch res.Status {
	case vim.StatusPending:
		return incomplete(res.Pending)
	case vim.StatusCancelled:
		return cancelled()
	case vim.StatusInvalid:
		return dispatched(Error(ErrInvalidCommand))
	}
	return dispatched(m.execute(res.Command))
}

// selectKey handles Select mode: typing replaces the selection, movement
// keys extend it.
func (m *Machine) selectKey(e key.Event) DispatchResult {
	e = e.Normalize()
	switch {
	case e.Is(key.KeyEscape):
		m.exitVisual()
		return dispatched(Success())
	case e.IsCtrl('g'):
		m.enterVisual(mode.Visual, m.modes.Sub())
		return dispatched(Success())
	case e.Is(key.KeyLeft), e.Is(key.KeyRight), e.Is(key.KeyUp), e.Is(key.KeyDown),
		e.Is(key.KeyHome), e.Is(key.KeyEnd):
		kind := map[key.Key]motion.Kind{
			key.KeyLeft:  motion.Left,
			key.KeyRight: motion.Right,
			key.KeyUp:    motion.Up,
			key.KeyDown:  motion.Down,
			key.KeyHome:  motion.LineStart,
			key.KeyEnd:   motion.LineEnd,
		}[e.Key]
		return dispatched(m.doMotion(&vim.Command{Action: vim.ActMotion, Motion: kind, HasMotion: true}))
	case e.Is(key.KeyBackspace), e.Is(key.KeyDelete):
		return dispatched(m.replaceSelection(operator.OpDelete))
	case e.IsChar(), e.Is(key.KeyEnter), e.Is(key.KeyTab):
		hadInsert := m.insert != nil
		m.beginUndoGroup()
		res := m.replaceSelection(operator.OpChange)
		if hadInsert || res.IsError() {
			m.endUndoGroup()
		}
		if res.IsError() {
			return dispatched(res)
		}
		return m.insertKey(e)
	}
	return dispatched(NoOp())
}

// replaceSelection applies op to the selection without touching the
// registers, as typing over a Select mode selection does.
func (m *Machine) replaceSelection(op operator.Operator) Result {
	return m.visualOperator(&vim.Command{Action: vim.ActOperator, Operator: op, Register: register.BlackHole})
}

// selectionRanges returns every caret's selection range. Linewise
// commands widen them to whole lines, except D and C in block mode,
// which run to the line ends.
func (m *Machine) selectionRanges(cmd *vim.Command) map[text.CaretID]text.TextRange {
	idx := m.index()
	buf := m.buf()
	sub := m.modes.Sub()
	ranges := make(map[text.CaretID]text.TextRange)
	for _, id := range buf.Carets() {
		r := m.visualRange(id)
		if cmd.Linewise {
			if sub == mode.VisualBlock && (cmd.Operator == operator.OpDelete || cmd.Operator == operator.OpChange) {
				r = operator.BlockRange(idx, m.anchor(id), buf.CaretOffset(id), m.state.Options.TabStop, true)
			} else {
				first, last := operator.Lines(idx, r)
				r = operator.LineRange(idx, first, last)
			}
		}
		ranges[id] = r
	}
	return ranges
}

// visualOperator applies cmd's operator to the selection and leaves
// Visual mode. A count repeats shifts.
func (m *Machine) visualOperator(cmd *vim.Command) Result {
	ranges := m.selectionRanges(cmd)
	m.exitVisual()
	var rows []text.Offset
	insert := false
	err := m.eachCaret(func(id text.CaretID, primary bool) error {
		r, ok := ranges[id]
		if !ok {
			return nil
		}
		out, err := m.applyOperator(id, primary, cmd.Operator, cmd.Register, r, false, cmd.EffectiveCount())
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

// doObject selects a text object. An empty selection becomes the
// object; a larger one is extended to cover it.
func (m *Machine) doObject(cmd *vim.Command) Result {
	if !m.modes.Mode().HasSelection() {
		return Error(ErrInvalidCommand)
	}
	buf := m.buf()
	err := m.eachCaret(func(id text.CaretID, _ bool) error {
		ctx := m.motionContext(id, cmd.EffectiveCount(), cmd.HasCount(), true)
		r, err := search.Select(ctx, cmd.Object, cmd.Around)
		if err != nil {
			return err
		}
		caret := buf.CaretOffset(id)
		anchor := m.anchor(id)
		if anchor == caret {
			anchor = r.Start()
		} else {
			anchor = min(anchor, r.Start())
		}
		last := r.End()
		if last > r.Start() {
			last = text.PrevGrapheme(ctx.Index.Text(), last, r.Start())
		}
		m.anchors[id] = anchor
		buf.MoveCaret(id, max(last, caret))
		m.setColumn(id, motion.NoColumn)
		return nil
	})
	if cmd.Object.Linewise() && m.modes.Sub() == mode.VisualCharacter {
		m.modes.Switch(m.modes.Mode(), mode.VisualLine)
	}
	m.updateSelection()
	return Error(err)
}

// visualInsert handles I and A on a selection. In block mode every row of
// the block gets a caret.
func (m *Machine) visualInsert(cmd *vim.Command) Result {
	buf := m.buf()
	idx := m.index()
	id := buf.PrimaryCaret()
	r := m.visualRange(id)
	block := m.modes.Sub() == mode.VisualBlock
	m.exitVisual()

	var at []text.Offset
	switch {
	case block && cmd.Action == vim.ActInsertStart:
		at = r.Starts
	case block:
		at = r.Ends
	case cmd.Action == vim.ActInsertStart:
		at = []text.Offset{r.Start()}
	default:
		end := r.End()
		if end > r.Start() {
			line := idx.LineOf(end - 1)
			end = min(end, idx.LineEnd(line))
		}
		at = []text.Offset{end}
	}
	if len(at) == 0 {
		return NoOp()
	}
	m.dropSecondaryCarets()
	buf.MoveCaret(id, at[0])
	for _, o := range at[1:] {
		buf.AddCaret(o)
	}
	m.startInsert(vim.ActInsert, 1)
	if m.insert != nil && len(at) > 1 {
		m.insert.addedCarets = true
	}
	return Success()
}

// visualIncrement changes the first number of every selected line. The
// caret goes to the start of the selection.
func (m *Machine) visualIncrement(cmd *vim.Command, delta int, nf operator.NumberFormats) Result {
	ranges := m.selectionRanges(cmd)
	m.exitVisual()
	progressive := cmd.Action == vim.ActIncrementProgressive || cmd.Action == vim.ActDecrementProgressive
	buf := m.buf()
	err := m.write(func() error {
		return m.eachCaret(func(id text.CaretID, primary bool) error {
			r, ok := ranges[id]
			if !ok {
				return nil
			}
			out, err := operator.IncrementRange(buf, r, delta, progressive, nf)
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
	m.clampCarets()
	return Error(err)
}

func matchDirection(cmd *vim.Command) search.Direction {
	if cmd.Motion == motion.SearchPrev {
		return search.Backward
	}
	return search.Forward
}

// doSelectMatch is gn and gN. From Normal mode it selects the match under
// or after the caret; in Visual mode it extends the selection to the next
// match.
func (m *Machine) doSelectMatch(cmd *vim.Command) Result {
	visual := m.modes.Mode().HasSelection()
	if !visual {
		m.dropSecondaryCarets()
	}
	buf := m.buf()
	id := buf.PrimaryCaret()
	skip := visual && m.anchor(id) != buf.CaretOffset(id)
	ctx := m.motionContext(id, cmd.EffectiveCount(), cmd.HasCount(), true)
	dir := matchDirection(cmd)
	match, err := m.state.Search.Match(ctx, dir, skip)
	if err != nil {
		return Error(err)
	}
	start, end := match[0], match[0]
	if match[1] > match[0] {
		end = text.PrevGrapheme(ctx.Index.Text(), match[1], match[0])
	}
	if dir == search.Backward {
		start, end = end, start
	}
	if !visual {
		m.anchors[id] = start
	}
	buf.MoveCaret(id, end)
	m.setColumn(id, motion.NoColumn)
	if visual {
		m.updateSelection()
	} else {
		m.enterVisual(mode.Visual, mode.VisualCharacter)
	}
	return Success()
}

func (m *Machine) visualJoin(cmd *vim.Command) Result {
	idx := m.index()
	spans := make(map[text.CaretID][2]int)
	for id, r := range m.selectionRanges(cmd) {
		first, last := operator.Lines(idx, r)
		spans[id] = [2]int{first, max(last-first+1, 2)}
	}
	m.exitVisual()
	return Error(m.join(cmd.Action == vim.ActJoin, func(id text.CaretID) (int, int) {
		s := spans[id]
		return s[0], s[1]
	}))
}

func (m *Machine) visualReplace(cmd *vim.Command) Result {
	ranges := m.selectionRanges(cmd)
	m.exitVisual()
	buf := m.buf()
	err := m.write(func() error {
		return m.eachCaret(func(id text.CaretID, _ bool) error {
			out, err := operator.ReplaceRange(buf, ranges[id], cmd.Char)
			if err != nil {
				return err
			}
			buf.MoveCaret(id, out.Caret)
			return nil
		})
	})
	m.clampCarets()
	return Error(err)
}

// visualPut replaces the selection with a register. With p the removed
// text goes to the unnamed register; with P it is discarded.
func (m *Machine) visualPut(cmd *vim.Command) Result {
	buf := m.buf()
	ranges := m.selectionRanges(cmd)
	contents := make(map[text.CaretID]register.Register)
	for _, id := range buf.Carets() {
		reg, ok := m.state.Registers.For(id, id == buf.PrimaryCaret()).Get(cmd.Register)
		if !ok {
			return Error(ErrInvalidCommand)
		}
		contents[id] = reg
	}
	m.exitVisual()

	delReg := rune(0)
	if cmd.Action == vim.ActPutBefore || cmd.Action == vim.ActPutBeforeMove {
		delReg = register.BlackHole
	}
	err := m.eachCaret(func(id text.CaretID, primary bool) error {
		r := ranges[id]
		wasLast := text.IndexOf(buf).LineOf(r.End()) == text.IndexOf(buf).LineCount()-1
		if _, err := m.applyOperator(id, primary, operator.OpDelete, delReg, r, false, 1); err != nil {
			return err
		}
		return m.write(func() error {
			return m.putOver(id, r, contents[id], wasLast, cmd)
		})
	})
	m.clampCarets()
	return Error(err)
}

// putOver puts reg where the deleted range r used to be.
func (m *Machine) putOver(id text.CaretID, r text.TextRange, reg register.Register, wasLast bool, cmd *vim.Command) error {
	buf := m.buf()
	idx := text.IndexOf(buf)
	start := min(r.Start(), text.Offset(idx.Len()))
	typ := reg.Type
	po := operator.PutOptions{
		Before:     true,
		Count:      cmd.EffectiveCount(),
		CaretAfter: cmd.Action == vim.ActPutAfterMove || cmd.Action == vim.ActPutBeforeMove,
	}
	caret := start
	switch {
	case r.Type == text.Line:
		typ = text.Line
		if wasLast {
			po.Before = false
			caret = idx.LineStart(idx.LineCount() - 1)
		} else {
			caret = idx.LineStart(idx.LineOf(start))
		}
	case typ == text.Line:
		if err := buf.Insert(start, "\n"); err != nil {
			return err
		}
		caret = start + 1
	default:
		line := idx.LineOf(start)
		if start >= idx.LineEnd(line) && idx.LineLength(line) > 0 {
			po.Before = false
			caret = idx.LastCharOffset(line)
		}
	}
	ctx := &operator.Context{Editor: buf, Caret: caret, Options: m.state.Options}
	out, err := operator.Put(ctx, reg.Text, typ, po)
	if err != nil {
		return err
	}
	buf.MoveCaret(id, out.Caret)
	m.setColumn(id, motion.NoColumn)
	return nil
}

func (m *Machine) doVisual(cmd *vim.Command) Result {
	sub := visualSubs[cmd.Action]
	cur := m.modes.Current()
	if cur.Mode.IsVisual() && cur.Sub == sub {
		m.exitVisual()
		return Success()
	}
	m.enterVisual(mode.Visual, sub)
	return Success()
}

func (m *Machine) doSelect(cmd *vim.Command) Result {
	m.enterVisual(mode.Select, visualSubs[cmd.Action])
	return Success()
}

// doReselect is gv: in Normal mode it restores the last selection, in
// Visual mode it swaps the current selection with it.
func (m *Machine) doReselect(*vim.Command) Result {
	buf := m.buf()
	id := buf.PrimaryCaret()
	path := m.state.Path()
	idx := m.index()
	start, ok1 := m.state.Marks.Offset(idx, path, mark.VisualStart)
	end, ok2 := m.state.Marks.Offset(idx, path, mark.VisualEnd)
	if !m.lastVisual.set || !ok1 || !ok2 {
		return Error(ErrNoSelection)
	}
	prev := m.lastVisual

	if m.modes.Mode().HasSelection() {
		caret := buf.CaretOffset(id)
		anchor := m.anchor(id)
		m.state.Marks.SetVisual(path, m.position(anchor), m.position(caret))
		m.lastVisual = visualMemory{
			set:        true,
			sub:        m.modes.Sub(),
			caretAtEnd: caret >= anchor,
			dollar:     m.column(id) == motion.LastColumn,
		}
	} else {
		m.dropSecondaryCarets()
	}

	anchor, caret := start, end
	if !prev.caretAtEnd {
		anchor, caret = end, start
	}
	m.anchors[id] = anchor
	buf.MoveCaret(id, caret)
	m.setColumn(id, motion.NoColumn)
	if prev.dollar {
		m.setColumn(id, motion.LastColumn)
	}
	sub := prev.sub
	if sub == mode.SubNone {
		sub = mode.VisualCharacter
	}
	if m.modes.Mode().HasSelection() {
		m.modes.Switch(m.modes.Mode(), sub)
		m.updateSelection()
	} else {
		m.enterVisual(mode.Visual, sub)
	}
	return Success()
}

// doSwapEnds is o, and O in block mode, which moves to the other corner
// on the same line.
func (m *Machine) doSwapEnds(cmd *vim.Command) Result {
	buf := m.buf()
	idx := m.index()
	ts := m.state.Options.TabStop
	for _, id := range buf.Carets() {
		caret := buf.CaretOffset(id)
		anchor := m.anchor(id)
		if cmd.Action == vim.ActSwapCorner && m.modes.Sub() == mode.VisualBlock {
			la, lc := idx.LineOf(anchor), idx.LineOf(caret)
			ca := text.VisualColumn(idx.LineText(la), idx.Column(anchor), ts)
			cc := text.VisualColumn(idx.LineText(lc), idx.Column(caret), ts)
			m.anchors[id] = idx.LineStart(la) + text.Offset(text.ByteColumnAt(idx.LineText(la), cc, ts, false))
			buf.MoveCaret(id, idx.LineStart(lc)+text.Offset(text.ByteColumnAt(idx.LineText(lc), ca, ts, false)))
		} else {
			m.anchors[id] = caret
			buf.MoveCaret(id, anchor)
		}
		m.setColumn(id, motion.NoColumn)
	}
	m.updateSelection()
	return Success()
}

// detectSub guesses the selection shape from the host's selections.
func (m *Machine) detectSub() mode.SubMode {
	buf := m.buf()
	var sels [][2]text.Offset
	for _, id := range buf.Carets() {
		if s, e, ok := buf.Selection(id); ok && e > s {
			sels = append(sels, [2]text.Offset{s, e})
		}
	}
	return mode.Detect(m.index(), sels)
}

// anchorFromSelections anchors every caret at the far end of its host
// selection, or at the caret when it has none. A caret at the exclusive
// end of a selection steps back onto the last selected character.
func (m *Machine) anchorFromSelections() {
	buf := m.buf()
	s := buf.Text()
	for _, id := range buf.Carets() {
		caret := buf.CaretOffset(id)
		start, end, ok := buf.Selection(id)
		if !ok || end <= start {
			m.anchors[id] = caret
			continue
		}
		last := text.PrevGrapheme(s, end, start)
		if caret <= start {
			m.anchors[id] = last
			continue
		}
		m.anchors[id] = start
		if caret >= end {
			buf.MoveCaret(id, last)
		}
	}
}
