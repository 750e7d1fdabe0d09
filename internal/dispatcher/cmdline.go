package dispatcher

import (
	"fmt"
	"strings"

	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/operator"
	"github.com/dshills/vimcore/internal/engine/search"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
	"github.com/dshills/vimcore/internal/register"
)

// cmdlineState is the ":", "/" or "?" prompt being edited.
type cmdlineState struct {
	line *mode.Line
	// cmd is the command that opened the prompt; its operator and count
	// apply to a search.
	cmd           *vim.Command
	awaitRegister bool
}

func (c *cmdlineState) display() string {
	return string(c.line.Prompt()) + c.line.Text()
}

// doCmdline opens the prompt. ":" typed on a selection or after a count
// starts with the matching range.
func (m *Machine) doCmdline(cmd *vim.Command) Result {
	var line *mode.Line
	if cmd.Action == vim.ActSearch {
		prompt := search.Forward.Char()
		if cmd.Motion == motion.SearchBackward {
			prompt = search.Backward.Char()
		}
		line = mode.NewLine(prompt, m.state.SearchHistory)
	} else {
		line = mode.NewLine(':', m.state.CmdHistory)
		switch {
		case m.modes.Mode().HasSelection():
			m.exitVisual()
			line.SetText("'<,'>")
		case cmd.Count == 1:
			line.SetText(".")
		case cmd.Count > 1:
			line.SetText(fmt.Sprintf(".,.+%d", cmd.Count-1))
		}
	}
	m.cmdline = &cmdlineState{line: line, cmd: cmd}
	m.modes.Push(mode.CommandLine, mode.SubNone)
	return Success()
}

func (m *Machine) cmdlineKey(e key.Event) DispatchResult {
	e = e.Normalize()
	c := m.cmdline
	if c == nil {
		_, _ = m.modes.Pop()
		return dispatched(NoOp())
	}
	line := c.line

	if c.awaitRegister {
		c.awaitRegister = false
		if r := e.Char(); r != 0 {
			if reg, ok := m.state.Registers.Get(r); ok {
				line.Insert(strings.TrimSuffix(reg.Text, "\n"))
			}
		}
		return incomplete(c.display())
	}

	switch {
	case e.Is(key.KeyEscape), e.IsCtrl('c'):
		m.closeCmdline()
		m.leaveInsertNormal()
		return cancelled()
	case e.Is(key.KeyEnter):
		input := line.Commit()
		m.closeCmdline()
		return dispatched(m.runCmdline(c, input))
	case e.Is(key.KeyBackspace):
		if !line.Backspace() {
			m.closeCmdline()
			m.leaveInsertNormal()
			return cancelled()
		}
	case e.Is(key.KeyDelete):
		if line.MoveRight() {
			line.Backspace()
		}
	case e.IsCtrl('w'):
		line.DeleteWord()
	case e.IsCtrl('u'):
		line.DeleteToStart()
	case e.IsCtrl('r'):
		c.awaitRegister = true
	case e.Is(key.KeyLeft):
		line.MoveLeft()
	case e.Is(key.KeyRight):
		line.MoveRight()
	case e.Is(key.KeyHome), e.IsCtrl('b'):
		line.MoveToStart()
	case e.Is(key.KeyEnd), e.IsCtrl('e'):
		line.MoveToEnd()
	case e.Is(key.KeyUp):
		line.HistoryPrev()
	case e.Is(key.KeyDown):
		line.HistoryNext()
	case e.IsChar():
		line.Insert(string(e.Rune))
	}
	return incomplete(c.display())
}

func (m *Machine) closeCmdline() {
	m.cmdline = nil
	if m.modes.Mode() == mode.CommandLine {
		_, _ = m.modes.Pop()
	}
}

// leaveInsertNormal returns to Insert mode after the one command CTRL-O
// allows.
func (m *Machine) leaveInsertNormal() {
	if m.modes.Mode() == mode.InsertNormal {
		_, _ = m.modes.Pop()
	}
}

func (m *Machine) runCmdline(c *cmdlineState, input string) Result {
	defer m.leaveInsertNormal()
	if c.line.Prompt() != ':' {
		return m.runSearch(c.cmd, c.line.Prompt(), input)
	}
	out, err := m.runEx(input)
	if err != nil {
		return Error(err)
	}
	if out != "" {
		return SuccessWithMessage(out)
	}
	return Success()
}

// runEx executes an Ex command line and settles the carets afterwards.
func (m *Machine) runEx(line string) (string, error) {
	out, err := m.exec.Execute(line)
	m.columns = make(map[text.CaretID]int)
	if m.modes.Mode().HasSelection() {
		m.updateSelection()
	}
	m.clampCarets()
	return out, err
}

// runSearch runs a typed "/" or "?" search: it moves the carets, extends
// the selection, or is the motion of a pending operator.
func (m *Machine) runSearch(cmd *vim.Command, prompt rune, input string) Result {
	pattern, offset, _ := search.SplitCommand(input, prompt)
	off, err := search.ParseOffset(offset)
	if err != nil {
		return Error(err)
	}
	dir := search.Forward
	if prompt == search.Backward.Char() {
		dir = search.Backward
	}
	if cmd.Operator != operator.OpNone {
		return m.searchOperator(cmd, input, pattern, dir, off)
	}

	wrapped := false
	err = m.eachCaret(func(id text.CaretID, primary bool) error {
		ctx := m.motionContext(id, cmd.EffectiveCount(), cmd.HasCount(), false)
		res, err := m.state.Search.Search(ctx, pattern, dir, off)
		if err != nil {
			return err
		}
		if primary {
			m.saveJump(id)
			wrapped = res.Wrapped
		}
		m.moveTo(id, res.Motion)
		return nil
	})
	m.state.Registers.Remember(register.LastFind, mustPattern(m.state.Search))
	if m.modes.Mode().HasSelection() {
		m.updateSelection()
	} else {
		m.clampCarets()
	}
	if err != nil {
		return Error(err)
	}
	if wrapped {
		return SuccessWithMessage(wrapMessage(dir))
	}
	return Success()
}

func wrapMessage(dir search.Direction) string {
	if dir == search.Backward {
		return "search hit TOP, continuing at BOTTOM"
	}
	return "search hit BOTTOM, continuing at TOP"
}

// searchOperator applies a pending operator up to a search match, as in
// "d/foo<CR>". The whole command, prompt included, is what "." repeats.
func (m *Machine) searchOperator(cmd *vim.Command, input, pattern string, dir search.Direction, off search.Offset) Result {
	hadInsert := m.insert != nil
	m.beginUndoGroup()
	var rows []text.Offset
	insert := false
	err := m.eachCaret(func(id text.CaretID, primary bool) error {
		ctx := m.motionContext(id, cmd.EffectiveCount(), cmd.HasCount(), true)
		res, err := m.state.Search.Search(ctx, pattern, dir, off)
		if err != nil {
			return err
		}
		if primary {
			m.saveJump(id)
		}
		rs, err := operator.Resolve(operator.Request{
			Index:   ctx.Index,
			Caret:   ctx.Caret,
			Target:  res.Motion.Offset,
			Type:    res.Type,
			Force:   cmd.Force,
			TabStop: m.state.Options.TabStop,
		})
		if err != nil {
			return err
		}
		out, err := m.applyOperator(id, primary, cmd.Operator, cmd.Register, rs.Range, true, 1)
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
	m.state.Registers.Remember(register.LastFind, mustPattern(m.state.Search))
	if insert {
		m.startChange(rows)
	} else {
		m.clampCarets()
	}

	if err == nil && cmd.Operator.Modifies() && m.repeating == 0 {
		keys := append(cmd.Keys.Clone(), key.FromText(input)...)
		keys = append(keys, key.Enter)
		if m.insert != nil {
			m.repeat.Begin(keys, cmd.Count)
		} else {
			m.repeat.Set(keys, cmd.Count)
		}
	}
	if hadInsert || m.insert == nil {
		m.endUndoGroup()
	}
	return Error(err)
}
