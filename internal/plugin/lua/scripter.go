package lua

import (
	"log/slog"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/ex"
	"github.com/dshills/vimcore/internal/ex/expr"
	"github.com/dshills/vimcore/internal/log"
	"github.com/dshills/vimcore/internal/session"
)

// Scripter runs :lua chunks for one executor.
type Scripter struct {
	state  *State
	bridge *Bridge
	ex     *ex.Executor
	sess   *session.State
	logger *slog.Logger
}

// NewScripter creates a sandboxed interpreter with the vim module bound to
// e.
func NewScripter(e *ex.Executor, opts ...StateOption) *Scripter {
	st := NewState(opts...)
	s := &Scripter{
		state:  st,
		bridge: NewBridge(st.L),
		ex:     e,
		sess:   e.State(),
		logger: e.State().LoggerFor(log.CatLua),
	}
	s.installVim()
	return s
}

// Run executes code. The output is what print wrote followed by the
// returned values, one per line.
func (s *Scripter) Run(code string) (string, error) {
	s.logger.Debug("running chunk", "bytes", len(code))
	vals, err := s.state.Exec(code)
	out := strings.TrimSuffix(s.state.Output(), "\n")
	lines := []string{}
	if out != "" {
		lines = append(lines, out)
	}
	for _, v := range vals {
		lines = append(lines, s.bridge.Format(v))
	}
	if err != nil {
		s.logger.Warn("chunk failed", "err", err)
	}
	return strings.Join(lines, "\n"), err
}

// Close releases the interpreter.
func (s *Scripter) Close() { s.state.Close() }

func (s *Scripter) installVim() {
	L := s.state.L
	vim := L.NewTable()
	L.SetFuncs(vim, map[string]lua.LGFunction{
		"cmd":  s.luaCmd,
		"eval": s.luaEval,
	})
	L.SetField(vim, "g", s.proxy(s.getVar, s.setVar))
	L.SetField(vim, "o", s.proxy(s.getOption, s.setOption))
	L.SetField(vim, "fn", s.functions())
	L.SetField(vim, "api", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"nvim_get_current_line": s.getCurrentLine,
		"nvim_set_current_line": s.setCurrentLine,
		"nvim_buf_line_count":   s.lineCount,
		"nvim_buf_get_lines":    s.getLines,
		"nvim_win_get_cursor":   s.getCursor,
		"nvim_win_set_cursor":   s.setCursor,
	}))
	L.SetGlobal("vim", vim)
}

// proxy returns an empty table whose reads and writes go to get and set.
func (s *Scripter) proxy(get func(L *lua.LState, key string) lua.LValue, set func(L *lua.LState, key string, v lua.LValue)) *lua.LTable {
	L := s.state.L
	meta := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"__index": func(L *lua.LState) int {
			L.Push(get(L, L.CheckString(2)))
			return 1
		},
		"__newindex": func(L *lua.LState) int {
			set(L, L.CheckString(2), L.Get(3))
			return 0
		},
	})
	t := L.NewTable()
	L.SetMetatable(t, meta)
	return t
}

// functions returns the vim.fn table: any key is a builtin function.
func (s *Scripter) functions() *lua.LTable {
	L := s.state.L
	meta := L.NewTable()
	L.SetField(meta, "__index", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(2)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			args := make([]expr.Value, L.GetTop())
			for i := range args {
				v, err := s.bridge.ToValue(L.Get(i + 1))
				if err != nil {
					L.ArgError(i+1, err.Error())
				}
				args[i] = v
			}
			v, err := s.ex.Call(name, args...)
			if err != nil {
				L.RaiseError("%s", err.Error())
			}
			L.Push(s.bridge.FromValue(v))
			return 1
		}))
		return 1
	}))
	t := L.NewTable()
	L.SetMetatable(t, meta)
	return t
}

// luaCmd runs a command line. Its output goes where print writes.
func (s *Scripter) luaCmd(L *lua.LState) int {
	out, err := s.ex.Run(L.CheckString(1))
	if out != "" {
		s.state.out.WriteString(out + "\n")
	}
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (s *Scripter) luaEval(L *lua.LState) int {
	v, err := s.ex.Eval(L.CheckString(1))
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	L.Push(s.bridge.FromValue(v))
	return 1
}

func (s *Scripter) getVar(_ *lua.LState, key string) lua.LValue {
	v, ok := s.sess.Variables.Get("g:" + key)
	if !ok {
		return lua.LNil
	}
	return s.bridge.FromValue(v)
}

func (s *Scripter) setVar(L *lua.LState, key string, lv lua.LValue) {
	if lv == lua.LNil {
		_ = s.sess.Variables.Unset("g:" + key)
		return
	}
	v, err := s.bridge.ToValue(lv)
	if err != nil {
		L.RaiseError("vim.g.%s: %s", key, err.Error())
	}
	s.sess.Variables.Set("g:"+key, v)
}

func (s *Scripter) getOption(L *lua.LState, key string) lua.LValue {
	v, err := s.sess.Options.Get(key)
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	return s.bridge.FromAny(v)
}

func (s *Scripter) setOption(L *lua.LState, key string, lv lua.LValue) {
	v, err := s.bridge.ToAny(lv)
	if err == nil {
		err = s.sess.Options.SetValue(key, v)
	}
	if err != nil {
		L.RaiseError("vim.o.%s: %s", key, err.Error())
	}
}

// caretLine returns the index and the line of the primary caret.
func (s *Scripter) caretLine() (*text.Index, int) {
	buf := s.sess.Buffer()
	idx := text.IndexOf(buf)
	return idx, idx.LineOf(buf.CaretOffset(buf.PrimaryCaret()))
}

func (s *Scripter) getCurrentLine(L *lua.LState) int {
	idx, line := s.caretLine()
	L.Push(lua.LString(idx.LineText(line)))
	return 1
}

// setCurrentLine replaces the text of the caret line, keeping its newline.
func (s *Scripter) setCurrentLine(L *lua.LState) int {
	content := L.CheckString(1)
	if strings.Contains(content, "\n") {
		L.ArgError(1, "line contains a newline")
	}
	host := s.sess.Editor()
	if !host.Writable() {
		L.RaiseError("%s", engine.ErrReadOnly.Error())
	}
	idx, line := s.caretLine()
	start, end := idx.LineStart(line), idx.LineEnd(line)
	edit := func() error {
		buf := s.sess.Buffer()
		if err := buf.Delete(start, end); err != nil {
			return err
		}
		if err := buf.Insert(start, content); err != nil {
			return err
		}
		buf.MoveCaret(buf.PrimaryCaret(), start)
		return nil
	}
	var err error
	if tx, ok := host.(text.Transactor); ok {
		err = tx.RunWriteAction(edit)
	} else {
		err = edit()
	}
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (s *Scripter) lineCount(L *lua.LState) int {
	L.Push(lua.LNumber(text.IndexOf(s.sess.Buffer()).LineCount()))
	return 1
}

// getLines returns lines [start, end) with 0-based indexes; a negative
// end counts from the end, -1 being one past the last line.
func (s *Scripter) getLines(L *lua.LState) int {
	idx := text.IndexOf(s.sess.Buffer())
	count := idx.LineCount()
	start, end := L.CheckInt(2), L.CheckInt(3)
	if end < 0 {
		end = count + end + 1
	}
	if start < 0 {
		start = count + start + 1
	}
	start, end = max(start, 0), min(end, count)
	t := L.NewTable()
	for l := start; l < end; l++ {
		t.Append(lua.LString(idx.LineText(l)))
	}
	L.Push(t)
	return 1
}

// getCursor returns {line, col}: a 1-based line and a 0-based byte column.
func (s *Scripter) getCursor(L *lua.LState) int {
	buf := s.sess.Buffer()
	pos := text.IndexOf(buf).OffsetToLogical(buf.CaretOffset(buf.PrimaryCaret()))
	t := L.NewTable()
	t.Append(lua.LNumber(pos.Line + 1))
	t.Append(lua.LNumber(pos.Column))
	L.Push(t)
	return 1
}

func (s *Scripter) setCursor(L *lua.LState) int {
	pos := L.CheckTable(2)
	line, ok1 := pos.RawGetInt(1).(lua.LNumber)
	col, ok2 := pos.RawGetInt(2).(lua.LNumber)
	if !ok1 || !ok2 {
		L.ArgError(2, "expected {line, col}")
	}
	buf := s.sess.Buffer()
	idx := text.IndexOf(buf)
	if int(line) < 1 || int(line) > idx.LineCount() {
		L.RaiseError("%s", engine.ErrInvalidRange.Error())
	}
	buf.MoveCaret(buf.PrimaryCaret(), idx.LogicalToOffset(text.LogicalPosition{Line: int(line) - 1, Column: int(col)}))
	return 0
}
