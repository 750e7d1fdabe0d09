package lua

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/buffer"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/ex"
	"github.com/dshills/vimcore/internal/ex/expr"
	"github.com/dshills/vimcore/internal/register"
	"github.com/dshills/vimcore/internal/session"
)

// newTestScripter wires a scripter into an executor the way a host does.
func newTestScripter(t *testing.T, content string, opts ...buffer.Option) (*ex.Executor, *buffer.Buffer) {
	t.Helper()
	buf := buffer.New(content, opts...)
	st, err := session.New(session.Services{Editor: buf, Clipboard: &register.MemoryClipboard{}}, nil)
	require.NoError(t, err)
	e := ex.New(st)
	s := NewScripter(e)
	t.Cleanup(s.Close)
	e.Configure(ex.WithScripter(s))
	return e, buf
}

func caretPos(buf *buffer.Buffer) text.LogicalPosition {
	return text.IndexOf(buf).OffsetToLogical(buf.CaretOffset(buf.PrimaryCaret()))
}

func TestLuaCommand(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"expression", "lua =1 + 2", "3"},
		{"string", "lua ='a' .. 'b'", "ab"},
		{"print", "lua print('hi', 2)", "hi\t2"},
		{"print and return", "lua print('x') return 1, 2", "x\n1\n2"},
		{"nothing", "lua local x = 1", ""},
		{"bar belongs to lua", "lua ='a|b'", "a|b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestScripter(t, "a\n")
			out, err := e.Execute(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestVimCmd(t *testing.T) {
	e, buf := newTestScripter(t, "one\ntwo\nthree\n")

	out, err := e.Execute("lua vim.cmd('2d') vim.cmd('1p')")
	require.NoError(t, err)
	assert.Equal(t, "one\nthree\n", buf.Text())
	assert.Equal(t, "one", out)

	_, err = e.Execute("lua vim.cmd('Nope')")
	require.ErrorContains(t, err, "Nope")

	out, err = e.Execute("lua =pcall(vim.cmd, 'Nope')")
	require.NoError(t, err, "pcall catches command errors")
	assert.Contains(t, out, "false")
}

func TestVimEvalAndFn(t *testing.T) {
	e, _ := newTestScripter(t, "one\ntwo\nthree\n")

	out, err := e.Execute("lua =vim.eval(\"line('$') * 2\")")
	require.NoError(t, err)
	assert.Equal(t, "6", out)

	out, err = e.Execute("lua =vim.fn.toupper('abc') .. vim.fn.len({1, 2})")
	require.NoError(t, err)
	assert.Equal(t, "ABC2", out)

	out, err = e.Execute("lua =vim.fn.split('a b')[2]")
	require.NoError(t, err)
	assert.Equal(t, "b", out)

	_, err = e.Execute("lua vim.fn.nosuch()")
	require.ErrorContains(t, err, "nosuch")
}

func TestVimGlobals(t *testing.T) {
	e, _ := newTestScripter(t, "a\n")
	vars := e.State().Variables

	_, err := e.Execute("lua vim.g.count = 3 vim.g.names = {'x', 'y'}")
	require.NoError(t, err)
	v, ok := vars.Get("g:count")
	require.True(t, ok)
	assert.Equal(t, "3", v.String())
	v, _ = vars.Get("g:names")
	assert.Equal(t, "['x', 'y']", v.Repr())

	vars.Set("g:from_vim", expr.String("hello"))
	out, err := e.Execute("lua =vim.g.from_vim")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	out, err = e.Execute("echo count + 1")
	require.NoError(t, err)
	assert.Equal(t, "4", out)

	_, err = e.Execute("lua vim.g.count = nil")
	require.NoError(t, err)
	_, ok = vars.Get("g:count")
	assert.False(t, ok)

	out, err = e.Execute("lua =vim.g.missing == nil")
	require.NoError(t, err)
	assert.Equal(t, "true", out)

	_, err = e.Execute("lua vim.g.f = function() end")
	require.ErrorContains(t, err, "vim.g.f")
}

func TestVimOptions(t *testing.T) {
	e, _ := newTestScripter(t, "a\n")
	opts := e.State().Options

	_, err := e.Execute("lua vim.o.tabstop = 4 vim.o.ignorecase = true vim.o.selection = 'exclusive'")
	require.NoError(t, err)
	assert.Equal(t, 4, opts.TabStop)
	assert.True(t, opts.IgnoreCase)
	assert.Equal(t, "exclusive", opts.Selection)

	out, err := e.Execute("lua =vim.o.sw")
	require.NoError(t, err)
	assert.Equal(t, "8", out)

	_, err = e.Execute("lua vim.o.bogus = 1")
	require.Error(t, err)
	_, err = e.Execute("lua =vim.o.bogus")
	require.Error(t, err)
}

func TestVimAPI(t *testing.T) {
	e, buf := newTestScripter(t, "one\ntwo\nthree\n", buffer.WithCaret(5))

	out, err := e.Execute("lua =vim.api.nvim_get_current_line()")
	require.NoError(t, err)
	assert.Equal(t, "two", out)

	out, err = e.Execute("lua =vim.api.nvim_buf_line_count(0)")
	require.NoError(t, err)
	assert.Equal(t, "3", out)

	out, err = e.Execute("lua =vim.api.nvim_buf_get_lines(0, 1, -1, false)")
	require.NoError(t, err)
	assert.Equal(t, "['two', 'three']", out)

	out, err = e.Execute("lua =vim.api.nvim_win_get_cursor(0)")
	require.NoError(t, err)
	assert.Equal(t, "[2, 1]", out)

	_, err = e.Execute("lua vim.api.nvim_set_current_line('TWO!')")
	require.NoError(t, err)
	assert.Equal(t, "one\nTWO!\nthree\n", buf.Text())

	_, err = e.Execute("lua vim.api.nvim_win_set_cursor(0, {3, 2})")
	require.NoError(t, err)
	assert.Equal(t, text.LogicalPosition{Line: 2, Column: 2}, caretPos(buf))

	_, err = e.Execute("lua vim.api.nvim_win_set_cursor(0, {9, 0})")
	require.Error(t, err)
	_, err = e.Execute("lua vim.api.nvim_set_current_line('a\\nb')")
	require.Error(t, err)
}

func TestSetCurrentLineUndoesInOneStep(t *testing.T) {
	e, buf := newTestScripter(t, "one\n")
	_, err := e.Execute("lua vim.api.nvim_set_current_line('uno')")
	require.NoError(t, err)
	require.NoError(t, buf.Undo())
	assert.Equal(t, "one\n", buf.Text())
}

func TestSetCurrentLineReadOnly(t *testing.T) {
	e, buf := newTestScripter(t, "one\n", buffer.WithReadOnly())
	_, err := e.Execute("lua vim.api.nvim_set_current_line('uno')")
	require.ErrorContains(t, err, engine.ErrReadOnly.Error())
	assert.Equal(t, "one\n", buf.Text())
}
