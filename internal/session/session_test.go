package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/engine/buffer"
	"github.com/dshills/vimcore/internal/engine/search"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/ex/alias"
	"github.com/dshills/vimcore/internal/ex/expr"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/keymap"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/mark"
	"github.com/dshills/vimcore/internal/register"
)

func newState(t *testing.T, cfg *config.Config) *State {
	t.Helper()
	s, err := New(Services{
		Editor:    buffer.New("one\ntwo\n", buffer.WithPath("a.txt")),
		Clipboard: &register.MemoryClipboard{},
	}, cfg)
	require.NoError(t, err)
	return s
}

func TestHandle(t *testing.T) {
	h := NewHandle()
	parsed, err := ParseHandle(h.String())
	require.NoError(t, err)
	assert.Equal(t, h, parsed)
	assert.NotEqual(t, h, NewHandle())

	_, err = ParseHandle("not-a-uuid")
	assert.Error(t, err)
}

func TestNewAppliesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Options.TabStop = 4
	cfg.Registers['a'] = "preloaded"
	cfg.Commands["Wq"] = "wq"
	cfg.Commands["Grep"] = "-nargs=1 g/<args>/d"
	cfg.Commands["bad"] = "d"

	s, err := New(Services{Editor: buffer.New("")}, cfg)
	require.Error(t, err, "invalid aliases are reported")
	assert.ErrorIs(t, err, alias.ErrNotUpperCase)

	assert.Equal(t, 4, s.Options.TabStop)
	r, ok := s.Registers.Get('a')
	require.True(t, ok)
	assert.Equal(t, "preloaded", r.Text)

	a, ok := s.Aliases.Get("Grep")
	require.True(t, ok)
	assert.Equal(t, "1", a.Nargs())
	assert.Equal(t, "g/<args>/d", a.Command)
	assert.True(t, s.Aliases.Has("Wq"))

	cfg.Options.TabStop = 2
	assert.Equal(t, 4, s.Options.TabStop, "the session owns a copy of the options")
}

func TestReconfigure(t *testing.T) {
	s := newState(t, nil)
	cfg := config.Default()
	cfg.Options.ShiftWidth = 2
	cfg.Commands["Q"] = "q"
	require.NoError(t, s.Reconfigure(cfg))
	assert.Equal(t, 2, s.Options.ShiftWidth)
	assert.True(t, s.Aliases.Has("Q"))

	cfg = config.Default()
	cfg.Commands["Q"] = "qa"
	require.NoError(t, s.Reconfigure(cfg), "a reload may redefine an alias")
	assert.Equal(t, 8, s.Options.ShiftWidth)
	a, _ := s.Aliases.Get("Q")
	assert.Equal(t, "qa", a.Command)
}

func TestPath(t *testing.T) {
	s := newState(t, nil)
	assert.Equal(t, "a.txt", s.Path())
	r, ok := s.Registers.Get(register.FileName)
	require.True(t, ok)
	assert.Equal(t, "a.txt", r.Text)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newState(t, nil)
	require.NoError(t, s.Registers.Set('a', "alpha", text.Character))
	require.NoError(t, s.Registers.Set('b', "line\n", text.Line))
	require.NoError(t, s.Marks.Set("a.txt", 'm', text.LogicalPosition{Line: 1, Column: 2}))
	require.NoError(t, s.Marks.Set("b.txt", 'G', text.LogicalPosition{Line: 5}))
	s.Marks.Jumps().Push(mark.Jump{Line: 3, Path: "a.txt"}, true)
	s.Variables.Set("g:count", expr.Number(3))
	s.Variables.Set("s:list", expr.List(expr.String("x"), expr.Number(1)))
	require.NoError(t, s.Aliases.Define(alias.Alias{Name: "Del", Min: 1, Max: alias.Unlimited, Command: "d <args>"}, false))
	_, err := s.Options.Set("ts=3")
	require.NoError(t, err)
	_, err = s.Options.Set("ignorecase")
	require.NoError(t, err)
	s.Search.Save(search.RESubst, "old")
	s.Search.Save(search.RESearch, "needle")
	s.Search.Dir = search.Backward
	s.CmdHistory.Add("d")
	s.SearchHistory.Add("needle")
	require.NoError(t, s.Mappings.Set(keymap.Insert, key.FromText("jk"), key.Sequence{key.Esc}, false))
	require.NoError(t, s.Mappings.Set(keymap.NVO, key.FromText("Q"), key.ParseNotation("gq<C-w>"), true))

	data, err := s.Snapshot()
	require.NoError(t, err)
	doc := gjson.ParseBytes(data)
	assert.Equal(t, int64(1), doc.Get("version").Int())
	assert.Equal(t, "3", doc.Get("options.tabstop").String())
	assert.False(t, doc.Get("options.shiftwidth").Exists(), "only changed options are saved")

	other := newState(t, nil)
	require.NoError(t, other.Restore(data))

	r, ok := other.Registers.Get('b')
	require.True(t, ok)
	assert.Equal(t, "line\n", r.Text)
	assert.Equal(t, text.Line, r.Type)

	assert.Equal(t, s.Marks.All(), other.Marks.All())
	assert.Equal(t, s.Marks.Jumps().List(), other.Marks.Jumps().List())

	v, ok := other.Variables.Get("s:list")
	require.True(t, ok)
	assert.Equal(t, "['x', 1]", v.Repr())
	v, _ = other.Variables.Get("count")
	assert.Equal(t, expr.Number(3), v)

	a, ok := other.Aliases.Get("Del")
	require.True(t, ok)
	assert.Equal(t, "+", a.Nargs())

	assert.Equal(t, 3, other.Options.TabStop)
	assert.True(t, other.Options.IgnoreCase)

	p, ok := other.Search.Pattern(search.RESearch)
	require.True(t, ok)
	assert.Equal(t, "needle", p)
	p, _ = other.Search.Pattern(search.RESubst)
	assert.Equal(t, "old", p)
	assert.Equal(t, search.Backward, other.Search.Dir)

	assert.Equal(t, []string{"d"}, other.CmdHistory.Entries())

	assert.Equal(t, s.Mappings.List(keymap.All, nil), other.Mappings.List(keymap.All, nil))
	mp, exact, _ := other.Mappings.Lookup(keymap.For(mode.Insert), key.FromText("jk"))
	require.True(t, exact)
	assert.False(t, mp.Recursive)
}

func TestSaveLoad(t *testing.T) {
	st := NewMemoryStorage()
	s := newState(t, nil)
	s.Variables.Set("x", expr.String("saved"))
	require.NoError(t, s.Save(st))

	other := newState(t, nil)
	require.NoError(t, other.Load(st, s.Handle))
	assert.Equal(t, s.Handle, other.Handle)
	v, ok := other.Variables.Get("x")
	require.True(t, ok)
	assert.Equal(t, "saved", v.String())

	err := other.Load(st, NewHandle())
	assert.ErrorIs(t, err, ErrNotStored)
}

func TestRestoreRejectsBadInput(t *testing.T) {
	s := newState(t, nil)
	assert.ErrorIs(t, s.Restore([]byte("{not json")), ErrBadSnapshot)
	assert.ErrorIs(t, s.Restore([]byte(`{"version": 99}`)), ErrBadSnapshot)
}

func TestBufferMovesMarks(t *testing.T) {
	s := newState(t, nil)
	require.NoError(t, s.Marks.Set("a.txt", 'a', text.LogicalPosition{Line: 1}))

	require.NoError(t, s.Buffer().Insert(0, "zero\n"))
	m, ok := s.Marks.Get("a.txt", 'a')
	require.True(t, ok)
	assert.Equal(t, 2, m.Line)

	require.NoError(t, s.Buffer().Delete(5, 9), "delete the whole of line one")
	assert.Equal(t, "zero\ntwo\n", s.Editor().Text())
	m, _ = s.Marks.Get("a.txt", 'a')
	assert.Equal(t, 1, m.Line)
}
