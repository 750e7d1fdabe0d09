package ex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/keymap"
	"github.com/dshills/vimcore/internal/input/mode"
)

func TestMapCommands(t *testing.T) {
	tests := []struct {
		line      string
		md        mode.Mode
		lhs       string
		rhs       string
		recursive bool
	}{
		{"map Q dd", mode.Normal, "Q", "dd", true},
		{"map Q dd", mode.Visual, "Q", "dd", true},
		{"map Q dd", mode.OperatorPending, "Q", "dd", true},
		{"nmap <C-a> 0", mode.Normal, "<C-a>", "0", true},
		{"nn Y y$", mode.Normal, "Y", "y$", false},
		{"xnoremap > >gv", mode.Visual, ">", ">gv", false},
		{"ino jk <Esc>", mode.Insert, "jk", "<Esc>", false},
		{"map! <C-e> end", mode.CommandLine, "<C-e>", "end", true},
		{"cmap <C-e> end", mode.CommandLine, "<C-e>", "end", true},
		{"omap <silent> w iw", mode.OperatorPending, "w", "iw", true},
		{"nmap <Bar> a\\|b", mode.Normal, "|", "a|b", true},
		{"nnoremap <Space>   x", mode.Normal, "<Space>", "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			e, _ := newTestExecutor(t, "one\n")
			_, err := e.Execute(tt.line)
			require.NoError(t, err)

			mp, exact, _ := e.State().Mappings.Lookup(keymap.For(tt.md), key.ParseNotation(tt.lhs))
			require.True(t, exact)
			assert.Equal(t, key.ParseNotation(tt.rhs), mp.To)
			assert.Equal(t, tt.recursive, mp.Recursive)
		})
	}
}

func TestMapModesAreSeparate(t *testing.T) {
	e, _ := newTestExecutor(t, "one\n")
	_, err := e.Execute("nmap Q dd")
	require.NoError(t, err)
	_, exact, _ := e.State().Mappings.Lookup(keymap.Insert, key.FromText("Q"))
	assert.False(t, exact)
	_, exact, _ = e.State().Mappings.Lookup(keymap.Visual, key.FromText("Q"))
	assert.False(t, exact)
}

func TestMapListing(t *testing.T) {
	e, _ := newTestExecutor(t, "one\n")
	for _, line := range []string{"nmap Q dd", "noremap gQ gq", "inoremap jk <Esc>", "cnoremap jk <Esc>"} {
		_, err := e.Execute(line)
		require.NoError(t, err)
	}

	out, err := e.Execute("nmap")
	require.NoError(t, err)
	assert.Equal(t, "n  Q              dd\nn  gQ           * gq", out)

	out, err = e.Execute("map g")
	require.NoError(t, err)
	assert.Equal(t, "   gQ           * gq", out)

	out, err = e.Execute("map!")
	require.NoError(t, err)
	assert.Equal(t, "!  jk           * <Esc>", out)

	out, err = e.Execute("vmap x")
	require.NoError(t, err)
	assert.Equal(t, "No mapping found", out)
}

func TestUnmap(t *testing.T) {
	e, _ := newTestExecutor(t, "one\n")
	maps := e.State().Mappings
	_, err := e.Execute("map Q dd")
	require.NoError(t, err)

	_, err = e.Execute("vunmap Q")
	require.NoError(t, err)
	assert.False(t, maps.Has(keymap.Visual, key.FromText("Q")))
	assert.True(t, maps.Has(keymap.Normal, key.FromText("Q")))

	_, err = e.Execute("unm Q")
	require.NoError(t, err)
	assert.False(t, maps.Has(keymap.All, key.FromText("Q")))

	_, err = e.Execute("unmap Q")
	var nf *engine.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, engine.NotFoundMapping, nf.Kind)

	_, err = e.Execute("unmap")
	require.ErrorIs(t, err, engine.ErrArgumentRequired)
}

func TestMapClear(t *testing.T) {
	e, _ := newTestExecutor(t, "one\n")
	maps := e.State().Mappings
	for _, line := range []string{"nmap a b", "imap c d", "map e f"} {
		_, err := e.Execute(line)
		require.NoError(t, err)
	}

	_, err := e.Execute("imapclear")
	require.NoError(t, err)
	assert.False(t, maps.Has(keymap.Insert, key.FromText("c")))
	assert.True(t, maps.Has(keymap.Normal, key.FromText("a")))

	_, err = e.Execute("mapc")
	require.NoError(t, err)
	assert.Empty(t, maps.List(keymap.All, nil))
}

func TestMapUniqueAndExpr(t *testing.T) {
	e, _ := newTestExecutor(t, "one\n")
	_, err := e.Execute("nmap <unique> Q dd")
	require.NoError(t, err)
	_, err = e.Execute("nmap <unique> Q yy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E227")

	_, err = e.Execute("nmap <expr> Q 'dd'")
	require.ErrorIs(t, err, engine.ErrInvalidArgument)
}
