package ex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/buffer"
)

func TestRegistersListing(t *testing.T) {
	e, _ := newTestExecutor(t, "one\ntwo\n")
	_, err := e.Execute("y")
	require.NoError(t, err)
	_, err = e.Execute("let @a = 'x\ty'")
	require.NoError(t, err)

	out, err := e.Execute("reg a0")
	require.NoError(t, err)
	assert.Equal(t, "Type Name Content\n  l  \"0   one^J\n  c  \"a   x^Iy", out)

	out, err = e.Execute("di")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	assert.Equal(t, "Type Name Content", lines[0])
	assert.Equal(t, `  l  ""   one^J`, lines[1], "the unnamed register comes first")
	assert.Contains(t, out, `  c  "%   `+testPath)
	assert.Contains(t, out, `  c  ":   reg a0`, "the previous command line replaced the :let")

	out, err = e.Execute("reg z")
	require.NoError(t, err)
	assert.Equal(t, "Type Name Content", out)
}

func TestPrintable(t *testing.T) {
	assert.Equal(t, "a^Jb^I^?", printable("a\nb\t\x7f"))
	assert.Equal(t, "^[x", printable("\x1bx"))
	assert.Equal(t, "héllo", printable("héllo"))
}

func TestMarksListing(t *testing.T) {
	e, _ := newTestExecutor(t, "one\ntwo\n  three\n")
	_, err := e.Execute("3ka")
	require.NoError(t, err)
	_, err = e.Execute("1mark B")
	require.NoError(t, err)

	out, err := e.Execute("marks aB")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "mark line  col file/text", lines[0])
	assert.Regexp(t, `^ a\s+3\s+0 three$`, lines[1])
	assert.Regexp(t, `^ B\s+1\s+0 one$`, lines[2])

	_, err = e.Execute("marks z")
	var nf *engine.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, engine.NotFoundMark, nf.Kind)
}

func TestDeleteMarks(t *testing.T) {
	e, _ := newTestExecutor(t, "one\ntwo\nthree\n")
	marks := e.State().Marks
	for _, line := range []string{"1ka", "2kb", "3kc", "3kC"} {
		_, err := e.Execute(line)
		require.NoError(t, err)
	}

	_, err := e.Execute("delm a")
	require.NoError(t, err)
	_, ok := marks.Get(testPath, 'a')
	assert.False(t, ok)

	_, err = e.Execute("delm!")
	require.NoError(t, err)
	_, ok = marks.Get(testPath, 'b')
	assert.False(t, ok)
	_, ok = marks.Get(testPath, 'C')
	assert.True(t, ok, "global marks survive :delmarks!")

	_, err = e.Execute("delm")
	require.ErrorIs(t, err, engine.ErrArgumentRequired)
	_, err = e.Execute("delm! a")
	require.ErrorIs(t, err, engine.ErrInvalidArgument)
	_, err = e.Execute("delm z-a")
	require.ErrorIs(t, err, engine.ErrInvalidArgument)
}

func TestJumpsListing(t *testing.T) {
	e, _ := newTestExecutor(t, "one\ntwo\nthree\nfour\nfive\n")
	_, err := e.Execute("3")
	require.NoError(t, err)
	_, err = e.Execute("5")
	require.NoError(t, err)

	out, err := e.Execute("ju")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, " jump line  col file/text", lines[0])
	assert.Regexp(t, `^ \s+2\s+1\s+0 one$`, lines[1])
	assert.Regexp(t, `^ \s+1\s+3\s+0 three$`, lines[2])
	assert.Equal(t, ">", lines[3])
}

func TestHistoryListing(t *testing.T) {
	e, _ := newTestExecutor(t, "a\n")
	e.State().CmdHistory.Add("s/a/b/")
	e.State().SearchHistory.Add("foo")

	out, err := e.Execute("his")
	require.NoError(t, err)
	assert.Contains(t, out, "cmd history")
	assert.Contains(t, out, "s/a/b/")
	assert.Contains(t, out, "foo")

	out, err = e.Execute("his /")
	require.NoError(t, err)
	assert.NotContains(t, out, "s/a/b/")
	assert.Contains(t, out, "foo")

	out, err = e.Execute("his :")
	require.NoError(t, err)
	assert.NotContains(t, out, "foo")

	_, err = e.Execute("his x")
	require.ErrorIs(t, err, engine.ErrInvalidArgument)
}

func TestSetCommand(t *testing.T) {
	e, _ := newTestExecutor(t, "a\n")
	opts := e.State().Options

	_, err := e.Execute("set ts=4 ic")
	require.NoError(t, err)
	assert.Equal(t, 4, opts.TabStop)
	assert.True(t, opts.IgnoreCase)

	out, err := e.Execute("set ts?")
	require.NoError(t, err)
	assert.Equal(t, "tabstop=4", out)

	out, err = e.Execute("set")
	require.NoError(t, err)
	assert.Contains(t, out, "tabstop=4")
	assert.Contains(t, out, "ignorecase")

	out, err = e.Execute("se all")
	require.NoError(t, err)
	assert.Contains(t, out, "shiftwidth=8")
	assert.Contains(t, out, "nogdefault")

	_, err = e.Execute("set noic")
	require.NoError(t, err)
	assert.False(t, opts.IgnoreCase)

	_, err = e.Execute("set bogus")
	var nf *engine.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, engine.NotFoundOption, nf.Kind)
}

func TestNoHighlight(t *testing.T) {
	e, _ := newTestExecutor(t, "a\nb\n", buffer.WithCaret(0))
	_, err := e.Execute("/b/")
	require.NoError(t, err)
	assert.True(t, e.State().Search.Highlight)

	_, err = e.Execute("noh")
	require.NoError(t, err)
	assert.False(t, e.State().Search.Highlight)
}
