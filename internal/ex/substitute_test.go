package ex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/buffer"
	"github.com/dshills/vimcore/internal/engine/tracking"
	"github.com/dshills/vimcore/internal/engine/text"
)

func TestSubstitute(t *testing.T) {
	const doc = "foo bar foo\nbaz\n"
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"first match", []string{"s/foo/X/"}, "X bar foo\nbaz\n"},
		{"global flag", []string{"s/foo/X/g"}, "X bar X\nbaz\n"},
		{"whole file", []string{"%s/ba/BA/"}, "foo BAr foo\nBAz\n"},
		{"backreferences", []string{`%s/\(ba\)\(.\)/\2\1/g`}, "foo rba foo\nzba\n"},
		{"whole match", []string{"s/bar/[&]/"}, "foo [bar] foo\nbaz\n"},
		{"escaped ampersand", []string{`s/bar/\&/`}, "foo & foo\nbaz\n"},
		{"upper next", []string{`s/foo/\u&/g`}, "Foo bar Foo\nbaz\n"},
		{"upper until end", []string{`s/bar/\U&x\E!/`}, "foo BARX! foo\nbaz\n"},
		{"lower", []string{`%s/\w\+/\L\u&/g`}, "Foo Bar Foo\nBaz\n"},
		{"split lines", []string{`s/ /\r/g`}, "foo\nbar\nfoo\nbaz\n"},
		{"other delimiter", []string{"s#foo#a/b#"}, "a/b bar foo\nbaz\n"},
		{"empty replacement", []string{"s/foo //"}, "bar foo\nbaz\n"},
		{"no closing delimiter", []string{"s/bar"}, "foo  foo\nbaz\n"},
		{"last pattern", []string{"s/foo/X/|s//Y/"}, "X bar Y\nbaz\n"},
		{"repeat", []string{"s/foo/X/|&"}, "X bar X\nbaz\n"},
		{"tilde", []string{"s/foo/X/|s/bar/~~/"}, "X XX foo\nbaz\n"},
		{"repeat with search", []string{"s/foo/X/", "/baz/~"}, "X bar foo\nX\n"},
		{"ignore case flag", []string{"s/FOO/X/gi"}, "X bar X\nbaz\n"},
		{"count", []string{"s/ba/X/ 2"}, "foo Xr foo\nXz\n"},
		{"zs", []string{`s/foo \zsbar/X/`}, "foo X foo\nbaz\n"},
		{"lookup by bare s", []string{"s/foo/X/", "s"}, "X bar X\nbaz\n"},
		{"empty match", []string{`s/^/> /`}, "> foo bar foo\nbaz\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, buf := newTestExecutor(t, doc)
			for _, line := range tt.lines {
				_, err := e.Execute(line)
				require.NoError(t, err, line)
			}
			assert.Equal(t, tt.want, buf.Text())
		})
	}
}

func TestSubstituteNotFound(t *testing.T) {
	e, buf := newTestExecutor(t, "abc\n")

	_, err := e.Execute("s/x/y/")
	var nf *engine.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, engine.NotFoundPattern, nf.Kind)

	_, err = e.Execute("s/x/y/e")
	require.NoError(t, err)
	assert.Equal(t, "abc\n", buf.Text())
}

func TestSubstituteErrors(t *testing.T) {
	e, _ := newTestExecutor(t, "abc\n")

	_, err := e.Execute("s//b/")
	require.ErrorIs(t, err, ErrNoPreviousPattern)

	_, err = e.Execute("&")
	require.ErrorIs(t, err, ErrNoPreviousPattern)

	_, err = e.Execute("s/a/b/c")
	require.ErrorIs(t, err, ErrConfirmUnsupported)

	_, err = e.Execute("s/a/b/g 0")
	require.ErrorIs(t, err, ErrPositiveCount)
}

func TestRepeatSubstituteFlags(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"s/a/b/g|2&&", "bb\nbb\n"},
		{"s/a/b/g|2&", "bb\nba\n"},
		{"s/a/b/|2&g", "ba\nbb\n"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			e, buf := newTestExecutor(t, "aa\naa\n")
			_, err := e.Execute(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.Text())
		})
	}
}

func TestSubstituteCountOnly(t *testing.T) {
	e, buf := newTestExecutor(t, "foo bar foo\nbaz\n")
	out, err := e.Execute("%s/o//gn")
	require.NoError(t, err)
	assert.Equal(t, "4 matches on 1 line", out)
	assert.Equal(t, "foo bar foo\nbaz\n", buf.Text())
}

func TestSubstituteReport(t *testing.T) {
	e, buf := newTestExecutor(t, "a a\na\nb\na\n")
	out, err := e.Execute("%s/a/x/g")
	require.NoError(t, err)
	assert.Equal(t, "4 substitutions on 3 lines", out)
	assert.Equal(t, 3, caretLine(buf), "the caret ends on the last changed line")
}

func TestSubstituteGDefault(t *testing.T) {
	e, buf := newTestExecutor(t, "aaa\n")
	e.State().Options.GDefault = true
	_, err := e.Execute("s/a/b/")
	require.NoError(t, err)
	assert.Equal(t, "bbb\n", buf.Text())

	_, err = e.Execute("s/b/c/g")
	require.NoError(t, err)
	assert.Equal(t, "cbb\n", buf.Text())
}

func TestSubstituteSmartCase(t *testing.T) {
	e, buf := newTestExecutor(t, "Foo foo\n")
	e.State().Options.IgnoreCase = true
	e.State().Options.SmartCase = true

	_, err := e.Execute("s/foo/x/g")
	require.NoError(t, err)
	assert.Equal(t, "x x\n", buf.Text())

	buf.SetText("Foo foo\n")
	_, err = e.Execute("s/Foo/x/g")
	require.NoError(t, err)
	assert.Equal(t, "x foo\n", buf.Text())

	buf.SetText("Foo foo\n")
	_, err = e.Execute("s/foo/x/gI")
	require.NoError(t, err)
	assert.Equal(t, "Foo x\n", buf.Text())
}

func TestSubstituteUndoesInOneStep(t *testing.T) {
	e, buf := newTestExecutor(t, "a\na\na\n")
	_, err := e.Execute("%s/a/b/")
	require.NoError(t, err)
	assert.Equal(t, "b\nb\nb\n", buf.Text())
	_, err = e.Execute("u")
	require.NoError(t, err)
	assert.Equal(t, "a\na\na\n", buf.Text())
}

func TestExpandReplacement(t *testing.T) {
	line := "hello world"
	groups := [][2]int{{0, 11}, {0, 5}, {6, 11}, {-1, -1}}
	tests := []struct {
		repl string
		want string
	}{
		{`\2 \1`, "world hello"},
		{`&!`, "hello world!"},
		{`\0`, "hello world"},
		{`[\3]`, "[]"},
		{`\9`, ""},
		{`\u\1`, "Hello"},
		{`\U\1\E \2`, "HELLO world"},
		{`\L\U\1`, "HELLO"},
		{`a\tb`, "a\tb"},
		{`a\nb`, "a\nb"},
		{`\\`, `\`},
		{`\/`, "/"},
		{`x\`, `x\`},
	}
	for _, tt := range tests {
		t.Run(tt.repl, func(t *testing.T) {
			assert.Equal(t, tt.want, expandReplacement(tt.repl, line, groups))
		})
	}
}

func TestParseSubstFlags(t *testing.T) {
	prev := substFlags{global: true, errorsOK: true}

	f, count, err := parseSubstFlags("gi 3", substFlags{})
	require.NoError(t, err)
	assert.Equal(t, substFlags{global: true, ignore: true}, f)
	assert.Equal(t, 3, count)

	f, _, err = parseSubstFlags("&", prev)
	require.NoError(t, err)
	assert.Equal(t, prev, f)

	f, _, err = parseSubstFlags("&g", prev)
	require.NoError(t, err)
	assert.False(t, f.global, "g toggles the kept flag")

	f, _, err = parseSubstFlags("iI", substFlags{})
	require.NoError(t, err)
	assert.True(t, f.noIgnore)
	assert.False(t, f.ignore)

	_, _, err = parseSubstFlags("gx", substFlags{})
	require.ErrorIs(t, err, engine.ErrArgumentForbidden)
}

func TestExpandTilde(t *testing.T) {
	assert.Equal(t, "aXXb", expandTilde("a~~b", "X"))
	assert.Equal(t, `a\~b`, expandTilde(`a\~b`, "X"))
	assert.Equal(t, "plain", expandTilde("plain", "X"))
}

func TestGlobal(t *testing.T) {
	const doc = "a1\nb\na2\nb\n"
	tests := []struct {
		name string
		line string
		want string
		out  string
	}{
		{"delete matches", "g/a/d", "b\nb\n", ""},
		{"delete others", "v/a/d", "a1\na2\n", ""},
		{"bang inverts", "g!/a/d", "a1\na2\n", ""},
		{"substitute", `g/a/s/\d/X/`, "aX\nb\naX\nb\n", ""},
		{"default print", "g/a/", doc, "a1\na2"},
		{"explicit print", "g/a/p", doc, "a1\na2"},
		{"reverse", "g/^/m0", "b\na2\nb\na1\n", ""},
		{"move matches up", "g/a/m0", "a2\na1\nb\nb\n", ""},
		{"join with next", "g/a/j", "a1 b\na2 b\n", ""},
		{"range", "3,4g/./d", "a1\nb\n", ""},
		{"several commands", "g/a/s/a/x/|s/x/y/", "y1\nb\ny2\nb\n", ""},
		{"copy below", "g/b/t.", "a1\nb\nb\na2\nb\nb\n", ""},
		{"other delimiter", "g#a#d", "b\nb\n", ""},
		{"normal delete all", "g/./d", "", ""},
		{"every line matches", "v/./d", doc, "Pattern found in every line: ."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, buf := newTestExecutor(t, doc)
			out, err := e.Execute(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.Text())
			assert.Equal(t, tt.out, out)
		})
	}
}

func TestGlobalErrors(t *testing.T) {
	e, buf := newTestExecutor(t, "a\nb\n")

	_, err := e.Execute("g/x/d")
	var nf *engine.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, engine.NotFoundPattern, nf.Kind)

	_, err = e.Execute("g/a/g/b/d")
	require.ErrorIs(t, err, ErrGlobalRecursive)
	assert.Equal(t, "a\nb\n", buf.Text())
	assert.False(t, e.inGlobal)

	_, err = e.Execute("g a d")
	require.ErrorIs(t, err, ErrBadDelimiter)

	_, err = e.Execute("g/a/Nope")
	require.Error(t, err)
}

func TestGlobalUndoesInOneStep(t *testing.T) {
	e, buf := newTestExecutor(t, "a1\nb\na2\nb\n")
	_, err := e.Execute("g/a/d")
	require.NoError(t, err)
	_, err = e.Execute("u")
	require.NoError(t, err)
	assert.Equal(t, "a1\nb\na2\nb\n", buf.Text())
	_, err = e.Execute("red")
	require.NoError(t, err)
	assert.Equal(t, "b\nb\n", buf.Text())
}

func TestGlobalRemembersPattern(t *testing.T) {
	e, buf := newTestExecutor(t, "a1\nb\na2\n")
	_, err := e.Execute("g/a/s//x/")
	require.NoError(t, err)
	assert.Equal(t, "x1\nb\nx2\n", buf.Text())
}

func TestFollowLines(t *testing.T) {
	before := text.NewIndex("a\nb\nc\nd\n")
	tests := []struct {
		name   string
		change tracking.Change
		want   []int
	}{
		{
			"insert line above",
			tracking.Change{Type: tracking.ChangeInsert, Before: before, Start: 2, NewText: "x\n"},
			[]int{0, 2, 3, 4},
		},
		{
			"insert inside a line",
			tracking.Change{Type: tracking.ChangeInsert, Before: before, Start: 3, NewText: "x"},
			[]int{0, 1, 2, 3},
		},
		{
			"delete a line",
			tracking.Change{Type: tracking.ChangeDelete, Before: before, Start: 2, OldText: "b\n"},
			[]int{0, -1, 1, 2},
		},
		{
			"join two lines",
			tracking.Change{Type: tracking.ChangeDelete, Before: before, Start: 3, OldText: "\n"},
			[]int{0, 1, -1, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := []int{0, 1, 2, 3}
			followLines(lines, tt.change)
			assert.Equal(t, tt.want, lines)
		})
	}
}

func TestSubstituteOnSecondaryCaretLineOnly(t *testing.T) {
	e, buf := newTestExecutor(t, "a\na\n", buffer.WithCaret(2))
	_, err := e.Execute("s/a/b/")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", buf.Text())
}
