package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`foo`, `foo`},
		{`\<foo\>`, `\bfoo\b`},
		{`a\+`, `a+`},
		{`a+`, `a\+`},
		{`\(ab\)\|c`, `(ab)|c`},
		{`\%(ab\)c`, `(?:ab)c`},
		{`a\{2,3}`, `a{2,3}`},
		{`a\{-1,}`, `a{1,}?`},
		{`a\{,3}`, `a{0,3}`},
		{`\vfoo(bar)+`, `foo(bar)+`},
		{`a.b`, `a.b`},
		{`\Va.b`, `a\.b`},
		{`x\=`, `x?`},
		{`\d\+`, `\d+`},
		{`[abc]x`, `[abc]x`},
		{`\a`, `[A-Za-z]`},
		{`foo\zsbar`, `foo(?P<vimcorezs>bar)`},
		{`foo\zebar`, `(?P<vimcorezs>foo)bar`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, _, _ := Translate(tt.in, false)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateCase(t *testing.T) {
	_, fold, _ := Translate(`\cFoo`, false)
	assert.True(t, fold)
	_, fold, _ = Translate(`\CFoo`, true)
	assert.False(t, fold)
	_, fold, _ = Translate(`Foo`, true)
	assert.True(t, fold)
}

func TestPatternMatches(t *testing.T) {
	p, err := Compile(`foo\zsbar`, false)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{3, 6}}, p.Matches("foobar foo"))

	p, err = Compile(`foo\zebar`, false)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 3}}, p.Matches("foobar foo"))

	p, err = Compile(`^b`, false)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{4, 5}}, p.Matches("abc\nbcd"))

	p, err = Compile(`FOO`, true)
	require.NoError(t, err)
	assert.True(t, p.MatchString("a foo"))
}

func TestCompileError(t *testing.T) {
	_, err := Compile(`\(`, false)
	assert.Error(t, err)
}

func TestCache(t *testing.T) {
	c := NewCache()
	a, err := c.Compile("foo", false)
	require.NoError(t, err)
	b, err := c.Compile("foo", false)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, c.Len())

	_, err = c.Compile("foo", true)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, err = c.Compile(`\(`, false)
	assert.Error(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestPatternSubmatches(t *testing.T) {
	p, err := Compile(`\(\w\+\)=\zs\(\d\+\)`, false)
	require.NoError(t, err)
	got := p.Submatches("a=1 bc=23")
	require.Len(t, got, 2)
	assert.Equal(t, [][2]int{{2, 3}, {0, 1}, {2, 3}}, got[0])
	assert.Equal(t, [][2]int{{7, 9}, {4, 6}, {7, 9}}, got[1])

	p, err = Compile(`x\|\(y\)`, false)
	require.NoError(t, err)
	got = p.Submatches("x")
	require.Len(t, got, 1)
	assert.Equal(t, [2]int{-1, -1}, got[0][1])
}
