package ex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/search"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/mark"
)

func testLineEnv(t *testing.T, s string, line int) *LineEnv {
	t.Helper()
	opts := config.Defaults()
	marks := mark.NewStore(nil)
	require.NoError(t, marks.Set("f.txt", 'a', text.LogicalPosition{Line: 3}))
	return &LineEnv{
		Index:   text.NewIndex(s),
		Marks:   marks,
		Path:    "f.txt",
		Search:  search.NewState(search.NewCache()),
		Options: &opts,
		Line:    line,
	}
}

func TestRangeLines(t *testing.T) {
	const doc = "a\nb\nc\nd\ne\n"
	tests := []struct {
		in         string
		start, end int
	}{
		{"", 2, 2},
		{"3", 2, 2},
		{"1,3", 0, 2},
		{"%", 0, 4},
		{"$", 4, 4},
		{".,+2", 2, 4},
		{"3,1", 0, 2},
		{"-", 1, 1},
		{"+", 3, 3},
		{"-2", 0, 0},
		{".5", 7, 7},
		{"/d/", 3, 3},
		{"?a?", 0, 0},
		{"/a/", 0, 0},
		{"0", -1, -1},
		{"2;+1", 1, 2},
		{"2,+1", 1, 3},
		{",4", 2, 3},
		{"5,", 2, 4},
		{"'a", 3, 3},
		{"'a,$", 3, 4},
		{"/b//e/", 4, 4},
		{"0;/a/", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, rest, err := ParseRange(tt.in)
			require.NoError(t, err)
			assert.Empty(t, rest)
			start, end, err := r.Lines(testLineEnv(t, doc, 2))
			require.NoError(t, err)
			assert.Equal(t, tt.start, start, "start")
			assert.Equal(t, tt.end, end, "end")
		})
	}
}

func TestRangeLinesErrors(t *testing.T) {
	const doc = "a\nb\nc\n"
	var nf *engine.NotFoundError

	r, _, err := ParseRange("'z")
	require.NoError(t, err)
	_, _, err = r.Lines(testLineEnv(t, doc, 0))
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, engine.NotFoundMark, nf.Kind)

	r, _, err = ParseRange("/x/")
	require.NoError(t, err)
	_, _, err = r.Lines(testLineEnv(t, doc, 0))
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, engine.NotFoundPattern, nf.Kind)

	r, _, err = ParseRange(`\/`)
	require.NoError(t, err)
	_, _, err = r.Lines(testLineEnv(t, doc, 0))
	assert.ErrorIs(t, err, ErrNoPreviousPattern)

	_, _, err = ParseRange(`\x`)
	assert.ErrorIs(t, err, engine.ErrInvalidRange)
}

func TestRangeSearchRemembersPattern(t *testing.T) {
	env := testLineEnv(t, "a\nb\nc\nb\n", 0)
	r, _, err := ParseRange("/b/")
	require.NoError(t, err)
	_, end, err := r.Lines(env)
	require.NoError(t, err)
	assert.Equal(t, 1, end)

	r, _, err = ParseRange(`2;\/`)
	require.NoError(t, err)
	_, end, err = r.Lines(env)
	require.NoError(t, err)
	assert.Equal(t, 3, end)
}

func TestRangeSemicolonMovesCaret(t *testing.T) {
	env := testLineEnv(t, "a\nb\nc\nd\n", 0)
	moved := -1
	env.Move = func(line int) { moved = line }
	r, _, err := ParseRange("3;+1")
	require.NoError(t, err)
	start, end, err := r.Lines(env)
	require.NoError(t, err)
	assert.Equal(t, 2, start)
	assert.Equal(t, 3, end)
	assert.Equal(t, 2, moved)
}

func TestParseRangeRest(t *testing.T) {
	r, rest, err := ParseRange("1,$s/a/b/")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, "s/a/b/", rest)

	r, rest, err = ParseRange("/x/d")
	require.NoError(t, err)
	require.Equal(t, 1, r.Len())
	assert.Equal(t, AddrSearch, r.Addresses[0].Kind)
	assert.Equal(t, "x", r.Addresses[0].Steps[0].Pattern)
	assert.Equal(t, "d", rest)
}
