package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/text"
)

const threeFoos = "foo bar\nbaz foo\nfoo"

func newCtx(s string, caret int) *motion.Context {
	opts := config.Defaults()
	return &motion.Context{
		Index:         text.NewIndex(s),
		Caret:         text.Offset(caret),
		Count:         1,
		DesiredColumn: motion.NoColumn,
		Options:       &opts,
	}
}

func TestSearchForward(t *testing.T) {
	tests := []struct {
		name    string
		caret   int
		count   int
		dir     Direction
		want    int
		wrapped bool
	}{
		{"next", 0, 1, Forward, 12, false},
		{"count", 0, 2, Forward, 16, false},
		{"wraps", 0, 3, Forward, 0, true},
		{"backward wraps", 0, 1, Backward, 16, true},
		{"backward", 16, 1, Backward, 12, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(NewCache())
			ctx := newCtx(threeFoos, tt.caret)
			ctx.Count = tt.count
			res, err := s.Search(ctx, "foo", tt.dir, Offset{})
			require.NoError(t, err)
			assert.Equal(t, text.Offset(tt.want), res.Motion.Offset)
			assert.Equal(t, tt.wrapped, res.Wrapped)
			assert.Equal(t, motion.Exclusive, res.Type)
		})
	}
}

func TestSearchNotFound(t *testing.T) {
	s := NewState(nil)
	_, err := s.Search(newCtx(threeFoos, 0), "xyz", Forward, Offset{})
	var nf *engine.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, engine.NotFoundPattern, nf.Kind)

	ctx := newCtx(threeFoos, 16)
	ctx.Options.WrapScan = false
	_, err = s.Search(ctx, "foo", Forward, Offset{})
	assert.Error(t, err)

	_, err = NewState(nil).Search(newCtx(threeFoos, 0), "", Forward, Offset{})
	assert.Error(t, err)
	_, err = NewState(nil).Next(newCtx(threeFoos, 0), false)
	assert.Error(t, err)
}

func TestSearchNext(t *testing.T) {
	s := NewState(nil)
	res, err := s.Search(newCtx(threeFoos, 0), "foo", Forward, Offset{})
	require.NoError(t, err)
	require.Equal(t, text.Offset(12), res.Motion.Offset)

	res, err = s.Next(newCtx(threeFoos, 12), false)
	require.NoError(t, err)
	assert.Equal(t, text.Offset(16), res.Motion.Offset)

	res, err = s.Next(newCtx(threeFoos, 16), true)
	require.NoError(t, err)
	assert.Equal(t, text.Offset(12), res.Motion.Offset)

	// An empty pattern reuses the last one.
	_, err = s.Search(newCtx(threeFoos, 0), "bar", Forward, Offset{})
	require.NoError(t, err)
	res, err = s.Search(newCtx(threeFoos, 0), "", Forward, Offset{})
	require.NoError(t, err)
	assert.Equal(t, text.Offset(4), res.Motion.Offset)
}

func TestSearchOffsets(t *testing.T) {
	tests := []struct {
		name string
		off  Offset
		want int
		typ  motion.Type
	}{
		{"end", Offset{OffsetEnd, 0}, 14, motion.Inclusive},
		{"end plus one", Offset{OffsetEnd, 1}, 15, motion.Inclusive},
		{"start minus one", Offset{OffsetStart, -1}, 11, motion.Exclusive},
		{"line below", Offset{OffsetLine, 1}, 16, motion.Linewise},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(nil)
			res, err := s.Search(newCtx(threeFoos, 0), "foo", Forward, tt.off)
			require.NoError(t, err)
			assert.Equal(t, text.Offset(tt.want), res.Motion.Offset)
			assert.Equal(t, tt.typ, res.Type)
			assert.Equal(t, tt.off, s.Offset)
		})
	}
}

func TestStar(t *testing.T) {
	s := NewState(nil)
	res, err := s.Star(newCtx(threeFoos, 1), Forward, true)
	require.NoError(t, err)
	assert.Equal(t, text.Offset(12), res.Motion.Offset)
	p, _ := s.Pattern(RESearch)
	assert.Equal(t, `\<foo\>`, p)

	res, err = s.Star(newCtx(threeFoos, 13), Backward, true)
	require.NoError(t, err)
	assert.Equal(t, text.Offset(0), res.Motion.Offset)

	res, err = s.Star(newCtx("foo foobar", 0), Forward, false)
	require.NoError(t, err)
	assert.Equal(t, text.Offset(4), res.Motion.Offset)

	res, err = s.Star(newCtx("foo foobar", 0), Forward, true)
	require.NoError(t, err)
	assert.Equal(t, text.Offset(0), res.Motion.Offset)
	assert.True(t, res.Wrapped)

	_, err = s.Star(newCtx("   \nfoo", 0), Forward, true)
	assert.Error(t, err)
}

func TestStarIgnoresSmartcase(t *testing.T) {
	ctx := newCtx("Foo x foo", 0)
	ctx.Options.IgnoreCase = true
	ctx.Options.SmartCase = true
	res, err := NewState(nil).Star(ctx, Forward, true)
	require.NoError(t, err)
	assert.Equal(t, text.Offset(6), res.Motion.Offset)
}

func TestWordUnderCaret(t *testing.T) {
	idx := text.NewIndex("  foo.bar")
	w, start, kw := WordUnderCaret(idx, 0, text.DefaultClassifier)
	assert.Equal(t, "foo", w)
	assert.Equal(t, text.Offset(2), start)
	assert.True(t, kw)

	w, start, _ = WordUnderCaret(idx, 5, text.DefaultClassifier)
	assert.Equal(t, "bar", w)
	assert.Equal(t, text.Offset(6), start)

	w, start, kw = WordUnderCaret(text.NewIndex("  ...  "), 0, text.DefaultClassifier)
	assert.Equal(t, "...", w)
	assert.Equal(t, text.Offset(2), start)
	assert.False(t, kw)
}

func TestEscapePattern(t *testing.T) {
	assert.Equal(t, `a\.b\*`, EscapePattern("a.b*"))
}

func TestFindState(t *testing.T) {
	var f FindState
	m, _ := f.Repeat(newCtx("a,b", 0), false)
	assert.True(t, m.Failed())

	f.Remember(motion.WordForward, 'x')
	_, _, ok := f.Last()
	assert.False(t, ok)

	f.Remember(motion.FindForward, ',')
	m, kind := f.Repeat(newCtx("a,b,c,d", 1), false)
	require.False(t, m.Failed())
	assert.Equal(t, text.Offset(3), m.Offset)
	assert.Equal(t, motion.FindForward, kind)

	m, kind = f.Repeat(newCtx("a,b,c,d", 3), true)
	require.False(t, m.Failed())
	assert.Equal(t, text.Offset(1), m.Offset)
	assert.Equal(t, motion.FindBackward, kind)

	f.Remember(motion.TillForward, ',')
	m, _ = f.Repeat(newCtx("a,b,c,d", 0), false)
	require.False(t, m.Failed())
	assert.Equal(t, text.Offset(2), m.Offset)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name  string
		caret int
		count int
		dir   Direction
		skip  bool
		want  [2]text.Offset
	}{
		{"on match start", 0, 1, Forward, false, [2]text.Offset{0, 3}},
		{"inside match", 2, 1, Forward, false, [2]text.Offset{0, 3}},
		{"after match", 3, 1, Forward, false, [2]text.Offset{12, 15}},
		{"skip selected", 2, 1, Forward, true, [2]text.Offset{12, 15}},
		{"count", 0, 3, Forward, false, [2]text.Offset{16, 19}},
		{"wraps", 0, 4, Forward, false, [2]text.Offset{0, 3}},
		{"backward inside", 13, 1, Backward, false, [2]text.Offset{12, 15}},
		{"backward between", 10, 1, Backward, false, [2]text.Offset{0, 3}},
		{"backward skip", 12, 1, Backward, true, [2]text.Offset{0, 3}},
		{"backward wraps", 0, 1, Backward, true, [2]text.Offset{16, 19}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(NewCache())
			s.Save(RESearch, "foo")
			ctx := newCtx(threeFoos, tt.caret)
			ctx.Count = tt.count
			got, err := s.Match(ctx, tt.dir, tt.skip)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchErrors(t *testing.T) {
	s := NewState(NewCache())
	var nf *engine.NotFoundError
	_, err := s.Match(newCtx(threeFoos, 0), Forward, false)
	require.ErrorAs(t, err, &nf)

	s.Save(RESearch, "foo")
	ctx := newCtx(threeFoos, 17)
	ctx.Options.WrapScan = false
	_, err = s.Match(ctx, Forward, true)
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, engine.NotFoundPattern, nf.Kind)

	s.Save(RESearch, "qux")
	_, err = s.Match(newCtx(threeFoos, 0), Forward, false)
	require.ErrorAs(t, err, &nf)
}
