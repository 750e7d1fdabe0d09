package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateCategories(t *testing.T) {
	s := NewState(nil)
	_, ok := s.Pattern(RELast)
	assert.False(t, ok)

	s.Save(RESearch, "a")
	_, ok = s.Pattern(RESubst)
	assert.False(t, ok)

	s.Save(RESubst, "b")
	p, _ := s.Pattern(RELast)
	assert.Equal(t, "b", p)
	p, _ = s.Pattern(RESearch)
	assert.Equal(t, "a", p)

	s.Save(REBoth, "c")
	p, _ = s.Pattern(RESearch)
	assert.Equal(t, "c", p)
	p, _ = s.Pattern(RESubst)
	assert.Equal(t, "c", p)
	assert.True(t, s.Highlight)

	_, ok = s.Replacement()
	assert.False(t, ok)
	s.SetReplacement("x")
	r, ok := s.Replacement()
	assert.True(t, ok)
	assert.Equal(t, "x", r)
}

func TestParseOffset(t *testing.T) {
	tests := []struct {
		in      string
		want    Offset
		wantErr bool
	}{
		{"", Offset{}, false},
		{"e", Offset{OffsetEnd, 0}, false},
		{"e+1", Offset{OffsetEnd, 1}, false},
		{"e-2", Offset{OffsetEnd, -2}, false},
		{"s", Offset{OffsetStart, 0}, false},
		{"b+3", Offset{OffsetStart, 3}, false},
		{"+", Offset{OffsetLine, 1}, false},
		{"-", Offset{OffsetLine, -1}, false},
		{"3", Offset{OffsetLine, 3}, false},
		{"+2", Offset{OffsetLine, 2}, false},
		{"ex", Offset{}, true},
		{"sx", Offset{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOffset(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "e+1", Offset{OffsetEnd, 1}.String())
	assert.Equal(t, "-2", Offset{OffsetLine, -2}.String())
}

func TestSplitCommand(t *testing.T) {
	p, off, closed := SplitCommand("foo/e", '/')
	assert.Equal(t, "foo", p)
	assert.Equal(t, "e", off)
	assert.True(t, closed)

	p, _, closed = SplitCommand(`a\/b`, '/')
	assert.Equal(t, "a/b", p)
	assert.False(t, closed)

	p, _, closed = SplitCommand(`a\.b?`, '?')
	assert.Equal(t, `a\.b`, p)
	assert.True(t, closed)
}
