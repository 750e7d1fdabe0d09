package mark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimcore/internal/engine/text"
)

func TestJumpsBackAndForth(t *testing.T) {
	s := NewStore(nil)
	for _, line := range []int{1, 5, 9} {
		s.SaveJump("", text.LogicalPosition{Line: line})
	}
	js := s.Jumps()
	require.Equal(t, -1, js.Spot())

	cur := Jump{Line: 20}
	j, ok := js.Move(-1, cur)
	require.True(t, ok)
	assert.Equal(t, 9, j.Line)

	j, ok = js.Move(-1, cur)
	require.True(t, ok)
	assert.Equal(t, 5, j.Line)

	j, ok = js.Move(2, cur)
	require.True(t, ok)
	assert.Equal(t, 20, j.Line, "CTRL-I returns to where CTRL-O started")

	_, ok = js.Move(1, cur)
	assert.False(t, ok)
}

func TestJumpsDedupeAndBound(t *testing.T) {
	var js Jumps
	js.spot = -1
	js.Push(Jump{Line: 1}, true)
	js.Push(Jump{Line: 2}, true)
	js.Push(Jump{Line: 1, Column: 4}, true)

	list := js.List()
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].Line)
	assert.Equal(t, 4, list[1].Column)

	for i := 0; i < MaxJumps+10; i++ {
		js.Push(Jump{Line: 100 + i}, true)
	}
	assert.Len(t, js.List(), MaxJumps)
	assert.Equal(t, 100+MaxJumps+9, js.List()[MaxJumps-1].Line)
}

func TestJumpsFollowDeletes(t *testing.T) {
	idx := text.NewIndex("a\nb\nc\nd")
	s := NewStore(nil)
	s.SaveJump("", text.LogicalPosition{Line: 1})
	s.SaveJump("", text.LogicalPosition{Line: 3})

	s.AdjustDelete("", idx, 2, 4, false)
	list := s.Jumps().List()
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Line)
}

func TestJumpsRestore(t *testing.T) {
	var js Jumps
	js.Restore([]Jump{{Line: 1}, {Line: 2}}, 5)
	assert.Equal(t, -1, js.Spot())
	assert.Len(t, js.List(), 2)
}
