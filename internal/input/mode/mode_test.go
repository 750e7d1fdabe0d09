package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimcore/internal/engine/text"
)

func TestModePredicates(t *testing.T) {
	tests := []struct {
		mode      Mode
		visual    bool
		selection bool
		insert    bool
		cursor    CursorStyle
	}{
		{Normal, false, false, false, CursorBlock},
		{OperatorPending, false, false, false, CursorUnderline},
		{Insert, false, false, true, CursorBar},
		{Replace, false, false, true, CursorUnderline},
		{Visual, true, true, false, CursorBlock},
		{Select, false, true, false, CursorBar},
		{InsertVisual, true, true, false, CursorBlock},
		{InsertSelect, false, true, false, CursorBar},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			assert.Equal(t, tt.visual, tt.mode.IsVisual())
			assert.Equal(t, tt.selection, tt.mode.HasSelection())
			assert.Equal(t, tt.insert, tt.mode.IsInsert())
			assert.Equal(t, tt.cursor, tt.mode.Cursor())

			back, ok := Parse(tt.mode.String())
			require.True(t, ok)
			assert.Equal(t, tt.mode, back)
		})
	}
}

func TestIndicator(t *testing.T) {
	assert.Equal(t, "-- INSERT --", Indicator(Insert, SubNone))
	assert.Equal(t, "-- VISUAL LINE --", Indicator(Visual, VisualLine))
	assert.Equal(t, "-- SELECT BLOCK --", Indicator(Select, VisualBlock))
	assert.Equal(t, "-- (insert) VISUAL --", Indicator(InsertVisual, VisualCharacter))
	assert.Equal(t, "", Indicator(Normal, SubNone))
}

func TestStack(t *testing.T) {
	s := NewStack()
	var changes []State
	remove := s.OnChange(func(from, to State) { changes = append(changes, to) })

	assert.Equal(t, Normal, s.Mode())
	s.Push(OperatorPending, SubNone)
	assert.Equal(t, 2, s.Depth())
	assert.Equal(t, Normal, s.Below().Mode)

	from, err := s.Pop()
	require.NoError(t, err)
	assert.Equal(t, OperatorPending, from.Mode)

	_, err = s.Pop()
	assert.ErrorIs(t, err, ErrStackEmpty)

	s.Switch(Visual, VisualLine)
	s.Switch(Visual, VisualLine)
	assert.Len(t, changes, 3, "switching to the same state does not notify")

	s.Push(InsertNormal, SubNone)
	assert.True(t, s.Contains(Visual))
	s.Reset()
	assert.Equal(t, State{Mode: Normal}, s.Current())
	assert.Equal(t, 1, s.Depth())

	remove()
	s.Push(Insert, SubNone)
	assert.Len(t, changes, 5)
}

func TestDetect(t *testing.T) {
	idx := text.NewIndex("abcd\nefgh\nijkl\n")
	tests := []struct {
		name string
		sels [][2]text.Offset
		want SubMode
	}{
		{"none", nil, VisualCharacter},
		{"whole lines", [][2]text.Offset{{0, 10}}, VisualLine},
		{"every caret linewise", [][2]text.Offset{{0, 5}, {10, 15}}, VisualLine},
		{"partial", [][2]text.Offset{{1, 3}}, VisualCharacter},
		{"block", [][2]text.Offset{{1, 3}, {6, 8}, {11, 13}}, VisualBlock},
		{"ragged", [][2]text.Offset{{1, 3}, {6, 9}}, VisualCharacter},
		{"gap", [][2]text.Offset{{1, 3}, {11, 13}}, VisualCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(idx, tt.sels))
		})
	}
}
