package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/text"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		caret     int
		target    int
		typ       motion.Type
		force     Force
		want      text.TextRange
		backedOff bool
	}{
		{"linewise", "a\nb\nc", 0, 2, motion.Linewise, ForceNone, text.NewRange(0, 3, text.Line), false},
		{"linewise upward", "a\nb\nc", 4, 0, motion.Linewise, ForceNone, text.NewRange(0, 5, text.Line), false},
		{"exclusive", "hello world", 0, 6, motion.Exclusive, ForceNone, text.NewRange(0, 6, text.Character), false},
		{"exclusive backward", "hello world", 6, 0, motion.Exclusive, ForceNone, text.NewRange(0, 6, text.Character), false},
		{"inclusive", "hello", 0, 4, motion.Inclusive, ForceNone, text.NewRange(0, 5, text.Character), false},
		{"back-off to inclusive", "foo bar\nbaz", 4, 8, motion.Exclusive, ForceNone, text.NewRange(4, 7, text.Character), true},
		{"back-off to linewise", "foo bar\nbaz", 0, 8, motion.Exclusive, ForceNone, text.NewRange(0, 7, text.Line), true},
		{"back-off from indent", "  foo\nbaz", 1, 6, motion.Exclusive, ForceNone, text.NewRange(0, 5, text.Line), true},
		{"forced linewise", "ab\ncd", 1, 4, motion.Exclusive, ForceLine, text.NewRange(0, 5, text.Line), false},
		{"forced inclusive", "hello world", 0, 6, motion.Exclusive, ForceCharacter, text.NewRange(0, 7, text.Character), false},
		{"forced exclusive", "hello", 0, 4, motion.Inclusive, ForceCharacter, text.NewRange(0, 4, text.Character), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(Request{
				Index:  text.NewIndex(tt.text),
				Caret:  text.Offset(tt.caret),
				Target: text.Offset(tt.target),
				Type:   tt.typ,
				Force:  tt.force,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Range)
			assert.Equal(t, tt.backedOff, res.BackedOff)
		})
	}
}

func TestResolveEmptyExclusive(t *testing.T) {
	_, err := Resolve(Request{Index: text.NewIndex("abc"), Caret: 1, Target: 1, Type: motion.Exclusive})
	assert.ErrorIs(t, err, engine.ErrMotionFailed)
}

func TestResolveRange(t *testing.T) {
	idx := text.NewIndex("ab\ncd\nef")
	r := text.NewRange(1, 4, text.Character)
	res, err := Resolve(Request{Index: idx, Range: &r})
	require.NoError(t, err)
	assert.Equal(t, r, res.Range)

	res, err = Resolve(Request{Index: idx, Range: &r, Force: ForceLine})
	require.NoError(t, err)
	assert.Equal(t, text.NewRange(0, 5, text.Line), res.Range)

	// A character range ending at a line start does not touch that line.
	r = text.NewRange(0, 3, text.Character)
	first, last := Lines(idx, r)
	assert.Equal(t, 0, first)
	assert.Equal(t, 0, last)
}

func TestBlockRange(t *testing.T) {
	idx := text.NewIndex("abcd\nefgh\nij")
	r := BlockRange(idx, 1, 7, 8, false)
	assert.Equal(t, text.Block, r.Type)
	assert.Equal(t, []text.Offset{1, 6}, r.Starts)
	assert.Equal(t, []text.Offset{3, 8}, r.Ends)

	r = BlockRange(idx, 11, 1, 8, false)
	assert.Equal(t, []text.Offset{1, 6, 11}, r.Starts)
	assert.Equal(t, []text.Offset{2, 7, 12}, r.Ends)

	r = BlockRange(idx, 1, 6, 8, true)
	assert.Equal(t, []text.Offset{4, 9}, r.Ends)

	// Short lines give empty rows.
	r = BlockRange(text.NewIndex("abcd\na\nabcd"), 2, 10, 8, false)
	assert.Equal(t, []text.Offset{2, 6, 9}, r.Starts)
	assert.Equal(t, []text.Offset{4, 6, 11}, r.Ends)
}
