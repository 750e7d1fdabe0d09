package buffer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimcore/internal/engine/buffer"
	"github.com/dshills/vimcore/internal/engine/text"
)

func TestAddCaretMergesDuplicates(t *testing.T) {
	tests := []struct {
		name    string
		caret   int
		offsets []int
		want    []int
	}{
		{"distinct", 0, []int{4}, []int{0, 4}},
		{"on primary", 0, []int{0, 4}, []int{0, 4}},
		{"repeated secondary", 0, []int{4, 4}, []int{0, 4}},
		{"clamped onto end", 0, []int{7, 99}, []int{0, 7}},
		{"primary moved", 2, []int{2}, []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := buffer.New("bc\nbc\n\n", buffer.WithCaret(tt.caret), buffer.WithCarets(tt.offsets...))
			assert.Equal(t, tt.want, b.Offsets())
		})
	}
}

func TestAddCaretReturnsExistingID(t *testing.T) {
	b := buffer.New("one two\n")
	id := b.AddCaret(4)
	assert.Equal(t, id, b.AddCaret(4))
	assert.Equal(t, b.PrimaryCaret(), b.AddCaret(0))
	require.Len(t, b.Carets(), 2)

	b.RemoveSecondaryCarets()
	assert.Equal(t, []text.CaretID{b.PrimaryCaret()}, b.Carets())
}
