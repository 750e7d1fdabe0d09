package key

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseNotation(t *testing.T) {
	tests := []struct {
		in   string
		want Sequence
	}{
		{"dw", Sequence{Rune('d'), Rune('w')}},
		{"<Esc>", Sequence{Esc}},
		{"<esc>", Sequence{Esc}},
		{"<C-w>", Sequence{Ctrl('w')}},
		{"<C-W>", Sequence{Ctrl('w')}},
		{"<C-[>", Sequence{Esc}},
		{"<C-m>", Sequence{Enter}},
		{"<CR><Tab><BS>", Sequence{Enter, Tab, Backspace}},
		{"<lt>", Sequence{Rune('<')}},
		{"<Space>", Sequence{Rune(' ')}},
		{"<F5>", Sequence{Special(KeyF5)}},
		{"<S-Left>", Sequence{{Key: KeyLeft, Mods: ModShift}}},
		{"<A-x>", Sequence{{Key: KeyRune, Rune: 'x', Mods: ModAlt}}},
		{"a<b", Sequence{Rune('a'), Rune('<'), Rune('b')}},
		{"<foo>", FromText("<foo>")},
		{"<>", FromText("<>")},
		{"é<C-r>\"", Sequence{Rune('é'), Ctrl('r'), Rune('"')}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNotation(tt.in))
		})
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{Rune('a'), "a"},
		{Rune('<'), "<lt>"},
		{Rune(' '), " "},
		{Ctrl('r'), "<C-r>"},
		{Esc, "<Esc>"},
		{Enter, "<CR>"},
		{Special(KeyF12), "<F12>"},
		{Event{Key: KeyRune, Rune: ' ', Mods: ModCtrl}, "<C-Space>"},
		{Event{Key: KeyUp, Mods: ModCtrl | ModShift}, "<C-S-Up>"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.String())
		})
	}
}

func TestParseKey(t *testing.T) {
	e, err := ParseKey("<C-o>")
	require.NoError(t, err)
	assert.True(t, e.IsCtrl('o'))

	_, err = ParseKey("ab")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestSequenceText(t *testing.T) {
	s, ok := ParseNotation("hello world").Text()
	require.True(t, ok)
	assert.Equal(t, "hello world", s)

	_, ok = ParseNotation("a<Esc>").Text()
	assert.False(t, ok)
}

func TestEventPredicates(t *testing.T) {
	assert.True(t, Rune('x').IsChar())
	assert.True(t, Rune('\t').IsChar())
	assert.False(t, Ctrl('x').IsChar())
	assert.Equal(t, rune(0), Esc.Char())
	assert.True(t, Esc.Is(KeyEscape))
	assert.False(t, Event{Key: KeyEscape, Mods: ModShift}.Is(KeyEscape))
}

func TestFromTcell(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want Event
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), Rune('x')},
		{"shifted rune", tcell.NewEventKey(tcell.KeyRune, 'X', tcell.ModShift), Rune('X')},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), Esc},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), Enter},
		{"backspace2", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), Backspace},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlW, 0, tcell.ModCtrl), Ctrl('w')},
		{"arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), Special(KeyLeft)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromTcell(tt.ev))
		})
	}
}

func TestNotationRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var seq Sequence
		n := rapid.IntRange(0, 12).Draw(t, "n")
		for i := 0; i < n; i++ {
			switch rapid.IntRange(0, 3).Draw(t, "kind") {
			case 0:
				seq = append(seq, Rune(rapid.RuneFrom([]rune("abc <>-xyz\"é0")).Draw(t, "rune")))
			case 1:
				seq = append(seq, Ctrl(rapid.RuneFrom([]rune("abcdefgklnopqrstuvwxyz")).Draw(t, "ctrl")))
			case 2:
				seq = append(seq, Special(rapid.SampledFrom([]Key{KeyEscape, KeyEnter, KeyTab, KeyBackspace, KeyUp, KeyF3}).Draw(t, "key")))
			default:
				seq = append(seq, Event{Key: KeyRune, Rune: 'q', Mods: ModAlt})
			}
		}
		got := ParseNotation(seq.String())
		if len(seq) == 0 {
			assert.Empty(t, got)
			return
		}
		assert.Equal(t, seq, got)
	})
}
