package dispatcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimcore/internal/dispatcher"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/mode"
)

func TestMappings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maps    []string
		keys    string
		want    string
		caret   int
	}{
		{"normal", "one\ntwo\n", []string{"nmap Q dd"}, "Q", "two\n", 0},
		{"recursive", "one\ntwo\n", []string{"nmap Q dd", "nmap X Q"}, "X", "two\n", 0},
		{"noremap", "abc\n", []string{"nmap x dd", "nnoremap X x"}, "X", "bc\n", 0},
		{"rhs starts with lhs", "abc\n", []string{"nmap l lx"}, "l", "ac\n", 1},
		{"insert", "\n", []string{"imap jk <Esc>"}, "ijk", "\n", 0},
		{"insert prefix ruled out", "\n", []string{"imap jk <Esc>"}, "ijx<Esc>", "jx\n", 1},
		{"longest prefix", "one\ntwo\n", []string{"nmap Qa dd", "nmap Qabc x"}, "Qab", "two\n", 0},
		{"visual only", "abc\n", []string{"xmap x d"}, "lx", "ac\n", 1},
		{"char operand", "bca\n", []string{"nmap a x"}, "fa", "bca\n", 2},
		{"counted", "a\nb\nc\n", []string{"nnoremap Q dd"}, "2Q", "c\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, buf := newMachine(t, tt.content)
			for _, line := range tt.maps {
				require.NoError(t, m.ExecuteEx(line))
			}
			feed(t, m, tt.keys)
			m.FlushMappings()
			assert.Equal(t, tt.want, buf.Text())
			assert.Equal(t, tt.caret, buf.Caret())
			assert.Equal(t, mode.Normal, m.Mode())
		})
	}
}

func TestMappingHeldUntilComplete(t *testing.T) {
	m, buf := newMachine(t, "one\ntwo\n")
	require.NoError(t, m.ExecuteEx("nmap Qa dd"))
	require.NoError(t, m.ExecuteEx("nmap Qab x"))

	res := m.FeedKeys("Qa")
	assert.Equal(t, dispatcher.Incomplete, res.Kind)
	assert.Equal(t, "Qa", m.Pending())
	assert.Equal(t, "one\ntwo\n", buf.Text())

	res = m.FlushMappings()
	assert.Equal(t, dispatcher.Dispatched, res.Kind)
	assert.Equal(t, "two\n", buf.Text())
	assert.Empty(t, m.Pending())
}

func TestMappingRecursionLimit(t *testing.T) {
	cfg := dispatcher.DefaultConfig().WithMaxMapDepth(20)
	m, _ := newMachineWith(t, "abc\n", nil, []dispatcher.Option{dispatcher.WithConfig(cfg)})
	require.NoError(t, m.ExecuteEx("nmap a b"))
	require.NoError(t, m.ExecuteEx("nmap b a"))

	res := m.FeedKeys("a")
	require.True(t, res.Result.IsError())
	var limit *engine.RecursionLimitError
	require.ErrorAs(t, res.Result.Error, &limit)
	assert.Equal(t, 20, limit.Limit)
}

func TestRepeatIsNotRemapped(t *testing.T) {
	m, buf := newMachine(t, "ab cd ef\n")
	feed(t, m, "dw")
	require.NoError(t, m.ExecuteEx("omap w e"))
	feed(t, m, ".")
	assert.Equal(t, "ef\n", buf.Text())
}

func TestNormalCommandMapping(t *testing.T) {
	m, buf := newMachine(t, "one\ntwo\n")
	require.NoError(t, m.ExecuteEx("nmap x dd"))

	require.NoError(t, m.ExecuteEx("normal! x"))
	assert.Equal(t, "ne\ntwo\n", buf.Text())

	require.NoError(t, m.ExecuteEx("normal x"))
	assert.Equal(t, "two\n", buf.Text())
}

func TestExitToNormalDropsHeldKeys(t *testing.T) {
	m, buf := newMachine(t, "one\n")
	require.NoError(t, m.ExecuteEx("nmap Qa dd"))
	m.FeedKeys("Q")
	m.ExitToNormal()
	assert.Empty(t, m.Pending())
	m.FlushMappings()
	assert.Equal(t, "one\n", buf.Text())
}
