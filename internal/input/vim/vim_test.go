package vim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/operator"
	"github.com/dshills/vimcore/internal/engine/search"
	"github.com/dshills/vimcore/internal/input/key"
)

// feed parses notation and returns the last result, failing if any
// earlier key completed or broke the command.
func feed(t *testing.T, p *Parser, notation string) Result {
	t.Helper()
	seq := key.ParseNotation(notation)
	require.NotEmpty(t, seq)
	for _, e := range seq[:len(seq)-1] {
		res := p.Parse(e)
		require.Equal(t, StatusPending, res.Status, "%s: early %s at %s", notation, res.Status, e)
	}
	return p.Parse(seq[len(seq)-1])
}

func complete(t *testing.T, p *Parser, notation string) *Command {
	t.Helper()
	res := feed(t, p, notation)
	require.Equal(t, StatusComplete, res.Status, notation)
	require.NotNil(t, res.Command)
	return res.Command
}

func TestMotions(t *testing.T) {
	tests := []struct {
		input  string
		motion motion.Kind
		count  int
	}{
		{"h", motion.Left, 0},
		{"5j", motion.Down, 5},
		{"0", motion.LineStart, 0},
		{"10w", motion.WordForward, 10},
		{"$", motion.LineEnd, 0},
		{"gg", motion.GotoFirstLine, 0},
		{"3gg", motion.GotoFirstLine, 3},
		{"G", motion.GotoLine, 0},
		{"ge", motion.WordEndBackward, 0},
		{"g_", motion.LastNonBlank, 0},
		{"%", motion.MatchPair, 0},
		{"50%", motion.GotoPercent, 50},
		{"}", motion.ParagraphForward, 0},
		{"n", motion.SearchNext, 0},
		{"*", motion.SearchWordForward, 0},
		{"g#", motion.SearchPartialWordBackward, 0},
		{"<CR>", motion.LineDown, 0},
		{"<BS>", motion.Backspace, 0},
		{"<Space>", motion.Space, 0},
		{"<Left>", motion.Left, 0},
		{"2<End>", motion.LineEnd, 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := complete(t, NewParser(), tt.input)
			assert.Equal(t, ActMotion, cmd.Action)
			assert.True(t, cmd.HasMotion)
			assert.Equal(t, tt.motion, cmd.Motion)
			assert.Equal(t, tt.count, cmd.Count)
			assert.Equal(t, operator.OpNone, cmd.Operator)
		})
	}
}

func TestCharMotions(t *testing.T) {
	tests := []struct {
		input  string
		motion motion.Kind
		char   rune
	}{
		{"fx", motion.FindForward, 'x'},
		{"F(", motion.FindBackward, '('},
		{"t<Space>", motion.TillForward, ' '},
		{"T<lt>", motion.TillBackward, '<'},
		{"'a", motion.MarkLine, 'a'},
		{"`<", motion.MarkExact, '<'},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := complete(t, NewParser(), tt.input)
			assert.Equal(t, ActMotion, cmd.Action)
			assert.Equal(t, tt.motion, cmd.Motion)
			assert.Equal(t, tt.char, cmd.Char)
		})
	}
}

func TestOperators(t *testing.T) {
	tests := []struct {
		input    string
		op       operator.Operator
		motion   motion.Kind
		linewise bool
		count    int
		register rune
		force    operator.Force
		keys     string
	}{
		{input: "dw", op: operator.OpDelete, motion: motion.WordForward, keys: "dw"},
		{input: "d3w", op: operator.OpDelete, motion: motion.WordForward, count: 3, keys: "dw"},
		{input: "2d3w", op: operator.OpDelete, motion: motion.WordForward, count: 6, keys: "dw"},
		{input: `"a2yy`, op: operator.OpYank, linewise: true, count: 2, register: 'a', keys: `"ayy`},
		{input: `2"add`, op: operator.OpDelete, linewise: true, count: 2, register: 'a', keys: `"add`},
		{input: "d0", op: operator.OpDelete, motion: motion.LineStart, keys: "d0"},
		{input: "d10j", op: operator.OpDelete, motion: motion.Down, count: 10, keys: "dj"},
		{input: "cc", op: operator.OpChange, linewise: true, keys: "cc"},
		{input: ">>", op: operator.OpIndent, linewise: true, keys: ">>"},
		{input: "<lt>}", op: operator.OpOutdent, motion: motion.ParagraphForward, keys: "<lt>}"},
		{input: "==", op: operator.OpReindent, linewise: true, keys: "=="},
		{input: "g~~", op: operator.OpToggleCase, linewise: true, keys: "g~~"},
		{input: "gUU", op: operator.OpUpper, linewise: true, keys: "gUU"},
		{input: "gUgU", op: operator.OpUpper, linewise: true, keys: "gUgU"},
		{input: "guiw", op: operator.OpLower, keys: "guiw"},
		{input: "gqap", op: operator.OpFormat, keys: "gqap"},
		{input: "g??", op: operator.OpRot13, linewise: true, keys: "g??"},
		{input: "dgg", op: operator.OpDelete, motion: motion.GotoFirstLine, keys: "dgg"},
		{input: "dfx", op: operator.OpDelete, motion: motion.FindForward, keys: "dfx"},
		{input: "dvj", op: operator.OpDelete, motion: motion.Down, force: operator.ForceCharacter, keys: "dvj"},
		{input: "dVw", op: operator.OpDelete, motion: motion.WordForward, force: operator.ForceLine, keys: "dVw"},
		{input: "d<C-v>2j", op: operator.OpDelete, motion: motion.Down, count: 2, force: operator.ForceBlock, keys: "d<C-v>j"},
		{input: "x", op: operator.OpDelete, motion: motion.Right, keys: "x"},
		{input: "3X", op: operator.OpDelete, motion: motion.Left, count: 3, keys: "X"},
		{input: "D", op: operator.OpDelete, motion: motion.LineEnd, keys: "D"},
		{input: "C", op: operator.OpChange, motion: motion.LineEnd, keys: "C"},
		{input: "s", op: operator.OpChange, motion: motion.Right, keys: "s"},
		{input: "S", op: operator.OpChange, linewise: true, keys: "S"},
		{input: "Y", op: operator.OpYank, linewise: true, keys: "Y"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := complete(t, NewParser(), tt.input)
			assert.Equal(t, ActOperator, cmd.Action)
			assert.Equal(t, tt.op, cmd.Operator)
			assert.Equal(t, tt.linewise, cmd.Linewise)
			if !tt.linewise && cmd.HasMotion {
				assert.Equal(t, tt.motion, cmd.Motion)
			}
			assert.Equal(t, tt.count, cmd.Count)
			assert.Equal(t, tt.register, cmd.Register)
			assert.Equal(t, tt.force, cmd.Force)
			assert.Equal(t, tt.keys, cmd.Keys.String())
		})
	}
}

func TestTextObjects(t *testing.T) {
	cmd := complete(t, NewParser(), "d2aw")
	assert.Equal(t, ActOperator, cmd.Action)
	assert.True(t, cmd.HasObject)
	assert.False(t, cmd.HasMotion)
	assert.Equal(t, search.ObjWord, cmd.Object)
	assert.True(t, cmd.Around)
	assert.Equal(t, 2, cmd.Count)

	cmd = complete(t, NewParser(), `ci"`)
	assert.Equal(t, search.ObjDoubleQuote, cmd.Object)
	assert.False(t, cmd.Around)

	res := feed(t, NewParser(), "diz")
	assert.Equal(t, StatusInvalid, res.Status)
}

func TestSimpleCommands(t *testing.T) {
	tests := []struct {
		input  string
		action Action
		char   rune
		count  int
	}{
		{input: "i", action: ActInsert},
		{input: "3a", action: ActAppend, count: 3},
		{input: "I", action: ActInsertStart},
		{input: "A", action: ActAppendEnd},
		{input: "gI", action: ActInsertColumnZero},
		{input: "gi", action: ActInsertResume},
		{input: "o", action: ActOpenBelow},
		{input: "O", action: ActOpenAbove},
		{input: "R", action: ActReplaceMode},
		{input: "~", action: ActToggleCase},
		{input: "rx", action: ActReplaceChar, char: 'x'},
		{input: "r<CR>", action: ActReplaceChar, char: '\n'},
		{input: "p", action: ActPut},
		{input: "2P", action: ActPutBefore, count: 2},
		{input: "gp", action: ActPutAfterMove},
		{input: "J", action: ActJoin},
		{input: "gJ", action: ActJoinRaw},
		{input: "u", action: ActUndo},
		{input: "<C-r>", action: ActRedo},
		{input: "3.", action: ActRepeat, count: 3},
		{input: "qa", action: ActRecord, char: 'a'},
		{input: "@@", action: ActPlay, char: '@'},
		{input: "2@:", action: ActPlay, char: ':', count: 2},
		{input: "ma", action: ActSetMark, char: 'a'},
		{input: "v", action: ActVisual},
		{input: "V", action: ActVisualLine},
		{input: "<C-v>", action: ActVisualBlock},
		{input: "gv", action: ActReselect},
		{input: "gh", action: ActSelect},
		{input: "gH", action: ActSelectLine},
		{input: "g<C-h>", action: ActSelectBlock},
		{input: ":", action: ActCmdline},
		{input: "<C-o>", action: ActJumpOlder},
		{input: "<Tab>", action: ActJumpNewer},
		{input: "<C-i>", action: ActJumpNewer},
		{input: "&", action: ActRepeatSubstitute},
		{input: "<C-a>", action: ActIncrement},
		{input: "5<C-x>", action: ActDecrement, count: 5},
		{input: "gn", action: ActSelectMatch},
		{input: "<Esc>", action: ActEscape},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := complete(t, NewParser(), tt.input)
			assert.Equal(t, tt.action, cmd.Action)
			assert.Equal(t, tt.char, cmd.Char)
			assert.Equal(t, tt.count, cmd.Count)
		})
	}
}

func TestSearchPrompt(t *testing.T) {
	cmd := complete(t, NewParser(), "/")
	assert.Equal(t, ActSearch, cmd.Action)
	assert.Equal(t, motion.SearchForward, cmd.Motion)
	assert.Equal(t, operator.OpNone, cmd.Operator)

	cmd = complete(t, NewParser(), "2d?")
	assert.Equal(t, ActSearch, cmd.Action)
	assert.Equal(t, motion.SearchBackward, cmd.Motion)
	assert.Equal(t, operator.OpDelete, cmd.Operator)
	assert.Equal(t, 2, cmd.Count)
}

func TestRecording(t *testing.T) {
	p := NewParser()
	p.SetRecording(true)
	cmd := complete(t, p, "q")
	assert.Equal(t, ActStopRecord, cmd.Action)

	p.SetRecording(false)
	res := p.Parse(key.Rune('q'))
	assert.Equal(t, StatusPending, res.Status)
}

func TestVisualCommands(t *testing.T) {
	tests := []struct {
		input    string
		action   Action
		op       operator.Operator
		linewise bool
	}{
		{input: "d", action: ActOperator, op: operator.OpDelete},
		{input: "x", action: ActOperator, op: operator.OpDelete},
		{input: "X", action: ActOperator, op: operator.OpDelete, linewise: true},
		{input: "c", action: ActOperator, op: operator.OpChange},
		{input: "y", action: ActOperator, op: operator.OpYank},
		{input: "Y", action: ActOperator, op: operator.OpYank, linewise: true},
		{input: "~", action: ActOperator, op: operator.OpToggleCase},
		{input: "u", action: ActOperator, op: operator.OpLower},
		{input: "U", action: ActOperator, op: operator.OpUpper},
		{input: "gU", action: ActOperator, op: operator.OpUpper},
		{input: "gq", action: ActOperator, op: operator.OpFormat},
		{input: ">", action: ActOperator, op: operator.OpIndent},
		{input: "o", action: ActSwapEnds},
		{input: "O", action: ActSwapCorner},
		{input: "I", action: ActInsertStart},
		{input: "J", action: ActJoin},
		{input: "p", action: ActPut},
		{input: "V", action: ActVisualLine},
		{input: "<C-v>", action: ActVisualBlock},
		{input: "iw", action: ActObject},
		{input: "w", action: ActMotion},
		{input: "rz", action: ActReplaceChar},
		{input: "<C-a>", action: ActIncrement},
		{input: "<C-x>", action: ActDecrement},
		{input: "g<C-a>", action: ActIncrementProgressive},
		{input: "g<C-x>", action: ActDecrementProgressive},
		{input: "gN", action: ActSelectMatch},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := NewParser()
			p.SetVisual(true)
			cmd := complete(t, p, tt.input)
			assert.Equal(t, tt.action, cmd.Action)
			assert.Equal(t, tt.op, cmd.Operator)
			assert.Equal(t, tt.linewise, cmd.Linewise)
			assert.False(t, cmd.HasMotion && cmd.Action == ActOperator, "visual operators act on the selection")
		})
	}
}

func TestSearchMatchOperand(t *testing.T) {
	tests := []struct {
		input  string
		op     operator.Operator
		motion motion.Kind
		count  int
	}{
		{"dgn", operator.OpDelete, motion.SearchNext, 0},
		{"cgN", operator.OpChange, motion.SearchPrev, 0},
		{"2gUgn", operator.OpUpper, motion.SearchNext, 2},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := complete(t, NewParser(), tt.input)
			assert.Equal(t, ActOperator, cmd.Action)
			assert.Equal(t, tt.op, cmd.Operator)
			assert.True(t, cmd.Match)
			assert.False(t, cmd.HasMotion)
			assert.Equal(t, tt.motion, cmd.Motion)
			assert.Equal(t, tt.count, cmd.Count)
			assert.True(t, cmd.Changes())
		})
	}

	cmd := complete(t, NewParser(), "gN")
	assert.Equal(t, motion.SearchPrev, cmd.Motion)
	assert.False(t, cmd.Match)
	assert.False(t, cmd.Changes())

	assert.True(t, ActIncrement.Changes())
	assert.Equal(t, "incrementProgressive", ActIncrementProgressive.String())
}

func TestVisualCount(t *testing.T) {
	p := NewParser()
	p.SetVisual(true)
	cmd := complete(t, p, `3"b>`)
	assert.Equal(t, operator.OpIndent, cmd.Operator)
	assert.Equal(t, 3, cmd.Count)
	assert.Equal(t, 'b', cmd.Register)
}

func TestPendingState(t *testing.T) {
	p := NewParser()
	assert.True(t, p.Idle())

	res := p.Parse(key.Rune('2'))
	assert.Equal(t, StatusPending, res.Status)
	assert.Equal(t, "2", res.Pending)
	assert.False(t, p.OperatorPending())

	res = p.Parse(key.Rune('d'))
	assert.Equal(t, "2d", res.Pending)
	assert.True(t, p.OperatorPending())
	assert.Equal(t, operator.OpDelete, p.Operator())

	p.Parse(key.Rune('3'))
	assert.Equal(t, 6, p.Count())

	res = p.Parse(key.Esc)
	assert.Equal(t, StatusCancelled, res.Status)
	assert.True(t, p.Idle())
	assert.False(t, p.OperatorPending())
	assert.Zero(t, p.Count())
}

func TestAwaitsOperand(t *testing.T) {
	for _, prefix := range []string{`"`, "f", "dt", "r", "m", "q", "@", "2F"} {
		p := NewParser()
		for _, e := range key.ParseNotation(prefix) {
			p.Parse(e)
		}
		assert.True(t, p.AwaitsOperand(), prefix)
	}
	for _, prefix := range []string{"", "d", "g", "2", `"a`, "di"} {
		p := NewParser()
		for _, e := range key.ParseNotation(prefix) {
			p.Parse(e)
		}
		assert.False(t, p.AwaitsOperand(), prefix)
	}
}

func TestInvalidSequences(t *testing.T) {
	for _, input := range []string{"dz", `"#`, "gz", "d<C-x>", "g<C-a>", "Z", "f<Esc>"} {
		t.Run(input, func(t *testing.T) {
			p := NewParser()
			var res Result
			for _, e := range key.ParseNotation(input) {
				res = p.Parse(e)
			}
			assert.Contains(t, []Status{StatusInvalid, StatusCancelled, StatusComplete}, res.Status)
			assert.True(t, p.Idle(), "parser resets after a broken command")

			cmd := complete(t, p, "j")
			assert.Equal(t, motion.Down, cmd.Motion)
		})
	}
}

func TestCombine(t *testing.T) {
	assert.Equal(t, 0, combine(0, 0))
	assert.Equal(t, 3, combine(3, 0))
	assert.Equal(t, 4, combine(0, 4))
	assert.Equal(t, 12, combine(3, 4))
	assert.Equal(t, maxCount, combine(maxCount, maxCount))
}

// TestCountComposition checks that the two counts of an operator command
// multiply and never leak into the recorded keys.
func TestCountComposition(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(0, 99).Draw(t, "before")
		b := rapid.IntRange(0, 99).Draw(t, "after")

		notation := ""
		if a > 0 {
			notation += itoa(a)
		}
		notation += "d"
		if b > 0 {
			notation += itoa(b)
		}
		notation += "w"

		p := NewParser()
		var res Result
		for _, e := range key.ParseNotation(notation) {
			res = p.Parse(e)
		}
		if res.Status != StatusComplete {
			t.Fatalf("%s: %s", notation, res.Status)
		}
		if got, want := res.Command.Count, combine(a, b); got != want {
			t.Fatalf("%s: count %d, want %d", notation, got, want)
		}
		if res.Command.Keys.String() != "dw" {
			t.Fatalf("%s: keys %q", notation, res.Command.Keys.String())
		}
	})
}

func itoa(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	return itoa(n/10) + string(rune('0'+n%10))
}
