package operator

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/buffer"
	"github.com/dshills/vimcore/internal/engine/text"
)

func TestParseNumberFormats(t *testing.T) {
	assert.Equal(t, NumberFormats{Bin: true, Hex: true}, ParseNumberFormats("bin,hex"))
	assert.Equal(t, NumberFormats{Octal: true, Alpha: true, Unsigned: true}, ParseNumberFormats("octal,alpha,unsigned,blank"))
	assert.Equal(t, NumberFormats{}, ParseNumberFormats(""))
}

func TestIncrement(t *testing.T) {
	binHex := NumberFormats{Bin: true, Hex: true}
	tests := []struct {
		name  string
		line  string
		caret int
		delta int
		nf    NumberFormats
		want  string
		end   int
	}{
		{"under caret", "x 41 y", 3, 1, binHex, "x 42 y", 3},
		{"after caret", "x 41 y", 0, 1, binHex, "x 42 y", 3},
		{"grows", "99", 0, 1, binHex, "100", 2},
		{"count", "7", 0, 5, binHex, "12", 1},
		{"decrement", "10", 1, -1, binHex, "9", 0},
		{"negative", "x -3", 0, 1, binHex, "x -2", 3},
		{"crosses zero", "1", 0, -3, binHex, "-2", 1},
		{"to zero drops sign", "-1", 1, 1, binHex, "0", 0},
		{"dash in word", "a-5", 0, 1, binHex, "a-4", 2},
		{"leading zeros keep width", "007", 0, 1, binHex, "008", 2},
		{"hex", "0xff", 0, 1, binHex, "0x100", 4},
		{"hex caret on letter", "0x0f", 3, 1, binHex, "0x10", 3},
		{"hex caret on prefix", "0x0f", 1, 1, binHex, "0x10", 3},
		{"hex keeps case", "0X0F", 0, 1, binHex, "0X10", 3},
		{"hex upper letters", "0xAF", 0, 1, binHex, "0xB0", 3},
		{"hex wraps", "0x0", 0, -1, binHex, "0xffffffffffffffff", 17},
		{"hex ignores dash", "-0x10", 0, 1, binHex, "-0x11", 4},
		{"hex disabled", "0x10", 0, 1, NumberFormats{}, "1x10", 0},
		{"bin", "0b11", 0, 1, binHex, "0b100", 4},
		{"octal", "007", 0, 1, NumberFormats{Octal: true}, "010", 2},
		{"octal grows", "077", 0, 1, NumberFormats{Octal: true}, "0100", 3},
		{"octal with eight is decimal", "08", 0, 1, NumberFormats{Octal: true}, "9", 0},
		{"alpha", "a b", 0, 1, NumberFormats{Alpha: true}, "b b", 0},
		{"alpha clamps", "y", 0, 5, NumberFormats{Alpha: true}, "z", 0},
		{"alpha upper down", "C", 0, -5, NumberFormats{Alpha: true}, "A", 0},
		{"alpha before digit", "x1", 0, 1, NumberFormats{Alpha: true}, "y1", 0},
		{"unsigned", "x -3", 0, 1, NumberFormats{Unsigned: true}, "x -4", 3},
		{"unsigned stops at zero", "2", 0, -5, NumberFormats{Unsigned: true}, "0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := buffer.New(tt.line + "\nnext 1\n")
			out, err := Increment(b, text.Offset(tt.caret), tt.delta, tt.nf)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\nnext 1\n", b.Text())
			assert.Equal(t, text.Offset(tt.end), out.Caret)
		})
	}
}

func TestIncrementErrors(t *testing.T) {
	b := buffer.New("no digits\n2\n")
	_, err := Increment(b, 0, 1, NumberFormats{})
	assert.ErrorIs(t, err, engine.ErrMotionFailed, "the number must be on the caret line")

	_, err = Increment(b, 4, 1, NumberFormats{})
	assert.ErrorIs(t, err, engine.ErrMotionFailed)

	ro := buffer.New("1", buffer.WithReadOnly())
	_, err = Increment(ro, 0, 1, NumberFormats{})
	assert.ErrorIs(t, err, engine.ErrReadOnly)
}

func TestIncrementRange(t *testing.T) {
	tests := []struct {
		name        string
		src         string
		r           func(idx *text.Index) text.TextRange
		progressive bool
		want        string
	}{
		{
			name: "lines",
			src:  "1\nx 1\nnone\n-1\n",
			r:    func(idx *text.Index) text.TextRange { return LineRange(idx, 0, 3) },
			want: "2\nx 2\nnone\n0\n",
		},
		{
			name:        "progressive",
			src:         "0\n0\nnone\n0\n",
			r:           func(idx *text.Index) text.TextRange { return LineRange(idx, 0, 3) },
			progressive: true,
			want:        "1\n2\nnone\n3\n",
		},
		{
			name: "characters start inside a number",
			src:  "12 34\n56\n",
			r:    func(*text.Index) text.TextRange { return text.NewRange(1, 8, text.Character) },
			want: "13 34\n57\n",
		},
		{
			name: "dash outside selection",
			src:  "a-5\n",
			r:    func(*text.Index) text.TextRange { return text.NewRange(2, 3, text.Character) },
			want: "a-6\n",
		},
		{
			name: "dash inside selection",
			src:  "a-5\n",
			r:    func(*text.Index) text.TextRange { return text.NewRange(1, 3, text.Character) },
			want: "a-4\n",
		},
		{
			name: "block",
			src:  "9 1\n9 1\n",
			r: func(*text.Index) text.TextRange {
				return text.NewBlockRange([]text.Offset{2, 6}, []text.Offset{3, 7})
			},
			want: "9 2\n9 2\n",
		},
		{
			name: "number cut at selection end",
			src:  "123\n",
			r:    func(*text.Index) text.TextRange { return text.NewRange(0, 2, text.Character) },
			want: "133\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := buffer.New(tt.src)
			r := tt.r(text.IndexOf(b))
			out, err := IncrementRange(b, r, 1, tt.progressive, NumberFormats{Bin: true, Hex: true})
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Text())
			assert.Equal(t, r.Start(), out.Caret)
		})
	}

	b := buffer.New("none\n")
	_, err := IncrementRange(b, LineRange(text.IndexOf(b), 0, 0), 1, false, NumberFormats{})
	assert.ErrorIs(t, err, engine.ErrMotionFailed)
}

// Adding and then subtracting the same amount restores a decimal number.
func TestIncrementRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(-100000, 100000).Draw(t, "n")
		delta := rapid.IntRange(1, 1000).Draw(t, "delta")
		src := "v = " + strconv.Itoa(n) + ";\n"
		b := buffer.New(src)

		out, err := Increment(b, 0, delta, NumberFormats{Bin: true, Hex: true})
		require.NoError(t, err)
		require.Equal(t, "v = "+strconv.Itoa(n+delta)+";\n", b.Text())

		_, err = Increment(b, out.Caret, -delta, NumberFormats{Bin: true, Hex: true})
		require.NoError(t, err)
		require.Equal(t, src, b.Text())
	})
}
