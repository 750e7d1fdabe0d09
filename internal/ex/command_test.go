package ex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line      string
		addresses int
		name      string
		bang      bool
		argument  string
	}{
		{"", 0, "", false, ""},
		{":::", 0, "", false, ""},
		{"12", 1, "", false, ""},
		{"3,5d", 2, "d", false, ""},
		{":%s/a/b/g", 2, "s", false, "/a/b/g"},
		{"ka", 0, "k", false, "a"},
		{"k a", 0, "k", false, "a"},
		{"d!", 0, "d", true, ""},
		{">>", 0, ">>", false, ""},
		{"<", 0, "<", false, ""},
		{"g!/x/d", 0, "g", true, "/x/d"},
		{"norm! dd", 0, "norm", true, "dd"},
		{"MyCmd2 x", 0, "MyCmd2", false, "x"},
		{"'<,'>norm x", 2, "norm", false, "x"},
		{"echo 'a|b'", 0, "echo", false, "'a|b'"},
		{"t0", 0, "t", false, "0"},
		{"$pu", 1, "pu", false, ""},
		{"@a", 0, "@", false, "a"},
		{"  .,$y b", 2, "y", false, "b"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.addresses, cmd.Ranges.Len())
			assert.Equal(t, tt.name, cmd.Name)
			assert.Equal(t, tt.bang, cmd.Bang)
			assert.Equal(t, tt.argument, cmd.Argument)
		})
	}
}

func TestCommandString(t *testing.T) {
	cmd, err := Parse("3Foo! bar baz")
	require.NoError(t, err)
	assert.Equal(t, "Foo! bar baz", cmd.String())

	cmd, err = Parse("Foo")
	require.NoError(t, err)
	assert.Equal(t, "Foo", cmd.String())
}

func TestSplitBar(t *testing.T) {
	tests := []struct {
		in          string
		first, rest string
		ok          bool
	}{
		{"a|b", "a", "b", true},
		{"a|b|c", "a", "b|c", true},
		{`a\|b`, `a\|b`, "", false},
		{"ab", "ab", "", false},
		{"|", "", "", true},
	}
	for _, tt := range tests {
		first, rest, ok := splitBar(tt.in)
		assert.Equal(t, tt.first, first, tt.in)
		assert.Equal(t, tt.rest, rest, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		typed string
		want  string
	}{
		{"d", "delete"},
		{"de", "delete"},
		{"delm", "delmarks"},
		{"delc", "delcommand"},
		{"m", "move"},
		{"ma", "mark"},
		{"marks", "marks"},
		{"co", "copy"},
		{"com", "command"},
		{"comc", "comclear"},
		{"j", "join"},
		{"ju", "jumps"},
		{"p", "print"},
		{"pu", "put"},
		{"s", "substitute"},
		{"se", "set"},
		{"sor", "sort"},
		{"di", "display"},
		{">>>", ">"},
		{"<<", "<"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.typed, func(t *testing.T) {
			d, ok := lookup(tt.typed)
			require.True(t, ok)
			assert.Equal(t, tt.want, d.name)
		})
	}

	for _, typed := range []string{"c", "so", "e", "r", "deletex", "Foo"} {
		_, ok := lookup(typed)
		assert.False(t, ok, typed)
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "substitute")
	assert.Contains(t, names, "global")
}
