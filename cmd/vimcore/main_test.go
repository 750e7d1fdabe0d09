package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the command with args and returns stdout and stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var out, errOut bytes.Buffer
	root := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestEditToStdout(t *testing.T) {
	p := writeFile(t, "a.txt", "one two\nthree\n")
	out, _, err := run(t, "", "-k", "dw", "-k", "j.", p)
	require.NoError(t, err)
	assert.Equal(t, "two\n\n", out)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "one two\nthree\n", string(data), "the input is left alone")
}

func TestEditInPlace(t *testing.T) {
	p := writeFile(t, "a.txt", "foo foo\nfoo\n")
	_, _, err := run(t, "", "-i", "-e", "%s/foo/bar/g", p)
	require.NoError(t, err)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "bar bar\nbar\n", string(data))
}

func TestEditOutput(t *testing.T) {
	p := writeFile(t, "a.txt", "b\na\n")
	dst := filepath.Join(t.TempDir(), "out.txt")
	_, _, err := run(t, "", "-e", "sort", "-o", dst, p)
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))
}

func TestEditErrors(t *testing.T) {
	p := writeFile(t, "a.txt", "abc\n")

	_, errOut, err := run(t, "", "-e", "nosuchcommand", p)
	require.Error(t, err)
	assert.Contains(t, errOut, "nosuchcommand")

	_, _, err = run(t, "", "-i")
	assert.Error(t, err, "--in-place needs a file")

	_, _, err = run(t, "", "--clipboard", "pigeon", p)
	assert.Error(t, err)

	_, _, err = run(t, "", "-R", "-k", "x", p)
	assert.Error(t, err, "a read-only buffer refuses edits")
}

func TestEditMessages(t *testing.T) {
	p := writeFile(t, "a.txt", "abc\n")
	out, errOut, err := run(t, "", "-k", ":echo 'hi'<CR>", p)
	require.NoError(t, err)
	assert.Equal(t, "abc\n", out)
	assert.Contains(t, errOut, "hi")
}

func TestConfigFile(t *testing.T) {
	cfg := writeFile(t, "vimcore.toml", `
[options]
shiftwidth = 2
expandtab = true

[commands]
Dup = "t."

[registers]
a = "seeded"
`)
	p := writeFile(t, "a.txt", "x\n")
	out, _, err := run(t, "", "-c", cfg, "-k", ">>", "-k", `"ap`, "-e", "Dup", p)
	require.NoError(t, err)
	assert.Equal(t, "  xseeded\n  xseeded\n", out, "keys run before ex commands")
}

func TestMappingKeys(t *testing.T) {
	p := writeFile(t, "a.txt", "one\ntwo\nthree\n")
	out, _, err := run(t, "", "-k", ":nnoremap Q dd<CR>", "-k", "Q", "-k", "jQ", p)
	require.NoError(t, err)
	assert.Equal(t, "two\n", out)
}

func TestLua(t *testing.T) {
	p := writeFile(t, "a.txt", "abc\n")
	out, _, err := run(t, "", "-e", `lua vim.api.nvim_set_current_line("xyz")`, p)
	require.NoError(t, err)
	assert.Equal(t, "xyz\n", out)
}

func TestSessionResume(t *testing.T) {
	state := t.TempDir()
	p := writeFile(t, "a.txt", "keep me\n")

	_, errOut, err := run(t, "", "--state-dir", state, "--save", "-k", `"ayy`, p)
	require.NoError(t, err)
	handle := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(errOut), "session "))
	require.NotEmpty(t, handle)

	q := writeFile(t, "b.txt", "other\n")
	out, _, err := run(t, "", "--state-dir", state, "--session", handle, "-k", `"ap`, q)
	require.NoError(t, err)
	assert.Equal(t, "other\nkeep me\n", out)

	_, _, err = run(t, "", "--state-dir", state, "--session", "not-a-handle", q)
	assert.Error(t, err)
}

func TestMetricsFlag(t *testing.T) {
	p := writeFile(t, "a.txt", "abc\n")
	_, errOut, err := run(t, "", "--metrics", "-k", "xx", p)
	require.NoError(t, err)
	assert.Contains(t, errOut, "2 commands")
}

func TestRepl(t *testing.T) {
	p := writeFile(t, "a.txt", "world\n")
	input := "# a comment\nihello \nthere<Esc>\n0dw\n"
	out, _, err := run(t, input, "repl", "-w", p)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "-- INSERT -- 1,7", lines[0])
	assert.Equal(t, "1,11", lines[1])
	assert.Equal(t, "1,1", lines[2])

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "thereworld\n", string(data))
}

func TestReplPrint(t *testing.T) {
	p := writeFile(t, "a.txt", "ab\n")
	out, _, err := run(t, "x\n", "repl", "-p", p)
	require.NoError(t, err)
	assert.Equal(t, "1,1\nb\n", out)
}
