package ex

import (
	"fmt"
	"strings"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/text"
)

// printable shows control characters the way the listings do: "^J" for
// a newline.
func printable(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r < 0x20:
			b.WriteByte('^')
			b.WriteRune(r + '@')
		case r == 0x7f:
			b.WriteString("^?")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func typeLetter(t text.SelectionType) string {
	switch t {
	case text.Line:
		return "l"
	case text.Block:
		return "b"
	}
	return "c"
}

// cmdRegisters lists registers, optionally only those named in the
// argument.
func cmdRegisters(c *Context) (string, error) {
	only := strings.Join(strings.Fields(c.Command.Argument), "")
	lines := []string{"Type Name Content"}
	for _, r := range c.state.Registers.All() {
		if only != "" && !strings.ContainsRune(only, r.Name) {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s  \"%c   %s", typeLetter(r.Type), r.Name, printable(r.Text)))
	}
	return strings.Join(lines, "\n"), nil
}

// cmdMarks lists the marks of the document and the global marks.
func cmdMarks(c *Context) (string, error) {
	only := strings.Join(strings.Fields(c.Command.Argument), "")
	idx := c.Index()
	path := c.Path()
	lines := []string{"mark line  col file/text"}
	for _, m := range c.state.Marks.List(path) {
		if only != "" && !strings.ContainsRune(only, m.Key) {
			continue
		}
		lines = append(lines, fmt.Sprintf(" %c %6d %4d %s", m.Key, m.Line+1, m.Column, locationText(idx, path, m.Path, m.Line)))
	}
	if only != "" && len(lines) == 1 {
		return "", &engine.NotFoundError{Kind: engine.NotFoundMark, Name: only}
	}
	return strings.Join(lines, "\n"), nil
}

// locationText is the line text for positions in this document, else the
// file name.
func locationText(idx *text.Index, path, where string, line int) string {
	if where == path && line < idx.LineCount() {
		return printable(strings.TrimSpace(idx.LineText(line)))
	}
	return where
}

// cmdDeleteMarks deletes marks named by the argument, or every lower-case
// mark with "!".
func cmdDeleteMarks(c *Context) (string, error) {
	arg := strings.TrimSpace(c.Command.Argument)
	switch {
	case c.Command.Bang && arg != "":
		return "", c.usage(fmt.Errorf("%w: %s", engine.ErrInvalidArgument, arg))
	case c.Command.Bang:
		c.state.Marks.RemoveLocal(c.Path())
		return "", nil
	case arg == "":
		return "", c.usage(engine.ErrArgumentRequired)
	}
	return "", c.state.Marks.RemoveSpec(c.Path(), arg)
}

// cmdJumps lists the jump list, with ">" at the current position.
func cmdJumps(c *Context) (string, error) {
	jumps := c.state.Marks.Jumps()
	list := jumps.List()
	current := len(list) - 1 - jumps.Spot()
	idx := c.Index()
	path := c.Path()
	lines := []string{" jump line  col file/text"}
	for i, j := range list {
		marker := " "
		if i == current {
			marker = ">"
		}
		rel := current - i
		if rel < 0 {
			rel = -rel
		}
		lines = append(lines, fmt.Sprintf("%s%4d %5d %4d %s", marker, rel, j.Line+1, j.Column, locationText(idx, path, j.Path, j.Line)))
	}
	if current >= len(list) {
		lines = append(lines, ">")
	}
	return strings.Join(lines, "\n"), nil
}

// cmdHistory lists the command and search histories: "cmd" or ":",
// "search" or "/", or both for "all" and no argument.
func cmdHistory(c *Context) (string, error) {
	arg := strings.TrimSpace(c.Command.Argument)
	cmd := c.state.CmdHistory.Format("cmd")
	srch := c.state.SearchHistory.Format("search")
	switch arg {
	case "", "all", "a":
		return cmd + "\n" + srch, nil
	case ":", "cmd", "c":
		return cmd, nil
	case "/", "?", "search", "s":
		return srch, nil
	}
	return "", c.usage(fmt.Errorf("%w: %s", engine.ErrInvalidArgument, arg))
}

// cmdSet applies each ":set" argument. Without one it lists the options
// that differ from the defaults; "all" lists every option.
func cmdSet(c *Context) (string, error) {
	opts := c.Options()
	args := strings.Fields(c.Command.Argument)
	if len(args) == 0 {
		return strings.Join(opts.Changed(), "\n"), nil
	}
	if len(args) == 1 && args[0] == "all" {
		var lines []string
		for _, name := range config.OptionNames() {
			shown, err := opts.Set(name + "?")
			if err != nil {
				return "", err
			}
			lines = append(lines, strings.TrimSpace(shown))
		}
		return strings.Join(lines, "\n"), nil
	}
	var out []string
	for _, a := range args {
		shown, err := opts.Set(a)
		if err != nil {
			return strings.Join(out, "\n"), err
		}
		if shown = strings.TrimSpace(shown); shown != "" {
			out = append(out, shown)
		}
	}
	return strings.Join(out, "\n"), nil
}

// cmdNoHighlight turns off search highlighting until the next search.
func cmdNoHighlight(c *Context) (string, error) {
	c.state.Search.Highlight = false
	return "", nil
}
