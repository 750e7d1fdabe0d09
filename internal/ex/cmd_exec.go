package ex

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/register"
)

// Errors returned by the commands that run other input.
var (
	ErrNoPreviousRegister = errors.New("E748: No previously used register")
	ErrNoPreviousCommand  = errors.New("E30: No previous command line")
	ErrNoScripter         = errors.New("E319: Sorry, the command is not available in this version")
)

// cmdNormal runs the argument as Normal-mode keys, once, or once per line
// of the range with the caret at the start of each line. "!" ignores
// mappings.
func cmdNormal(c *Context) (string, error) {
	if c.host == nil {
		return "", ErrNoHost
	}
	keys := strings.TrimLeft(c.Command.Argument, " ")
	if c.Command.Ranges.Len() == 0 {
		return "", c.host.Normal(keys, c.Command.Bang)
	}
	err := c.writeAction(func() error {
		for l := c.Start; l <= c.End; l++ {
			idx := c.Index()
			if l >= idx.LineCount() {
				return nil
			}
			c.MoveTo(idx.LineStart(l))
			if err := c.host.Normal(keys, c.Command.Bang); err != nil {
				return err
			}
		}
		return nil
	})
	return "", err
}

// cmdExecuteRegister runs the lines of a register as command lines. "@"
// repeats the last register run and ":" the last command line. With a
// range the caret first moves to its last line.
func cmdExecuteRegister(c *Context) (string, error) {
	arg := strings.TrimSpace(c.Command.Argument)
	name := '@'
	if arg != "" {
		var size int
		name, size = utf8.DecodeRuneInString(arg)
		if size != len(arg) {
			return "", c.usage(engine.ErrArgumentForbidden)
		}
	}
	if name == '@' {
		if c.lastAt == 0 {
			return "", ErrNoPreviousRegister
		}
		name = c.lastAt
	}
	c.lastAt = name

	if c.Command.Ranges.Len() > 0 {
		c.MoveTo(c.Index().LineStart(max(c.End, 0)))
	}
	if name == register.LastEx {
		r, ok := c.state.Registers.Get(register.LastEx)
		// A ":" register running "@:" or "@@" again has no previous
		// command line of its own.
		if !ok || c.inLastEx {
			return "", ErrNoPreviousCommand
		}
		c.inLastEx = true
		defer func() { c.inLastEx = false }()
		return c.Run(r.Text)
	}

	r, err := c.state.Registers.Require(name)
	if err != nil {
		return "", err
	}
	var outs []string
	for _, line := range strings.Split(strings.TrimSuffix(r.Text, "\n"), "\n") {
		out, err := c.Run(line)
		if out != "" {
			outs = append(outs, out)
		}
		if err != nil {
			return joinOutput(outs), err
		}
	}
	return joinOutput(outs), nil
}

// cmdLua runs a Lua chunk. ":lua =expr" returns the value of expr.
func cmdLua(c *Context) (string, error) {
	if c.script == nil {
		return "", ErrNoScripter
	}
	code := strings.TrimSpace(c.Command.Argument)
	if strings.HasPrefix(code, "=") {
		code = "return " + code[1:]
	}
	return c.script.Run(code)
}

func cmdUndo(c *Context) (string, error) {
	u, ok := c.state.Editor().(text.Undoer)
	if !ok {
		return "", engine.ErrNothingToUndo
	}
	return "", u.Undo()
}

func cmdRedo(c *Context) (string, error) {
	u, ok := c.state.Editor().(text.Undoer)
	if !ok {
		return "", engine.ErrNothingToRedo
	}
	return "", u.Redo()
}
