package ex

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/ex/expr"
)

// ErrReadOnlyVariable is returned for assignments to v: variables.
var ErrReadOnlyVariable = errors.New("E46: Cannot change read-only variable")

var (
	letPattern = regexp.MustCompile(`^(@.|&(?:[lg]:)?[a-z]+|[gslvbwt]:[A-Za-z_][A-Za-z0-9_:#]*|[A-Za-z_][A-Za-z0-9_]*)\s*(\.\.=|[-+*/%.]?=)\s*(.*)$`)
	varName    = regexp.MustCompile(`^(?:[gslvbwt]:)?[A-Za-z_][A-Za-z0-9_:#]*$`)
)

// exprEnv resolves expression names against a command context.
type exprEnv struct{ c *Context }

func (e exprEnv) Variable(name string) (expr.Value, bool) {
	return e.c.state.Variables.Get(name)
}

func (e exprEnv) Register(name rune) (string, bool) {
	r, ok := e.c.Registers().Get(name)
	return r.Text, ok
}

func (e exprEnv) Option(name string) (any, error) {
	return e.c.Options().Get(name)
}

// Position resolves ".", "$" and "'x" to a 1-based line and byte column.
// The column of "$" is one past the end of the caret line.
func (e exprEnv) Position(spec string) (line, col int, ok bool) {
	idx := e.c.Index()
	caret := idx.OffsetToLogical(e.c.Offset())
	switch {
	case spec == ".":
		return caret.Line + 1, caret.Column + 1, true
	case spec == "$":
		return idx.LineCount(), idx.LineLength(caret.Line) + 1, true
	case strings.HasPrefix(spec, "'") && len(spec) > 1:
		key, _ := utf8.DecodeRuneInString(spec[1:])
		m, found := e.c.state.Marks.Get(e.c.Path(), key)
		if !found {
			return 0, 0, false
		}
		return m.Line + 1, m.Column + 1, true
	}
	return 0, 0, false
}

func evalExpr(c *Context, input string) (expr.Value, error) {
	return expr.Eval(input, exprEnv{c})
}

// Eval evaluates an expression at the primary caret.
func (e *Executor) Eval(input string) (expr.Value, error) {
	c := &Context{Executor: e, Caret: e.state.Buffer().PrimaryCaret()}
	return evalExpr(c, input)
}

// Call runs the builtin function name on args at the primary caret.
func (e *Executor) Call(name string, args ...expr.Value) (expr.Value, error) {
	nodes := make([]expr.Node, len(args))
	for i, a := range args {
		nodes[i] = &expr.Literal{Value: a}
	}
	c := &Context{Executor: e, Caret: e.state.Buffer().PrimaryCaret()}
	return expr.Evaluate(&expr.Call{Name: name, Args: nodes}, exprEnv{c})
}

// valueLines returns register text for v: one line per List item.
func valueLines(v expr.Value) string {
	if v.Kind() != expr.KindList {
		return v.String()
	}
	items := v.Items()
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = item.String()
	}
	return strings.Join(lines, "\n")
}

// cmdLet assigns variables, registers and options. Without an argument it
// lists the variables; with only a name it shows one.
func cmdLet(c *Context) (string, error) {
	arg := strings.TrimSpace(c.Command.Argument)
	vars := c.state.Variables
	if arg == "" {
		var lines []string
		for _, name := range vars.Names() {
			v, _ := vars.Get(name)
			lines = append(lines, formatVariable(name, v))
		}
		return strings.Join(lines, "\n"), nil
	}

	m := letPattern.FindStringSubmatch(arg)
	if m == nil {
		if !varName.MatchString(arg) {
			return "", c.usage(fmt.Errorf("%w: %s", engine.ErrInvalidArgument, arg))
		}
		v, ok := vars.Get(arg)
		if !ok {
			return "", &engine.NotFoundError{Kind: engine.NotFoundVariable, Name: arg}
		}
		return formatVariable(expr.Canonical(arg), v), nil
	}
	target, op, rhs := m[1], m[2], m[3]
	value, err := evalExpr(c, rhs)
	if err != nil {
		return "", err
	}

	switch target[0] {
	case '@':
		return "", letRegister(c, target, op, value)
	case '&':
		return "", letOption(c, target, op, value)
	}
	if strings.HasPrefix(target, "v:") {
		return "", ErrReadOnlyVariable
	}
	if op != "=" {
		cur, ok := vars.Get(target)
		if !ok {
			return "", &engine.NotFoundError{Kind: engine.NotFoundVariable, Name: target}
		}
		if value, err = combine(cur, op, value); err != nil {
			return "", err
		}
	}
	vars.Set(target, value)
	return "", nil
}

// combine applies the operator of a compound assignment such as "+=".
func combine(cur expr.Value, op string, v expr.Value) (expr.Value, error) {
	bin := strings.TrimSuffix(op, "=")
	return expr.Evaluate(&expr.Binary{Op: bin, Left: &expr.Literal{Value: cur}, Right: &expr.Literal{Value: v}}, nil)
}

func letRegister(c *Context, target, op string, value expr.Value) error {
	name, _ := utf8.DecodeRuneInString(target[1:])
	if op != "=" {
		r, _ := c.state.Registers.Get(name)
		var err error
		if value, err = combine(expr.String(r.Text), op, value); err != nil {
			return err
		}
	}
	content := valueLines(value)
	typ := text.Character
	if value.Kind() == expr.KindList {
		content += "\n"
	}
	if strings.HasSuffix(content, "\n") {
		typ = text.Line
	}
	return c.state.Registers.Set(name, content, typ)
}

func letOption(c *Context, target, op string, value expr.Value) error {
	name := strings.TrimPrefix(target, "&")
	name = strings.TrimPrefix(strings.TrimPrefix(name, "l:"), "g:")
	opts := c.Options()
	cur, err := opts.Get(name)
	if err != nil {
		return err
	}
	if op != "=" {
		if value, err = combine(expr.FromAny(cur), op, value); err != nil {
			return err
		}
	}
	var native any
	switch cur.(type) {
	case bool:
		native, err = value.Truthy()
	case int:
		native, err = value.Int()
	default:
		native, err = value.Text()
	}
	if err != nil {
		return err
	}
	return opts.SetValue(name, native)
}

func formatVariable(name string, v expr.Value) string {
	kind := ""
	switch v.Kind() {
	case expr.KindNumber:
		kind = "#"
	case expr.KindList:
		kind = "["
	}
	return fmt.Sprintf("%-10s %-2s%s", strings.TrimPrefix(name, "g:"), kind, v.String())
}

// cmdUnlet removes variables; with "!" missing ones are ignored.
func cmdUnlet(c *Context) (string, error) {
	for _, name := range strings.Fields(c.Command.Argument) {
		if strings.HasPrefix(name, "v:") {
			return "", ErrReadOnlyVariable
		}
		if err := c.state.Variables.Unset(name); err != nil && !c.Command.Bang {
			return "", err
		}
	}
	return "", nil
}

// cmdEcho evaluates each expression of the argument and joins the
// results with spaces.
func cmdEcho(c *Context) (string, error) {
	rest := strings.TrimSpace(c.Command.Argument)
	var parts []string
	for rest != "" {
		n, tail, err := expr.ParsePrefix(rest)
		if err != nil {
			return "", err
		}
		v, err := expr.Evaluate(n, exprEnv{c})
		if err != nil {
			return "", err
		}
		parts = append(parts, v.String())
		if strings.TrimSpace(tail) == rest {
			break
		}
		rest = strings.TrimSpace(tail)
	}
	return strings.Join(parts, " "), nil
}
