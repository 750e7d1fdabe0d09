package expr

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/search"
)

// ErrArgumentCount is returned for calls with too few or too many arguments.
var ErrArgumentCount = errors.New("E118: Wrong number of arguments for function")

type builtin struct {
	minArgs, maxArgs int
	fn               func(env Env, args []Value) (Value, error)
}

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"len":     {1, 1, fnLen},
		"toupper": {1, 1, mapText(strings.ToUpper)},
		"tolower": {1, 1, mapText(strings.ToLower)},
		"string":  {1, 1, func(_ Env, a []Value) (Value, error) { return String(a[0].Repr()), nil }},
		"str2nr":  {1, 2, fnStr2nr},
		"repeat":  {2, 2, fnRepeat},
		"exists":  {1, 1, fnExists},
		"line":    {1, 1, position(true)},
		"col":     {1, 1, position(false)},
		"getreg":  {0, 1, fnGetreg},
		"join":    {1, 2, fnJoin},
		"split":   {1, 3, fnSplit},
		"abs":     {1, 1, fnAbs},
		"max":     {1, 1, extreme(1)},
		"min":     {1, 1, extreme(-1)},
	}
}

// Functions returns the builtin function names, sorted.
func Functions() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func call(n *Call, env Env) (Value, error) {
	b, ok := builtins[n.Name]
	if !ok {
		return Value{}, &engine.NotFoundError{Kind: engine.NotFoundFunction, Name: n.Name}
	}
	if len(n.Args) < b.minArgs || len(n.Args) > b.maxArgs {
		return Value{}, fmt.Errorf("%w: %s", ErrArgumentCount, n.Name)
	}
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := Evaluate(a, env)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	return b.fn(env, args)
}

func fnLen(_ Env, a []Value) (Value, error) {
	if a[0].kind == KindList {
		return Number(len(a[0].list)), nil
	}
	s, _ := a[0].Text()
	return Number(len(s)), nil
}

func mapText(fn func(string) string) func(Env, []Value) (Value, error) {
	return func(_ Env, a []Value) (Value, error) {
		s, err := a[0].Text()
		if err != nil {
			return Value{}, err
		}
		return String(fn(s)), nil
	}
}

func fnStr2nr(_ Env, a []Value) (Value, error) {
	s, err := a[0].Text()
	if err != nil {
		return Value{}, err
	}
	base := 10
	if len(a) > 1 {
		if base, err = a[1].Int(); err != nil {
			return Value{}, err
		}
		switch base {
		case 2, 8, 10, 16:
		default:
			return Value{}, fmt.Errorf("%w: base %d", engine.ErrInvalidArgument, base)
		}
	}
	return Number(Str2nr(s, base)), nil
}

func fnRepeat(_ Env, a []Value) (Value, error) {
	n, err := a[1].Int()
	if err != nil {
		return Value{}, err
	}
	n = max(n, 0)
	if a[0].kind == KindList {
		var out []Value
		for i := 0; i < n; i++ {
			out = append(out, a[0].list...)
		}
		return List(out...), nil
	}
	s, _ := a[0].Text()
	return String(strings.Repeat(s, n)), nil
}

// fnExists understands "&option", "*function", "@register" and variable
// names.
func fnExists(env Env, a []Value) (Value, error) {
	name, err := a[0].Text()
	if err != nil {
		return Value{}, err
	}
	switch {
	case name == "":
		return Bool(false), nil
	case name[0] == '&':
		_, err := env.Option(strings.TrimPrefix(name[1:], "l:"))
		return Bool(err == nil), nil
	case name[0] == '*':
		_, ok := builtins[name[1:]]
		return Bool(ok), nil
	case name[0] == '@':
		s, ok := env.Register([]rune(name[1:] + "\"")[0])
		return Bool(ok && s != ""), nil
	}
	_, ok := env.Variable(Canonical(name))
	return Bool(ok), nil
}

func position(line bool) func(Env, []Value) (Value, error) {
	return func(env Env, a []Value) (Value, error) {
		spec, err := a[0].Text()
		if err != nil {
			return Value{}, err
		}
		l, c, ok := env.Position(spec)
		switch {
		case !ok:
			return Number(0), nil
		case line:
			return Number(l), nil
		}
		return Number(c), nil
	}
}

func fnGetreg(env Env, a []Value) (Value, error) {
	name := '"'
	if len(a) > 0 {
		s, err := a[0].Text()
		if err != nil {
			return Value{}, err
		}
		if s != "" {
			name = []rune(s)[0]
		}
	}
	s, _ := env.Register(name)
	return String(s), nil
}

func fnJoin(_ Env, a []Value) (Value, error) {
	if a[0].kind != KindList {
		return Value{}, fmt.Errorf("%w: join()", engine.ErrInvalidArgument)
	}
	sep := " "
	if len(a) > 1 {
		var err error
		if sep, err = a[1].Text(); err != nil {
			return Value{}, err
		}
	}
	parts := make([]string, len(a[0].list))
	for i, item := range a[0].list {
		if item.kind == KindList {
			parts[i] = item.Repr()
			continue
		}
		parts[i] = item.String()
	}
	return String(strings.Join(parts, sep)), nil
}

// fnSplit splits on a Vim pattern, by default on runs of white space.
// Empty items at the start and end are dropped unless keepempty is set.
func fnSplit(_ Env, a []Value) (Value, error) {
	s, err := a[0].Text()
	if err != nil {
		return Value{}, err
	}
	keepEmpty := false
	if len(a) > 2 {
		if keepEmpty, err = a[2].Truthy(); err != nil {
			return Value{}, err
		}
	}

	var parts []string
	if len(a) < 2 {
		parts = strings.Fields(s)
	} else {
		pat, err := a[1].Text()
		if err != nil {
			return Value{}, err
		}
		if pat == "" {
			pat = `\s\+`
		}
		p, err := search.Compile(pat, false)
		if err != nil {
			return Value{}, err
		}
		prev := 0
		for _, m := range p.Matches(s) {
			if m[1] == m[0] && (m[0] == 0 || m[0] >= len(s)) {
				continue
			}
			parts = append(parts, s[prev:m[0]])
			prev = m[1]
		}
		parts = append(parts, s[prev:])
		if !keepEmpty {
			if len(parts) > 0 && parts[0] == "" {
				parts = parts[1:]
			}
			if len(parts) > 0 && parts[len(parts)-1] == "" {
				parts = parts[:len(parts)-1]
			}
		}
	}
	return FromAny(parts), nil
}

func fnAbs(_ Env, a []Value) (Value, error) {
	n, err := a[0].Int()
	if err != nil {
		return Value{}, err
	}
	if n < 0 {
		n = -n
	}
	return Number(n), nil
}

func extreme(sign int) func(Env, []Value) (Value, error) {
	return func(_ Env, a []Value) (Value, error) {
		if a[0].kind != KindList {
			return Value{}, fmt.Errorf("%w: expected a List", engine.ErrInvalidArgument)
		}
		best := 0
		for i, item := range a[0].list {
			n, err := item.Int()
			if err != nil {
				return Value{}, err
			}
			if i == 0 || (sign > 0 && n > best) || (sign < 0 && n < best) {
				best = n
			}
		}
		return Number(best), nil
	}
}
