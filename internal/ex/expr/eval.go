package expr

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/search"
)

// Evaluation errors.
var (
	ErrListCompare   = errors.New("E691: Can only compare List with List")
	ErrListOperation = errors.New("E692: Invalid operation for List")
	ErrListIndex     = errors.New("E684: List index out of range")
	ErrNotIndexable  = errors.New("E689: Can only index a List")
)

// Env resolves the names an expression reads.
type Env interface {
	// Variable returns the variable with a canonical name such as "g:x".
	Variable(name string) (Value, bool)
	Register(name rune) (string, bool)
	// Option returns a bool, int or string option value.
	Option(name string) (any, error)
	// Position resolves a line()/col() spec such as ".", "$" or "'a" to a
	// 1-based line and byte column.
	Position(spec string) (line, col int, ok bool)
}

// Eval parses and evaluates input.
func Eval(input string, env Env) (Value, error) {
	n, err := Parse(input)
	if err != nil {
		return Value{}, err
	}
	return Evaluate(n, env)
}

// Evaluate computes the value of n.
func Evaluate(n Node, env Env) (Value, error) {
	switch n := n.(type) {
	case *Literal:
		return n.Value, nil
	case *ListExpr:
		items := make([]Value, len(n.Items))
		for i, item := range n.Items {
			v, err := Evaluate(item, env)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return Value{kind: KindList, list: items}, nil
	case *VarRef:
		name := Canonical(n.Name)
		v, ok := env.Variable(name)
		if !ok {
			return Value{}, &engine.NotFoundError{Kind: engine.NotFoundVariable, Name: n.Name}
		}
		return v, nil
	case *OptionRef:
		v, err := env.Option(strings.TrimPrefix(strings.TrimPrefix(n.Name, "l:"), "g:"))
		if err != nil {
			return Value{}, err
		}
		return FromAny(v), nil
	case *RegisterRef:
		s, _ := env.Register(n.Name)
		return String(s), nil
	case *Unary:
		return evalUnary(n, env)
	case *Binary:
		return evalBinary(n, env)
	case *Ternary:
		cond, err := Evaluate(n.Cond, env)
		if err != nil {
			return Value{}, err
		}
		ok, err := cond.Truthy()
		if err != nil {
			return Value{}, err
		}
		if ok {
			return Evaluate(n.Then, env)
		}
		return Evaluate(n.Else, env)
	case *Call:
		return call(n, env)
	case *Index:
		return evalIndex(n, env)
	}
	return Value{}, fmt.Errorf("%w: %T", ErrInvalidExpression, n)
}

func evalUnary(n *Unary, env Env) (Value, error) {
	v, err := Evaluate(n.Operand, env)
	if err != nil {
		return Value{}, err
	}
	i, err := v.Int()
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case TokenNot:
		return Bool(i == 0), nil
	case TokenMinus:
		return Number(-i), nil
	}
	return Number(i), nil
}

func evalBinary(n *Binary, env Env) (Value, error) {
	left, err := Evaluate(n.Left, env)
	if err != nil {
		return Value{}, err
	}

	// Logical operators short-circuit.
	if n.Op == "&&" || n.Op == "||" {
		l, err := left.Truthy()
		if err != nil {
			return Value{}, err
		}
		if (n.Op == "&&" && !l) || (n.Op == "||" && l) {
			return Bool(l), nil
		}
		right, err := Evaluate(n.Right, env)
		if err != nil {
			return Value{}, err
		}
		r, err := right.Truthy()
		return Bool(r), err
	}

	right, err := Evaluate(n.Right, env)
	if err != nil {
		return Value{}, err
	}

	switch n.Op {
	case ".", "..":
		ls, err := left.Text()
		if err != nil {
			return Value{}, err
		}
		rs, err := right.Text()
		if err != nil {
			return Value{}, err
		}
		return String(ls + rs), nil
	case "+":
		if left.kind == KindList && right.kind == KindList {
			return List(append(left.Items(), right.list...)...), nil
		}
		return arith(left, right, func(a, b int) int { return a + b })
	case "-":
		return arith(left, right, func(a, b int) int { return a - b })
	case "*":
		return arith(left, right, func(a, b int) int { return a * b })
	case "/":
		return arith(left, right, divide)
	case "%":
		return arith(left, right, func(a, b int) int {
			if b == 0 {
				return 0
			}
			return a % b
		})
	}
	return compare(n.Op, left, right, env)
}

func arith(left, right Value, fn func(a, b int) int) (Value, error) {
	if left.kind == KindList || right.kind == KindList {
		return Value{}, ErrListOperation
	}
	a, _ := left.Int()
	b, _ := right.Int()
	return Number(fn(a, b)), nil
}

// divide follows Vim: dividing by zero gives the largest number with the
// sign of the dividend, and 0/0 the most negative one.
func divide(a, b int) int {
	if b != 0 {
		return a / b
	}
	switch {
	case a > 0:
		return math.MaxInt
	case a < 0:
		return -math.MaxInt
	}
	return math.MinInt
}

func compare(op string, left, right Value, env Env) (Value, error) {
	base := strings.TrimRight(op, "#?")
	fold := ignoreCase(env)
	switch {
	case strings.HasSuffix(op, "#"):
		fold = false
	case strings.HasSuffix(op, "?"):
		fold = true
	}

	if base == "=~" || base == "!~" {
		s, err := left.Text()
		if err != nil {
			return Value{}, err
		}
		pat, err := right.Text()
		if err != nil {
			return Value{}, err
		}
		p, err := search.Compile(pat, fold)
		if err != nil {
			return Value{}, err
		}
		return Bool(p.MatchString(s) == (base == "=~")), nil
	}

	if left.kind == KindList || right.kind == KindList {
		if left.kind != right.kind {
			return Value{}, ErrListCompare
		}
		switch base {
		case "==":
			return Bool(Equal(left, right)), nil
		case "!=":
			return Bool(!Equal(left, right)), nil
		}
		return Value{}, ErrListOperation
	}

	var c int
	if left.kind == KindString && right.kind == KindString {
		a, b := left.s, right.s
		if fold {
			a, b = strings.ToLower(a), strings.ToLower(b)
		}
		c = strings.Compare(a, b)
	} else {
		a, _ := left.Int()
		b, _ := right.Int()
		switch {
		case a < b:
			c = -1
		case a > b:
			c = 1
		}
	}

	switch base {
	case "==":
		return Bool(c == 0), nil
	case "!=":
		return Bool(c != 0), nil
	case "<":
		return Bool(c < 0), nil
	case "<=":
		return Bool(c <= 0), nil
	case ">":
		return Bool(c > 0), nil
	case ">=":
		return Bool(c >= 0), nil
	}
	return Value{}, fmt.Errorf("%w: %s", ErrInvalidExpression, op)
}

func ignoreCase(env Env) bool {
	v, err := env.Option("ignorecase")
	if err != nil {
		return false
	}
	b, _ := v.(bool)
	return b
}

func evalIndex(n *Index, env Env) (Value, error) {
	target, err := Evaluate(n.Target, env)
	if err != nil {
		return Value{}, err
	}
	bound := func(node Node, def int) (int, error) {
		if node == nil {
			return def, nil
		}
		v, err := Evaluate(node, env)
		if err != nil {
			return 0, err
		}
		return v.Int()
	}

	if target.kind == KindNumber {
		target = String(target.String())
	}
	length := len(target.s)
	if target.kind == KindList {
		length = len(target.list)
	}

	from, err := bound(n.From, 0)
	if err != nil {
		return Value{}, err
	}
	if !n.Slice {
		if from < 0 && target.kind == KindList {
			from += length
		}
		if from < 0 || from >= length {
			if target.kind == KindList {
				return Value{}, fmt.Errorf("%w: %d", ErrListIndex, from)
			}
			return String(""), nil
		}
		if target.kind == KindList {
			return target.list[from], nil
		}
		return String(target.s[from : from+1]), nil
	}

	to, err := bound(n.To, length-1)
	if err != nil {
		return Value{}, err
	}
	if from < 0 {
		from = max(from+length, 0)
	}
	if to < 0 {
		to += length
	}
	to = min(to, length-1)
	if from > to {
		if target.kind == KindList {
			return List(), nil
		}
		return String(""), nil
	}
	if target.kind == KindList {
		return List(target.list[from : to+1]...), nil
	}
	return String(target.s[from : to+1]), nil
}

// Canonical returns the stored name of a variable: bare and l: names
// are global at the top level.
func Canonical(name string) string {
	if len(name) > 2 && name[1] == ':' && strings.IndexByte(scopes, name[0]) >= 0 {
		if name[0] == 'l' {
			return "g:" + name[2:]
		}
		return name
	}
	return "g:" + name
}

// Variables holds the g:, s: and v: variables of a session.
type Variables struct {
	vars map[string]Value
}

// NewVariables returns an empty variable store.
func NewVariables() *Variables {
	return &Variables{vars: make(map[string]Value)}
}

// Get returns the variable called name, in any spelling Canonical accepts.
func (vs *Variables) Get(name string) (Value, bool) {
	v, ok := vs.vars[Canonical(name)]
	return v, ok
}

// Set assigns a variable.
func (vs *Variables) Set(name string, v Value) {
	vs.vars[Canonical(name)] = v
}

// Unset removes a variable.
func (vs *Variables) Unset(name string) error {
	key := Canonical(name)
	if _, ok := vs.vars[key]; !ok {
		return &engine.NotFoundError{Kind: engine.NotFoundVariable, Name: name}
	}
	delete(vs.vars, key)
	return nil
}

// Names returns the canonical names, sorted.
func (vs *Variables) Names() []string {
	names := make([]string, 0, len(vs.vars))
	for k := range vs.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Clear removes every variable.
func (vs *Variables) Clear() {
	clear(vs.vars)
}
