package lua

import (
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vimcore/internal/ex/expr"
)

// Bridge converts between Lua values and expression values.
type Bridge struct {
	L *lua.LState
}

// NewBridge creates a new Bridge for the given Lua state.
func NewBridge(L *lua.LState) *Bridge {
	return &Bridge{L: L}
}

// ToValue converts a Lua value. Booleans become 0 or 1 and sequences
// become Lists; other tables are rejected.
func (b *Bridge) ToValue(lv lua.LValue) (expr.Value, error) {
	return b.toValueWithVisited(lv, make(map[*lua.LTable]bool))
}

func (b *Bridge) toValueWithVisited(lv lua.LValue, visited map[*lua.LTable]bool) (expr.Value, error) {
	switch v := lv.(type) {
	case lua.LBool:
		return expr.Bool(bool(v)), nil
	case lua.LNumber:
		f := float64(v)
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return expr.Value{}, fmt.Errorf("%w: %v", ErrNotInteger, f)
		}
		return expr.Number(int(f)), nil
	case lua.LString:
		return expr.String(string(v)), nil
	case *lua.LTable:
		if visited[v] {
			return expr.Value{}, fmt.Errorf("%w: recursive table", ErrUnsupportedType)
		}
		visited[v] = true
		defer delete(visited, v)
		return b.tableToList(v, visited)
	}
	if lv == lua.LNil {
		return expr.String(""), nil
	}
	return expr.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, lv.Type())
}

// tableToList converts a sequence {1, 2, ...}. An empty table is an empty
// List.
func (b *Bridge) tableToList(t *lua.LTable, visited map[*lua.LTable]bool) (expr.Value, error) {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })
	if count != n {
		return expr.Value{}, fmt.Errorf("%w: table with non-sequence keys", ErrUnsupportedType)
	}
	items := make([]expr.Value, n)
	for i := 1; i <= n; i++ {
		v, err := b.toValueWithVisited(t.RawGetInt(i), visited)
		if err != nil {
			return expr.Value{}, err
		}
		items[i-1] = v
	}
	return expr.List(items...), nil
}

// FromValue converts an expression value to Lua.
func (b *Bridge) FromValue(v expr.Value) lua.LValue {
	switch v.Kind() {
	case expr.KindNumber:
		n, _ := v.Int()
		return lua.LNumber(n)
	case expr.KindList:
		t := b.L.NewTable()
		for i, item := range v.Items() {
			t.RawSetInt(i+1, b.FromValue(item))
		}
		return t
	}
	return lua.LString(v.String())
}

// FromAny converts an option value.
func (b *Bridge) FromAny(v any) lua.LValue {
	switch x := v.(type) {
	case bool:
		return lua.LBool(x)
	case int:
		return lua.LNumber(x)
	case string:
		return lua.LString(x)
	case nil:
		return lua.LNil
	}
	return b.FromValue(expr.FromAny(v))
}

// ToAny converts a Lua value for an option assignment.
func (b *Bridge) ToAny(lv lua.LValue) (any, error) {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v), nil
	case lua.LString:
		return string(v), nil
	case lua.LNumber:
		val, err := b.ToValue(v)
		if err != nil {
			return nil, err
		}
		n, _ := val.Int()
		return n, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, lv.Type())
}

// Format renders a returned value the way ":lua =expr" shows it.
func (b *Bridge) Format(lv lua.LValue) string {
	switch lv.(type) {
	case lua.LString, lua.LNumber:
		return lv.String()
	case *lua.LTable:
		if v, err := b.ToValue(lv); err == nil {
			return v.Repr()
		}
	}
	return lv.String()
}
