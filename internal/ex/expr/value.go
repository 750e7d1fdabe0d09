package expr

import (
	"errors"
	"strconv"
	"strings"
)

// Kind is the type of a Value.
type Kind uint8

const (
	KindNumber Kind = iota
	KindString
	KindList
)

// String returns the Vim type name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindList:
		return "List"
	}
	return "Number"
}

// Conversion errors.
var (
	ErrListAsNumber = errors.New("E745: Using a List as a Number")
	ErrListAsString = errors.New("E730: Using List as a String")
)

// Value is a Number, String or List.
type Value struct {
	kind Kind
	n    int
	s    string
	list []Value
}

// Number returns a Number value.
func Number(n int) Value { return Value{kind: KindNumber, n: n} }

// String returns a String value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// List returns a List value holding items.
func List(items ...Value) Value {
	return Value{kind: KindList, list: append([]Value(nil), items...)}
}

// Bool returns 1 for true and 0 for false, as Vim does.
func Bool(b bool) Value {
	if b {
		return Number(1)
	}
	return Number(0)
}

// FromAny converts option values and plain Go values.
func FromAny(v any) Value {
	switch x := v.(type) {
	case Value:
		return x
	case bool:
		return Bool(x)
	case int:
		return Number(x)
	case string:
		return String(x)
	case []string:
		out := make([]Value, len(x))
		for i, s := range x {
			out[i] = String(s)
		}
		return Value{kind: KindList, list: out}
	}
	return String("")
}

// Kind returns the value type.
func (v Value) Kind() Kind { return v.kind }

// Items returns the elements of a List, or nil.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return append([]Value(nil), v.list...)
}

// Int converts v to a Number. Strings convert through their leading digits.
func (v Value) Int() (int, error) {
	switch v.kind {
	case KindNumber:
		return v.n, nil
	case KindString:
		return Str2nr(v.s, 10), nil
	}
	return 0, ErrListAsNumber
}

// Text converts v to a String.
func (v Value) Text() (string, error) {
	switch v.kind {
	case KindNumber:
		return strconv.Itoa(v.n), nil
	case KindString:
		return v.s, nil
	}
	return "", ErrListAsString
}

// Truthy reports whether v is non-zero as a Number.
func (v Value) Truthy() (bool, error) {
	n, err := v.Int()
	return n != 0, err
}

// String returns v as :echo shows it.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.Itoa(v.n)
	case KindString:
		return v.s
	}
	return v.Repr()
}

// Repr returns v as string() shows it: strings in single quotes.
func (v Value) Repr() string {
	switch v.kind {
	case KindNumber:
		return strconv.Itoa(v.n)
	case KindString:
		return "'" + strings.ReplaceAll(v.s, "'", "''") + "'"
	}
	parts := make([]string, len(v.list))
	for i, item := range v.list {
		parts[i] = item.Repr()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Equal reports whether a and b have the same type and content.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNumber:
		return a.n == b.n
	case KindString:
		return a.s == b.s
	}
	if len(a.list) != len(b.list) {
		return false
	}
	for i := range a.list {
		if !Equal(a.list[i], b.list[i]) {
			return false
		}
	}
	return true
}

// Str2nr converts the leading number in s. Base 10 also accepts the 0x,
// 0b and 0o prefixes; trailing text is ignored.
func Str2nr(s string, base int) int {
	s = strings.TrimLeft(s, " \t")
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg, s = true, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	lower := strings.ToLower(s)
	switch {
	case (base == 16 || base == 10) && strings.HasPrefix(lower, "0x"):
		base, s = 16, s[2:]
	case (base == 2 || base == 10) && strings.HasPrefix(lower, "0b"):
		base, s = 2, s[2:]
	case (base == 8 || base == 10) && strings.HasPrefix(lower, "0o"):
		base, s = 8, s[2:]
	}
	n := 0
	for _, r := range s {
		d := digitValue(r)
		if d < 0 || d >= base {
			break
		}
		n = n*base + d
	}
	if neg {
		return -n
	}
	return n
}

func digitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	}
	return -1
}
