package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/vimcore/internal/engine"
)

// Options holds the editing options the engine consults. The zero value is
// not useful; start from Defaults.
type Options struct {
	TabStop    int
	ShiftWidth int
	ExpandTab  bool
	TextWidth  int
	ScrollOff  int

	IgnoreCase bool
	SmartCase  bool
	WrapScan   bool
	HLSearch   bool
	IncSearch  bool
	GDefault   bool

	StartOfLine bool
	JoinSpaces  bool
	// VirtualEdit is a comma list of "onemore", "block", "all".
	VirtualEdit string
	// WhichWrap lists keys that may cross line boundaries: "b,s,h,l".
	WhichWrap string
	// Selection is "inclusive" or "exclusive".
	Selection string
	// Clipboard is empty, "unnamed" or "unnamedplus".
	Clipboard  string
	MatchPairs string
	IsKeyword  string
	NrFormats  string
}

// Defaults returns Vim's default option values.
func Defaults() Options {
	return Options{
		TabStop:     8,
		ShiftWidth:  8,
		ScrollOff:   5,
		WrapScan:    true,
		IncSearch:   true,
		StartOfLine: true,
		WhichWrap:   "b,s",
		Selection:   "inclusive",
		MatchPairs:  "(:),{:},[:]",
		IsKeyword:   "@,48-57,_,192-255",
		NrFormats:   "bin,hex",
	}
}

// HasVirtualEdit reports whether flag appears in 'virtualedit'.
func (o *Options) HasVirtualEdit(flag string) bool {
	return hasFlag(o.VirtualEdit, flag) || hasFlag(o.VirtualEdit, "all")
}

// WrapsWith reports whether key may move across lines per 'whichwrap'.
func (o *Options) WrapsWith(key string) bool {
	return hasFlag(o.WhichWrap, key)
}

// ClipboardUnnamed reports whether the unnamed register mirrors a clipboard
// register, and which one.
func (o *Options) ClipboardUnnamed() (rune, bool) {
	switch {
	case hasFlag(o.Clipboard, "unnamedplus"):
		return '+', true
	case hasFlag(o.Clipboard, "unnamed"):
		return '*', true
	}
	return 0, false
}

// Pairs returns the 'matchpairs' as open->close.
func (o *Options) Pairs() map[rune]rune {
	out := make(map[rune]rune)
	for _, p := range strings.Split(o.MatchPairs, ",") {
		r := []rune(p)
		if len(r) == 3 && r[1] == ':' {
			out[r[0]] = r[2]
		}
	}
	return out
}

// IgnoreCaseFor applies 'ignorecase' and 'smartcase' to pattern.
func (o *Options) IgnoreCaseFor(pattern string) bool {
	if !o.IgnoreCase {
		return false
	}
	if o.SmartCase && strings.ToLower(pattern) != pattern {
		return false
	}
	return true
}

func hasFlag(list, flag string) bool {
	for _, f := range strings.Split(list, ",") {
		if strings.TrimSpace(f) == flag {
			return true
		}
	}
	return false
}

type optionKind uint8

const (
	kindBool optionKind = iota
	kindNumber
	kindString
)

type optionDef struct {
	name  string
	short string
	kind  optionKind
	b     func(*Options) *bool
	n     func(*Options) *int
	s     func(*Options) *string
}

var optionDefs = []optionDef{
	{name: "tabstop", short: "ts", kind: kindNumber, n: func(o *Options) *int { return &o.TabStop }},
	{name: "shiftwidth", short: "sw", kind: kindNumber, n: func(o *Options) *int { return &o.ShiftWidth }},
	{name: "expandtab", short: "et", kind: kindBool, b: func(o *Options) *bool { return &o.ExpandTab }},
	{name: "textwidth", short: "tw", kind: kindNumber, n: func(o *Options) *int { return &o.TextWidth }},
	{name: "scrolloff", short: "so", kind: kindNumber, n: func(o *Options) *int { return &o.ScrollOff }},
	{name: "ignorecase", short: "ic", kind: kindBool, b: func(o *Options) *bool { return &o.IgnoreCase }},
	{name: "smartcase", short: "scs", kind: kindBool, b: func(o *Options) *bool { return &o.SmartCase }},
	{name: "wrapscan", short: "ws", kind: kindBool, b: func(o *Options) *bool { return &o.WrapScan }},
	{name: "hlsearch", short: "hls", kind: kindBool, b: func(o *Options) *bool { return &o.HLSearch }},
	{name: "incsearch", short: "is", kind: kindBool, b: func(o *Options) *bool { return &o.IncSearch }},
	{name: "gdefault", short: "gd", kind: kindBool, b: func(o *Options) *bool { return &o.GDefault }},
	{name: "startofline", short: "sol", kind: kindBool, b: func(o *Options) *bool { return &o.StartOfLine }},
	{name: "joinspaces", short: "js", kind: kindBool, b: func(o *Options) *bool { return &o.JoinSpaces }},
	{name: "virtualedit", short: "ve", kind: kindString, s: func(o *Options) *string { return &o.VirtualEdit }},
	{name: "whichwrap", short: "ww", kind: kindString, s: func(o *Options) *string { return &o.WhichWrap }},
	{name: "selection", short: "sel", kind: kindString, s: func(o *Options) *string { return &o.Selection }},
	{name: "clipboard", short: "cb", kind: kindString, s: func(o *Options) *string { return &o.Clipboard }},
	{name: "matchpairs", short: "mps", kind: kindString, s: func(o *Options) *string { return &o.MatchPairs }},
	{name: "iskeyword", short: "isk", kind: kindString, s: func(o *Options) *string { return &o.IsKeyword }},
	{name: "nrformats", short: "nf", kind: kindString, s: func(o *Options) *string { return &o.NrFormats }},
}

func lookupOption(name string) (*optionDef, bool) {
	for i := range optionDefs {
		if optionDefs[i].name == name || optionDefs[i].short == name {
			return &optionDefs[i], true
		}
	}
	return nil, false
}

// OptionNames returns every full option name, sorted.
func OptionNames() []string {
	names := make([]string, len(optionDefs))
	for i, d := range optionDefs {
		names[i] = d.name
	}
	sort.Strings(names)
	return names
}

// Get returns an option value as bool, int or string.
func (o *Options) Get(name string) (any, error) {
	def, ok := lookupOption(name)
	if !ok {
		return nil, &engine.NotFoundError{Kind: engine.NotFoundOption, Name: name}
	}
	switch def.kind {
	case kindBool:
		return *def.b(o), nil
	case kindNumber:
		return *def.n(o), nil
	default:
		return *def.s(o), nil
	}
}

// SetValue assigns a typed value, converting numbers and strings as needed.
func (o *Options) SetValue(name string, v any) error {
	def, ok := lookupOption(name)
	if !ok {
		return &engine.NotFoundError{Kind: engine.NotFoundOption, Name: name}
	}
	switch def.kind {
	case kindBool:
		switch x := v.(type) {
		case bool:
			*def.b(o) = x
		case int:
			*def.b(o) = x != 0
		case int64:
			*def.b(o) = x != 0
		case string:
			b, err := strconv.ParseBool(x)
			if err != nil {
				return fmt.Errorf("%w: %s=%s", engine.ErrInvalidArgument, name, x)
			}
			*def.b(o) = b
		default:
			return fmt.Errorf("%w: %s: %T", ErrTypeMismatch, name, v)
		}
	case kindNumber:
		switch x := v.(type) {
		case int:
			*def.n(o) = x
		case int64:
			*def.n(o) = int(x)
		case float64:
			*def.n(o) = int(x)
		case string:
			n, err := strconv.Atoi(x)
			if err != nil {
				return fmt.Errorf("%w: %s=%s", engine.ErrInvalidArgument, name, x)
			}
			*def.n(o) = n
		default:
			return fmt.Errorf("%w: %s: %T", ErrTypeMismatch, name, v)
		}
	default:
		switch x := v.(type) {
		case string:
			*def.s(o) = x
		case []any:
			parts := make([]string, 0, len(x))
			for _, p := range x {
				parts = append(parts, fmt.Sprint(p))
			}
			*def.s(o) = strings.Join(parts, ",")
		default:
			*def.s(o) = fmt.Sprint(x)
		}
	}
	return nil
}

// Set applies one ":set" argument: "ic", "noic", "invic", "ic!", "ts=4",
// "ve+=block", "ww-=h", "ts&". Queries ("ts?", bare number/string names)
// return the display text.
func (o *Options) Set(arg string) (string, error) {
	name := arg
	op := ""
	value := ""
	if i := strings.IndexAny(arg, "=:+-^"); i > 0 {
		name = arg[:i]
		rest := arg[i:]
		switch {
		case strings.HasPrefix(rest, "+="), strings.HasPrefix(rest, "-="), strings.HasPrefix(rest, "^="):
			op, value = rest[:2], rest[2:]
		case rest[0] == '=' || rest[0] == ':':
			op, value = "=", rest[1:]
		default:
			return "", fmt.Errorf("%w: %s", engine.ErrInvalidArgument, arg)
		}
	}

	switch {
	case op == "" && strings.HasSuffix(name, "?"):
		return o.show(strings.TrimSuffix(name, "?"))
	case op == "" && strings.HasSuffix(name, "&"):
		return "", o.reset(strings.TrimSuffix(name, "&"))
	case op == "" && strings.HasSuffix(name, "!"):
		return "", o.invert(strings.TrimSuffix(name, "!"))
	}

	def, ok := lookupOption(name)
	if !ok && op == "" {
		switch {
		case strings.HasPrefix(name, "no"):
			if d, found := lookupOption(name[2:]); found && d.kind == kindBool {
				*d.b(o) = false
				return "", nil
			}
		case strings.HasPrefix(name, "inv"):
			return "", o.invert(name[3:])
		}
	}
	if !ok {
		return "", &engine.NotFoundError{Kind: engine.NotFoundOption, Name: name}
	}

	if op == "" {
		if def.kind == kindBool {
			*def.b(o) = true
			return "", nil
		}
		return o.show(name)
	}
	if def.kind == kindBool {
		return "", fmt.Errorf("%w: %s", engine.ErrInvalidArgument, arg)
	}

	if def.kind == kindNumber {
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", fmt.Errorf("%w: %s", engine.ErrInvalidArgument, arg)
		}
		p := def.n(o)
		switch op {
		case "=":
			*p = n
		case "+=":
			*p += n
		case "-=":
			*p -= n
		case "^=":
			*p *= n
		}
		return "", nil
	}

	p := def.s(o)
	switch op {
	case "=":
		*p = value
	case "+=":
		if *p == "" {
			*p = value
		} else if !hasFlag(*p, value) {
			*p += "," + value
		}
	case "^=":
		if *p == "" {
			*p = value
		} else {
			*p = value + "," + *p
		}
	case "-=":
		var keep []string
		for _, f := range strings.Split(*p, ",") {
			if f != value && f != "" {
				keep = append(keep, f)
			}
		}
		*p = strings.Join(keep, ",")
	}
	return "", nil
}

func (o *Options) show(name string) (string, error) {
	def, ok := lookupOption(name)
	if !ok {
		return "", &engine.NotFoundError{Kind: engine.NotFoundOption, Name: name}
	}
	switch def.kind {
	case kindBool:
		if *def.b(o) {
			return "  " + def.name, nil
		}
		return "no" + def.name, nil
	case kindNumber:
		return fmt.Sprintf("  %s=%d", def.name, *def.n(o)), nil
	default:
		return fmt.Sprintf("  %s=%s", def.name, *def.s(o)), nil
	}
}

func (o *Options) reset(name string) error {
	def, ok := lookupOption(name)
	if !ok {
		return &engine.NotFoundError{Kind: engine.NotFoundOption, Name: name}
	}
	d := Defaults()
	switch def.kind {
	case kindBool:
		*def.b(o) = *def.b(&d)
	case kindNumber:
		*def.n(o) = *def.n(&d)
	default:
		*def.s(o) = *def.s(&d)
	}
	return nil
}

func (o *Options) invert(name string) error {
	def, ok := lookupOption(name)
	if !ok {
		return &engine.NotFoundError{Kind: engine.NotFoundOption, Name: name}
	}
	if def.kind != kindBool {
		return fmt.Errorf("%w: %s", engine.ErrInvalidArgument, name)
	}
	p := def.b(o)
	*p = !*p
	return nil
}

// Changed returns ":set" display lines for options that differ from the defaults.
func (o *Options) Changed() []string {
	d := Defaults()
	var out []string
	for _, def := range optionDefs {
		cur, _ := o.Get(def.name)
		orig, _ := d.Get(def.name)
		if cur != orig {
			line, _ := o.show(def.name)
			out = append(out, strings.TrimSpace(line))
		}
	}
	return out
}
