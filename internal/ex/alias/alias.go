// Package alias stores user-defined ex commands created with :command.
//
// An alias maps a name starting with an upper-case letter to either an ex
// command line, with <args>, <q-args>, <count> and <lt> substituted when
// it runs, or a native handler.
package alias

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/engine"
)

// MaxDepth bounds alias-to-alias expansion.
const MaxDepth = 100

// Errors returned when defining aliases.
var (
	ErrNotUpperCase = errors.New("E183: User defined commands must start with an uppercase letter")
	ErrReserved     = errors.New("E841: Reserved name, cannot be used for user defined command")
	ErrExists       = errors.New("E174: Command already exists: add ! to replace it")
	ErrInvalidNargs = errors.New("E176: Invalid number of arguments")
	ErrNoSuchAlias  = errors.New("E184: No such user-defined command")
)

// blacklist holds names that would shadow built-in commands.
var blacklist = map[string]bool{"X": true, "Next": true, "Print": true}

// Unlimited is the Max of aliases taking any number of arguments.
const Unlimited = -1

// Handler runs a native alias. input is the full command line.
type Handler func(input string, count int) error

// Alias is one user command.
type Alias struct {
	Name string
	// Min and Max bound the argument count; Max is Unlimited for * and +.
	Min, Max int
	// Command is the ex text of an ex alias.
	Command string
	// Handler is set for native aliases.
	Handler Handler
}

// Nargs returns the -nargs spelling of the argument bounds.
func (a Alias) Nargs() string {
	switch {
	case a.Min == 0 && a.Max == 0:
		return "0"
	case a.Min == 0 && a.Max == Unlimited:
		return "*"
	case a.Min == 0 && a.Max == 1:
		return "?"
	case a.Min == 1 && a.Max == Unlimited:
		return "+"
	}
	return strconv.Itoa(a.Min)
}

// Definition returns what :command lists for a.
func (a Alias) Definition() string {
	if a.Handler != nil {
		return "<native>"
	}
	return a.Command
}

// Expand returns the ex command line to run for an invocation of a.
// input is the text after the alias name.
func (a Alias) Expand(input string, count int) (string, error) {
	if a.Min == 0 && a.Max == 0 {
		return a.Command, nil
	}
	args := strings.TrimSpace(input)
	if a.Min > 0 && args == "" {
		return "", engine.NewUsageError(a.Name, engine.ErrArgumentRequired)
	}
	out := a.Command
	out = strings.ReplaceAll(out, "<count>", strconv.Itoa(count))
	out = strings.ReplaceAll(out, "<args>", args)
	out = strings.ReplaceAll(out, "<q-args>", "'"+args+"'")
	// <lt> is replaced last so that an escaped "<lt>args>" survives.
	out = strings.ReplaceAll(out, "<lt>", "<")
	return out, nil
}

// Store holds the aliases of a session.
type Store struct {
	aliases map[string]Alias
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{aliases: make(map[string]Alias)}
}

// Validate checks that name may be used for an alias.
func Validate(name string) error {
	r, _ := utf8.DecodeRuneInString(name)
	if name == "" || !unicode.IsUpper(r) {
		return fmt.Errorf("%w: %s", ErrNotUpperCase, name)
	}
	if blacklist[name] {
		return fmt.Errorf("%w: %s", ErrReserved, name)
	}
	return nil
}

// Define adds a. An existing alias of the same name is replaced only when
// override is set.
func (s *Store) Define(a Alias, override bool) error {
	if err := Validate(a.Name); err != nil {
		return err
	}
	if _, ok := s.aliases[a.Name]; ok && !override {
		return fmt.Errorf("%w: %s", ErrExists, a.Name)
	}
	s.aliases[a.Name] = a
	return nil
}

// Get returns the alias called name.
func (s *Store) Get(name string) (Alias, bool) {
	a, ok := s.aliases[name]
	return a, ok
}

// Has reports whether name is defined.
func (s *Store) Has(name string) bool {
	_, ok := s.aliases[name]
	return ok
}

// Remove deletes the alias called name.
func (s *Store) Remove(name string) error {
	if _, ok := s.aliases[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchAlias, name)
	}
	delete(s.aliases, name)
	return nil
}

// Clear removes every alias.
func (s *Store) Clear() {
	clear(s.aliases)
}

// List returns the aliases whose names start with prefix, sorted
// case-insensitively.
func (s *Store) List(prefix string) []Alias {
	var out []Alias
	for name, a := range s.aliases {
		if strings.HasPrefix(name, prefix) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if li != lj {
			return li < lj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Format returns the :command listing for aliases starting with prefix.
func (s *Store) Format(prefix string) string {
	var b strings.Builder
	b.WriteString("Name        Args       Definition")
	for _, a := range s.List(prefix) {
		fmt.Fprintf(&b, "\n%-12s%-11s%s", a.Name, a.Nargs(), a.Definition())
	}
	return b.String()
}

// unsupported are :command attributes that are accepted and ignored.
var unsupported = []struct {
	re   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`-range(=[^ ]*)?`), "-range"},
	{regexp.MustCompile(`-complete=[^ ]*`), "-complete"},
	{regexp.MustCompile(`-count=[^ ]*`), "-count"},
	{regexp.MustCompile(`-addr=[^ ]*`), "-addr"},
	{regexp.MustCompile(`-bang`), "-bang"},
	{regexp.MustCompile(`-bar`), "-bar"},
	{regexp.MustCompile(`-register`), "-register"},
	{regexp.MustCompile(`-buffer`), "-buffer"},
	{regexp.MustCompile(`-keepscript`), "-keepscript"},
}

var nargsPattern = regexp.MustCompile(`^-nargs=(-?\d+|[?+*])`)

// Definition is a parsed :command argument.
type Definition struct {
	Alias Alias
	// ListOnly is set when only a name was given: list matching aliases.
	ListOnly bool
	// Ignored names attributes that were dropped.
	Ignored []string
}

// Parse parses the argument of :command, after any "!".
// "-nargs=1 Name rest of line" defines Name.
func Parse(arg string) (Definition, error) {
	var def Definition
	arg = strings.TrimSpace(arg)

	for _, u := range unsupported {
		if loc := u.re.FindStringIndex(arg); loc != nil {
			arg = strings.TrimSpace(arg[:loc[0]] + arg[loc[1]:])
			def.Ignored = append(def.Ignored, u.name)
		}
	}

	a := Alias{}
	if strings.HasPrefix(arg, "-nargs") {
		first, _, _ := strings.Cut(arg, " ")
		m := nargsPattern.FindStringSubmatch(first)
		if m == nil {
			return def, ErrInvalidNargs
		}
		switch m[1] {
		case "*":
			a.Min, a.Max = 0, Unlimited
		case "?":
			a.Min, a.Max = 0, 1
		case "+":
			a.Min, a.Max = 1, Unlimited
		default:
			n, _ := strconv.Atoi(m[1])
			if n < 0 || n > 1 {
				return def, ErrInvalidNargs
			}
			a.Min, a.Max = n, n
		}
		arg = strings.TrimSpace(strings.TrimPrefix(arg, m[0]))
	}

	name, rest, _ := strings.Cut(arg, " ")
	if err := Validate(name); err != nil {
		return def, err
	}
	a.Name = name
	a.Command = strings.TrimSpace(rest)
	def.Alias = a
	def.ListOnly = a.Command == ""
	return def, nil
}
