// Package search implements pattern search, search offsets, star searches,
// text objects and the find-char memory used by ";" and ",".
package search

import (
	"strconv"
	"strings"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/engine"
)

// Category selects which remembered pattern a command reads or writes.
type Category uint8

const (
	// RESearch is the last "/" or "?" pattern.
	RESearch Category = iota
	// RESubst is the last ":s" pattern.
	RESubst
	// REBoth writes both slots.
	REBoth
	// RELast reads whichever slot was written most recently.
	RELast
)

// Direction is a search direction.
type Direction int8

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction { return -d }

// Char returns the command-line character that starts a search in d.
func (d Direction) Char() rune {
	if d == Backward {
		return '?'
	}
	return '/'
}

// OffsetKind is the anchor of a search offset.
type OffsetKind uint8

const (
	OffsetNone OffsetKind = iota
	// OffsetLine moves N lines from the match and makes the motion linewise.
	OffsetLine
	// OffsetStart moves N characters from the match start.
	OffsetStart
	// OffsetEnd moves N characters from the last character of the match.
	OffsetEnd
)

// Offset is a parsed search offset such as "e+1", "s-2" or "+3".
type Offset struct {
	Kind OffsetKind
	N    int
}

// String renders the offset the way it is typed.
func (o Offset) String() string {
	n := ""
	if o.N > 0 {
		n = "+" + strconv.Itoa(o.N)
	} else if o.N < 0 {
		n = strconv.Itoa(o.N)
	}
	switch o.Kind {
	case OffsetLine:
		return n
	case OffsetStart:
		return "s" + n
	case OffsetEnd:
		return "e" + n
	default:
		return ""
	}
}

// ParseOffset parses the text after the closing delimiter of a search.
func ParseOffset(s string) (Offset, error) {
	if s == "" {
		return Offset{}, nil
	}
	var off Offset
	rest := s
	switch s[0] {
	case 'e':
		off.Kind, rest = OffsetEnd, s[1:]
	case 's', 'b':
		off.Kind, rest = OffsetStart, s[1:]
	default:
		off.Kind = OffsetLine
	}
	if rest == "" {
		return off, nil
	}
	sign := 1
	switch rest[0] {
	case '+':
		rest = rest[1:]
	case '-':
		sign, rest = -1, rest[1:]
	default:
		if off.Kind != OffsetLine {
			return Offset{}, engine.NewUsageError("search offset", engine.ErrInvalidArgument)
		}
	}
	n := 1
	if rest != "" {
		v, err := strconv.Atoi(rest)
		if err != nil {
			return Offset{}, engine.NewUsageError("search offset", engine.ErrInvalidArgument)
		}
		n = v
	}
	off.N = sign * n
	return off, nil
}

// SplitCommand splits a typed search such as "foo/e+1" into its pattern and
// offset text. delim is '/' or '?'; an escaped delimiter stays in the pattern
// with its backslash removed.
func SplitCommand(input string, delim rune) (pattern, offset string, closed bool) {
	var b strings.Builder
	for i := 0; i < len(input); i++ {
		c := input[i]
		if c == '\\' && i+1 < len(input) {
			if rune(input[i+1]) == delim {
				b.WriteByte(input[i+1])
			} else {
				b.WriteByte(c)
				b.WriteByte(input[i+1])
			}
			i++
			continue
		}
		if rune(c) == delim {
			return b.String(), input[i+1:], true
		}
		b.WriteByte(c)
	}
	return b.String(), "", false
}

// State is the search memory of one session.
type State struct {
	cache *Cache

	search, subst       string
	hasSearch, hasSubst bool
	last                Category

	// Dir is the direction of the last "/" or "?".
	Dir Direction
	// Offset is the offset of the last "/" or "?".
	Offset Offset
	// Highlight mirrors Vim's v:hlsearch; ":nohlsearch" clears it.
	Highlight bool

	replacement    string
	hasReplacement bool
}

// NewState creates search state compiling through cache. A nil cache
// compiles every time.
func NewState(cache *Cache) *State {
	return &State{cache: cache, Dir: Forward, last: RESearch}
}

// Save remembers pattern in the slots selected by cat.
func (s *State) Save(cat Category, pattern string) {
	if cat == RESearch || cat == REBoth {
		s.search, s.hasSearch = pattern, true
	}
	if cat == RESubst || cat == REBoth {
		s.subst, s.hasSubst = pattern, true
	}
	if cat == RESubst {
		s.last = RESubst
	} else {
		s.last = RESearch
	}
	s.Highlight = true
}

// Pattern returns the remembered pattern for cat. RELast and REBoth read
// the slot written most recently.
func (s *State) Pattern(cat Category) (string, bool) {
	if cat == RELast || cat == REBoth {
		cat = s.last
	}
	if cat == RESubst {
		return s.subst, s.hasSubst
	}
	return s.search, s.hasSearch
}

// SetReplacement remembers the replacement string of the last ":s".
func (s *State) SetReplacement(r string) {
	s.replacement, s.hasReplacement = r, true
}

// Replacement returns the replacement string of the last ":s".
func (s *State) Replacement() (string, bool) {
	return s.replacement, s.hasReplacement
}

// Compile compiles pattern with the case rules of opts.
func (s *State) Compile(pattern string, opts *config.Options) (*Pattern, error) {
	ic := false
	if opts != nil {
		ic = opts.IgnoreCaseFor(pattern)
	}
	if s == nil {
		return Compile(pattern, ic)
	}
	return s.cache.Compile(pattern, ic)
}
