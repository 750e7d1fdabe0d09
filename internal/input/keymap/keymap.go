package keymap

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
)

// Modes is a set of the modes a mapping applies in.
type Modes uint8

const (
	Normal Modes = 1 << iota
	Visual
	Select
	OperatorPending
	Insert
	CmdLine
)

// Mode sets named by the map commands.
const (
	NVO           = Normal | Visual | Select | OperatorPending
	VisualSelect  = Visual | Select
	InsertCmdLine = Insert | CmdLine
	All           = NVO | InsertCmdLine
)

// For returns the mapping mode keys typed in md are looked up in, or 0
// when md takes no mappings.
func For(md mode.Mode) Modes {
	switch md {
	case mode.Normal, mode.InsertNormal:
		return Normal
	case mode.Visual, mode.InsertVisual:
		return Visual
	case mode.Select, mode.InsertSelect:
		return Select
	case mode.OperatorPending:
		return OperatorPending
	case mode.Insert, mode.Replace:
		return Insert
	case mode.CommandLine:
		return CmdLine
	}
	return 0
}

// String returns the mode column of a mapping listing.
func (m Modes) String() string {
	switch m {
	case NVO:
		return " "
	case VisualSelect:
		return "v"
	case InsertCmdLine:
		return "!"
	}
	var b strings.Builder
	for _, l := range []struct {
		m Modes
		c byte
	}{{Normal, 'n'}, {Visual, 'x'}, {Select, 's'}, {OperatorPending, 'o'}, {Insert, 'i'}, {CmdLine, 'c'}} {
		if m&l.m != 0 {
			b.WriteByte(l.c)
		}
	}
	return b.String()
}

func (m Modes) each(fn func(Modes)) {
	for bit := Normal; bit <= CmdLine; bit <<= 1 {
		if m&bit != 0 {
			fn(bit)
		}
	}
}

// Mapping is one {lhs} to {rhs} mapping.
type Mapping struct {
	From key.Sequence
	To   key.Sequence
	// Modes holds every mode the same mapping is defined in.
	Modes Modes
	// Recursive mappings have their {rhs} mapped again, as :map does and
	// :noremap does not.
	Recursive bool
}

func (mp Mapping) same(o Mapping) bool {
	return mp.Recursive == o.Recursive && mp.From.String() == o.From.String() && mp.To.String() == o.To.String()
}

// Map holds the mappings of a session. It is not safe for concurrent use.
type Map struct {
	trees map[Modes]*tree
}

// New returns an empty map.
func New() *Map {
	return &Map{trees: make(map[Modes]*tree)}
}

func (m *Map) tree(bit Modes) *tree {
	t, ok := m.trees[bit]
	if !ok {
		t = newTree()
		m.trees[bit] = t
	}
	return t
}

// Set maps from to to in modes, replacing any mapping of from there.
func (m *Map) Set(modes Modes, from, to key.Sequence, recursive bool) error {
	if len(from) == 0 || modes == 0 {
		return fmt.Errorf("%w: empty mapping", engine.ErrInvalidArgument)
	}
	from = normalize(from)
	to = normalize(to)
	modes.each(func(bit Modes) {
		m.tree(bit).insert(from, Mapping{From: from, To: to, Recursive: recursive})
	})
	return nil
}

// Has reports whether from is mapped in any of modes.
func (m *Map) Has(modes Modes, from key.Sequence) bool {
	from = normalize(from)
	found := false
	modes.each(func(bit Modes) {
		if t, ok := m.trees[bit]; ok {
			if _, ok := t.get(from); ok {
				found = true
			}
		}
	})
	return found
}

// Remove deletes the mapping of from in modes. It fails when from is not
// mapped in any of them.
func (m *Map) Remove(modes Modes, from key.Sequence) error {
	from = normalize(from)
	removed := false
	modes.each(func(bit Modes) {
		if t, ok := m.trees[bit]; ok && t.remove(from) {
			removed = true
		}
	})
	if !removed {
		return &engine.NotFoundError{Kind: engine.NotFoundMapping, Name: from.String()}
	}
	return nil
}

// Clear deletes every mapping in modes.
func (m *Map) Clear(modes Modes) {
	modes.each(func(bit Modes) { delete(m.trees, bit) })
}

// Lookup reports what keys mean in the single mode md: the mapping they
// complete, if any, and whether a longer mapping starts with them.
func (m *Map) Lookup(md Modes, keys key.Sequence) (mp Mapping, exact, longer bool) {
	t, ok := m.trees[md]
	if !ok || len(keys) == 0 {
		return Mapping{}, false, false
	}
	n := t.find(normalize(keys))
	if n == nil {
		return Mapping{}, false, false
	}
	longer = len(n.children) > 0
	if n.mapping != nil {
		mp = *n.mapping
		mp.Modes = md
		return mp, true, longer
	}
	return Mapping{}, false, longer
}

// List returns the mappings in modes whose {lhs} starts with prefix,
// ordered by {lhs}. A mapping defined the same way in several modes is
// listed once with all of them.
func (m *Map) List(modes Modes, prefix key.Sequence) []Mapping {
	prefix = normalize(prefix)
	var out []Mapping
	modes.each(func(bit Modes) {
		t, ok := m.trees[bit]
		if !ok {
			return
		}
		t.walk(func(mp Mapping) {
			if !hasPrefix(mp.From, prefix) {
				return
			}
			for i := range out {
				if out[i].same(mp) {
					out[i].Modes |= bit
					return
				}
			}
			mp.Modes = bit
			out = append(out, mp)
		})
	})
	slices.SortStableFunc(out, func(a, b Mapping) int {
		if c := compareKeys(a.From, b.From); c != 0 {
			return c
		}
		return int(a.Modes) - int(b.Modes)
	})
	return out
}

// Format lists the mappings the way :map prints them.
func (m *Map) Format(modes Modes, prefix key.Sequence) string {
	list := m.List(modes, prefix)
	if len(list) == 0 {
		return "No mapping found"
	}
	lines := make([]string, 0, len(list))
	for _, mp := range list {
		star := " "
		if !mp.Recursive {
			star = "*"
		}
		lines = append(lines, fmt.Sprintf("%-3s%-13s%s %s", mp.Modes, mp.From, star, mp.To))
	}
	return strings.Join(lines, "\n")
}

func normalize(s key.Sequence) key.Sequence {
	out := make(key.Sequence, len(s))
	for i, e := range s {
		out[i] = e.Normalize()
	}
	return out
}

func hasPrefix(s, prefix key.Sequence) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i := range prefix {
		if s[i] != prefix[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether s starts with prefix.
func HasPrefix(s, prefix key.Sequence) bool {
	return hasPrefix(normalize(s), normalize(prefix))
}

// compareKeys orders printable keys before special ones.
func compareKeys(a, b key.Sequence) int {
	for i := range min(len(a), len(b)) {
		ca, cb := a[i].Char(), b[i].Char()
		switch {
		case ca == 0 && cb == 0:
			if c := strings.Compare(a[i].String(), b[i].String()); c != 0 {
				return c
			}
		case ca == 0:
			return 1
		case cb == 0:
			return -1
		case ca != cb:
			return int(ca) - int(cb)
		}
	}
	return len(a) - len(b)
}
