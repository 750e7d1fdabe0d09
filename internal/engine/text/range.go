package text

import (
	"fmt"
	"strings"
)

// SelectionType is the shape of a range or register content.
type SelectionType uint8

const (
	// Character ranges cover a contiguous run of characters.
	Character SelectionType = iota
	// Line ranges always start and end on line boundaries.
	Line
	// Block ranges hold one pair per row of a rectangle.
	Block
)

// String returns the selection type name.
func (t SelectionType) String() string {
	switch t {
	case Character:
		return "CHARACTER"
	case Line:
		return "LINE"
	case Block:
		return "BLOCK"
	default:
		return "UNKNOWN"
	}
}

// ParseSelectionType parses a name produced by String.
func ParseSelectionType(s string) (SelectionType, bool) {
	switch strings.ToUpper(s) {
	case "CHARACTER", "CHAR", "V":
		return Character, true
	case "LINE", "LINEWISE":
		return Line, true
	case "BLOCK", "BLOCKWISE":
		return Block, true
	}
	return Character, false
}

// TextRange is one or more [start, end) offset pairs tagged with a selection type.
// Multiple pairs only occur for Block ranges, one per row, top to bottom.
type TextRange struct {
	Starts []Offset
	Ends   []Offset
	Type   SelectionType
}

// NewRange creates a single-pair range, swapping the ends if needed.
func NewRange(start, end Offset, typ SelectionType) TextRange {
	if end < start {
		start, end = end, start
	}
	return TextRange{Starts: []Offset{start}, Ends: []Offset{end}, Type: typ}
}

// NewBlockRange creates a block range from per-row pairs.
func NewBlockRange(starts, ends []Offset) TextRange {
	return TextRange{Starts: starts, Ends: ends, Type: Block}
}

// Len returns the number of pairs.
func (r TextRange) Len() int {
	return len(r.Starts)
}

// IsMultiple reports whether the range holds more than one pair.
func (r TextRange) IsMultiple() bool {
	return len(r.Starts) > 1
}

// Start returns the smallest start offset.
func (r TextRange) Start() Offset {
	if len(r.Starts) == 0 {
		return 0
	}
	m := r.Starts[0]
	for _, s := range r.Starts[1:] {
		if s < m {
			m = s
		}
	}
	return m
}

// End returns the largest end offset.
func (r TextRange) End() Offset {
	if len(r.Ends) == 0 {
		return 0
	}
	m := r.Ends[0]
	for _, e := range r.Ends[1:] {
		if e > m {
			m = e
		}
	}
	return m
}

// IsEmpty reports whether every pair has zero length.
func (r TextRange) IsEmpty() bool {
	for i := range r.Starts {
		if r.Ends[i] > r.Starts[i] {
			return false
		}
	}
	return true
}

// Contains reports whether o falls inside any pair.
func (r TextRange) Contains(o Offset) bool {
	for i := range r.Starts {
		if o >= r.Starts[i] && o < r.Ends[i] {
			return true
		}
	}
	return false
}

// Normalize clamps every pair into [0, length] and orders its ends.
func (r TextRange) Normalize(length int) TextRange {
	out := TextRange{
		Starts: make([]Offset, len(r.Starts)),
		Ends:   make([]Offset, len(r.Ends)),
		Type:   r.Type,
	}
	for i := range r.Starts {
		s, e := r.Starts[i].Clamp(length), r.Ends[i].Clamp(length)
		if e < s {
			s, e = e, s
		}
		out.Starts[i], out.Ends[i] = s, e
	}
	return out
}

// WithType returns a copy of r retagged as typ.
func (r TextRange) WithType(typ SelectionType) TextRange {
	r.Type = typ
	return r
}

// String returns a human-readable representation of the range.
func (r TextRange) String() string {
	var sb strings.Builder
	sb.WriteString(r.Type.String())
	for i := range r.Starts {
		fmt.Fprintf(&sb, "[%d:%d)", r.Starts[i], r.Ends[i])
	}
	return sb.String()
}
