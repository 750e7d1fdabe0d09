package tracking

import (
	"fmt"
	"strings"

	"github.com/dshills/vimcore/internal/engine/text"
)

// ChangeType categorizes the type of a change.
type ChangeType uint8

const (
	// ChangeInsert indicates text was inserted (OldText is empty).
	ChangeInsert ChangeType = iota

	// ChangeDelete indicates text was deleted (NewText is empty).
	ChangeDelete
)

// String returns a human-readable representation of the change type.
func (ct ChangeType) String() string {
	switch ct {
	case ChangeInsert:
		return "insert"
	case ChangeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Change is one edit forwarded to the host.
type Change struct {
	Type ChangeType

	// Start is where the edit happened, in the text before it.
	Start text.Offset

	// OldText is the text that was removed (empty for inserts).
	OldText string

	// NewText is the text that was added (empty for deletes).
	NewText string

	// Before indexes the text as it was before the edit.
	Before *text.Index
}

// End returns the end of the removed text in the old buffer.
func (c Change) End() text.Offset {
	return c.Start + text.Offset(len(c.OldText))
}

// LineDelta returns the number of lines the change added (negative when
// lines were removed).
func (c Change) LineDelta() int {
	return strings.Count(c.NewText, "\n") - strings.Count(c.OldText, "\n")
}

// String returns a debug representation.
func (c Change) String() string {
	switch c.Type {
	case ChangeInsert:
		return fmt.Sprintf("insert@%d %q", c.Start, c.NewText)
	default:
		return fmt.Sprintf("delete@%d %q", c.Start, c.OldText)
	}
}

// Span returns the region of the final text covered by changes, applied in
// order. A pure deletion leaves an empty span where the text was.
func Span(changes []Change) (start, end text.Offset, ok bool) {
	for _, c := range changes {
		switch c.Type {
		case ChangeInsert:
			n := text.Offset(len(c.NewText))
			if !ok {
				start, end, ok = c.Start, c.Start+n, true
				continue
			}
			if start >= c.Start {
				start += n
			}
			if end > c.Start {
				end += n
			}
			start, end = min(start, c.Start), max(end, c.Start+n)
		case ChangeDelete:
			if !ok {
				start, end, ok = c.Start, c.Start, true
				continue
			}
			shift := func(o text.Offset) text.Offset {
				switch {
				case o >= c.End():
					return o - text.Offset(len(c.OldText))
				case o > c.Start:
					return c.Start
				}
				return o
			}
			start, end = shift(start), shift(end)
			start, end = min(start, c.Start), max(end, c.Start)
		}
	}
	return start, end, ok
}
