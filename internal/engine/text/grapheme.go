package text

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Horizontal positions are measured in three units: bytes (offsets),
// grapheme clusters (what one "l" steps over) and display columns (what
// vertical motions preserve). A cluster such as "e" plus a combining accent,
// or a ZWJ emoji sequence, is one step regardless of its byte length.

// NextGrapheme returns the offset just past the grapheme cluster starting at
// o, never beyond limit.
func NextGrapheme(s string, o, limit Offset) Offset {
	if o >= limit || int(o) >= len(s) {
		return o
	}
	cluster, _, _, _ := uniseg.StepString(s[o:limit], -1)
	if cluster == "" {
		return o + 1
	}
	return o + Offset(len(cluster))
}

// PrevGrapheme returns the start of the cluster ending at o. floor must be a
// cluster boundary at or before o, typically the line start.
func PrevGrapheme(s string, o, floor Offset) Offset {
	if o <= floor {
		return floor
	}
	pos := floor
	prev := floor
	state := -1
	rest := s[floor:o]
	for len(rest) > 0 {
		cluster, next, _, newState := uniseg.StepString(rest, state)
		prev = pos
		pos += Offset(len(cluster))
		rest = next
		state = newState
	}
	return prev
}

// GraphemeBoundaries returns the cluster start offsets in [start, end).
func GraphemeBoundaries(s string, start, end Offset) []Offset {
	var out []Offset
	pos := start
	state := -1
	rest := s[start:end]
	for len(rest) > 0 {
		cluster, next, _, newState := uniseg.StepString(rest, state)
		out = append(out, pos)
		pos += Offset(len(cluster))
		rest = next
		state = newState
	}
	return out
}

// GraphemeCount returns the number of grapheme clusters in s.
func GraphemeCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// AlignToGrapheme moves o back to the start of the cluster containing it.
func AlignToGrapheme(s string, o, floor Offset) Offset {
	if o <= floor {
		return floor
	}
	pos := floor
	state := -1
	rest := s[floor:]
	for len(rest) > 0 {
		cluster, next, _, newState := uniseg.StepString(rest, state)
		end := pos + Offset(len(cluster))
		if end > o {
			return pos
		}
		pos = end
		rest = next
		state = newState
	}
	return pos
}

// clusterWidth returns the display width of cluster at display column col.
func clusterWidth(cluster string, col, tabstop int) int {
	if cluster == "\t" {
		if tabstop <= 0 {
			tabstop = 8
		}
		return tabstop - col%tabstop
	}
	w := runewidth.StringWidth(cluster)
	if w == 0 && cluster != "" {
		w = 1
	}
	return w
}

// DisplayWidth returns the display width of line, expanding tabs.
func DisplayWidth(line string, tabstop int) int {
	return VisualColumn(line, len(line), tabstop)
}

// VisualColumn returns the display column of byte column bytecol in line.
func VisualColumn(line string, bytecol, tabstop int) int {
	if bytecol > len(line) {
		bytecol = len(line)
	}
	col := 0
	pos := 0
	state := -1
	rest := line
	for len(rest) > 0 && pos < bytecol {
		cluster, next, _, newState := uniseg.StepString(rest, state)
		col += clusterWidth(cluster, col, tabstop)
		pos += len(cluster)
		rest = next
		state = newState
	}
	return col
}

// ByteColumnAt returns the byte column of the cluster covering display
// column vcol. When pastEnd is false the result never exceeds the start of
// the last cluster; otherwise it may equal len(line).
func ByteColumnAt(line string, vcol, tabstop int, pastEnd bool) int {
	col := 0
	pos := 0
	last := 0
	state := -1
	rest := line
	for len(rest) > 0 {
		cluster, next, _, newState := uniseg.StepString(rest, state)
		w := clusterWidth(cluster, col, tabstop)
		if vcol < col+w {
			return pos
		}
		last = pos
		col += w
		pos += len(cluster)
		rest = next
		state = newState
	}
	if pastEnd {
		return pos
	}
	return last
}
