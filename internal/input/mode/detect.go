package mode

import "github.com/dshills/vimcore/internal/engine/text"

// Detect picks the sub mode for existing selections, given as [start, end)
// ranges. Selections that all cover whole lines are linewise; two or more
// selections on consecutive lines sharing their columns form a block;
// anything else is characterwise.
func Detect(idx *text.Index, sels [][2]text.Offset) SubMode {
	if len(sels) == 0 {
		return VisualCharacter
	}
	if allLines(idx, sels) {
		return VisualLine
	}
	if isBlock(idx, sels) {
		return VisualBlock
	}
	return VisualCharacter
}

func allLines(idx *text.Index, sels [][2]text.Offset) bool {
	for _, s := range sels {
		start, end := s[0], s[1]
		if end <= start || idx.Column(start) != 0 {
			return false
		}
		last := idx.LineOf(end)
		atLineStart := idx.Column(end) == 0 && end > start
		atEnd := end == idx.LineEnd(last) && last > idx.LineOf(start)
		if !atLineStart && !atEnd && end != text.Offset(idx.Len()) {
			return false
		}
	}
	return true
}

func isBlock(idx *text.Index, sels [][2]text.Offset) bool {
	if len(sels) < 2 {
		return false
	}
	line := -1
	startCol, endCol := -1, -1
	for _, s := range sels {
		l := idx.LineOf(s[0])
		if idx.LineOf(s[1]) != l {
			return false
		}
		if line >= 0 && l != line+1 {
			return false
		}
		sc, ec := idx.Column(s[0]), idx.Column(s[1])
		if startCol >= 0 && (sc != startCol || ec != endCol) {
			return false
		}
		line, startCol, endCol = l, sc, ec
	}
	return true
}
