package mark

import (
	"strings"

	"github.com/dshills/vimcore/internal/engine/text"
)

// AdjustInsert moves the marks of path after inserted was placed at at.
// before indexes the text prior to the insertion.
func (s *Store) AdjustInsert(path string, before *text.Index, at text.Offset, inserted string) {
	lines := strings.Count(inserted, "\n")
	if lines == 0 {
		return
	}
	line := before.LineOf(at)
	s.eachMark(path, func(m Mark) (Mark, bool) {
		if line < m.Line {
			m.Line += lines
		}
		return m, true
	})
	s.jumps.shift(path, func(j Jump) (Jump, bool) {
		if line < j.Line {
			j.Line += lines
		}
		return j, true
	})
}

// AdjustDelete moves or removes the marks of path after [start, end) was
// deleted. A mark whose whole line was deleted is removed unless keep is
// set, which a change starting at the line start uses.
func (s *Store) AdjustDelete(path string, before *text.Index, start, end text.Offset, keep bool) {
	if end <= start {
		return
	}
	first := before.LineOf(start)
	last := before.LineOf(end)
	lines := last - first

	update := func(line int) (int, bool) {
		switch {
		case last < line:
			return line - lines, true
		case first <= line:
			ls := before.LineStart(line)
			le := before.LineEndWithNewline(line)
			if start <= ls && end >= le && !keep {
				return 0, false
			}
			if first < line {
				return first, true
			}
		}
		return line, true
	}

	s.eachMark(path, func(m Mark) (Mark, bool) {
		l, ok := update(m.Line)
		m.Line = l
		return m, ok
	})
	s.jumps.shift(path, func(j Jump) (Jump, bool) {
		l, ok := update(j.Line)
		j.Line = l
		return j, ok
	})
}

func (s *Store) eachMark(path string, fn func(Mark) (Mark, bool)) {
	fm := s.files[path]
	for key, m := range fm {
		next, keep := fn(m)
		if !keep {
			s.logger.Debug("mark removed by delete", "mark", string(key), "line", m.Line)
			s.Remove(path, key)
			continue
		}
		fm[key] = next
		if IsGlobal(key) {
			s.global[key] = next
		}
	}
}
