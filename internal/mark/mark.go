// Package mark stores Vim marks and the jump list.
//
// Lower-case marks and the automatic marks ' [ ] < > ^ . belong to one
// file. Upper-case and digit marks are global and remember their file.
// Marks track edits: inserted or deleted lines above a mark move it, and
// deleting the whole marked line removes it.
package mark

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/log"
)

// Automatic mark names.
const (
	LastJump    = '\''
	ChangeStart = '['
	ChangeEnd   = ']'
	VisualStart = '<'
	VisualEnd   = '>'
	LastInsert  = '^'
	LastChange  = '.'
)

const (
	localMarks  = "abcdefghijklmnopqrstuvwxyz"
	globalMarks = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitMarks  = "0123456789"
	autoMarks   = "'[]<>^."
	displayKeys = "'" + localMarks + globalMarks + digitMarks + "\"[]^.<>"
)

// ErrInvalidMark is returned for names that cannot be set.
var ErrInvalidMark = errors.New("E191: Argument must be a letter or forward/backward quote")

// Mark is a named position.
type Mark struct {
	Key    rune
	Line   int
	Column int
	Path   string
}

// Position returns the mark as a logical position.
func (m Mark) Position() text.LogicalPosition {
	return text.LogicalPosition{Line: m.Line, Column: m.Column}
}

// IsGlobal reports whether key names a mark shared across files.
func IsGlobal(key rune) bool {
	return strings.ContainsRune(globalMarks, key) || strings.ContainsRune(digitMarks, key)
}

// IsSettable reports whether the user can set key with m or :mark.
func IsSettable(key rune) bool {
	return strings.ContainsRune(localMarks, key) ||
		strings.ContainsRune(globalMarks, key) ||
		strings.ContainsRune("'`[]<>", key)
}

func isLocal(key rune) bool {
	return strings.ContainsRune(localMarks, key) || strings.ContainsRune(autoMarks, key)
}

// Store holds the marks and jump list of one session.
type Store struct {
	files  map[string]map[rune]Mark
	global map[rune]Mark
	jumps  Jumps
	logger *slog.Logger
}

// NewStore returns an empty store.
func NewStore(logger *slog.Logger) *Store {
	return &Store{
		files:  make(map[string]map[rune]Mark),
		global: make(map[rune]Mark),
		jumps:  Jumps{spot: -1},
		logger: log.For(logger, log.CatMotion),
	}
}

// Jumps returns the jump list.
func (s *Store) Jumps() *Jumps {
	return &s.jumps
}

func (s *Store) file(path string) map[rune]Mark {
	m, ok := s.files[path]
	if !ok {
		m = make(map[rune]Mark)
		s.files[path] = m
	}
	return m
}

func canonical(key rune) rune {
	if key == '`' {
		return LastJump
	}
	return key
}

// Set places a user-settable mark.
func (s *Store) Set(path string, key rune, pos text.LogicalPosition) error {
	key = canonical(key)
	if !IsSettable(key) {
		return fmt.Errorf("%w: %c", ErrInvalidMark, key)
	}
	s.put(path, key, pos)
	return nil
}

// put stores any known mark, including the automatic and digit ones.
func (s *Store) put(path string, key rune, pos text.LogicalPosition) {
	m := Mark{Key: key, Line: pos.Line, Column: pos.Column, Path: path}
	switch {
	case IsGlobal(key):
		if old, ok := s.global[key]; ok {
			delete(s.file(old.Path), key)
		}
		s.global[key] = m
		s.file(path)[key] = m
	case isLocal(key):
		s.file(path)[key] = m
	}
}

// Get returns mark key. Local marks are looked up in path.
func (s *Store) Get(path string, key rune) (Mark, bool) {
	key = canonical(key)
	switch {
	case IsGlobal(key):
		m, ok := s.global[key]
		return m, ok
	case isLocal(key):
		m, ok := s.files[path][key]
		return m, ok
	}
	return Mark{}, false
}

// Require is Get with a NotFoundError for unset marks.
func (s *Store) Require(path string, key rune) (Mark, error) {
	m, ok := s.Get(path, key)
	if !ok {
		return m, &engine.NotFoundError{Kind: engine.NotFoundMark, Name: string(key)}
	}
	return m, nil
}

// Offset resolves mark key to an offset in idx, clamping the column to
// the line.
func (s *Store) Offset(idx *text.Index, path string, key rune) (text.Offset, bool) {
	m, ok := s.Get(path, key)
	if !ok || m.Path != path || m.Line >= idx.LineCount() {
		return 0, false
	}
	col := min(m.Column, idx.LineLength(m.Line))
	return idx.LineStart(m.Line) + text.Offset(col), true
}

// SetChange records '[ and '] for the last changed or yanked text.
func (s *Store) SetChange(path string, start, end text.LogicalPosition) {
	s.put(path, ChangeStart, start)
	s.put(path, ChangeEnd, end)
}

// SetVisual records '< and '> for the last visual selection.
func (s *Store) SetVisual(path string, start, end text.LogicalPosition) {
	if end.Compare(start) < 0 {
		start, end = end, start
	}
	s.put(path, VisualStart, start)
	s.put(path, VisualEnd, end)
}

// SetLastInsert records '^, where insert mode was last left.
func (s *Store) SetLastInsert(path string, pos text.LogicalPosition) {
	s.put(path, LastInsert, pos)
}

// SetLastChange records '., the position of the last change.
func (s *Store) SetLastChange(path string, pos text.LogicalPosition) {
	s.put(path, LastChange, pos)
}

// SaveJump records pos as the '' mark and pushes it on the jump list.
func (s *Store) SaveJump(path string, pos text.LogicalPosition) {
	s.put(path, LastJump, pos)
	s.jumps.Push(Jump{Line: pos.Line, Column: pos.Column, Path: path}, true)
}

// Remove deletes mark key.
func (s *Store) Remove(path string, key rune) {
	key = canonical(key)
	if IsGlobal(key) {
		if m, ok := s.global[key]; ok {
			delete(s.file(m.Path), key)
			delete(s.global, key)
		}
		return
	}
	delete(s.file(path), key)
}

// RemoveLocal deletes every lower-case mark of path, as :delmarks! does.
func (s *Store) RemoveLocal(path string) {
	fm := s.file(path)
	for key := range fm {
		if strings.ContainsRune(localMarks, key) {
			delete(fm, key)
		}
	}
}

// RemoveSpec deletes the marks named by a :delmarks argument such as
// "a b-d C-E". Nothing is deleted when the argument is invalid.
func (s *Store) RemoveSpec(path, spec string) error {
	keys, err := ParseSpec(spec)
	if err != nil {
		return err
	}
	for _, k := range keys {
		s.Remove(path, k)
	}
	return nil
}

// ParseSpec expands a :delmarks argument into mark names. Ranges must stay
// within one of a-z, A-Z or 0-9 and run forwards.
func ParseSpec(spec string) ([]rune, error) {
	r := []rune(spec)
	var out []rune
	for i := 0; i < len(r); i++ {
		c := r[i]
		if c == ' ' || c == '\t' {
			continue
		}
		if i+2 < len(r) && r[i+1] == '-' {
			keys, ok := expandRange(c, r[i+2])
			if !ok {
				return nil, engine.NewUsageError("delmarks", fmt.Errorf("%w: %s", engine.ErrInvalidArgument, string(r[i:])))
			}
			out = append(out, keys...)
			i += 2
			continue
		}
		if !strings.ContainsRune(displayKeys, c) {
			return nil, engine.NewUsageError("delmarks", fmt.Errorf("%w: %s", engine.ErrInvalidArgument, string(r[i:])))
		}
		out = append(out, c)
	}
	return out, nil
}

func expandRange(from, to rune) ([]rune, bool) {
	for _, set := range []string{localMarks, globalMarks, digitMarks} {
		a, b := strings.IndexRune(set, from), strings.IndexRune(set, to)
		if a >= 0 && b >= 0 && a <= b {
			return []rune(set[a : b+1]), true
		}
	}
	return nil, false
}

// List returns the marks visible from path in :marks order.
func (s *Store) List(path string) []Mark {
	seen := make(map[rune]Mark)
	for k, m := range s.files[path] {
		seen[k] = m
	}
	for k, m := range s.global {
		seen[k] = m
	}
	out := make([]Mark, 0, len(seen))
	for _, m := range seen {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.IndexRune(displayKeys, out[i].Key) < strings.IndexRune(displayKeys, out[j].Key)
	})
	return out
}

// All returns every mark of every file, for snapshots.
func (s *Store) All() []Mark {
	var out []Mark
	for _, fm := range s.files {
		for _, m := range fm {
			if !IsGlobal(m.Key) {
				out = append(out, m)
			}
		}
	}
	for _, m := range s.global {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return strings.IndexRune(displayKeys, out[i].Key) < strings.IndexRune(displayKeys, out[j].Key)
	})
	return out
}

// Restore loads a saved mark.
func (s *Store) Restore(m Mark) {
	if IsGlobal(m.Key) || isLocal(m.Key) {
		s.put(m.Path, m.Key, m.Position())
	}
}

// Reset forgets every mark and jump.
func (s *Store) Reset() {
	s.files = make(map[string]map[rune]Mark)
	s.global = make(map[rune]Mark)
	s.jumps = Jumps{spot: -1}
}
