package tracking

import (
	"github.com/dshills/vimcore/internal/engine/text"
)

// DefaultMaxChanges bounds the change log.
const DefaultMaxChanges = 1000

// Listener is called after each edit reaches the host.
type Listener func(Change)

// Option configures an Editor.
type Option func(*Editor)

// WithMaxChanges bounds the change log. Older changes are dropped first.
func WithMaxChanges(n int) Option {
	return func(e *Editor) {
		if n > 0 {
			e.maxChanges = n
		}
	}
}

// WithListener registers a listener.
func WithListener(l Listener) Option {
	return func(e *Editor) {
		e.listeners = append(e.listeners, l)
	}
}

// Editor forwards edits to the host editor and records them. Carets and
// selections are the host's; only Insert and Delete are intercepted.
type Editor struct {
	text.Editor

	listeners  []Listener
	watchers   map[int]Listener
	watchID    int
	changes    []Change
	maxChanges int
}

// Wrap returns a tracking editor over host.
func Wrap(host text.Editor, opts ...Option) *Editor {
	e := &Editor{Editor: host, maxChanges: DefaultMaxChanges}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Host returns the wrapped editor, for its optional capabilities.
func (e *Editor) Host() text.Editor {
	return e.Editor
}

// Insert inserts s before at and records the change.
func (e *Editor) Insert(at text.Offset, s string) error {
	before := text.IndexOf(e.Editor)
	if err := e.Editor.Insert(at, s); err != nil {
		return err
	}
	if s != "" {
		e.record(Change{Type: ChangeInsert, Start: at, NewText: s, Before: before})
	}
	return nil
}

// Delete removes [start, end) and records the change.
func (e *Editor) Delete(start, end text.Offset) error {
	before := text.IndexOf(e.Editor)
	if err := e.Editor.Delete(start, end); err != nil {
		return err
	}
	if end > start {
		e.record(Change{Type: ChangeDelete, Start: start, OldText: before.Slice(start, end), Before: before})
	}
	return nil
}

func (e *Editor) record(c Change) {
	e.changes = append(e.changes, c)
	if len(e.changes) > e.maxChanges {
		e.changes = e.changes[len(e.changes)-e.maxChanges:]
	}
	for _, l := range e.listeners {
		l(c)
	}
	for _, l := range e.watchers {
		l(c)
	}
}

// Watch registers l until the returned function is called.
func (e *Editor) Watch(l Listener) (cancel func()) {
	e.watchID++
	id := e.watchID
	if e.watchers == nil {
		e.watchers = make(map[int]Listener)
	}
	e.watchers[id] = l
	return func() { delete(e.watchers, id) }
}

// ChangeCount returns the number of logged changes.
func (e *Editor) ChangeCount() int {
	return len(e.changes)
}

// Changes returns the logged changes, oldest first.
func (e *Editor) Changes() []Change {
	return append([]Change(nil), e.changes...)
}

// Drain returns the logged changes and clears the log.
func (e *Editor) Drain() []Change {
	out := e.changes
	e.changes = nil
	return out
}
