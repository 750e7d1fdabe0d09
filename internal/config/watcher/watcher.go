// Package watcher reports changes to configuration files so the editor can
// reload options without restarting.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Errors returned by the watcher.
var (
	ErrClosed          = errors.New("watcher closed")
	ErrAlreadyWatching = errors.New("already watching path")
)

// Op is the kind of change observed.
type Op uint8

const (
	OpWrite Op = iota
	OpCreate
	OpRemove
	OpRename
)

// String returns the operation name.
func (op Op) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Event is a debounced change to a watched file.
type Event struct {
	Path string
	Op   Op
}

// Watcher watches individual files by watching their parent directories.
// Editors often save through rename, which drops a direct file watch.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]int
	debounce time.Duration
	pending  map[string]*time.Timer

	events chan Event
	errors chan error
	done   chan struct{}
	wg     sync.WaitGroup
	closed bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce coalesces bursts of changes to one file into one Event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// New starts a watcher.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		debounce: 100 * time.Millisecond,
		pending:  make(map[string]*time.Timer),
		events:   make(chan Event, 16),
		errors:   make(chan error, 4),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Events returns the change stream.
func (w *Watcher) Events() <-chan Event { return w.events }

// Errors returns watcher errors.
func (w *Watcher) Errors() <-chan error { return w.errors }

// Add watches path. The file need not exist yet.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.files[abs] {
		return ErrAlreadyWatching
	}
	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[abs] = true
	return nil
}

// Remove stops watching path.
func (w *Watcher) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.files[abs] {
		return nil
	}
	delete(w.files, abs)
	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		return w.fsw.Remove(dir)
	}
	return nil
}

// Close stops the watcher. The event channels are left open and go quiet.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, t := range w.pending {
		t.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}
	var op Op
	switch {
	case ev.Has(fsnotify.Create):
		op = OpCreate
	case ev.Has(fsnotify.Write):
		op = OpWrite
	case ev.Has(fsnotify.Remove):
		op = OpRemove
	case ev.Has(fsnotify.Rename):
		op = OpRename
	default:
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || !w.files[abs] {
		return
	}
	if t, ok := w.pending[abs]; ok {
		t.Stop()
	}
	out := Event{Path: abs, Op: op}
	w.pending[abs] = time.AfterFunc(w.debounce, func() { w.emit(out) })
}

func (w *Watcher) emit(ev Event) {
	w.mu.Lock()
	delete(w.pending, ev.Path)
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}
	select {
	case w.events <- ev:
	case <-w.done:
	}
}
