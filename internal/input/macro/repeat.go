package macro

import (
	"strconv"

	"github.com/dshills/vimcore/internal/input/key"
)

// Repeat remembers the last change for ".".
type Repeat struct {
	keys  key.Sequence
	count int

	// pending collects a change that is still in progress, such as a
	// command that entered Insert mode.
	pending      key.Sequence
	pendingCount int
	open         bool
}

// Begin starts capturing a change made by keys, typed without counts.
func (r *Repeat) Begin(keys key.Sequence, count int) {
	r.pending = keys.Clone()
	r.pendingCount = count
	r.open = true
}

// Extend adds keys typed while the change is in progress.
func (r *Repeat) Extend(e key.Event) {
	if r.open {
		r.pending = append(r.pending, e)
	}
}

// Open reports whether a change is being captured.
func (r *Repeat) Open() bool { return r.open }

// Commit makes the captured change the one "." repeats.
func (r *Repeat) Commit() {
	if !r.open {
		return
	}
	r.keys, r.count = r.pending, r.pendingCount
	r.pending, r.open = nil, false
}

// Abort drops the captured change.
func (r *Repeat) Abort() {
	r.pending, r.open = nil, false
}

// Set records a complete change at once.
func (r *Repeat) Set(keys key.Sequence, count int) {
	r.Begin(keys, count)
	r.Commit()
}

// Keys returns the remembered change without its count.
func (r *Repeat) Keys() key.Sequence { return r.keys }

// Sequence returns the keys that repeat the last change. A positive count
// replaces the remembered one. Repeating a put from a numbered register
// advances to the next register, as "1p... does.
func (r *Repeat) Sequence(count int) (key.Sequence, bool) {
	if len(r.keys) == 0 {
		return nil, false
	}
	if count <= 0 {
		count = r.count
	}
	var out key.Sequence
	if count > 0 {
		out = key.FromText(strconv.Itoa(count))
	}
	out = append(out, r.keys...)
	r.advanceNumbered()
	return out, true
}

func (r *Repeat) advanceNumbered() {
	k := r.keys
	if len(k) < 3 || k[0] != key.Rune('"') {
		return
	}
	reg, cmd := k[1].Char(), k[len(k)-1].Char()
	if reg < '1' || reg > '8' {
		return
	}
	if cmd != 'p' && cmd != 'P' {
		return
	}
	next := k.Clone()
	next[1] = key.Rune(reg + 1)
	r.keys = next
}
