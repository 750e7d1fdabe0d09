package mark

// MaxJumps bounds the jump list.
const MaxJumps = 100

// Jump is one entry of the jump list.
type Jump struct {
	Line   int
	Column int
	Path   string
}

// Jumps is the jump list walked by CTRL-O and CTRL-I. spot counts entries
// back from the newest; -1 means the caret is past the newest entry.
type Jumps struct {
	list []Jump
	spot int
}

// Push adds j, dropping an older entry on the same line of the same file.
// reset returns the cursor to the end of the list.
func (js *Jumps) Push(j Jump, reset bool) {
	for i, old := range js.list {
		if old.Path == j.Path && old.Line == j.Line {
			js.list = append(js.list[:i], js.list[i+1:]...)
			break
		}
	}
	js.list = append(js.list, j)
	if reset {
		js.spot = -1
	} else {
		js.spot++
	}
	if len(js.list) > MaxJumps {
		js.list = js.list[1:]
	}
}

// Move walks count entries: negative for older (CTRL-O), positive for
// newer (CTRL-I). Leaving the end of the list first records current so
// that CTRL-I can come back to it.
func (js *Jumps) Move(count int, current Jump) (Jump, bool) {
	if js.spot == -1 && count < 0 {
		js.Push(current, false)
	}
	index := len(js.list) - 1 - (js.spot - count)
	if index < 0 || index >= len(js.list) {
		return Jump{}, false
	}
	js.spot -= count
	return js.list[index], true
}

// List returns the entries oldest first.
func (js *Jumps) List() []Jump {
	return append([]Jump(nil), js.list...)
}

// Spot returns the current position, counted back from the newest entry.
func (js *Jumps) Spot() int {
	return js.spot
}

// Restore replaces the list, for snapshots.
func (js *Jumps) Restore(list []Jump, spot int) {
	js.list = append([]Jump(nil), list...)
	if len(js.list) > MaxJumps {
		js.list = js.list[len(js.list)-MaxJumps:]
	}
	if spot < -1 || spot >= len(js.list) {
		spot = -1
	}
	js.spot = spot
}

func (js *Jumps) shift(path string, fn func(Jump) (Jump, bool)) {
	out := js.list[:0]
	for _, j := range js.list {
		if j.Path != path {
			out = append(out, j)
			continue
		}
		if next, ok := fn(j); ok {
			out = append(out, next)
		}
	}
	js.list = out
	if js.spot >= len(js.list) {
		js.spot = len(js.list) - 1
	}
}
